package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"farmacierre/internal/apierror"
	"farmacierre/internal/dto"
	"farmacierre/internal/infra"
	"farmacierre/internal/reporte"
	"farmacierre/internal/repository"
	"farmacierre/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{f.Tag.Get("json"), f.Tag.Get("form")} {
			if name := strings.SplitN(tag, ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = validate.RegisterValidation("dias_atencion", func(fl validator.FieldLevel) bool {
		return service.DiasAtencionValidos(fl.Field().String())
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range ves {
			fields[fe.Field()] = apierror.Mensaje(fe.Tag(), fe.Param())
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New(name+" invalido"))
		return 0, false
	}
	return uint(id), true
}

// filtro binds the shared range query into a repository filter.
func filtro(c *gin.Context) (repository.RegistroFilter, bool) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return repository.RegistroFilter{}, false
	}
	f, err := service.FiltroRegistros(q)
	if err != nil {
		_ = c.Error(err)
		return repository.RegistroFilter{}, false
	}
	return f, true
}

// soloActivos reads ?activos=false; listings default to active rows only.
func soloActivos(c *gin.Context) bool {
	return c.DefaultQuery("activos", "true") != "false"
}

// ── Report output ────────────────────────────────────────────────────────────

const (
	FormatoXLSX = "xlsx"
	FormatoJSON = "json"
	FormatoPDF  = "pdf"

	pdfContentType = "application/pdf"
)

// archivo names a download after the report and its date range.
func archivo(prefijo string, f repository.RegistroFilter, ext string) string {
	nombre := prefijo
	if f.FechaInicio != nil {
		nombre += "_" + f.FechaInicio.Format(reporte.LayoutFecha)
	}
	if f.FechaFin != nil {
		nombre += "_" + f.FechaFin.Format(reporte.LayoutFecha)
	}
	return nombre + "." + ext
}

// subtitulo describes the range for PDF headers.
func subtitulo(f repository.RegistroFilter) string {
	switch {
	case f.FechaInicio != nil && f.FechaFin != nil:
		return fmt.Sprintf("Del %s al %s", reporte.FormatoFecha(*f.FechaInicio), reporte.FormatoFecha(*f.FechaFin))
	case f.FechaInicio != nil:
		return "Desde " + reporte.FormatoFecha(*f.FechaInicio)
	case f.FechaFin != nil:
		return "Hasta " + reporte.FormatoFecha(*f.FechaFin)
	default:
		return "Todos los registros"
	}
}

func adjuntar(c *gin.Context, nombre, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, contentType, data)
}

// renderTablas writes tablas in the format requested by ?formato (xlsx by default).
func renderTablas(c *gin.Context, titulo string, f repository.RegistroFilter, prefijo string, tablas ...reporte.Tabla) {
	switch formato := c.DefaultQuery("formato", FormatoXLSX); formato {
	case FormatoJSON:
		if len(tablas) == 1 {
			c.JSON(http.StatusOK, tablas[0])
			return
		}
		c.JSON(http.StatusOK, tablas)
	case FormatoPDF:
		data, err := infra.RenderPDFBytes(titulo, subtitulo(f), tablas...)
		if err != nil {
			_ = c.Error(err)
			return
		}
		adjuntar(c, archivo(prefijo, f, FormatoPDF), pdfContentType, data)
	case FormatoXLSX:
		data, err := infra.RenderExcelBytes(tablas...)
		if err != nil {
			_ = c.Error(err)
			return
		}
		adjuntar(c, archivo(prefijo, f, FormatoXLSX), infra.XLSXContentType, data)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("formato no soportado: "+formato))
	}
}
