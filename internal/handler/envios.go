package handler

import (
	"net/http"
	"strconv"

	"farmacierre/internal/apierror"
	"farmacierre/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// EnviosHandler exposes the dead-lettered report emails.
type EnviosHandler struct{ rdb *redis.Client }

func NewEnviosHandler(rdb *redis.Client) *EnviosHandler { return &EnviosHandler{rdb: rdb} }

func (h *EnviosHandler) disponible(c *gin.Context) bool {
	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Cola de envíos no disponible"))
		return false
	}
	return true
}

// Fallidos godoc
// @Summary Envíos de reporte fallidos
// @Tags reportes
// @Produce json
// @Param limite query int false "Máximo de entradas (default 50)"
// @Success 200 {array} worker.DLQEntry
// @Router /v1/reportes/envios-fallidos [get]
func (h *EnviosHandler) Fallidos(c *gin.Context) {
	if !h.disponible(c) {
		return
	}
	limite, err := strconv.ParseInt(c.DefaultQuery("limite", "50"), 10, 64)
	if err != nil || limite <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("limite invalido"))
		return
	}
	entries, err := worker.ListDLQ(c.Request.Context(), h.rdb, worker.QueueReporteEmail, limite)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Reintentar godoc
// @Summary Reencolar envíos fallidos
// @Tags reportes
// @Produce json
// @Success 200 {object} map[string]int
// @Router /v1/reportes/envios-fallidos/reintentar [post]
func (h *EnviosHandler) Reintentar(c *gin.Context) {
	if !h.disponible(c) {
		return
	}
	n, err := worker.ReintentarDLQ(c.Request.Context(), h.rdb, worker.QueueReporteEmail)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reencolados": n})
}
