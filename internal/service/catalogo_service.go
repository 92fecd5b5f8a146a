package service

import (
	"context"
	"strings"

	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/repository"
)

// ── Sucursales ────────────────────────────────────────────────────────────────

// SucursalService manages branches. Delete only deactivates.
type SucursalService interface {
	Listar(ctx context.Context, soloActivas bool) ([]model.Sucursal, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Sucursal, error)
	Crear(ctx context.Context, req dto.SucursalRequest) (*model.Sucursal, error)
	Actualizar(ctx context.Context, id uint, req dto.SucursalRequest) (*model.Sucursal, error)
	Desactivar(ctx context.Context, id uint) error
}

type sucursalService struct {
	repo      repository.SucursalRepository
	distritos repository.DistritoRepository
	cache     CacheReportes
}

func NewSucursalService(repo repository.SucursalRepository, distritos repository.DistritoRepository, cache CacheReportes) SucursalService {
	return &sucursalService{repo: repo, distritos: distritos, cache: cache}
}

const msgSucursalDuplicada = "ya existe una sucursal con ese nombre"

func (s *sucursalService) Listar(ctx context.Context, soloActivas bool) ([]model.Sucursal, error) {
	return s.repo.Listar(ctx, soloActivas)
}

func (s *sucursalService) ObtenerPorID(ctx context.Context, id uint) (*model.Sucursal, error) {
	suc, err := s.repo.ObtenerPorID(ctx, id)
	return suc, traducir(err, "sucursal no encontrada", msgSucursalDuplicada)
}

func (s *sucursalService) Crear(ctx context.Context, req dto.SucursalRequest) (*model.Sucursal, error) {
	suc := &model.Sucursal{Activo: true}
	if err := s.aplicar(ctx, suc, req); err != nil {
		return nil, err
	}
	if err := s.repo.Crear(ctx, suc); err != nil {
		return nil, traducir(err, "sucursal no encontrada", msgSucursalDuplicada)
	}
	return s.ObtenerPorID(ctx, suc.ID)
}

func (s *sucursalService) Actualizar(ctx context.Context, id uint, req dto.SucursalRequest) (*model.Sucursal, error) {
	suc, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicar(ctx, suc, req); err != nil {
		return nil, err
	}
	suc.Distrito = nil
	if err := s.repo.Actualizar(ctx, suc); err != nil {
		return nil, traducir(err, "sucursal no encontrada", msgSucursalDuplicada)
	}
	// branch names appear in cached reports
	if s.cache != nil {
		s.cache.Invalidar(ctx)
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *sucursalService) Desactivar(ctx context.Context, id uint) error {
	return traducir(s.repo.Desactivar(ctx, id), "sucursal no encontrada", msgSucursalDuplicada)
}

func (s *sucursalService) aplicar(ctx context.Context, suc *model.Sucursal, req dto.SucursalRequest) error {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return validacion("el nombre es requerido")
	}
	dias := model.DiasAtencionDefault
	if req.DiasAtencion != "" {
		if !DiasAtencionValidos(req.DiasAtencion) {
			return validacion("dias_atencion inválido: %s", req.DiasAtencion)
		}
		dias = NormalizarDias(req.DiasAtencion)
	}
	if req.DistritoID != nil {
		if _, err := s.distritos.ObtenerPorID(ctx, *req.DistritoID); err != nil {
			return referencia(err, "el distrito no existe")
		}
	}
	suc.Nombre = nombre
	suc.Direccion = req.Direccion
	suc.DistritoID = req.DistritoID
	suc.DiasAtencion = dias
	if req.Activo != nil {
		suc.Activo = *req.Activo
	}
	return nil
}

// diasSemana are the weekday codes, Monday first.
var diasSemana = []string{"L", "M", "X", "J", "V", "S", "D"}

// DiasAtencionValidos reports whether s is a comma separated list of distinct
// weekday codes (L M X J V S D).
func DiasAtencionValidos(s string) bool {
	vistos := make(map[string]bool)
	for _, d := range strings.Split(s, ",") {
		d = strings.ToUpper(strings.TrimSpace(d))
		valido := false
		for _, c := range diasSemana {
			if d == c {
				valido = true
				break
			}
		}
		if !valido || vistos[d] {
			return false
		}
		vistos[d] = true
	}
	return true
}

// NormalizarDias returns the codes of s in weekday order, upper case.
func NormalizarDias(s string) string {
	presentes := make(map[string]bool)
	for _, d := range strings.Split(s, ",") {
		presentes[strings.ToUpper(strings.TrimSpace(d))] = true
	}
	out := make([]string, 0, len(presentes))
	for _, c := range diasSemana {
		if presentes[c] {
			out = append(out, c)
		}
	}
	return strings.Join(out, ",")
}

// ── Turnos ────────────────────────────────────────────────────────────────────

// TurnoService manages shift types.
type TurnoService interface {
	Listar(ctx context.Context, soloActivos bool) ([]model.Turno, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Turno, error)
	Crear(ctx context.Context, req dto.TurnoRequest) (*model.Turno, error)
	Actualizar(ctx context.Context, id uint, req dto.TurnoRequest) (*model.Turno, error)
	Desactivar(ctx context.Context, id uint) error
}

type turnoService struct{ repo repository.TurnoRepository }

func NewTurnoService(repo repository.TurnoRepository) TurnoService {
	return &turnoService{repo: repo}
}

const msgTurnoDuplicado = "ya existe un turno con ese nombre"

func (s *turnoService) Listar(ctx context.Context, soloActivos bool) ([]model.Turno, error) {
	return s.repo.Listar(ctx, soloActivos)
}

func (s *turnoService) ObtenerPorID(ctx context.Context, id uint) (*model.Turno, error) {
	t, err := s.repo.ObtenerPorID(ctx, id)
	return t, traducir(err, "turno no encontrado", msgTurnoDuplicado)
}

func (s *turnoService) Crear(ctx context.Context, req dto.TurnoRequest) (*model.Turno, error) {
	t := &model.Turno{Nombre: strings.TrimSpace(req.Nombre), Orden: req.Orden, Activo: true}
	if t.Nombre == "" {
		return nil, validacion("el nombre es requerido")
	}
	if err := s.repo.Crear(ctx, t); err != nil {
		return nil, traducir(err, "turno no encontrado", msgTurnoDuplicado)
	}
	return t, nil
}

func (s *turnoService) Actualizar(ctx context.Context, id uint, req dto.TurnoRequest) (*model.Turno, error) {
	t, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if nombre := strings.TrimSpace(req.Nombre); nombre != "" {
		t.Nombre = nombre
	}
	t.Orden = req.Orden
	if req.Activo != nil {
		t.Activo = *req.Activo
	}
	if err := s.repo.Actualizar(ctx, t); err != nil {
		return nil, traducir(err, "turno no encontrado", msgTurnoDuplicado)
	}
	return t, nil
}

func (s *turnoService) Desactivar(ctx context.Context, id uint) error {
	return traducir(s.repo.Desactivar(ctx, id), "turno no encontrado", msgTurnoDuplicado)
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

// CuentaService manages deposit accounts.
type CuentaService interface {
	Listar(ctx context.Context, soloActivas bool) ([]model.Cuenta, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Cuenta, error)
	Crear(ctx context.Context, req dto.CuentaRequest) (*model.Cuenta, error)
	Actualizar(ctx context.Context, id uint, req dto.CuentaRequest) (*model.Cuenta, error)
	Desactivar(ctx context.Context, id uint) error
}

type cuentaService struct{ repo repository.CuentaRepository }

func NewCuentaService(repo repository.CuentaRepository) CuentaService {
	return &cuentaService{repo: repo}
}

const msgCuentaDuplicada = "ya existe una cuenta con ese número"

func (s *cuentaService) Listar(ctx context.Context, soloActivas bool) ([]model.Cuenta, error) {
	return s.repo.Listar(ctx, soloActivas)
}

func (s *cuentaService) ObtenerPorID(ctx context.Context, id uint) (*model.Cuenta, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	return c, traducir(err, "cuenta no encontrada", msgCuentaDuplicada)
}

func (s *cuentaService) Crear(ctx context.Context, req dto.CuentaRequest) (*model.Cuenta, error) {
	c := &model.Cuenta{
		Numero:     strings.TrimSpace(req.Numero),
		Nombre:     strings.TrimSpace(req.Nombre),
		Banco:      strings.TrimSpace(req.Banco),
		EsEspecial: req.EsEspecial,
		Activo:     true,
	}
	if c.Numero == "" {
		return nil, validacion("el número de cuenta es requerido")
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, traducir(err, "cuenta no encontrada", msgCuentaDuplicada)
	}
	return c, nil
}

// Actualizar edits an account. Changing EsEspecial only affects records
// written afterwards; stored totals of past records keep their classification.
func (s *cuentaService) Actualizar(ctx context.Context, id uint, req dto.CuentaRequest) (*model.Cuenta, error) {
	c, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(req.Numero); n != "" {
		c.Numero = n
	}
	c.Nombre = strings.TrimSpace(req.Nombre)
	c.Banco = strings.TrimSpace(req.Banco)
	c.EsEspecial = req.EsEspecial
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Actualizar(ctx, c); err != nil {
		return nil, traducir(err, "cuenta no encontrada", msgCuentaDuplicada)
	}
	return c, nil
}

func (s *cuentaService) Desactivar(ctx context.Context, id uint) error {
	return traducir(s.repo.Desactivar(ctx, id), "cuenta no encontrada", msgCuentaDuplicada)
}

// ── Distritos ─────────────────────────────────────────────────────────────────

// DistritoService manages districts. Deleting one detaches its branches.
type DistritoService interface {
	Listar(ctx context.Context) ([]model.Distrito, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Distrito, error)
	Crear(ctx context.Context, req dto.DistritoRequest) (*model.Distrito, error)
	Actualizar(ctx context.Context, id uint, req dto.DistritoRequest) (*model.Distrito, error)
	Eliminar(ctx context.Context, id uint) error
}

type distritoService struct{ repo repository.DistritoRepository }

func NewDistritoService(repo repository.DistritoRepository) DistritoService {
	return &distritoService{repo: repo}
}

const msgDistritoDuplicado = "ya existe un distrito con ese nombre"

func (s *distritoService) Listar(ctx context.Context) ([]model.Distrito, error) {
	return s.repo.Listar(ctx)
}

func (s *distritoService) ObtenerPorID(ctx context.Context, id uint) (*model.Distrito, error) {
	d, err := s.repo.ObtenerPorID(ctx, id)
	return d, traducir(err, "distrito no encontrado", msgDistritoDuplicado)
}

func (s *distritoService) Crear(ctx context.Context, req dto.DistritoRequest) (*model.Distrito, error) {
	d := &model.Distrito{Nombre: strings.TrimSpace(req.Nombre)}
	if d.Nombre == "" {
		return nil, validacion("el nombre es requerido")
	}
	if err := s.repo.Crear(ctx, d); err != nil {
		return nil, traducir(err, "distrito no encontrado", msgDistritoDuplicado)
	}
	return d, nil
}

func (s *distritoService) Actualizar(ctx context.Context, id uint, req dto.DistritoRequest) (*model.Distrito, error) {
	d, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Nombre = strings.TrimSpace(req.Nombre)
	if err := s.repo.Actualizar(ctx, d); err != nil {
		return nil, traducir(err, "distrito no encontrado", msgDistritoDuplicado)
	}
	return d, nil
}

func (s *distritoService) Eliminar(ctx context.Context, id uint) error {
	return traducir(s.repo.Eliminar(ctx, id), "distrito no encontrado", msgDistritoDuplicado)
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UsuarioService manages back office users. Usernames are stored lowercase.
type UsuarioService interface {
	Listar(ctx context.Context) ([]model.Usuario, error)
	ObtenerPorID(ctx context.Context, id uint) (*model.Usuario, error)
	Crear(ctx context.Context, req dto.UsuarioRequest) (*model.Usuario, error)
	Actualizar(ctx context.Context, id uint, req dto.UsuarioRequest) (*model.Usuario, error)
	Eliminar(ctx context.Context, id uint) error
}

type usuarioService struct{ repo repository.UsuarioRepository }

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

const msgUsuarioDuplicado = "ya existe un usuario con ese username"

func (s *usuarioService) Listar(ctx context.Context) ([]model.Usuario, error) {
	return s.repo.Listar(ctx)
}

func (s *usuarioService) ObtenerPorID(ctx context.Context, id uint) (*model.Usuario, error) {
	u, err := s.repo.ObtenerPorID(ctx, id)
	return u, traducir(err, "usuario no encontrado", msgUsuarioDuplicado)
}

func (s *usuarioService) Crear(ctx context.Context, req dto.UsuarioRequest) (*model.Usuario, error) {
	u := &model.Usuario{}
	if err := aplicarUsuario(u, req); err != nil {
		return nil, err
	}
	if err := s.repo.Crear(ctx, u); err != nil {
		return nil, traducir(err, "usuario no encontrado", msgUsuarioDuplicado)
	}
	return u, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id uint, req dto.UsuarioRequest) (*model.Usuario, error) {
	u, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := aplicarUsuario(u, req); err != nil {
		return nil, err
	}
	if err := s.repo.Actualizar(ctx, u); err != nil {
		return nil, traducir(err, "usuario no encontrado", msgUsuarioDuplicado)
	}
	return u, nil
}

func (s *usuarioService) Eliminar(ctx context.Context, id uint) error {
	return traducir(s.repo.Eliminar(ctx, id), "usuario no encontrado", msgUsuarioDuplicado)
}

func aplicarUsuario(u *model.Usuario, req dto.UsuarioRequest) error {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	nombre := strings.TrimSpace(req.Nombre)
	if username == "" || nombre == "" {
		return validacion("username y nombre son requeridos")
	}
	if strings.ContainsAny(username, " \t") {
		return validacion("el username no puede contener espacios")
	}
	u.Username = username
	u.Nombre = nombre
	return nil
}
