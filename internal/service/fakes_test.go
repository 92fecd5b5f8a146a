package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"farmacierre/internal/dto"
	"farmacierre/internal/model"
	"farmacierre/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory RegistroRepository ─────────────────────────────────────────────

type fakeRegistroRepo struct {
	regs   map[uint]*model.RegistroTurno
	nextID uint
	cat    *fakeCatalogo
}

var _ repository.RegistroRepository = (*fakeRegistroRepo)(nil)

func newFakeRegistroRepo(cat *fakeCatalogo) *fakeRegistroRepo {
	return &fakeRegistroRepo{regs: make(map[uint]*model.RegistroTurno), cat: cat}
}

func (r *fakeRegistroRepo) resolver(reg model.RegistroTurno) model.RegistroTurno {
	reg.Sucursal = r.cat.sucursales[reg.SucursalID]
	reg.Turno = r.cat.turnos[reg.TurnoID]
	reg.Cuenta = nil
	if reg.CuentaID != nil {
		reg.Cuenta = r.cat.cuentas[*reg.CuentaID]
	}
	return reg
}

func (r *fakeRegistroRepo) clave(reg *model.RegistroTurno) *model.RegistroTurno {
	for _, x := range r.regs {
		if x.Fecha.Equal(reg.Fecha) && x.SucursalID == reg.SucursalID && x.TurnoID == reg.TurnoID {
			return x
		}
	}
	return nil
}

func (r *fakeRegistroRepo) Create(_ context.Context, reg *model.RegistroTurno) error {
	if r.clave(reg) != nil {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	reg.ID = r.nextID
	reg.CreatedAt = time.Now()
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegistroRepo) FindByID(_ context.Context, id uint) (*model.RegistroTurno, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.resolver(*reg)
	return &out, nil
}

func (r *fakeRegistroRepo) FindByClave(_ context.Context, fecha time.Time, sucursalID, turnoID uint) (*model.RegistroTurno, error) {
	if x := r.clave(&model.RegistroTurno{Fecha: fecha, SucursalID: sucursalID, TurnoID: turnoID}); x != nil {
		cp := *x
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRegistroRepo) List(_ context.Context, f repository.RegistroFilter) ([]model.RegistroTurno, error) {
	var out []model.RegistroTurno
	for _, reg := range r.regs {
		switch {
		case f.FechaInicio != nil && reg.Fecha.Before(*f.FechaInicio),
			f.FechaFin != nil && reg.Fecha.After(*f.FechaFin),
			f.SucursalID != 0 && reg.SucursalID != f.SucursalID,
			f.TurnoID != 0 && reg.TurnoID != f.TurnoID,
			f.CuentaID != 0 && (reg.CuentaID == nil || *reg.CuentaID != f.CuentaID),
			f.ConCuenta && reg.CuentaID == nil,
			f.DepositoPositivo && !reg.MontoDepositado.IsPositive():
			continue
		}
		out = append(out, r.resolver(*reg))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			if f.Orden == repository.OrdenDesc {
				return out[i].Fecha.After(out[j].Fecha)
			}
			return out[i].Fecha.Before(out[j].Fecha)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeRegistroRepo) Update(_ context.Context, reg *model.RegistroTurno) error {
	if x := r.clave(reg); x != nil && x.ID != reg.ID {
		return gorm.ErrDuplicatedKey
	}
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegistroRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.regs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.regs, id)
	return nil
}

// ── In-memory catalog repositories ───────────────────────────────────────────

type fakeCatalogo struct {
	sucursales map[uint]*model.Sucursal
	turnos     map[uint]*model.Turno
	cuentas    map[uint]*model.Cuenta
	distritos  map[uint]*model.Distrito
	usuarios   map[uint]*model.Usuario
}

func newFakeCatalogo() *fakeCatalogo {
	return &fakeCatalogo{
		sucursales: map[uint]*model.Sucursal{
			1: {ID: 1, Nombre: "Centro", Activo: true},
			2: {ID: 2, Nombre: "Zacapa", Activo: true},
		},
		turnos: map[uint]*model.Turno{
			1: {ID: 1, Nombre: "Diurno AM", Orden: 1, Activo: true},
			2: {ID: 2, Nombre: "Diurno PM", Orden: 2, Activo: true},
		},
		cuentas: map[uint]*model.Cuenta{
			1: {ID: 1, Numero: "7100717710", Nombre: "Grupo de negocios Tel", Banco: "Interbanco", Activo: true},
			4: {ID: 4, Numero: "OFICINA", Nombre: "Oficina", Banco: "Cuenta Especial", EsEspecial: true, Activo: true},
		},
		distritos: map[uint]*model.Distrito{},
		usuarios:  map[uint]*model.Usuario{},
	}
}

type fakeSucursalRepo struct{ c *fakeCatalogo }

var _ repository.SucursalRepository = fakeSucursalRepo{}

func (r fakeSucursalRepo) Crear(_ context.Context, s *model.Sucursal) error {
	for _, x := range r.c.sucursales {
		if x.Nombre == s.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	s.ID = uint(len(r.c.sucursales) + 1)
	r.c.sucursales[s.ID] = s
	return nil
}

func (r fakeSucursalRepo) Listar(_ context.Context, soloActivas bool) ([]model.Sucursal, error) {
	var out []model.Sucursal
	for _, s := range r.c.sucursales {
		if !soloActivas || s.Activo {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r fakeSucursalRepo) ObtenerPorID(_ context.Context, id uint) (*model.Sucursal, error) {
	s, ok := r.c.sucursales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r fakeSucursalRepo) Actualizar(_ context.Context, s *model.Sucursal) error {
	cp := *s
	r.c.sucursales[s.ID] = &cp
	return nil
}

func (r fakeSucursalRepo) Desactivar(_ context.Context, id uint) error {
	s, ok := r.c.sucursales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Activo = false
	return nil
}

type fakeTurnoRepo struct{ c *fakeCatalogo }

var _ repository.TurnoRepository = fakeTurnoRepo{}

func (r fakeTurnoRepo) Crear(_ context.Context, t *model.Turno) error {
	t.ID = uint(len(r.c.turnos) + 1)
	r.c.turnos[t.ID] = t
	return nil
}

func (r fakeTurnoRepo) Listar(_ context.Context, _ bool) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.c.turnos {
		out = append(out, *t)
	}
	return out, nil
}

func (r fakeTurnoRepo) ObtenerPorID(_ context.Context, id uint) (*model.Turno, error) {
	t, ok := r.c.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r fakeTurnoRepo) Actualizar(_ context.Context, t *model.Turno) error {
	r.c.turnos[t.ID] = t
	return nil
}

func (r fakeTurnoRepo) Desactivar(_ context.Context, id uint) error {
	if _, ok := r.c.turnos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.c.turnos[id].Activo = false
	return nil
}

func (r fakeTurnoRepo) Contar(_ context.Context) (int64, error) { return int64(len(r.c.turnos)), nil }

type fakeCuentaRepo struct{ c *fakeCatalogo }

var _ repository.CuentaRepository = fakeCuentaRepo{}

func (r fakeCuentaRepo) Crear(_ context.Context, c *model.Cuenta) error {
	c.ID = uint(len(r.c.cuentas) + 10)
	r.c.cuentas[c.ID] = c
	return nil
}

func (r fakeCuentaRepo) Listar(_ context.Context, _ bool) ([]model.Cuenta, error) {
	var out []model.Cuenta
	for _, c := range r.c.cuentas {
		out = append(out, *c)
	}
	return out, nil
}

func (r fakeCuentaRepo) ObtenerPorID(_ context.Context, id uint) (*model.Cuenta, error) {
	c, ok := r.c.cuentas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r fakeCuentaRepo) Actualizar(_ context.Context, c *model.Cuenta) error {
	r.c.cuentas[c.ID] = c
	return nil
}

func (r fakeCuentaRepo) Desactivar(_ context.Context, id uint) error {
	if _, ok := r.c.cuentas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.c.cuentas[id].Activo = false
	return nil
}

func (r fakeCuentaRepo) Contar(_ context.Context) (int64, error) { return int64(len(r.c.cuentas)), nil }

type fakeDistritoRepo struct{ c *fakeCatalogo }

var _ repository.DistritoRepository = fakeDistritoRepo{}

func (r fakeDistritoRepo) Crear(_ context.Context, d *model.Distrito) error {
	d.ID = uint(len(r.c.distritos) + 1)
	r.c.distritos[d.ID] = d
	return nil
}

func (r fakeDistritoRepo) Listar(_ context.Context) ([]model.Distrito, error) {
	var out []model.Distrito
	for _, d := range r.c.distritos {
		out = append(out, *d)
	}
	return out, nil
}

func (r fakeDistritoRepo) ObtenerPorID(_ context.Context, id uint) (*model.Distrito, error) {
	d, ok := r.c.distritos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r fakeDistritoRepo) Actualizar(_ context.Context, d *model.Distrito) error {
	r.c.distritos[d.ID] = d
	return nil
}

func (r fakeDistritoRepo) Eliminar(_ context.Context, id uint) error {
	if _, ok := r.c.distritos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.c.distritos, id)
	return nil
}

// ── In-memory MetaRepository ─────────────────────────────────────────────────

type fakeMetaRepo struct {
	metas  map[uint]*model.MetaMensual
	nextID uint
	cat    *fakeCatalogo
}

var _ repository.MetaRepository = (*fakeMetaRepo)(nil)

func newFakeMetaRepo(cat *fakeCatalogo) *fakeMetaRepo {
	return &fakeMetaRepo{metas: make(map[uint]*model.MetaMensual), cat: cat}
}

func (r *fakeMetaRepo) List(_ context.Context, f repository.MetaFilter) ([]model.MetaMensual, error) {
	var out []model.MetaMensual
	for _, m := range r.metas {
		if (f.Anio == 0 || m.Anio == f.Anio) && (f.Mes == 0 || m.Mes == f.Mes) &&
			(f.SucursalID == 0 || m.SucursalID == f.SucursalID) {
			cp := *m
			cp.Sucursal = r.cat.sucursales[m.SucursalID]
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SucursalID < out[j].SucursalID })
	return out, nil
}

func (r *fakeMetaRepo) FindByID(_ context.Context, id uint) (*model.MetaMensual, error) {
	m, ok := r.metas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMetaRepo) FindByClave(_ context.Context, sucursalID uint, anio, mes int) (*model.MetaMensual, error) {
	for _, m := range r.metas {
		if m.SucursalID == sucursalID && m.Anio == anio && m.Mes == mes {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMetaRepo) Upsert(ctx context.Context, sucursalID uint, anio, mes int, monto decimal.Decimal) (*model.MetaMensual, bool, error) {
	if m, err := r.FindByClave(ctx, sucursalID, anio, mes); err == nil {
		r.metas[m.ID].Meta = monto
		m.Meta = monto
		return m, false, nil
	}
	r.nextID++
	m := &model.MetaMensual{ID: r.nextID, SucursalID: sucursalID, Anio: anio, Mes: mes, Meta: monto}
	r.metas[m.ID] = m
	cp := *m
	return &cp, true, nil
}

func (r *fakeMetaRepo) Update(_ context.Context, m *model.MetaMensual) error {
	cp := *m
	r.metas[m.ID] = &cp
	return nil
}

func (r *fakeMetaRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.metas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.metas, id)
	return nil
}

// ── Cache and queue fakes ────────────────────────────────────────────────────

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	version int64
	hits    int
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
}

func (c *fakeCache) Version(_ context.Context) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *fakeCache) Invalidar(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
}

type fakeCola struct{ jobs []dto.EnvioReporteJob }

func (q *fakeCola) EncolarEnvio(_ context.Context, job dto.EnvioReporteJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeUsuarioRepo struct{ c *fakeCatalogo }

var _ repository.UsuarioRepository = fakeUsuarioRepo{}

func (r fakeUsuarioRepo) Crear(_ context.Context, u *model.Usuario) error {
	for _, x := range r.c.usuarios {
		if x.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uint(len(r.c.usuarios) + 1)
	r.c.usuarios[u.ID] = u
	return nil
}

func (r fakeUsuarioRepo) Listar(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.c.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r fakeUsuarioRepo) ObtenerPorID(_ context.Context, id uint) (*model.Usuario, error) {
	u, ok := r.c.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUsuarioRepo) Actualizar(_ context.Context, u *model.Usuario) error {
	for _, x := range r.c.usuarios {
		if x.ID != u.ID && x.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.c.usuarios[u.ID] = u
	return nil
}

func (r fakeUsuarioRepo) Eliminar(_ context.Context, id uint) error {
	if _, ok := r.c.usuarios[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.c.usuarios, id)
	return nil
}

func (r fakeUsuarioRepo) Contar(_ context.Context) (int64, error) {
	return int64(len(r.c.usuarios)), nil
}
