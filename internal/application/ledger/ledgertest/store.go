// Package ledgertest provee un almacén en memoria que implementa los puertos
// de repositorio y el TxRunner con semántica real de rollback: si la función
// de la transacción falla, el estado vuelve al snapshot previo. Permite probar
// atomicidad y compensación sin PostgreSQL.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// Store almacén en memoria compartido por todos los repositorios fake.
type Store struct {
	mu          sync.Mutex
	productos   map[string]*entity.Producto
	stocks      map[string]*entity.Stock // productoID + "|" + ubicacion
	movimientos []*entity.Movimiento
	ventas      map[string]*entity.Venta
	mermas      map[string]*entity.Merma
	nextMovID   int64

	// FallarAcreditarEn fuerza un error de Upsert sobre la ubicación indicada,
	// para simular fallos a mitad de transacción.
	FallarUpsertEn string
	ErrForzado     error
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		productos: make(map[string]*entity.Producto),
		stocks:    make(map[string]*entity.Stock),
		ventas:    make(map[string]*entity.Venta),
		mermas:    make(map[string]*entity.Merma),
	}
}

func claveStock(productoID string, ub entity.Ubicacion) string {
	return productoID + "|" + ub.Clave()
}

// Repos devuelve los repositorios fake sobre este almacén.
func (s *Store) Repos() ledger.Repos {
	return ledger.Repos{
		Movimientos: &movimientoRepo{s: s},
		Stock:       &stockRepo{s: s},
		Productos:   &productoRepo{s: s},
		Ventas:      &ventaRepo{s: s},
		Mermas:      &mermaRepo{s: s},
	}
}

// Productos devuelve el repositorio fake de productos (para construir casos de
// uso que lo reciben por separado).
func (s *Store) Productos() repository.ProductoRepository {
	return &productoRepo{s: s}
}

var _ ledger.TxRunner = (*Store)(nil)

// Run ejecuta fn con semántica de transacción: toma un snapshot profundo del
// estado y lo restaura si fn falla.
func (s *Store) Run(_ context.Context, fn func(r ledger.Repos) error) error {
	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunReadOnly ejecuta fn y restaura el estado siempre, incluso en éxito: una
// transacción de solo lectura no puede dejar escrituras.
func (s *Store) RunReadOnly(_ context.Context, fn func(r ledger.Repos) error) error {
	snap := s.snapshot()
	err := fn(s.Repos())
	s.restore(snap)
	return err
}

type estado struct {
	productos   map[string]*entity.Producto
	stocks      map[string]*entity.Stock
	movimientos []*entity.Movimiento
	ventas      map[string]*entity.Venta
	mermas      map[string]*entity.Merma
	nextMovID   int64
}

func (s *Store) snapshot() estado {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := estado{
		productos: make(map[string]*entity.Producto, len(s.productos)),
		stocks:    make(map[string]*entity.Stock, len(s.stocks)),
		ventas:    make(map[string]*entity.Venta, len(s.ventas)),
		mermas:    make(map[string]*entity.Merma, len(s.mermas)),
		nextMovID: s.nextMovID,
	}
	for k, v := range s.productos {
		e.productos[k] = clonarProducto(v)
	}
	for k, v := range s.stocks {
		e.stocks[k] = clonarStock(v)
	}
	for _, m := range s.movimientos {
		e.movimientos = append(e.movimientos, clonarMovimiento(m))
	}
	for k, v := range s.ventas {
		e.ventas[k] = clonarVenta(v)
	}
	for k, v := range s.mermas {
		e.mermas[k] = clonarMerma(v)
	}
	return e
}

func (s *Store) restore(e estado) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productos = e.productos
	s.stocks = e.stocks
	s.movimientos = e.movimientos
	s.ventas = e.ventas
	s.mermas = e.mermas
	s.nextMovID = e.nextMovID
}

// SeedProducto agrega un producto al catálogo.
func (s *Store) SeedProducto(p *entity.Producto) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productos[p.ID] = clonarProducto(p)
}

// SeedStock fija el stock de un producto en una ubicación tal cual, sin pasar
// por el ejecutor. Útil para arrancar escenarios (incluso corruptos).
func (s *Store) SeedStock(st *entity.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[claveStock(st.ProductoID, st.Ubicacion)] = clonarStock(st)
}

// StockDe devuelve el stock actual (cero si no hay registro).
func (s *Store) StockDe(productoID string, ub entity.Ubicacion) *entity.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stocks[claveStock(productoID, ub)]; ok {
		return clonarStock(st)
	}
	return &entity.Stock{ProductoID: productoID, Ubicacion: ub}
}

// Movimientos devuelve copia del registro completo, en orden de asiento.
func (s *Store) Movimientos() []*entity.Movimiento {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movimiento, 0, len(s.movimientos))
	for _, m := range s.movimientos {
		out = append(out, clonarMovimiento(m))
	}
	return out
}

// Venta devuelve una venta por id (nil si no existe).
func (s *Store) Venta(id string) *entity.Venta {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.ventas[id]; ok {
		return clonarVenta(v)
	}
	return nil
}

// Merma devuelve una merma por id (nil si no existe).
func (s *Store) Merma(id string) *entity.Merma {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mermas[id]; ok {
		return clonarMerma(m)
	}
	return nil
}

// TotalSistema suma el stock de un producto en todas las ubicaciones; la
// bodega no lleva registro, así que esto es "todo lo que está en la calle".
func (s *Store) TotalSistema(productoID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, st := range s.stocks {
		if st.ProductoID == productoID {
			total += st.Cantidad
		}
	}
	return total
}

// --- repositorios fake ---

type productoRepo struct{ s *Store }

var _ repository.ProductoRepository = (*productoRepo)(nil)

func (r *productoRepo) Create(p *entity.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.productos[p.ID] = clonarProducto(p)
	return nil
}

func (r *productoRepo) GetByID(id string) (*entity.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.productos[id]; ok {
		return clonarProducto(p), nil
	}
	return nil, nil
}

func (r *productoRepo) List(busqueda string, limit, offset int) ([]*entity.Producto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.productos))
	for id := range r.s.productos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Producto
	for _, id := range ids {
		out = append(out, clonarProducto(r.s.productos[id]))
	}
	return out, nil
}

func (r *productoRepo) UpdateMetadata(p *entity.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.productos[p.ID] = clonarProducto(p)
	return nil
}

func (r *productoRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.productos, id)
	return nil
}

type stockRepo struct{ s *Store }

var _ repository.StockRepository = (*stockRepo)(nil)

func (r *stockRepo) Get(productoID string, ub entity.Ubicacion) (*entity.Stock, error) {
	return r.s.StockDe(productoID, ub), nil
}

func (r *stockRepo) GetForUpdate(productoID string, ub entity.Ubicacion) (*entity.Stock, error) {
	return r.s.StockDe(productoID, ub), nil
}

func (r *stockRepo) Upsert(st *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ErrForzado != nil && r.s.FallarUpsertEn == st.Ubicacion.Clave() {
		return r.s.ErrForzado
	}
	r.s.stocks[claveStock(st.ProductoID, st.Ubicacion)] = clonarStock(st)
	return nil
}

func (r *stockRepo) ListByUbicacion(ub entity.Ubicacion) ([]*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Stock
	for _, st := range r.s.stocks {
		if st.Ubicacion == ub {
			out = append(out, clonarStock(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductoID < out[j].ProductoID })
	return out, nil
}

type movimientoRepo struct{ s *Store }

var _ repository.MovimientoRepository = (*movimientoRepo)(nil)

func (r *movimientoRepo) Create(m *entity.Movimiento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMovID++
	m.ID = r.s.nextMovID
	r.s.movimientos = append(r.s.movimientos, clonarMovimiento(m))
	return nil
}

func (r *movimientoRepo) GetByID(id int64) (*entity.Movimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movimientos {
		if m.ID == id {
			return clonarMovimiento(m), nil
		}
	}
	return nil, nil
}

func (r *movimientoRepo) ListByProducto(productoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movimiento
	for _, m := range r.s.movimientos {
		if m.ProductoID == productoID && enRango(m.Fecha, desde, hasta) {
			out = append(out, clonarMovimiento(m))
		}
	}
	return paginar(out, limit, offset), nil
}

func (r *movimientoRepo) ListByUbicacion(ub entity.Ubicacion, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movimiento
	for _, m := range r.s.movimientos {
		if tocaUbicacion(m, ub) && enRango(m.Fecha, desde, hasta) {
			out = append(out, clonarMovimiento(m))
		}
	}
	return paginar(out, limit, offset), nil
}

func (r *movimientoRepo) Agregados(productoID string, ub entity.Ubicacion) (*repository.AgregadosMovimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agg := &repository.AgregadosMovimiento{
		EntregasPorVariante: make(map[string]int),
		BajasPorVariante:    make(map[string]int),
	}
	for _, m := range r.s.movimientos {
		if m.ProductoID != productoID {
			continue
		}
		switch m.Tipo {
		case entity.MovEntrega:
			if m.Destino != nil && *m.Destino == ub {
				agg.Entregas += m.Cantidad
				for _, vc := range m.Desglose {
					agg.EntregasPorVariante[vc.Nombre] += vc.Cantidad
				}
			}
		case entity.MovBaja, entity.MovMerma:
			if m.Origen == ub {
				agg.Bajas += m.Cantidad
				for _, vc := range m.Desglose {
					agg.BajasPorVariante[vc.Nombre] += vc.Cantidad
				}
			}
		}
	}
	return agg, nil
}

func (r *movimientoRepo) ProductosConMovimientos(ub entity.Ubicacion) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vistos := make(map[string]bool)
	for _, m := range r.s.movimientos {
		if tocaUbicacion(m, ub) {
			vistos[m.ProductoID] = true
		}
	}
	out := make([]string, 0, len(vistos))
	for id := range vistos {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

type ventaRepo struct{ s *Store }

var _ repository.VentaRepository = (*ventaRepo)(nil)

func (r *ventaRepo) Create(v *entity.Venta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ventas[v.ID] = clonarVenta(v)
	return nil
}

func (r *ventaRepo) GetByID(id string) (*entity.Venta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.ventas[id]; ok {
		return clonarVenta(v), nil
	}
	return nil, nil
}

func (r *ventaRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.ventas, id)
	return nil
}

func (r *ventaRepo) ListByVendedor(vendedorID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Venta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Venta
	for _, v := range r.s.ventas {
		if v.VendedorID == vendedorID && enRango(v.FechaVenta, desde, hasta) {
			out = append(out, clonarVenta(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginar(out, limit, offset), nil
}

func (r *ventaRepo) Agregados(productoID, vendedorID string) (*repository.AgregadosVenta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agg := &repository.AgregadosVenta{VentasPorVariante: make(map[string]int)}
	for _, v := range r.s.ventas {
		if v.ProductoID != productoID || v.VendedorID != vendedorID {
			continue
		}
		agg.Ventas += v.Cantidad
		for _, vc := range v.Desglose {
			agg.VentasPorVariante[vc.Nombre] += vc.Cantidad
		}
	}
	return agg, nil
}

type mermaRepo struct{ s *Store }

var _ repository.MermaRepository = (*mermaRepo)(nil)

func (r *mermaRepo) Create(m *entity.Merma) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.mermas[m.ID] = clonarMerma(m)
	return nil
}

func (r *mermaRepo) GetByID(id string) (*entity.Merma, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.mermas[id]; ok {
		return clonarMerma(m), nil
	}
	return nil, nil
}

func (r *mermaRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.mermas, id)
	return nil
}

func (r *mermaRepo) ListByProducto(productoID string) ([]*entity.Merma, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Merma
	for _, m := range r.s.mermas {
		if m.ProductoID == productoID {
			out = append(out, clonarMerma(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mermaRepo) List(desde, hasta *time.Time, limit, offset int) ([]*entity.Merma, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Merma
	for _, m := range r.s.mermas {
		if enRango(m.Fecha, desde, hasta) {
			out = append(out, clonarMerma(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductoID != out[j].ProductoID {
			return out[i].ProductoID < out[j].ProductoID
		}
		return out[i].ID < out[j].ID
	})
	return paginar(out, limit, offset), nil
}

// --- helpers ---

func enRango(t time.Time, desde, hasta *time.Time) bool {
	if desde != nil && t.Before(*desde) {
		return false
	}
	if hasta != nil && t.After(*hasta) {
		return false
	}
	return true
}

func paginar[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func tocaUbicacion(m *entity.Movimiento, ub entity.Ubicacion) bool {
	if m.Origen == ub {
		return true
	}
	return m.Destino != nil && *m.Destino == ub
}

func clonarProducto(p *entity.Producto) *entity.Producto {
	c := *p
	c.Variantes = append([]string(nil), p.Variantes...)
	return &c
}

func clonarStock(s *entity.Stock) *entity.Stock {
	c := *s
	c.Variantes = append([]entity.Variante(nil), s.Variantes...)
	return &c
}

func clonarMovimiento(m *entity.Movimiento) *entity.Movimiento {
	c := *m
	c.Desglose = append(entity.Desglose(nil), m.Desglose...)
	if m.Destino != nil {
		d := *m.Destino
		c.Destino = &d
	}
	return &c
}

func clonarVenta(v *entity.Venta) *entity.Venta {
	c := *v
	c.Desglose = append(entity.Desglose(nil), v.Desglose...)
	return &c
}

func clonarMerma(m *entity.Merma) *entity.Merma {
	c := *m
	c.Desglose = append(entity.Desglose(nil), m.Desglose...)
	return &c
}
