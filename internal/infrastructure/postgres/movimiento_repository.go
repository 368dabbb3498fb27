package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo implementación del registro de movimientos sobre PostgreSQL
// (usable con pool o tx). El registro es append-only: este adaptador no
// expone UPDATE ni DELETE. El desglose por variante se guarda como jsonb.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create asienta un movimiento y fija el id autoincremental asignado.
func (r *MovimientoRepo) Create(mov *entity.Movimiento) error {
	var desglose any
	if len(mov.Desglose) > 0 {
		b, err := json.Marshal(mov.Desglose)
		if err != nil {
			return fmt.Errorf("marshal desglose: %w", err)
		}
		desglose = b
	}
	var destino *string
	if mov.Destino != nil {
		clave := mov.Destino.Clave()
		destino = &clave
	}
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO movimientos (transaccion_id, tipo, producto_id, cantidad, desglose, origen, destino, precio_unitario, referencia, fecha, creado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		mov.TransaccionID, mov.Tipo, mov.ProductoID, mov.Cantidad, desglose,
		mov.Origen.Clave(), destino, mov.PrecioUnitario, mov.Referencia,
		mov.Fecha, mov.CreadoEn,
	).Scan(&mov.ID)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

const movimientoCols = `id, transaccion_id, tipo, producto_id, cantidad, desglose, origen, destino, precio_unitario, referencia, fecha, creado_en`

// GetByID obtiene un movimiento por ID.
func (r *MovimientoRepo) GetByID(id int64) (*entity.Movimiento, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+movimientoCols+` FROM movimientos WHERE id = $1`, id)
	mov, err := scanMovimiento(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return mov, nil
}

// ListByProducto lista movimientos de un producto en un rango de fechas.
func (r *MovimientoRepo) ListByProducto(productoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoCols + ` FROM movimientos WHERE producto_id = $1`
	args := []any{productoID}
	query, args = conRangoFechas(query, args, desde, hasta)
	query += fmt.Sprintf(" ORDER BY fecha DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(query, args)
}

// ListByUbicacion lista movimientos con origen o destino en la ubicación.
func (r *MovimientoRepo) ListByUbicacion(ubicacion entity.Ubicacion, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoCols + ` FROM movimientos WHERE (origen = $1 OR destino = $1)`
	args := []any{ubicacion.Clave()}
	query, args = conRangoFechas(query, args, desde, hasta)
	query += fmt.Sprintf(" ORDER BY fecha DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(query, args)
}

func conRangoFechas(query string, args []any, desde, hasta *time.Time) (string, []any) {
	if desde != nil {
		args = append(args, *desde)
		query += fmt.Sprintf(" AND fecha >= $%d", len(args))
	}
	if hasta != nil {
		args = append(args, *hasta)
		query += fmt.Sprintf(" AND fecha <= $%d", len(args))
	}
	return query, args
}

func (r *MovimientoRepo) list(query string, args []any) ([]*entity.Movimiento, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		mov, err := scanMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}

func scanMovimiento(row pgx.Row) (*entity.Movimiento, error) {
	var m entity.Movimiento
	var desglose []byte
	var origen string
	var destino *string
	var referencia *string
	if err := row.Scan(&m.ID, &m.TransaccionID, &m.Tipo, &m.ProductoID, &m.Cantidad,
		&desglose, &origen, &destino, &m.PrecioUnitario, &referencia, &m.Fecha, &m.CreadoEn); err != nil {
		return nil, err
	}
	if len(desglose) > 0 {
		if err := json.Unmarshal(desglose, &m.Desglose); err != nil {
			return nil, fmt.Errorf("unmarshal desglose: %w", err)
		}
	}
	var err error
	if m.Origen, err = entity.ParseUbicacion(origen); err != nil {
		return nil, err
	}
	if destino != nil {
		d, err := entity.ParseUbicacion(*destino)
		if err != nil {
			return nil, err
		}
		m.Destino = &d
	}
	if referencia != nil {
		m.Referencia = *referencia
	}
	return &m, nil
}

// Agregados suma entregas hacia la ubicación y bajas/mermas desde ella para
// un producto, en total y por variante (expandiendo el desglose jsonb). Las
// ventas no entran aquí: se agregan desde el libro de ventas.
func (r *MovimientoRepo) Agregados(productoID string, ubicacion entity.Ubicacion) (*repository.AgregadosMovimiento, error) {
	ctx := context.Background()
	clave := ubicacion.Clave()
	ag := &repository.AgregadosMovimiento{
		EntregasPorVariante: make(map[string]int),
		BajasPorVariante:    make(map[string]int),
	}

	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(cantidad) FILTER (WHERE tipo = $3 AND destino = $2), 0),
			COALESCE(SUM(cantidad) FILTER (WHERE tipo IN ($4, $5) AND origen = $2), 0)
		FROM movimientos
		WHERE producto_id = $1 AND (origen = $2 OR destino = $2)`,
		productoID, clave, entity.MovEntrega, entity.MovBaja, entity.MovMerma,
	).Scan(&ag.Entregas, &ag.Bajas)
	if err != nil {
		return nil, fmt.Errorf("agregados movimientos: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT m.tipo, vc->>'nombre', SUM((vc->>'cantidad')::int)
		FROM movimientos m, jsonb_array_elements(m.desglose) vc
		WHERE m.producto_id = $1
		  AND ((m.tipo = $3 AND m.destino = $2) OR (m.tipo IN ($4, $5) AND m.origen = $2))
		GROUP BY m.tipo, vc->>'nombre'`,
		productoID, clave, entity.MovEntrega, entity.MovBaja, entity.MovMerma)
	if err != nil {
		return nil, fmt.Errorf("agregados por variante: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tipo, nombre string
		var cantidad int
		if err := rows.Scan(&tipo, &nombre, &cantidad); err != nil {
			return nil, fmt.Errorf("scan agregado: %w", err)
		}
		if tipo == entity.MovEntrega {
			ag.EntregasPorVariante[nombre] += cantidad
		} else {
			ag.BajasPorVariante[nombre] += cantidad
		}
	}
	return ag, rows.Err()
}

// ProductosConMovimientos lista los productos con algún movimiento hacia o
// desde la ubicación.
func (r *MovimientoRepo) ProductosConMovimientos(ubicacion entity.Ubicacion) ([]string, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT DISTINCT producto_id FROM movimientos
		WHERE origen = $1 OR destino = $1
		ORDER BY producto_id`, ubicacion.Clave())
	if err != nil {
		return nil, fmt.Errorf("productos con movimientos: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan producto_id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
