package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.VentaRepository = (*VentaRepo)(nil)

// VentaRepo implementación del libro de ventas sobre PostgreSQL (usable con
// pool o tx). Delete existe solo para la ruta de reversión.
type VentaRepo struct {
	q Querier
}

// NewVentaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

// Create persiste una venta con su desglose y foto de ganancia.
func (r *VentaRepo) Create(v *entity.Venta) error {
	var desglose any
	if len(v.Desglose) > 0 {
		b, err := json.Marshal(v.Desglose)
		if err != nil {
			return fmt.Errorf("marshal desglose: %w", err)
		}
		desglose = b
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO ventas (id, producto_id, vendedor_id, cantidad, desglose, precio_unitario, total, porc_ganancia, fecha_venta, creado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.ProductoID, v.VendedorID, v.Cantidad, desglose,
		v.PrecioUnitario, v.Total, v.PorcGanancia, v.FechaVenta, v.CreadoEn)
	if err != nil {
		return fmt.Errorf("create venta: %w", err)
	}
	return nil
}

const ventaCols = `id, producto_id, vendedor_id, cantidad, desglose, precio_unitario, total, porc_ganancia, fecha_venta, creado_en`

// GetByID obtiene una venta por ID. Nil si no existe.
func (r *VentaRepo) GetByID(id string) (*entity.Venta, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+ventaCols+` FROM ventas WHERE id = $1`, id)
	v, err := scanVenta(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return v, nil
}

// Delete elimina el registro de venta (solo desde la ruta de reversión).
func (r *VentaRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVentaNoEncontrada
	}
	return nil
}

// ListByVendedor lista las ventas de un vendedor por fecha de negocio.
func (r *VentaRepo) ListByVendedor(vendedorID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Venta, error) {
	query := `SELECT ` + ventaCols + ` FROM ventas WHERE vendedor_id = $1`
	args := []any{vendedorID}
	if desde != nil {
		args = append(args, *desde)
		query += fmt.Sprintf(" AND fecha_venta >= $%d", len(args))
	}
	if hasta != nil {
		args = append(args, *hasta)
		query += fmt.Sprintf(" AND fecha_venta <= $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY fecha_venta DESC, creado_en DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Venta
	for rows.Next() {
		v, err := scanVenta(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Agregados suma las ventas de un vendedor para un producto, total y por
// variante, para la reconciliación.
func (r *VentaRepo) Agregados(productoID, vendedorID string) (*repository.AgregadosVenta, error) {
	ctx := context.Background()
	ag := &repository.AgregadosVenta{VentasPorVariante: make(map[string]int)}

	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(cantidad), 0) FROM ventas
		WHERE producto_id = $1 AND vendedor_id = $2`,
		productoID, vendedorID).Scan(&ag.Ventas)
	if err != nil {
		return nil, fmt.Errorf("agregados ventas: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT vc->>'nombre', SUM((vc->>'cantidad')::int)
		FROM ventas v, jsonb_array_elements(v.desglose) vc
		WHERE v.producto_id = $1 AND v.vendedor_id = $2
		GROUP BY vc->>'nombre'`, productoID, vendedorID)
	if err != nil {
		return nil, fmt.Errorf("agregados ventas por variante: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var nombre string
		var cantidad int
		if err := rows.Scan(&nombre, &cantidad); err != nil {
			return nil, fmt.Errorf("scan agregado venta: %w", err)
		}
		ag.VentasPorVariante[nombre] = cantidad
	}
	return ag, rows.Err()
}

func scanVenta(row pgx.Row) (*entity.Venta, error) {
	var v entity.Venta
	var desglose []byte
	if err := row.Scan(&v.ID, &v.ProductoID, &v.VendedorID, &v.Cantidad, &desglose,
		&v.PrecioUnitario, &v.Total, &v.PorcGanancia, &v.FechaVenta, &v.CreadoEn); err != nil {
		return nil, err
	}
	if len(desglose) > 0 {
		if err := json.Unmarshal(desglose, &v.Desglose); err != nil {
			return nil, fmt.Errorf("unmarshal desglose: %w", err)
		}
	}
	return &v, nil
}
