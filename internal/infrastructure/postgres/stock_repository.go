package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). El escalar vive en stock y las variantes en stock_variantes;
// Upsert persiste ambos como una unidad.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una ubicación. Sin fila
// registrada devuelve stock en cero.
func (r *StockRepo) Get(productoID string, ubicacion entity.Ubicacion) (*entity.Stock, error) {
	return r.get(productoID, ubicacion, false)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE). Si la
// espera por el lock excede lock_timeout devuelve domain.ErrOcupado.
//
// Antes de bloquear garantiza que la fila exista: sin fila el FOR UPDATE no
// toma ningún lock, y dos primeras acreditaciones concurrentes a la misma
// (producto, ubicación) leerían cero cada una y la segunda pisaría el crédito
// de la primera.
func (r *StockRepo) GetForUpdate(productoID string, ubicacion entity.Ubicacion) (*entity.Stock, error) {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO stock (producto_id, ubicacion, cantidad, actualizado_en)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (producto_id, ubicacion) DO NOTHING`,
		productoID, ubicacion.Clave())
	if err != nil {
		if isLockTimeout(err) {
			return nil, domain.ErrOcupado
		}
		return nil, fmt.Errorf("asegurar fila de stock: %w", err)
	}
	return r.get(productoID, ubicacion, true)
}

func (r *StockRepo) get(productoID string, ubicacion entity.Ubicacion, forUpdate bool) (*entity.Stock, error) {
	query := `
		SELECT producto_id, ubicacion, cantidad, actualizado_en
		FROM stock WHERE producto_id = $1 AND ubicacion = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	s := &entity.Stock{ProductoID: productoID, Ubicacion: ubicacion}
	var clave string
	err := r.q.QueryRow(context.Background(), query, productoID, ubicacion.Clave()).Scan(
		&s.ProductoID, &clave, &s.Cantidad, &s.ActualizadoEn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, nil
		}
		if isLockTimeout(err) {
			return nil, domain.ErrOcupado
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	if s.Variantes, err = r.variantes(productoID, ubicacion); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StockRepo) variantes(productoID string, ubicacion entity.Ubicacion) ([]entity.Variante, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT nombre, cantidad FROM stock_variantes
		WHERE producto_id = $1 AND ubicacion = $2
		ORDER BY nombre`, productoID, ubicacion.Clave())
	if err != nil {
		return nil, fmt.Errorf("get stock variantes: %w", err)
	}
	defer rows.Close()
	var out []entity.Variante
	for rows.Next() {
		var v entity.Variante
		if err := rows.Scan(&v.Nombre, &v.Cantidad); err != nil {
			return nil, fmt.Errorf("scan variante: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza escalar y variantes del stock.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (producto_id, ubicacion, cantidad, actualizado_en)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (producto_id, ubicacion)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, actualizado_en = now()`,
		stock.ProductoID, stock.Ubicacion.Clave(), stock.Cantidad)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	for _, v := range stock.Variantes {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_variantes (producto_id, ubicacion, nombre, cantidad)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (producto_id, ubicacion, nombre)
			DO UPDATE SET cantidad = EXCLUDED.cantidad`,
			stock.ProductoID, stock.Ubicacion.Clave(), v.Nombre, v.Cantidad)
		if err != nil {
			return fmt.Errorf("upsert stock variante %q: %w", v.Nombre, err)
		}
	}
	return nil
}

// ListByUbicacion devuelve el snapshot de stock de una ubicación.
func (r *StockRepo) ListByUbicacion(ubicacion entity.Ubicacion) ([]*entity.Stock, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT producto_id, cantidad, actualizado_en
		FROM stock WHERE ubicacion = $1
		ORDER BY producto_id`, ubicacion.Clave())
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s := &entity.Stock{Ubicacion: ubicacion}
		if err := rows.Scan(&s.ProductoID, &s.Cantidad, &s.ActualizadoEn); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if s.Variantes, err = r.variantes(s.ProductoID, ubicacion); err != nil {
			return nil, err
		}
	}
	return list, nil
}
