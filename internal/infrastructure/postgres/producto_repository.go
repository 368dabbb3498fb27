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

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación de ProductoRepository sobre PostgreSQL (usable
// con pool o tx). Solo metadatos y definiciones de variantes; las cantidades
// viven en stock/stock_variantes y las escribe el ejecutor.
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

// Create persiste el producto y sus definiciones de variantes.
func (r *ProductoRepo) Create(p *entity.Producto) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO productos (id, nombre, nombre_normalizado, precio_venta, precio_compra, porc_ganancia, tiene_variantes, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Nombre, Normalizar(p.Nombre), p.PrecioVenta, p.PrecioCompra, p.PorcGanancia, p.TieneVariantes, p.CreadoEn, p.ActualizadoEn)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create producto: %w", err)
	}
	return r.reemplazarVariantes(ctx, p.ID, p.Variantes)
}

func (r *ProductoRepo) reemplazarVariantes(ctx context.Context, productoID string, nombres []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM producto_variantes WHERE producto_id = $1`, productoID); err != nil {
		return fmt.Errorf("limpiar variantes: %w", err)
	}
	for _, nombre := range nombres {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO producto_variantes (producto_id, nombre) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, productoID, nombre); err != nil {
			return fmt.Errorf("insertar variante %q: %w", nombre, err)
		}
	}
	return nil
}

// GetByID obtiene un producto con sus definiciones de variantes. Nil si no existe.
func (r *ProductoRepo) GetByID(id string) (*entity.Producto, error) {
	var p entity.Producto
	err := r.q.QueryRow(context.Background(), `
		SELECT id, nombre, precio_venta, precio_compra, porc_ganancia, tiene_variantes, creado_en, actualizado_en
		FROM productos WHERE id = $1`, id).Scan(
		&p.ID, &p.Nombre, &p.PrecioVenta, &p.PrecioCompra, &p.PorcGanancia, &p.TieneVariantes, &p.CreadoEn, &p.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	if p.Variantes, err = r.variantes(p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductoRepo) variantes(productoID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT nombre FROM producto_variantes WHERE producto_id = $1 ORDER BY nombre`, productoID)
	if err != nil {
		return nil, fmt.Errorf("get variantes: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var nombre string
		if err := rows.Scan(&nombre); err != nil {
			return nil, fmt.Errorf("scan variante: %w", err)
		}
		out = append(out, nombre)
	}
	return out, rows.Err()
}

// List busca productos por nombre, insensible a acentos y mayúsculas
// (columna persistida nombre_normalizado; ver normalizar.go).
func (r *ProductoRepo) List(busqueda string, limit, offset int) ([]*entity.Producto, error) {
	query := `
		SELECT id, nombre, precio_venta, precio_compra, porc_ganancia, tiene_variantes, creado_en, actualizado_en
		FROM productos`
	args := []any{}
	if busqueda != "" {
		query += ` WHERE nombre_normalizado LIKE '%' || $1 || '%'`
		args = append(args, Normalizar(busqueda))
	}
	query += fmt.Sprintf(" ORDER BY nombre LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		var p entity.Producto
		if err := rows.Scan(&p.ID, &p.Nombre, &p.PrecioVenta, &p.PrecioCompra, &p.PorcGanancia,
			&p.TieneVariantes, &p.CreadoEn, &p.ActualizadoEn); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Variantes, err = r.variantes(p.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateMetadata actualiza nombre, precios y definiciones de variantes.
// Deliberadamente no hay columna de cantidad que tocar aquí.
func (r *ProductoRepo) UpdateMetadata(p *entity.Producto) error {
	ctx := context.Background()
	tag, err := r.q.Exec(ctx, `
		UPDATE productos
		SET nombre = $2, nombre_normalizado = $3, precio_venta = $4, precio_compra = $5, porc_ganancia = $6, actualizado_en = $7
		WHERE id = $1`,
		p.ID, p.Nombre, Normalizar(p.Nombre), p.PrecioVenta, p.PrecioCompra, p.PorcGanancia, p.ActualizadoEn)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductoNoEncontrado
	}
	return r.reemplazarVariantes(ctx, p.ID, p.Variantes)
}

// Delete elimina el producto y sus definiciones de variantes.
func (r *ProductoRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM producto_variantes WHERE producto_id = $1`, id); err != nil {
		return fmt.Errorf("delete variantes: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductoNoEncontrado
	}
	return nil
}
