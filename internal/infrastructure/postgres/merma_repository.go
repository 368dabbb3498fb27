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

var _ repository.MermaRepository = (*MermaRepo)(nil)

// MermaRepo implementación de MermaRepository sobre PostgreSQL (usable con
// pool o tx).
type MermaRepo struct {
	q Querier
}

// NewMermaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMermaRepository(q Querier) *MermaRepo {
	return &MermaRepo{q: q}
}

// Create persiste una merma.
func (r *MermaRepo) Create(m *entity.Merma) error {
	var desglose any
	if len(m.Desglose) > 0 {
		b, err := json.Marshal(m.Desglose)
		if err != nil {
			return fmt.Errorf("marshal desglose: %w", err)
		}
		desglose = b
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO mermas (id, producto_id, vendedor_id, cantidad, desglose, fecha)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ProductoID, m.VendedorID, m.Cantidad, desglose, m.Fecha)
	if err != nil {
		return fmt.Errorf("create merma: %w", err)
	}
	return nil
}

const mermaCols = `id, producto_id, vendedor_id, cantidad, desglose, fecha`

// GetByID obtiene una merma por ID. Nil si no existe.
func (r *MermaRepo) GetByID(id string) (*entity.Merma, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+mermaCols+` FROM mermas WHERE id = $1`, id)
	m, err := scanMerma(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merma: %w", err)
	}
	return m, nil
}

// Delete elimina una merma (solo desde la ruta de reversión).
func (r *MermaRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM mermas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete merma: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProducto lista las mermas de un producto (para la vista agrupada).
func (r *MermaRepo) ListByProducto(productoID string) ([]*entity.Merma, error) {
	return r.list(`SELECT `+mermaCols+` FROM mermas WHERE producto_id = $1 ORDER BY fecha DESC`,
		[]any{productoID})
}

// List lista mermas en un rango de fechas.
func (r *MermaRepo) List(desde, hasta *time.Time, limit, offset int) ([]*entity.Merma, error) {
	query := `SELECT ` + mermaCols + ` FROM mermas WHERE true`
	args := []any{}
	if desde != nil {
		args = append(args, *desde)
		query += fmt.Sprintf(" AND fecha >= $%d", len(args))
	}
	if hasta != nil {
		args = append(args, *hasta)
		query += fmt.Sprintf(" AND fecha <= $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY producto_id, fecha DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(query, args)
}

func (r *MermaRepo) list(query string, args []any) ([]*entity.Merma, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mermas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Merma
	for rows.Next() {
		m, err := scanMerma(rows)
		if err != nil {
			return nil, fmt.Errorf("scan merma: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMerma(row pgx.Row) (*entity.Merma, error) {
	var m entity.Merma
	var desglose []byte
	if err := row.Scan(&m.ID, &m.ProductoID, &m.VendedorID, &m.Cantidad, &desglose, &m.Fecha); err != nil {
		return nil, err
	}
	if len(desglose) > 0 {
		if err := json.Unmarshal(desglose, &m.Desglose); err != nil {
			return nil, fmt.Errorf("unmarshal desglose: %w", err)
		}
	}
	return &m, nil
}
