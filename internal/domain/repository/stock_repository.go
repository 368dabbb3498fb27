package repository

import "github.com/tu-usuario/almacen-pro/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// producto+ubicación. Dentro de transacciones garantiza consistencia con
// bloqueo de fila.
type StockRepository interface {
	Get(productoID string, ubicacion entity.Ubicacion) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). La espera
	// por el lock puede fallar con domain.ErrOcupado si la BD impone timeout.
	GetForUpdate(productoID string, ubicacion entity.Ubicacion) (*entity.Stock, error)
	// Upsert persiste escalar y variantes del stock como una unidad.
	Upsert(stock *entity.Stock) error
	// ListByUbicacion devuelve el snapshot de stock de una ubicación.
	ListByUbicacion(ubicacion entity.Ubicacion) ([]*entity.Stock, error)
}
