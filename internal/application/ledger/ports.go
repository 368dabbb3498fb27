package ledger

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Movimientos repository.MovimientoRepository
	Stock       repository.StockRepository
	Productos   repository.ProductoRepository
	Ventas      repository.VentaRepository
	Mermas      repository.MermaRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// o se aplica todo (stock + registro de movimientos + libros) o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
	// RunReadOnly ejecuta fn dentro de una transacción de solo lectura con
	// snapshot consistente (REPEATABLE READ). Usada por la reconciliación para
	// no reportar falsos positivos por movimientos que comprometen a mitad
	// del escaneo.
	RunReadOnly(ctx context.Context, fn func(r Repos) error) error
}
