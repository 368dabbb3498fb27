package repository

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// AgregadosMovimiento son las sumas por tipo de movimiento que alimentan la
// reconciliación: entregas hacia la ubicación, y bajas/ventas/mermas desde ella.
// Las claves de los mapas por variante son nombres de variante.
type AgregadosMovimiento struct {
	Entregas            int
	Bajas               int
	EntregasPorVariante map[string]int
	BajasPorVariante    map[string]int
}

// MovimientoRepository define el puerto de persistencia del registro de
// movimientos. El registro es append-only: no hay Update ni Delete.
type MovimientoRepository interface {
	Create(mov *entity.Movimiento) error
	GetByID(id int64) (*entity.Movimiento, error)
	ListByProducto(productoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error)
	ListByUbicacion(ubicacion entity.Ubicacion, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error)
	// Agregados suma los movimientos que afectan una ubicación para un
	// producto: entregas con destino en ella, y bajas/mermas con origen en
	// ella. Las ventas se agregan aparte desde el libro de ventas.
	Agregados(productoID string, ubicacion entity.Ubicacion) (*AgregadosMovimiento, error)
	// ProductosConMovimientos lista los IDs de producto que registran algún
	// movimiento hacia o desde la ubicación.
	ProductosConMovimientos(ubicacion entity.Ubicacion) ([]string, error)
}
