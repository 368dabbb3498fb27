package repository

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// AgregadosVenta son las sumas de cantidades vendidas por un vendedor para un
// producto, total y por variante.
type AgregadosVenta struct {
	Ventas            int
	VentasPorVariante map[string]int
}

// VentaRepository define el puerto del libro de ventas por vendedor.
type VentaRepository interface {
	Create(venta *entity.Venta) error
	GetByID(id string) (*entity.Venta, error)
	// Delete elimina el registro de venta. Solo lo invoca la ruta de
	// reversión, después de acreditar el stock.
	Delete(id string) error
	ListByVendedor(vendedorID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Venta, error)
	// Agregados suma las ventas de un vendedor para un producto.
	Agregados(productoID, vendedorID string) (*AgregadosVenta, error)
}
