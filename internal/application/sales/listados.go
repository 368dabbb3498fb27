package sales

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// ListarVentas lista las ventas de un vendedor en un rango de fechas.
func (uc *UseCase) ListarVentas(vendedorID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Venta, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.ventaRepo.ListByVendedor(vendedorID, desde, hasta, limit, offset)
}

// ObtenerVenta busca una venta por id.
func (uc *UseCase) ObtenerVenta(ventaID string) (*entity.Venta, error) {
	venta, err := uc.ventaRepo.GetByID(ventaID)
	if err != nil {
		return nil, err
	}
	if venta == nil {
		return nil, domain.ErrVentaNoEncontrada
	}
	return venta, nil
}

// ListarMermas lista mermas en un rango de fechas, agrupadas por producto.
func (uc *UseCase) ListarMermas(desde, hasta *time.Time, limit, offset int) ([]*entity.Merma, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.mermaRepo.List(desde, hasta, limit, offset)
}

// ListarMermasPorProducto lista las mermas de un producto.
func (uc *UseCase) ListarMermasPorProducto(productoID string) ([]*entity.Merma, error) {
	return uc.mermaRepo.ListByProducto(productoID)
}
