package usecase

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/almacen-pro/internal/domain/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// StockUseCase consultas de solo lectura: snapshot de stock por ubicación e
// historial de movimientos. No muta nada; toda escritura pasa por el ejecutor.
type StockUseCase struct {
	stockRepo    repository.StockRepository
	movRepo      repository.MovimientoRepository
	productoRepo repository.ProductoRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	stockRepo repository.StockRepository,
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo, movRepo: movRepo, productoRepo: productoRepo}
}

// ListarStock devuelve el snapshot de stock de una ubicación para mostrar.
// Las variantes placeholder (nombres en blanco o numéricos) se omiten de la
// respuesta, igual que se omiten de los cálculos.
func (uc *StockUseCase) ListarStock(clave string) ([]*dto.StockResponse, error) {
	ubicacion, err := entity.ParseUbicacion(clave)
	if err != nil {
		return nil, domain.ErrEntradaInvalida
	}
	stocks, err := uc.stockRepo.ListByUbicacion(ubicacion)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		resp := &dto.StockResponse{
			ProductoID: s.ProductoID,
			Ubicacion:  s.Ubicacion.Clave(),
			Cantidad:   s.Cantidad,
		}
		if p, err := uc.productoRepo.GetByID(s.ProductoID); err == nil && p != nil {
			resp.Nombre = p.Nombre
		}
		for _, v := range s.Variantes {
			if domledger.EsVariantePlaceholder(v.Nombre) {
				continue
			}
			resp.Variantes = append(resp.Variantes, dto.VarianteStockDTO{Nombre: v.Nombre, Cantidad: v.Cantidad})
		}
		out = append(out, resp)
	}
	return out, nil
}

// HistorialPorProducto lista los movimientos de un producto en un rango de fechas.
func (uc *StockUseCase) HistorialPorProducto(productoID string, desde, hasta *time.Time, limit, offset int) ([]*dto.MovimientoResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	movs, err := uc.movRepo.ListByProducto(productoID, desde, hasta, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovimientoResponses(movs), nil
}

// HistorialPorUbicacion lista los movimientos que tocan una ubicación.
func (uc *StockUseCase) HistorialPorUbicacion(clave string, desde, hasta *time.Time, limit, offset int) ([]*dto.MovimientoResponse, error) {
	ubicacion, err := entity.ParseUbicacion(clave)
	if err != nil {
		return nil, domain.ErrEntradaInvalida
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	movs, err := uc.movRepo.ListByUbicacion(ubicacion, desde, hasta, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovimientoResponses(movs), nil
}

func toMovimientoResponses(movs []*entity.Movimiento) []*dto.MovimientoResponse {
	out := make([]*dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		resp := &dto.MovimientoResponse{
			ID:             m.ID,
			TransaccionID:  m.TransaccionID,
			Tipo:           m.Tipo,
			ProductoID:     m.ProductoID,
			Cantidad:       m.Cantidad,
			Origen:         m.Origen.Clave(),
			PrecioUnitario: m.PrecioUnitario,
			Referencia:     m.Referencia,
			Fecha:          m.Fecha,
		}
		if m.Destino != nil {
			resp.Destino = m.Destino.Clave()
		}
		for _, vc := range m.Desglose {
			resp.Desglose = append(resp.Desglose, dto.VarianteCantidadDTO{Nombre: vc.Nombre, Cantidad: vc.Cantidad})
		}
		out = append(out, resp)
	}
	return out
}
