package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/almacen-pro/internal/domain/ledger"
)

// SolicitudCorreccion fija la cantidad registrada de un producto en una
// ubicación al valor deseado. Es la contraparte explícita de "detectar" en la
// reconciliación: el motor nunca autocorrige.
type SolicitudCorreccion struct {
	ProductoID string
	Ubicacion  entity.Ubicacion
	// Cantidad deseada para productos sin variantes.
	Cantidad int
	// Desglose deseado (completo) para productos con variantes.
	Desglose entity.Desglose
}

// CorregirStock fija el stock registrado al valor deseado y asienta el delta
// como movimiento (ENTREGA por el faltante, BAJA por el sobrante), de modo que
// la corrección queda en la historia auditable en vez de ser una sobreescritura
// sin rastro. Es la única ruta que tolera un registro con la invariante
// escalar/variantes ya corrompida, porque existe para remediarla.
func (e *Executor) CorregirStock(ctx context.Context, sol SolicitudCorreccion) error {
	if !sol.Ubicacion.Valida() || sol.Ubicacion.Tipo == entity.UbicacionBodega {
		return domain.ErrEntradaInvalida
	}
	txID := uuid.New().String()
	ahora := time.Now()

	return e.txRunner.Run(ctx, func(r Repos) error {
		producto, err := r.Productos.GetByID(sol.ProductoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrProductoNoEncontrado
		}
		if producto.TieneVariantes {
			if len(sol.Desglose) == 0 {
				return domain.ErrEntradaInvalida
			}
			for _, vc := range sol.Desglose {
				if vc.Cantidad < 0 || domledger.EsVariantePlaceholder(vc.Nombre) {
					return domain.ErrEntradaInvalida
				}
				if !producto.TieneVariante(vc.Nombre) {
					return domain.ErrVarianteNoEncontrada
				}
			}
		} else {
			if len(sol.Desglose) > 0 || sol.Cantidad < 0 {
				return domain.ErrEntradaInvalida
			}
		}

		stock, err := r.Stock.GetForUpdate(sol.ProductoID, sol.Ubicacion)
		if err != nil {
			return err
		}

		var faltante, sobrante entity.Desglose
		var delta int
		if producto.TieneVariantes {
			for _, vc := range sol.Desglose {
				diff := vc.Cantidad - stock.VarianteCantidad(vc.Nombre)
				switch {
				case diff > 0:
					faltante = append(faltante, entity.VarianteCantidad{Nombre: vc.Nombre, Cantidad: diff})
				case diff < 0:
					sobrante = append(sobrante, entity.VarianteCantidad{Nombre: vc.Nombre, Cantidad: -diff})
				}
				stock.AjustarVariante(vc.Nombre, diff)
			}
			// Si el escalar venía corrompido (distinto de la suma de variantes
			// válidas), recalcularlo también cuenta como corrección y se asienta.
			delta = domledger.SumaValida(stock.Variantes) - stock.Cantidad - faltante.Total() + sobrante.Total()
			stock.Cantidad = domledger.SumaValida(stock.Variantes)
		} else {
			delta = sol.Cantidad - stock.Cantidad
			stock.Cantidad = sol.Cantidad
		}
		if len(faltante) == 0 && len(sobrante) == 0 && delta == 0 {
			return nil // ya estaba en el valor deseado, nada que asentar
		}
		stock.ActualizadoEn = ahora
		if err := r.Stock.Upsert(stock); err != nil {
			return err
		}

		bodega := entity.Bodega()
		destino := sol.Ubicacion
		// El asiento debe cubrir el cambio escalar completo: lo aportado por
		// variantes más la reparación del escalar corrompido, no el mayor de
		// los dos.
		if len(faltante) > 0 || delta > 0 {
			mov := &entity.Movimiento{
				TransaccionID:  txID,
				Tipo:           entity.MovEntrega,
				ProductoID:     sol.ProductoID,
				Cantidad:       faltante.Total() + max(delta, 0),
				Desglose:       faltante,
				Origen:         bodega,
				Destino:        &destino,
				PrecioUnitario: producto.PrecioVenta,
				Referencia:     "ajuste",
				Fecha:          ahora,
				CreadoEn:       ahora,
			}
			if err := r.Movimientos.Create(mov); err != nil {
				return err
			}
		}
		if len(sobrante) > 0 || delta < 0 {
			mov := &entity.Movimiento{
				TransaccionID:  txID,
				Tipo:           entity.MovBaja,
				ProductoID:     sol.ProductoID,
				Cantidad:       sobrante.Total() + max(-delta, 0),
				Desglose:       sobrante,
				Origen:         sol.Ubicacion,
				Destino:        &bodega,
				PrecioUnitario: producto.PrecioVenta,
				Referencia:     "ajuste",
				Fecha:          ahora,
				CreadoEn:       ahora,
			}
			if err := r.Movimientos.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})
}
