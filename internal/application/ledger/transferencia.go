package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// SolicitudTransferencia es la entrada para Transferir: mover stock entre las
// cuentas de dos vendedores.
type SolicitudTransferencia struct {
	ProductoID   string
	DeVendedorID string
	AVendedorID  string
	Cantidad     int
	Desglose     entity.Desglose
	Fecha        time.Time
}

// Transferir compone el débito al origen y el crédito al destino en una sola
// transacción. Asienta un par enlazado BAJA+ENTREGA que comparte TransaccionID
// (en vez de una fila "transferencia" sin tipar), para que la reconciliación
// pueda atribuir débito y crédito al vendedor correcto por separado. Si el
// crédito falla, el rollback deshace el débito: nada queda "en vuelo".
func (e *Executor) Transferir(ctx context.Context, sol SolicitudTransferencia) error {
	if sol.DeVendedorID == "" || sol.AVendedorID == "" || sol.DeVendedorID == sol.AVendedorID {
		return domain.ErrEntradaInvalida
	}

	// La validación de producto/desglose es la misma de una baja del origen.
	baja := SolicitudMovimiento{
		Tipo:       entity.MovBaja,
		ProductoID: sol.ProductoID,
		Cantidad:   sol.Cantidad,
		Desglose:   sol.Desglose,
		Origen:     entity.Vendedor(sol.DeVendedorID),
		Fecha:      sol.Fecha,
	}
	origen := entity.Vendedor(sol.DeVendedorID)
	destino := entity.Vendedor(sol.AVendedorID)
	bodega := entity.Bodega()
	txID := uuid.New().String()
	ahora := time.Now()

	return e.txRunner.Run(ctx, func(r Repos) error {
		producto, err := e.validar(r.Productos, &baja)
		if err != nil {
			return err
		}
		if err := debitar(r.Stock, producto, origen, baja.Cantidad, baja.Desglose); err != nil {
			return err
		}
		if err := acreditar(r.Stock, producto, destino, baja.Cantidad, baja.Desglose); err != nil {
			return err
		}
		// Tramo de salida: baja del vendedor origen hacia bodega.
		salida := &entity.Movimiento{
			TransaccionID:  txID,
			Tipo:           entity.MovBaja,
			ProductoID:     sol.ProductoID,
			Cantidad:       baja.Cantidad,
			Desglose:       baja.Desglose,
			Origen:         origen,
			Destino:        &bodega,
			PrecioUnitario: baja.PrecioUnitario,
			Referencia:     "transferencia:" + sol.AVendedorID,
			Fecha:          baja.Fecha,
			CreadoEn:       ahora,
		}
		if err := r.Movimientos.Create(salida); err != nil {
			return err
		}
		// Tramo de entrada: entrega de bodega hacia el vendedor destino.
		entrada := &entity.Movimiento{
			TransaccionID:  txID,
			Tipo:           entity.MovEntrega,
			ProductoID:     sol.ProductoID,
			Cantidad:       baja.Cantidad,
			Desglose:       baja.Desglose,
			Origen:         bodega,
			Destino:        &destino,
			PrecioUnitario: baja.PrecioUnitario,
			Referencia:     "transferencia:" + sol.DeVendedorID,
			Fecha:          baja.Fecha,
			CreadoEn:       ahora,
		}
		return r.Movimientos.Create(entrada)
	})
}
