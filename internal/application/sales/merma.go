package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// SolicitudMerma entrada para CrearMerma. VendedorID vacío descuenta del pool
// compartido (Cafetería); "cocina" descuenta del área de producción (gasto).
type SolicitudMerma struct {
	ProductoID string
	VendedorID string
	Cantidad   int
	Desglose   entity.Desglose
	Fecha      time.Time
}

// CrearMerma asienta un desperdicio: debita el stock del origen (movimiento
// MERMA, sumidero terminal) y persiste el registro, en una transacción.
func (uc *UseCase) CrearMerma(ctx context.Context, sol SolicitudMerma) (*entity.Merma, error) {
	fecha := sol.Fecha
	if fecha.IsZero() {
		fecha = time.Now()
	}
	merma := &entity.Merma{
		ID:         uuid.New().String(),
		ProductoID: sol.ProductoID,
		VendedorID: sol.VendedorID,
		Cantidad:   sol.Cantidad,
		Desglose:   sol.Desglose,
		Fecha:      fecha,
	}
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		mov, err := uc.executor.AplicarEnTx(r, ledger.SolicitudMovimiento{
			Tipo:       entity.MovMerma,
			ProductoID: sol.ProductoID,
			Cantidad:   sol.Cantidad,
			Desglose:   sol.Desglose,
			Origen:     merma.Origen(),
			Referencia: "merma:" + merma.ID,
			Fecha:      fecha,
		})
		if err != nil {
			return err
		}
		merma.Cantidad = mov.Cantidad
		return r.Mermas.Create(merma)
	})
	if err != nil {
		return nil, err
	}
	return merma, nil
}

// EliminarMerma revierte una merma individual: acredita de vuelta el stock al
// origen y elimina el registro. Igual que las ventas, si el producto ya no
// existe falla con ErrProductoNoEncontrado.
func (uc *UseCase) EliminarMerma(ctx context.Context, mermaID string) error {
	return uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		merma, err := r.Mermas.GetByID(mermaID)
		if err != nil {
			return err
		}
		if merma == nil {
			return domain.ErrNotFound
		}
		origen := merma.Origen()
		_, err = uc.executor.AplicarEnTx(r, ledger.SolicitudMovimiento{
			Tipo:       entity.MovEntrega,
			ProductoID: merma.ProductoID,
			Cantidad:   merma.Cantidad,
			Desglose:   merma.Desglose,
			Destino:    &origen,
			Referencia: "reversa_merma:" + merma.ID,
		})
		if err != nil {
			return err
		}
		return r.Mermas.Delete(mermaID)
	})
}
