// Package sales implementa el libro de ventas por vendedor: vender, revertir
// y editar. Toda mutación de stock pasa por el ejecutor de movimientos dentro
// de la misma transacción que el registro de venta.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// UseCase casos de uso del libro de ventas y mermas. Las escrituras corren
// dentro del TxRunner; ventaRepo y mermaRepo se usan directo solo para las
// consultas de lectura.
type UseCase struct {
	txRunner     ledger.TxRunner
	executor     *ledger.Executor
	productoRepo repository.ProductoRepository
	ventaRepo    repository.VentaRepository
	mermaRepo    repository.MermaRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ledger.TxRunner,
	executor *ledger.Executor,
	productoRepo repository.ProductoRepository,
	ventaRepo repository.VentaRepository,
	mermaRepo repository.MermaRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		executor:     executor,
		productoRepo: productoRepo,
		ventaRepo:    ventaRepo,
		mermaRepo:    mermaRepo,
	}
}

// SolicitudVenta entrada para Vender.
type SolicitudVenta struct {
	ProductoID     string
	VendedorID     string
	Cantidad       int
	Desglose       entity.Desglose
	PrecioUnitario decimal.Decimal // cero = precio de venta del producto
	FechaVenta     time.Time       // fecha de negocio; cero = hoy
}

// Vender debita el stock del vendedor (movimiento VENTA, sumidero terminal) y
// persiste la venta con el mismo desglose y la foto del porcentaje de ganancia
// del producto, todo en una transacción. Si no hay stock suficiente no se crea
// ninguna venta.
func (uc *UseCase) Vender(ctx context.Context, sol SolicitudVenta) (*entity.Venta, error) {
	if sol.VendedorID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	producto, err := uc.productoRepo.GetByID(sol.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrProductoNoEncontrado
	}

	precio := sol.PrecioUnitario
	if precio.IsZero() {
		precio = producto.PrecioVenta
	}
	fecha := sol.FechaVenta
	if fecha.IsZero() {
		fecha = time.Now()
	}

	venta := &entity.Venta{
		ID:             uuid.New().String(),
		ProductoID:     sol.ProductoID,
		VendedorID:     sol.VendedorID,
		Cantidad:       sol.Cantidad,
		Desglose:       sol.Desglose,
		PrecioUnitario: precio,
		PorcGanancia:   producto.PorcGanancia,
		FechaVenta:     fecha,
		CreadoEn:       time.Now(),
	}

	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		mov, err := uc.executor.AplicarEnTx(r, ledger.SolicitudMovimiento{
			Tipo:           entity.MovVenta,
			ProductoID:     sol.ProductoID,
			Cantidad:       sol.Cantidad,
			Desglose:       sol.Desglose,
			Origen:         entity.Vendedor(sol.VendedorID),
			PrecioUnitario: precio,
			Referencia:     "venta:" + venta.ID,
			Fecha:          fecha,
		})
		if err != nil {
			return err
		}
		// El ejecutor normaliza cantidad desde el desglose.
		venta.Cantidad = mov.Cantidad
		venta.Total = precio.Mul(decimal.NewFromInt(int64(mov.Cantidad)))
		return r.Ventas.Create(venta)
	})
	if err != nil {
		return nil, err
	}
	return venta, nil
}

// RevertirVenta acredita de vuelta al vendedor exactamente la cantidad y el
// desglose originales (crédito tipo ENTREGA, no una venta nueva) y elimina el
// registro de venta. Si el producto fue borrado entretanto falla con
// ErrProductoNoEncontrado: la remediación es manual, nunca un no-op silencioso.
func (uc *UseCase) RevertirVenta(ctx context.Context, ventaID string) error {
	return uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		return uc.revertirEnTx(r, ventaID)
	})
}

// revertirEnTx es la reversión dentro de una transacción ya abierta; la
// comparte EditarVenta para que editar sea revertir-y-revender atómico.
func (uc *UseCase) revertirEnTx(r ledger.Repos, ventaID string) error {
	venta, err := r.Ventas.GetByID(ventaID)
	if err != nil {
		return err
	}
	if venta == nil {
		return domain.ErrVentaNoEncontrada
	}
	_, err = uc.executor.AplicarEnTx(r, ledger.SolicitudMovimiento{
		Tipo:           entity.MovEntrega,
		ProductoID:     venta.ProductoID,
		Cantidad:       venta.Cantidad,
		Desglose:       venta.Desglose,
		Destino:        ubicacionPtr(entity.Vendedor(venta.VendedorID)),
		PrecioUnitario: venta.PrecioUnitario,
		Referencia:     "reversa_venta:" + venta.ID,
	})
	if err != nil {
		return err
	}
	return r.Ventas.Delete(ventaID)
}

// EditarVenta implementa editar como revertir-y-revender en una sola
// transacción: el crédito y el débito pasan por la misma ruta validada, así
// una edición no puede crear deriva silenciosa de stock.
func (uc *UseCase) EditarVenta(ctx context.Context, ventaID string, sol SolicitudVenta) (*entity.Venta, error) {
	producto, err := uc.productoRepo.GetByID(sol.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrProductoNoEncontrado
	}
	precio := sol.PrecioUnitario
	if precio.IsZero() {
		precio = producto.PrecioVenta
	}
	fecha := sol.FechaVenta
	if fecha.IsZero() {
		fecha = time.Now()
	}

	nueva := &entity.Venta{
		ID:             ventaID, // sustituye a la original bajo el mismo id
		ProductoID:     sol.ProductoID,
		VendedorID:     sol.VendedorID,
		Cantidad:       sol.Cantidad,
		Desglose:       sol.Desglose,
		PrecioUnitario: precio,
		PorcGanancia:   producto.PorcGanancia,
		FechaVenta:     fecha,
		CreadoEn:       time.Now(),
	}

	err = uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		if err := uc.revertirEnTx(r, ventaID); err != nil {
			return err
		}
		mov, err := uc.executor.AplicarEnTx(r, ledger.SolicitudMovimiento{
			Tipo:           entity.MovVenta,
			ProductoID:     sol.ProductoID,
			Cantidad:       sol.Cantidad,
			Desglose:       sol.Desglose,
			Origen:         entity.Vendedor(sol.VendedorID),
			PrecioUnitario: precio,
			Referencia:     "venta:" + ventaID,
			Fecha:          fecha,
		})
		if err != nil {
			return err
		}
		nueva.Cantidad = mov.Cantidad
		nueva.Total = precio.Mul(decimal.NewFromInt(int64(mov.Cantidad)))
		return r.Ventas.Create(nueva)
	})
	if err != nil {
		return nil, err
	}
	return nueva, nil
}

func ubicacionPtr(u entity.Ubicacion) *entity.Ubicacion { return &u }
