package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/almacen-pro/internal/domain/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// Executor es el único componente autorizado a mutar registros de stock.
// Valida el movimiento solicitado contra el stock actual (con bloqueo de
// fila), aplica el delta y asienta exactamente una entrada en el registro de
// movimientos, todo como una unidad atómica (ENTREGA/BAJA/VENTA/MERMA; las
// transferencias asientan un par enlazado, ver transferencia.go).
type Executor struct {
	txRunner TxRunner
}

// NewExecutor construye el ejecutor de movimientos.
func NewExecutor(txRunner TxRunner) *Executor {
	return &Executor{txRunner: txRunner}
}

// SolicitudMovimiento es la entrada para Aplicar.
// Para productos sin variantes: Cantidad. Para productos con variantes el
// Desglose es obligatorio, para que los libros por variante no se desvíen.
type SolicitudMovimiento struct {
	Tipo           string
	ProductoID     string
	Cantidad       int
	Desglose       entity.Desglose
	Origen         entity.Ubicacion
	Destino        *entity.Ubicacion
	PrecioUnitario decimal.Decimal // cero = usar el precio de venta del producto
	Referencia     string
	Fecha          time.Time // cero = ahora
}

// Aplicar valida y aplica un movimiento dentro de una transacción propia.
// Todo o nada: sin escrituras parciales de stock ni entradas huérfanas en el
// registro.
func (e *Executor) Aplicar(ctx context.Context, sol SolicitudMovimiento) (*entity.Movimiento, error) {
	var mov *entity.Movimiento
	err := e.txRunner.Run(ctx, func(r Repos) error {
		var err error
		mov, err = e.AplicarEnTx(r, sol)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// AplicarEnTx aplica un movimiento usando los repositorios de una transacción
// que ya abrió el caller (libro de ventas, mermas, transferencias). Valida
// contra el producto leído dentro de esa misma transacción: un producto
// eliminado entre la solicitud y el asiento no deja movimiento.
func (e *Executor) AplicarEnTx(r Repos, sol SolicitudMovimiento) (*entity.Movimiento, error) {
	producto, err := e.validar(r.Productos, &sol)
	if err != nil {
		return nil, err
	}
	return e.aplicarEnTx(r, producto, sol)
}

// validar revisa la solicitud contra las definiciones del producto y normaliza
// cantidad, precio y fecha. No toca stock.
func (e *Executor) validar(productos repository.ProductoRepository, sol *SolicitudMovimiento) (*entity.Producto, error) {
	switch sol.Tipo {
	case entity.MovEntrega:
		// Una entrega siempre credita desde bodega hacia una ubicación.
		if sol.Destino == nil || !sol.Destino.Valida() || sol.Destino.Tipo == entity.UbicacionBodega {
			return nil, domain.ErrEntradaInvalida
		}
		sol.Origen = entity.Bodega()
	case entity.MovBaja:
		// Una baja devuelve stock de una ubicación hacia bodega.
		if !sol.Origen.Valida() || sol.Origen.Tipo == entity.UbicacionBodega {
			return nil, domain.ErrEntradaInvalida
		}
		destino := entity.Bodega()
		sol.Destino = &destino
	case entity.MovVenta, entity.MovMerma:
		// Sumideros terminales: debitan el origen, sin destino.
		if !sol.Origen.Valida() || sol.Origen.Tipo == entity.UbicacionBodega {
			return nil, domain.ErrEntradaInvalida
		}
		sol.Destino = nil
	case entity.MovTransferencia:
		// Las transferencias se componen en Transferir como par BAJA+ENTREGA
		// enlazado; no se aplican como entrada única.
		return nil, domain.ErrEntradaInvalida
	default:
		return nil, domain.ErrEntradaInvalida
	}

	producto, err := productos.GetByID(sol.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrProductoNoEncontrado
	}

	if producto.TieneVariantes {
		// El desglose es obligatorio: una solicitud solo-escalar dejaría los
		// libros por variante desactualizados.
		if len(sol.Desglose) == 0 {
			return nil, domain.ErrEntradaInvalida
		}
		vistos := make(map[string]bool, len(sol.Desglose))
		for _, vc := range sol.Desglose {
			if vc.Cantidad <= 0 || domledger.EsVariantePlaceholder(vc.Nombre) || vistos[vc.Nombre] {
				return nil, domain.ErrEntradaInvalida
			}
			if !producto.TieneVariante(vc.Nombre) {
				return nil, domain.ErrVarianteNoEncontrada
			}
			vistos[vc.Nombre] = true
		}
		sol.Cantidad = sol.Desglose.Total()
	} else {
		if len(sol.Desglose) > 0 {
			return nil, domain.ErrEntradaInvalida
		}
		if sol.Cantidad <= 0 {
			return nil, domain.ErrEntradaInvalida
		}
	}

	if sol.PrecioUnitario.IsZero() {
		sol.PrecioUnitario = producto.PrecioVenta
	}
	if sol.Fecha.IsZero() {
		sol.Fecha = time.Now()
	}
	return producto, nil
}

// aplicarEnTx ejecuta debitar/acreditar y asienta la entrada del registro.
// La bodega es la fuente/sumidero autoritativa: no lleva registro de stock
// propio, solo figura como origen o destino en el asiento.
func (e *Executor) aplicarEnTx(r Repos, producto *entity.Producto, sol SolicitudMovimiento) (*entity.Movimiento, error) {
	if sol.Origen.Tipo != entity.UbicacionBodega {
		if err := debitar(r.Stock, producto, sol.Origen, sol.Cantidad, sol.Desglose); err != nil {
			return nil, err
		}
	}
	if sol.Destino != nil && sol.Destino.Tipo != entity.UbicacionBodega {
		if err := acreditar(r.Stock, producto, *sol.Destino, sol.Cantidad, sol.Desglose); err != nil {
			return nil, err
		}
	}

	mov := &entity.Movimiento{
		TransaccionID:  uuid.New().String(),
		Tipo:           sol.Tipo,
		ProductoID:     sol.ProductoID,
		Cantidad:       sol.Cantidad,
		Desglose:       sol.Desglose,
		Origen:         sol.Origen,
		Destino:        sol.Destino,
		PrecioUnitario: sol.PrecioUnitario,
		Referencia:     sol.Referencia,
		Fecha:          sol.Fecha,
		CreadoEn:       time.Now(),
	}
	if err := r.Movimientos.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// debitar bloquea la fila de stock del origen, verifica suficiencia (por
// variante, no solo en agregado: totales agregados pueden esconder un
// sobregiro de una variante compensado por stock de otra) y resta.
func debitar(stockRepo repository.StockRepository, producto *entity.Producto, ub entity.Ubicacion, cantidad int, desglose entity.Desglose) error {
	stock, err := stockRepo.GetForUpdate(producto.ID, ub)
	if err != nil {
		return err
	}
	if err := verificarInvariante(producto, stock); err != nil {
		return err
	}
	if producto.TieneVariantes {
		for _, vc := range desglose {
			disponible := stock.VarianteCantidad(vc.Nombre)
			if disponible < vc.Cantidad {
				return &domain.StockInsuficienteError{
					ProductoID: producto.ID,
					Variante:   vc.Nombre,
					Solicitado: vc.Cantidad,
					Disponible: disponible,
				}
			}
		}
		for _, vc := range desglose {
			stock.AjustarVariante(vc.Nombre, -vc.Cantidad)
		}
		stock.Cantidad = domledger.SumaValida(stock.Variantes)
	} else {
		if stock.Cantidad < cantidad {
			return &domain.StockInsuficienteError{
				ProductoID: producto.ID,
				Solicitado: cantidad,
				Disponible: stock.Cantidad,
			}
		}
		stock.Cantidad -= cantidad
	}
	stock.ActualizadoEn = time.Now()
	return stockRepo.Upsert(stock)
}

// acreditar bloquea la fila de stock del destino y suma, recalculando el
// escalar para productos con variantes.
func acreditar(stockRepo repository.StockRepository, producto *entity.Producto, ub entity.Ubicacion, cantidad int, desglose entity.Desglose) error {
	stock, err := stockRepo.GetForUpdate(producto.ID, ub)
	if err != nil {
		return err
	}
	if err := verificarInvariante(producto, stock); err != nil {
		return err
	}
	if producto.TieneVariantes {
		for _, vc := range desglose {
			stock.AjustarVariante(vc.Nombre, vc.Cantidad)
		}
		stock.Cantidad = domledger.SumaValida(stock.Variantes)
	} else {
		stock.Cantidad += cantidad
	}
	stock.ActualizadoEn = time.Now()
	return stockRepo.Upsert(stock)
}

// verificarInvariante comprueba, antes de escribir, que el escalar registrado
// coincide con la suma de variantes válidas. Un desajuste indica corrupción
// del libro y se reporta siempre, nunca se corrige en silencio.
func verificarInvariante(producto *entity.Producto, stock *entity.Stock) error {
	if !producto.TieneVariantes {
		return nil
	}
	suma := domledger.SumaValida(stock.Variantes)
	if stock.Cantidad != suma {
		return &domain.InvarianteError{
			ProductoID: producto.ID,
			Ubicacion:  stock.Ubicacion.Clave(),
			Escalar:    stock.Cantidad,
			SumaValida: suma,
		}
	}
	return nil
}
