package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger/ledgertest"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	prodSimple   = "prod-simple"
	prodVariable = "prod-variable"
	vendA        = "vend-a"
	vendB        = "vend-b"
)

// nuevoEscenario arma un almacén con un producto sin variantes y otro con
// variantes de talla, más el ejecutor encima.
func nuevoEscenario(t *testing.T) (*ledgertest.Store, *ledger.Executor) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedProducto(&entity.Producto{
		ID:          prodSimple,
		Nombre:      "Café molido",
		PrecioVenta: decimal.NewFromInt(30),
	})
	store.SeedProducto(&entity.Producto{
		ID:             prodVariable,
		Nombre:         "Camiseta",
		PrecioVenta:    decimal.NewFromInt(50),
		TieneVariantes: true,
		Variantes:      []string{"Talla M", "Talla L"},
	})
	return store, ledger.NewExecutor(store)
}

// entregar acredita cantidad al vendedor vía el ejecutor (camino feliz).
func entregar(t *testing.T, e *ledger.Executor, productoID, vendedorID string, cantidad int, desglose entity.Desglose) {
	t.Helper()
	destino := entity.Vendedor(vendedorID)
	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: productoID,
		Cantidad:   cantidad,
		Desglose:   desglose,
		Destino:    &destino,
	})
	require.NoError(t, err, "la entrega de arranque no debe fallar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Entregas y bajas
// ──────────────────────────────────────────────────────────────────────────────

func TestAplicar_EntregaAcreditaDestino(t *testing.T) {
	store, e := nuevoEscenario(t)
	destino := entity.Vendedor(vendA)

	mov, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: prodSimple,
		Cantidad:   10,
		Destino:    &destino,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, store.StockDe(prodSimple, destino).Cantidad)
	assert.Equal(t, entity.Bodega(), mov.Origen, "una entrega siempre sale de bodega")
	assert.NotEmpty(t, mov.TransaccionID)
	require.Len(t, store.Movimientos(), 1, "exactamente una entrada en el registro")
}

func TestAplicar_BajaDebitaOrigen(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 10, nil)

	mov, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovBaja,
		ProductoID: prodSimple,
		Cantidad:   4,
		Origen:     entity.Vendedor(vendA),
	})
	require.NoError(t, err)

	assert.Equal(t, 6, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	require.NotNil(t, mov.Destino)
	assert.Equal(t, entity.Bodega(), *mov.Destino, "una baja siempre vuelve a bodega")
}

func TestAplicar_BajaInsuficienteNoDejaRastro(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 3, nil)
	antes := len(store.Movimientos())

	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovBaja,
		ProductoID: prodSimple,
		Cantidad:   5,
		Origen:     entity.Vendedor(vendA),
	})
	require.ErrorIs(t, err, domain.ErrStockInsuficiente)

	var detalle *domain.StockInsuficienteError
	require.ErrorAs(t, err, &detalle, "el error debe llevar el detalle del faltante")
	assert.Equal(t, 5, detalle.Solicitado)
	assert.Equal(t, 3, detalle.Disponible)

	assert.Equal(t, 3, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad,
		"un rechazo no puede tocar el stock")
	assert.Len(t, store.Movimientos(), antes,
		"un rechazo no puede asentar movimiento")
}

func TestAplicar_ProductoInexistente(t *testing.T) {
	_, e := nuevoEscenario(t)
	destino := entity.Vendedor(vendA)
	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: "no-existe",
		Cantidad:   1,
		Destino:    &destino,
	})
	assert.ErrorIs(t, err, domain.ErrProductoNoEncontrado)
}

// La validación lee el producto con los repositorios de la misma transacción:
// un producto eliminado después de la solicitud pero antes del asiento no deja
// movimiento.
func TestAplicarEnTx_ProductoEliminadoEnLaMismaTransaccion(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 5, nil)
	destino := entity.Vendedor(vendA)

	err := store.Run(context.Background(), func(r ledger.Repos) error {
		require.NoError(t, r.Productos.Delete(prodSimple))
		_, err := e.AplicarEnTx(r, ledger.SolicitudMovimiento{
			Tipo:       entity.MovEntrega,
			ProductoID: prodSimple,
			Cantidad:   2,
			Destino:    &destino,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrProductoNoEncontrado)
	assert.Len(t, store.Movimientos(), 1, "solo la entrega de arranque quedó asentada")
	assert.Equal(t, 5, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
}

func TestAplicar_EntradasInvalidas(t *testing.T) {
	_, e := nuevoEscenario(t)
	bodega := entity.Bodega()
	destino := entity.Vendedor(vendA)

	casos := []struct {
		nombre string
		sol    ledger.SolicitudMovimiento
	}{
		{"tipo desconocido", ledger.SolicitudMovimiento{Tipo: "REGALO", ProductoID: prodSimple, Cantidad: 1, Destino: &destino}},
		{"entrega sin destino", ledger.SolicitudMovimiento{Tipo: entity.MovEntrega, ProductoID: prodSimple, Cantidad: 1}},
		{"entrega hacia bodega", ledger.SolicitudMovimiento{Tipo: entity.MovEntrega, ProductoID: prodSimple, Cantidad: 1, Destino: &bodega}},
		{"baja desde bodega", ledger.SolicitudMovimiento{Tipo: entity.MovBaja, ProductoID: prodSimple, Cantidad: 1, Origen: bodega}},
		{"cantidad cero", ledger.SolicitudMovimiento{Tipo: entity.MovEntrega, ProductoID: prodSimple, Destino: &destino}},
		{"cantidad negativa", ledger.SolicitudMovimiento{Tipo: entity.MovEntrega, ProductoID: prodSimple, Cantidad: -2, Destino: &destino}},
		{"transferencia directa", ledger.SolicitudMovimiento{Tipo: entity.MovTransferencia, ProductoID: prodSimple, Cantidad: 1, Origen: entity.Vendedor(vendA), Destino: &destino}},
	}
	for _, c := range casos {
		_, err := e.Aplicar(context.Background(), c.sol)
		assert.ErrorIs(t, err, domain.ErrEntradaInvalida, "caso: %s", c.nombre)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Variantes
// ──────────────────────────────────────────────────────────────────────────────

func TestAplicar_VarianteRequiereDesglose(t *testing.T) {
	_, e := nuevoEscenario(t)
	destino := entity.Vendedor(vendA)
	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: prodVariable,
		Cantidad:   5, // escalar solo: los libros por variante se desviarían
		Destino:    &destino,
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestAplicar_DesgloseRechazaInvalidos(t *testing.T) {
	_, e := nuevoEscenario(t)
	destino := entity.Vendedor(vendA)

	casos := []struct {
		nombre   string
		desglose entity.Desglose
		want     error
	}{
		{"variante inexistente", entity.Desglose{{Nombre: "Talla XXL", Cantidad: 1}}, domain.ErrVarianteNoEncontrada},
		{"placeholder en blanco", entity.Desglose{{Nombre: "  ", Cantidad: 1}}, domain.ErrEntradaInvalida},
		{"placeholder numérico", entity.Desglose{{Nombre: "123", Cantidad: 1}}, domain.ErrEntradaInvalida},
		{"cantidad cero", entity.Desglose{{Nombre: "Talla M", Cantidad: 0}}, domain.ErrEntradaInvalida},
		{"duplicada", entity.Desglose{{Nombre: "Talla M", Cantidad: 1}, {Nombre: "Talla M", Cantidad: 2}}, domain.ErrEntradaInvalida},
	}
	for _, c := range casos {
		_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
			Tipo:       entity.MovEntrega,
			ProductoID: prodVariable,
			Desglose:   c.desglose,
			Destino:    &destino,
		})
		assert.ErrorIs(t, err, c.want, "caso: %s", c.nombre)
	}
}

func TestAplicar_EscalarDerivadoDelDesglose(t *testing.T) {
	store, e := nuevoEscenario(t)
	destino := entity.Vendedor(vendA)

	mov, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: prodVariable,
		Cantidad:   999, // se ignora: manda el desglose
		Desglose: entity.Desglose{
			{Nombre: "Talla M", Cantidad: 4},
			{Nombre: "Talla L", Cantidad: 2},
		},
		Destino: &destino,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, mov.Cantidad, "la cantidad del asiento es la suma del desglose")

	stock := store.StockDe(prodVariable, destino)
	assert.Equal(t, 6, stock.Cantidad)
	assert.Equal(t, 4, stock.VarianteCantidad("Talla M"))
	assert.Equal(t, 2, stock.VarianteCantidad("Talla L"))
}

// El total agregado alcanza pero una variante específica no: el débito debe
// rechazarse nombrando la variante, no compensarse con stock de otra.
func TestAplicar_InsuficienciaPorVariante(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodVariable, vendA, 0, entity.Desglose{
		{Nombre: "Talla M", Cantidad: 5},
		{Nombre: "Talla L", Cantidad: 1},
	})

	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovBaja,
		ProductoID: prodVariable,
		Desglose:   entity.Desglose{{Nombre: "Talla L", Cantidad: 3}},
		Origen:     entity.Vendedor(vendA),
	})
	require.ErrorIs(t, err, domain.ErrStockInsuficiente)

	var detalle *domain.StockInsuficienteError
	require.ErrorAs(t, err, &detalle)
	assert.Equal(t, "Talla L", detalle.Variante)
	assert.Equal(t, 3, detalle.Solicitado)
	assert.Equal(t, 1, detalle.Disponible)

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 6, stock.Cantidad, "nada debe haberse debitado")
	assert.Equal(t, 1, stock.VarianteCantidad("Talla L"))
}

// Las filas placeholder heredadas no cuentan para la suficiencia ni para el
// escalar, pero no impiden operar el producto.
func TestAplicar_PlaceholdersEnStockNoCuentan(t *testing.T) {
	store, e := nuevoEscenario(t)
	store.SeedStock(&entity.Stock{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   5,
		Variantes: []entity.Variante{
			{Nombre: "Talla M", Cantidad: 5},
			{Nombre: "", Cantidad: 40}, // fila heredada: no suma
		},
	})

	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovBaja,
		ProductoID: prodVariable,
		Desglose:   entity.Desglose{{Nombre: "Talla M", Cantidad: 2}},
		Origen:     entity.Vendedor(vendA),
	})
	require.NoError(t, err)

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 3, stock.Cantidad, "el escalar se deriva solo de variantes válidas")
	assert.Equal(t, 40, stock.VarianteCantidad(""), "la fila placeholder se conserva tal cual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Detección de corrupción
// ──────────────────────────────────────────────────────────────────────────────

func TestAplicar_DetectaInvarianteViolada(t *testing.T) {
	store, e := nuevoEscenario(t)
	// Escalar corrupto: dice 10 pero las variantes válidas suman 8.
	store.SeedStock(&entity.Stock{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   10,
		Variantes:  []entity.Variante{{Nombre: "Talla M", Cantidad: 8}},
	})

	_, err := e.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovBaja,
		ProductoID: prodVariable,
		Desglose:   entity.Desglose{{Nombre: "Talla M", Cantidad: 1}},
		Origen:     entity.Vendedor(vendA),
	})
	require.ErrorIs(t, err, domain.ErrInvarianteViolada,
		"el libro corrupto se reporta, nunca se corrige en silencio")

	var detalle *domain.InvarianteError
	require.ErrorAs(t, err, &detalle)
	assert.Equal(t, 10, detalle.Escalar)
	assert.Equal(t, 8, detalle.SumaValida)

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 10, stock.Cantidad, "el registro corrupto queda intacto para remediación")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencias
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferir_MueveYEnlazaAsientos(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 10, nil)

	err := e.Transferir(context.Background(), ledger.SolicitudTransferencia{
		ProductoID:   prodSimple,
		DeVendedorID: vendA,
		AVendedorID:  vendB,
		Cantidad:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	assert.Equal(t, 4, store.StockDe(prodSimple, entity.Vendedor(vendB)).Cantidad)

	movs := store.Movimientos()
	require.Len(t, movs, 3, "entrega inicial + par de transferencia")
	salida, entrada := movs[1], movs[2]
	assert.Equal(t, entity.MovBaja, salida.Tipo)
	assert.Equal(t, entity.MovEntrega, entrada.Tipo)
	assert.Equal(t, salida.TransaccionID, entrada.TransaccionID,
		"ambos tramos comparten transacción para poder correlacionarse")
	assert.Equal(t, entity.Vendedor(vendA), salida.Origen)
	require.NotNil(t, entrada.Destino)
	assert.Equal(t, entity.Vendedor(vendB), *entrada.Destino)
}

func TestTransferir_InsuficienteNoMueveNada(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 2, nil)

	err := e.Transferir(context.Background(), ledger.SolicitudTransferencia{
		ProductoID:   prodSimple,
		DeVendedorID: vendA,
		AVendedorID:  vendB,
		Cantidad:     5,
	})
	require.ErrorIs(t, err, domain.ErrStockInsuficiente)

	assert.Equal(t, 2, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	assert.Equal(t, 0, store.StockDe(prodSimple, entity.Vendedor(vendB)).Cantidad)
	assert.Len(t, store.Movimientos(), 1, "solo la entrega inicial")
}

// Si el crédito al destino falla a mitad de camino, el débito ya aplicado al
// origen debe deshacerse por rollback: nada queda "en vuelo".
func TestTransferir_FalloDeCreditoCompensaDebito(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 10, nil)

	store.FallarUpsertEn = entity.Vendedor(vendB).Clave()
	store.ErrForzado = errors.New("conexión perdida")

	err := e.Transferir(context.Background(), ledger.SolicitudTransferencia{
		ProductoID:   prodSimple,
		DeVendedorID: vendA,
		AVendedorID:  vendB,
		Cantidad:     4,
	})
	require.Error(t, err)

	assert.Equal(t, 10, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad,
		"el débito al origen debe revertirse")
	assert.Equal(t, 0, store.StockDe(prodSimple, entity.Vendedor(vendB)).Cantidad)
	assert.Len(t, store.Movimientos(), 1, "ningún tramo de la transferencia queda asentado")
}

func TestTransferir_MismoVendedor(t *testing.T) {
	_, e := nuevoEscenario(t)
	err := e.Transferir(context.Background(), ledger.SolicitudTransferencia{
		ProductoID:   prodSimple,
		DeVendedorID: vendA,
		AVendedorID:  vendA,
		Cantidad:     1,
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación
// ──────────────────────────────────────────────────────────────────────────────

// La suma de stock fuera de bodega solo cambia por entregas, bajas, ventas y
// mermas; las transferencias la dejan igual.
func TestConservacion_TransferenciasNoCreanStock(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 9, nil)
	require.Equal(t, 9, store.TotalSistema(prodSimple))

	for i := 0; i < 3; i++ {
		require.NoError(t, e.Transferir(context.Background(), ledger.SolicitudTransferencia{
			ProductoID:   prodSimple,
			DeVendedorID: vendA,
			AVendedorID:  vendB,
			Cantidad:     2,
		}))
		require.NoError(t, e.Transferir(context.Background(), ledger.SolicitudTransferencia{
			ProductoID:   prodSimple,
			DeVendedorID: vendB,
			AVendedorID:  vendA,
			Cantidad:     1,
		}))
	}
	assert.Equal(t, 9, store.TotalSistema(prodSimple),
		"transferir solo redistribuye, nunca crea ni destruye stock")
}
