package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger/ledgertest"
	"github.com/tu-usuario/almacen-pro/internal/application/sales"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

const (
	prodSimple   = "prod-simple"
	prodVariable = "prod-variable"
	vendA        = "vend-a"
)

var porcGanancia = decimal.NewFromInt(20)

// nuevoEscenario arma el almacén con dos productos y stock inicial en la
// cuenta del vendedor, y devuelve el caso de uso de ventas.
func nuevoEscenario(t *testing.T) (*ledgertest.Store, *sales.UseCase) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedProducto(&entity.Producto{
		ID:           prodSimple,
		Nombre:       "Café molido",
		PrecioVenta:  decimal.NewFromInt(30),
		PorcGanancia: &porcGanancia,
	})
	store.SeedProducto(&entity.Producto{
		ID:             prodVariable,
		Nombre:         "Camiseta",
		PrecioVenta:    decimal.NewFromInt(50),
		TieneVariantes: true,
		Variantes:      []string{"Talla M", "Talla L"},
	})
	executor := ledger.NewExecutor(store)
	uc := sales.NewUseCase(store, executor, store.Productos(), store.Repos().Ventas, store.Repos().Mermas)

	destino := entity.Vendedor(vendA)
	_, err := executor.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: prodSimple,
		Cantidad:   10,
		Destino:    &destino,
	})
	require.NoError(t, err)
	_, err = executor.Aplicar(context.Background(), ledger.SolicitudMovimiento{
		Tipo:       entity.MovEntrega,
		ProductoID: prodVariable,
		Desglose: entity.Desglose{
			{Nombre: "Talla M", Cantidad: 5},
			{Nombre: "Talla L", Cantidad: 5},
		},
		Destino: &destino,
	})
	require.NoError(t, err)
	return store, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Vender
// ──────────────────────────────────────────────────────────────────────────────

func TestVender_DebitaYPersisteEnUnaTransaccion(t *testing.T) {
	store, uc := nuevoEscenario(t)

	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(90)), "total = precio * cantidad")
	require.NotNil(t, venta.PorcGanancia)
	assert.True(t, venta.PorcGanancia.Equal(porcGanancia),
		"la venta fotografía el porcentaje de ganancia vigente")

	guardada := store.Venta(venta.ID)
	require.NotNil(t, guardada, "la venta debe quedar persistida")

	movs := store.Movimientos()
	ultimo := movs[len(movs)-1]
	assert.Equal(t, entity.MovVenta, ultimo.Tipo)
	assert.Nil(t, ultimo.Destino, "una venta es sumidero terminal")
	assert.Equal(t, "venta:"+venta.ID, ultimo.Referencia)
}

func TestVender_InsuficienteNoCreaVenta(t *testing.T) {
	store, uc := nuevoEscenario(t)
	antes := len(store.Movimientos())

	_, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   11,
	})
	require.ErrorIs(t, err, domain.ErrStockInsuficiente)

	assert.Equal(t, 10, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	assert.Len(t, store.Movimientos(), antes, "ni movimiento ni venta deben quedar")
}

func TestVender_PrecioExplicitoSobreEscribeElDelProducto(t *testing.T) {
	_, uc := nuevoEscenario(t)

	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID:     prodSimple,
		VendedorID:     vendA,
		Cantidad:       2,
		PrecioUnitario: decimal.NewFromInt(25), // precio promocional
	})
	require.NoError(t, err)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(50)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Revertir
// ──────────────────────────────────────────────────────────────────────────────

func TestRevertirVenta_RestauraStockExacto(t *testing.T) {
	store, uc := nuevoEscenario(t)

	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: prodVariable,
		VendedorID: vendA,
		Desglose: entity.Desglose{
			{Nombre: "Talla M", Cantidad: 2},
			{Nombre: "Talla L", Cantidad: 1},
		},
	})
	require.NoError(t, err)

	require.NoError(t, uc.RevertirVenta(context.Background(), venta.ID))

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 10, stock.Cantidad, "la reversión restaura el stock original")
	assert.Equal(t, 5, stock.VarianteCantidad("Talla M"))
	assert.Equal(t, 5, stock.VarianteCantidad("Talla L"))
	assert.Nil(t, store.Venta(venta.ID), "el registro de venta desaparece")

	movs := store.Movimientos()
	ultimo := movs[len(movs)-1]
	assert.Equal(t, entity.MovEntrega, ultimo.Tipo,
		"la reversión se asienta como crédito, no se borra el asiento original")
	assert.Equal(t, "reversa_venta:"+venta.ID, ultimo.Referencia)
}

func TestRevertirVenta_NoExiste(t *testing.T) {
	_, uc := nuevoEscenario(t)
	err := uc.RevertirVenta(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrVentaNoEncontrada)
}

// Revertir la venta de un producto ya borrado del catálogo falla y lo dice:
// la remediación es manual, no un no-op silencioso.
func TestRevertirVenta_ProductoBorrado(t *testing.T) {
	store, uc := nuevoEscenario(t)
	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   1,
	})
	require.NoError(t, err)

	require.NoError(t, store.Productos().Delete(prodSimple))

	err = uc.RevertirVenta(context.Background(), venta.ID)
	require.ErrorIs(t, err, domain.ErrProductoNoEncontrado)
	assert.NotNil(t, store.Venta(venta.ID), "la venta sigue ahí hasta remediar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Editar
// ──────────────────────────────────────────────────────────────────────────────

func TestEditarVenta_EsRevertirYRevender(t *testing.T) {
	store, uc := nuevoEscenario(t)
	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   3,
	})
	require.NoError(t, err)

	editada, err := uc.EditarVenta(context.Background(), venta.ID, sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, venta.ID, editada.ID, "la edición conserva el id")
	assert.Equal(t, 5, editada.Cantidad)
	assert.Equal(t, 5, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad,
		"neto: 10 - 5")
	assert.Equal(t, 5, store.Venta(venta.ID).Cantidad)
}

// Si la reventa no alcanza el stock, la edición entera se revierte y la venta
// original sobrevive intacta.
func TestEditarVenta_FalloDejaLaOriginal(t *testing.T) {
	store, uc := nuevoEscenario(t)
	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   3,
	})
	require.NoError(t, err)

	_, err = uc.EditarVenta(context.Background(), venta.ID, sales.SolicitudVenta{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   99,
	})
	require.ErrorIs(t, err, domain.ErrStockInsuficiente)

	assert.Equal(t, 7, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad,
		"el stock queda como antes de editar")
	original := store.Venta(venta.ID)
	require.NotNil(t, original, "la venta original no puede perderse")
	assert.Equal(t, 3, original.Cantidad)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mermas
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearMerma_DescuentaDelOrigen(t *testing.T) {
	store, uc := nuevoEscenario(t)

	merma, err := uc.CrearMerma(context.Background(), sales.SolicitudMerma{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	require.NotNil(t, store.Merma(merma.ID))

	movs := store.Movimientos()
	ultimo := movs[len(movs)-1]
	assert.Equal(t, entity.MovMerma, ultimo.Tipo)
	assert.Nil(t, ultimo.Destino, "una merma es sumidero terminal")
}

func TestCrearMerma_SinVendedorUsaCafeteria(t *testing.T) {
	store, uc := nuevoEscenario(t)
	store.SeedStock(&entity.Stock{
		ProductoID: prodSimple,
		Ubicacion:  entity.Cafeteria(),
		Cantidad:   4,
	})

	_, err := uc.CrearMerma(context.Background(), sales.SolicitudMerma{
		ProductoID: prodSimple,
		Cantidad:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.StockDe(prodSimple, entity.Cafeteria()).Cantidad)
}

func TestEliminarMerma_AcreditaDeVuelta(t *testing.T) {
	store, uc := nuevoEscenario(t)
	merma, err := uc.CrearMerma(context.Background(), sales.SolicitudMerma{
		ProductoID: prodSimple,
		VendedorID: vendA,
		Cantidad:   2,
	})
	require.NoError(t, err)

	require.NoError(t, uc.EliminarMerma(context.Background(), merma.ID))

	assert.Equal(t, 10, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	assert.Nil(t, store.Merma(merma.ID))
}

func TestEliminarMerma_NoExiste(t *testing.T) {
	_, uc := nuevoEscenario(t)
	err := uc.EliminarMerma(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
