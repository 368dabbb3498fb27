package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

func TestCorregirStock_FaltanteAsientaEntrega(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 5, nil)

	// El conteo físico encontró 8: faltaban 3 en los libros.
	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodSimple,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   8,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	movs := store.Movimientos()
	require.Len(t, movs, 2)
	ajuste := movs[1]
	assert.Equal(t, entity.MovEntrega, ajuste.Tipo)
	assert.Equal(t, 3, ajuste.Cantidad)
	assert.Equal(t, "ajuste", ajuste.Referencia, "la corrección queda auditada")
}

func TestCorregirStock_SobranteAsientaBaja(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 5, nil)

	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodSimple,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, store.StockDe(prodSimple, entity.Vendedor(vendA)).Cantidad)
	movs := store.Movimientos()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovBaja, movs[1].Tipo)
	assert.Equal(t, 3, movs[1].Cantidad)
	assert.Equal(t, "ajuste", movs[1].Referencia)
}

func TestCorregirStock_SinCambioNoAsientaNada(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodSimple, vendA, 5, nil)

	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodSimple,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   5,
	})
	require.NoError(t, err)
	assert.Len(t, store.Movimientos(), 1, "corregir al mismo valor es un no-op")
}

func TestCorregirStock_VariantesMixto(t *testing.T) {
	store, e := nuevoEscenario(t)
	entregar(t, e, prodVariable, vendA, 0, entity.Desglose{
		{Nombre: "Talla M", Cantidad: 5},
		{Nombre: "Talla L", Cantidad: 5},
	})

	// El conteo encontró 7 M (sobran en libros 2 menos... faltan 2) y 3 L
	// (sobran 2): ambos lados en una sola corrección.
	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Desglose: entity.Desglose{
			{Nombre: "Talla M", Cantidad: 7},
			{Nombre: "Talla L", Cantidad: 3},
		},
	})
	require.NoError(t, err)

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 10, stock.Cantidad)
	assert.Equal(t, 7, stock.VarianteCantidad("Talla M"))
	assert.Equal(t, 3, stock.VarianteCantidad("Talla L"))

	movs := store.Movimientos()
	require.Len(t, movs, 3, "entrega inicial + ajuste de entrada + ajuste de salida")
	entrada, salida := movs[1], movs[2]
	assert.Equal(t, entity.MovEntrega, entrada.Tipo)
	assert.Equal(t, entity.Desglose{{Nombre: "Talla M", Cantidad: 2}}, entrada.Desglose)
	assert.Equal(t, entity.MovBaja, salida.Tipo)
	assert.Equal(t, entity.Desglose{{Nombre: "Talla L", Cantidad: 2}}, salida.Desglose)
	assert.Equal(t, entrada.TransaccionID, salida.TransaccionID,
		"los dos lados del ajuste comparten transacción")
}

// La corrección es la única ruta que tolera un libro corrupto: repara el
// escalar y deja el delta asentado.
func TestCorregirStock_ReparaEscalarCorrupto(t *testing.T) {
	store, e := nuevoEscenario(t)
	store.SeedStock(&entity.Stock{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   12, // corrupto: las variantes suman 8
		Variantes:  []entity.Variante{{Nombre: "Talla M", Cantidad: 8}},
	})

	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Desglose:   entity.Desglose{{Nombre: "Talla M", Cantidad: 8}},
	})
	require.NoError(t, err)

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 8, stock.Cantidad, "el escalar vuelve a la suma de variantes")
	movs := store.Movimientos()
	require.Len(t, movs, 1, "la reparación del escalar se asienta")
	assert.Equal(t, entity.MovBaja, movs[0].Tipo)
	assert.Equal(t, 4, movs[0].Cantidad)
}

// Corrección doble: crece una variante y además el escalar venía corrompido.
// El asiento debe cubrir el cambio escalar completo, no solo el mayor de los
// dos componentes.
func TestCorregirStock_VarianteYEscalarCorruptoEnUnAsiento(t *testing.T) {
	store, e := nuevoEscenario(t)
	store.SeedStock(&entity.Stock{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   3, // corrupto: las variantes suman 5
		Variantes:  []entity.Variante{{Nombre: "Talla M", Cantidad: 5}},
	})

	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Desglose:   entity.Desglose{{Nombre: "Talla M", Cantidad: 7}},
	})
	require.NoError(t, err)

	stock := store.StockDe(prodVariable, entity.Vendedor(vendA))
	assert.Equal(t, 7, stock.Cantidad)
	assert.Equal(t, 7, stock.VarianteCantidad("Talla M"))

	movs := store.Movimientos()
	require.Len(t, movs, 1)
	ajuste := movs[0]
	assert.Equal(t, entity.MovEntrega, ajuste.Tipo)
	assert.Equal(t, 4, ajuste.Cantidad,
		"el escalar pasó de 3 a 7: el asiento cubre los 4, no solo la variante")
	assert.Equal(t, entity.Desglose{{Nombre: "Talla M", Cantidad: 2}}, ajuste.Desglose)
	assert.Equal(t, "ajuste", ajuste.Referencia)
}

func TestCorregirStock_Invalidas(t *testing.T) {
	_, e := nuevoEscenario(t)

	err := e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodSimple,
		Ubicacion:  entity.Bodega(),
		Cantidad:   1,
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida, "la bodega no lleva registro corregible")

	err = e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodSimple,
		Ubicacion:  entity.Vendedor(vendA),
		Cantidad:   -1,
	})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida, "no existen cantidades negativas")

	err = e.CorregirStock(context.Background(), ledger.SolicitudCorreccion{
		ProductoID: prodVariable,
		Ubicacion:  entity.Vendedor(vendA),
		Desglose:   entity.Desglose{{Nombre: "Talla XXL", Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrVarianteNoEncontrada)
}
