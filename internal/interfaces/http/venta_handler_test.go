package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger/ledgertest"
	"github.com/tu-usuario/almacen-pro/internal/application/sales"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	apphttp "github.com/tu-usuario/almacen-pro/internal/interfaces/http"
)

const (
	testProductoID   = "prod-cafe"
	otroVendedorID   = "vend-02"
	stockPorVendedor = 10
)

// ventasApp arma la app con el libro de ventas real sobre el almacén en
// memoria: stock para dos vendedores y una venta ya asentada del primero
// (el vendedor del token, testVendedorID).
func ventasApp(t *testing.T) (*fiber.App, *ledgertest.Store, string) {
	t.Helper()
	store := ledgertest.NewStore()
	store.SeedProducto(&entity.Producto{
		ID:          testProductoID,
		Nombre:      "Café molido",
		PrecioVenta: decimal.NewFromInt(30),
	})
	executor := ledger.NewExecutor(store)
	uc := sales.NewUseCase(store, executor, store.Productos(), store.Repos().Ventas, store.Repos().Mermas)

	for _, vend := range []string{testVendedorID, otroVendedorID} {
		destino := entity.Vendedor(vend)
		_, err := executor.Aplicar(context.Background(), ledger.SolicitudMovimiento{
			Tipo:       entity.MovEntrega,
			ProductoID: testProductoID,
			Cantidad:   stockPorVendedor,
			Destino:    &destino,
		})
		require.NoError(t, err, "la entrega de arranque no debe fallar")
	}
	venta, err := uc.Vender(context.Background(), sales.SolicitudVenta{
		ProductoID: testProductoID,
		VendedorID: testVendedorID,
		Cantidad:   2,
	})
	require.NoError(t, err)

	h := apphttp.NewVentaHandler(uc)
	app := fiber.New()
	grupo := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret))
	grupo.Put("/ventas/:id", h.Editar)
	return app, store, venta.ID
}

func editarVenta(t *testing.T, app *fiber.App, ventaID string, body dto.VentaRequest, authHeader string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/ventas/"+ventaID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// El alcance por rol aplica también al vendedor destino de la edición: un
// vendedor no puede usar el PUT de su propia venta para asentarla (y debitar
// stock) en la cuenta de otro.
func TestVentaEditar_VendedorNoReasignaAOtroVendedor(t *testing.T) {
	app, store, ventaID := ventasApp(t)

	resp := editarVenta(t, app, ventaID, dto.VentaRequest{
		ProductoID: testProductoID,
		VendedorID: otroVendedorID,
		Cantidad:   3,
	}, tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un vendedor no puede mover la venta a la cuenta de otro")
	venta := store.Venta(ventaID)
	require.NotNil(t, venta)
	assert.Equal(t, testVendedorID, venta.VendedorID, "la venta sigue en su cuenta original")
	assert.Equal(t, stockPorVendedor,
		store.StockDe(testProductoID, entity.Vendedor(otroVendedorID)).Cantidad,
		"el stock del otro vendedor queda intacto")
}

func TestVentaEditar_VendedorEditaSuPropiaVenta(t *testing.T) {
	app, store, ventaID := ventasApp(t)

	resp := editarVenta(t, app, ventaID, dto.VentaRequest{Cantidad: 5}, tokenForRole(t, "vendedor"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, store.Venta(ventaID).Cantidad)
	assert.Equal(t, stockPorVendedor-5,
		store.StockDe(testProductoID, entity.Vendedor(testVendedorID)).Cantidad,
		"la edición revierte la venta original y asienta la nueva")
}

func TestVentaEditar_AdminSiPuedeReasignar(t *testing.T) {
	app, store, ventaID := ventasApp(t)

	resp := editarVenta(t, app, ventaID, dto.VentaRequest{
		ProductoID: testProductoID,
		VendedorID: otroVendedorID,
		Cantidad:   3,
	}, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, otroVendedorID, store.Venta(ventaID).VendedorID)
	assert.Equal(t, stockPorVendedor,
		store.StockDe(testProductoID, entity.Vendedor(testVendedorID)).Cantidad,
		"el vendedor original recupera su stock")
	assert.Equal(t, stockPorVendedor-3,
		store.StockDe(testProductoID, entity.Vendedor(otroVendedorID)).Cantidad)
}
