// Package reconcile implementa el motor de reconciliación: recalcula cuánto
// stock "debería" haber por producto/variante reproduciendo el historial de
// movimientos y lo contrasta con lo registrado. Es de solo lectura y tolera
// ejecutarse en paralelo con escritores leyendo un snapshot consistente.
package reconcile

import (
	"context"
	"sort"

	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	domledger "github.com/tu-usuario/almacen-pro/internal/domain/ledger"
)

// UseCase motor de reconciliación.
type UseCase struct {
	txRunner ledger.TxRunner
}

// NewUseCase construye el motor.
func NewUseCase(txRunner ledger.TxRunner) *UseCase {
	return &UseCase{txRunner: txRunner}
}

// Reconciliar devuelve una discrepancia por producto con movimientos o stock
// en la cuenta del vendedor (y, para productos con variantes, una entrada
// anidada por variante). Calculado = entregas - bajas - ventas; las mermas
// descontadas del vendedor cuentan dentro del agregado de bajas. Una
// diferencia no nula no es un error: es dato para revisión humana.
func (uc *UseCase) Reconciliar(ctx context.Context, vendedorID string) ([]dto.Discrepancia, error) {
	ubicacion := entity.Vendedor(vendedorID)
	var discrepancias []dto.Discrepancia

	err := uc.txRunner.RunReadOnly(ctx, func(r ledger.Repos) error {
		productoIDs, err := productosDelVendedor(r, ubicacion)
		if err != nil {
			return err
		}
		for _, productoID := range productoIDs {
			d, err := uc.reconciliarProducto(r, productoID, vendedorID, ubicacion)
			if err != nil {
				return err
			}
			discrepancias = append(discrepancias, *d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return discrepancias, nil
}

// reconciliarProducto arma la discrepancia de un producto en la cuenta del
// vendedor, a nivel escalar y por variante.
func (uc *UseCase) reconciliarProducto(r ledger.Repos, productoID, vendedorID string, ubicacion entity.Ubicacion) (*dto.Discrepancia, error) {
	movs, err := r.Movimientos.Agregados(productoID, ubicacion)
	if err != nil {
		return nil, err
	}
	ventas, err := r.Ventas.Agregados(productoID, vendedorID)
	if err != nil {
		return nil, err
	}
	stock, err := r.Stock.Get(productoID, ubicacion)
	if err != nil {
		return nil, err
	}

	d := &dto.Discrepancia{
		ProductoID: productoID,
		Entregas:   movs.Entregas,
		Bajas:      movs.Bajas,
		Ventas:     ventas.Ventas,
		Registrado: stock.Cantidad,
	}
	if producto, err := r.Productos.GetByID(productoID); err == nil && producto != nil {
		d.Nombre = producto.Nombre
	}
	d.Calculado = d.Entregas - d.Bajas - d.Ventas
	d.Diferencia = d.Registrado - d.Calculado

	// Por variante: unión de las variantes vistas en movimientos, ventas y
	// stock registrado. Las filas placeholder no cuentan.
	nombres := make(map[string]bool)
	for n := range movs.EntregasPorVariante {
		nombres[n] = true
	}
	for n := range movs.BajasPorVariante {
		nombres[n] = true
	}
	for n := range ventas.VentasPorVariante {
		nombres[n] = true
	}
	for _, v := range stock.Variantes {
		if !domledger.EsVariantePlaceholder(v.Nombre) {
			nombres[v.Nombre] = true
		}
	}
	if len(nombres) > 0 {
		ordenados := make([]string, 0, len(nombres))
		for n := range nombres {
			ordenados = append(ordenados, n)
		}
		sort.Strings(ordenados)
		for _, nombre := range ordenados {
			dv := dto.DiscrepanciaVariante{
				Nombre:     nombre,
				Entregas:   movs.EntregasPorVariante[nombre],
				Bajas:      movs.BajasPorVariante[nombre],
				Ventas:     ventas.VentasPorVariante[nombre],
				Registrado: stock.VarianteCantidad(nombre),
			}
			dv.Calculado = dv.Entregas - dv.Bajas - dv.Ventas
			dv.Diferencia = dv.Registrado - dv.Calculado
			d.Variantes = append(d.Variantes, dv)
		}
	}
	return d, nil
}

// productosDelVendedor devuelve la unión ordenada de productos con stock
// registrado y productos con movimientos en la cuenta.
func productosDelVendedor(r ledger.Repos, ubicacion entity.Ubicacion) ([]string, error) {
	ids := make(map[string]bool)
	stocks, err := r.Stock.ListByUbicacion(ubicacion)
	if err != nil {
		return nil, err
	}
	for _, s := range stocks {
		ids[s.ProductoID] = true
	}
	conMovs, err := r.Movimientos.ProductosConMovimientos(ubicacion)
	if err != nil {
		return nil, err
	}
	for _, id := range conMovs {
		ids[id] = true
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
