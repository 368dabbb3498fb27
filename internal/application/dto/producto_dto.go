package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductoRequest body para POST /api/productos.
type CreateProductoRequest struct {
	Nombre         string           `json:"nombre"`
	PrecioVenta    decimal.Decimal  `json:"precio_venta"`
	PrecioCompra   decimal.Decimal  `json:"precio_compra"`
	PorcGanancia   *decimal.Decimal `json:"porc_ganancia,omitempty"`
	TieneVariantes bool             `json:"tiene_variantes"`
	Variantes      []string         `json:"variantes,omitempty"`
}

// UpdateProductoRequest body para PUT /api/productos/:id. Solo metadatos:
// las cantidades jamás se editan por aquí.
type UpdateProductoRequest struct {
	Nombre       string           `json:"nombre,omitempty"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta,omitempty"`
	PrecioCompra *decimal.Decimal `json:"precio_compra,omitempty"`
	PorcGanancia *decimal.Decimal `json:"porc_ganancia,omitempty"`
	Variantes    []string         `json:"variantes,omitempty"`
}

// ProductoResponse representación de un producto.
type ProductoResponse struct {
	ID             string           `json:"id"`
	Nombre         string           `json:"nombre"`
	PrecioVenta    decimal.Decimal  `json:"precio_venta"`
	PrecioCompra   decimal.Decimal  `json:"precio_compra"`
	PorcGanancia   *decimal.Decimal `json:"porc_ganancia,omitempty"`
	TieneVariantes bool             `json:"tiene_variantes"`
	Variantes      []string         `json:"variantes,omitempty"`
	CreadoEn       time.Time        `json:"creado_en"`
}

// VarianteStockDTO cantidad de una variante en una ubicación.
type VarianteStockDTO struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// StockResponse snapshot del stock de un producto en una ubicación.
type StockResponse struct {
	ProductoID string             `json:"producto_id"`
	Nombre     string             `json:"nombre,omitempty"`
	Ubicacion  string             `json:"ubicacion"`
	Cantidad   int                `json:"cantidad"`
	Variantes  []VarianteStockDTO `json:"variantes,omitempty"`
}
