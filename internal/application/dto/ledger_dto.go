package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VarianteCantidadDTO entrada del desglose por variante en los requests.
type VarianteCantidadDTO struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// RegistrarMovimientoRequest body para POST /api/movimientos (ENTREGA y BAJA;
// ventas y mermas tienen sus propios endpoints).
type RegistrarMovimientoRequest struct {
	Tipo           string                `json:"tipo"`
	ProductoID     string                `json:"producto_id"`
	Cantidad       int                   `json:"cantidad,omitempty"`
	Desglose       []VarianteCantidadDTO `json:"desglose,omitempty"`
	Origen         string                `json:"origen,omitempty"`
	Destino        string                `json:"destino,omitempty"`
	PrecioUnitario decimal.Decimal       `json:"precio_unitario,omitempty"`
	Referencia     string                `json:"referencia,omitempty"`
	Fecha          time.Time             `json:"fecha,omitempty"`
}

// TransferenciaRequest body para POST /api/transferencias.
type TransferenciaRequest struct {
	ProductoID   string                `json:"producto_id"`
	DeVendedorID string                `json:"de_vendedor_id"`
	AVendedorID  string                `json:"a_vendedor_id"`
	Cantidad     int                   `json:"cantidad,omitempty"`
	Desglose     []VarianteCantidadDTO `json:"desglose,omitempty"`
}

// CorreccionRequest body para POST /api/stock/correccion: fija la cantidad
// registrada al valor deseado, asentando el delta como movimiento.
type CorreccionRequest struct {
	ProductoID string                `json:"producto_id"`
	Ubicacion  string                `json:"ubicacion"`
	Cantidad   int                   `json:"cantidad,omitempty"`
	Desglose   []VarianteCantidadDTO `json:"desglose,omitempty"`
}

// VentaRequest body para POST /api/ventas y PUT /api/ventas/:id.
type VentaRequest struct {
	ProductoID     string                `json:"producto_id"`
	VendedorID     string                `json:"vendedor_id"`
	Cantidad       int                   `json:"cantidad,omitempty"`
	Desglose       []VarianteCantidadDTO `json:"desglose,omitempty"`
	PrecioUnitario decimal.Decimal       `json:"precio_unitario,omitempty"`
	FechaVenta     time.Time             `json:"fecha_venta,omitempty"`
}

// MermaRequest body para POST /api/mermas. VendedorID vacío descuenta de
// Cafetería; "cocina" descuenta del área de producción.
type MermaRequest struct {
	ProductoID string                `json:"producto_id"`
	VendedorID string                `json:"vendedor_id,omitempty"`
	Cantidad   int                   `json:"cantidad,omitempty"`
	Desglose   []VarianteCantidadDTO `json:"desglose,omitempty"`
	Fecha      time.Time             `json:"fecha,omitempty"`
}

// MovimientoResponse representación de una entrada del registro.
type MovimientoResponse struct {
	ID             int64                 `json:"id"`
	TransaccionID  string                `json:"transaccion_id"`
	Tipo           string                `json:"tipo"`
	ProductoID     string                `json:"producto_id"`
	Cantidad       int                   `json:"cantidad"`
	Desglose       []VarianteCantidadDTO `json:"desglose,omitempty"`
	Origen         string                `json:"origen"`
	Destino        string                `json:"destino,omitempty"`
	PrecioUnitario decimal.Decimal       `json:"precio_unitario"`
	Referencia     string                `json:"referencia,omitempty"`
	Fecha          time.Time             `json:"fecha"`
}

// VentaResponse representación de una venta.
type VentaResponse struct {
	ID             string                `json:"id"`
	ProductoID     string                `json:"producto_id"`
	VendedorID     string                `json:"vendedor_id"`
	Cantidad       int                   `json:"cantidad"`
	Desglose       []VarianteCantidadDTO `json:"desglose,omitempty"`
	PrecioUnitario decimal.Decimal       `json:"precio_unitario"`
	Total          decimal.Decimal       `json:"total"`
	PorcGanancia   *decimal.Decimal      `json:"porc_ganancia,omitempty"`
	FechaVenta     time.Time             `json:"fecha_venta"`
}

// MermaResponse representación de una merma.
type MermaResponse struct {
	ID         string                `json:"id"`
	ProductoID string                `json:"producto_id"`
	VendedorID string                `json:"vendedor_id,omitempty"`
	Cantidad   int                   `json:"cantidad"`
	Desglose   []VarianteCantidadDTO `json:"desglose,omitempty"`
	Fecha      time.Time             `json:"fecha"`
}
