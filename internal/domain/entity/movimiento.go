package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovEntrega       = "ENTREGA"       // crédito desde bodega hacia una ubicación
	MovBaja          = "BAJA"          // débito de una ubicación de vuelta a bodega
	MovVenta         = "VENTA"         // venta: débito terminal del stock de un vendedor
	MovMerma         = "MERMA"         // merma: débito terminal por desperdicio
	MovTransferencia = "TRANSFERENCIA" // par enlazado entre dos ubicaciones no-bodega
)

// VarianteCantidad es una entrada del desglose por variante de un movimiento.
type VarianteCantidad struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// Desglose es el detalle por variante de un movimiento o venta. Nil para
// productos sin variantes.
type Desglose []VarianteCantidad

// Total suma las cantidades del desglose.
func (d Desglose) Total() int {
	total := 0
	for _, vc := range d {
		total += vc.Cantidad
	}
	return total
}

// Negado devuelve el desglose con las cantidades invertidas.
func (d Desglose) Negado() Desglose {
	if d == nil {
		return nil
	}
	out := make(Desglose, len(d))
	for i, vc := range d {
		out[i] = VarianteCantidad{Nombre: vc.Nombre, Cantidad: -vc.Cantidad}
	}
	return out
}

// Movimiento es una entrada inmutable del registro de movimientos. Nunca se
// actualiza ni borra; las reversiones se asientan como entradas compensatorias
// nuevas. Las transferencias escriben dos entradas que comparten TransaccionID.
type Movimiento struct {
	ID             int64
	TransaccionID  string
	Tipo           string
	ProductoID     string
	Cantidad       int
	Desglose       Desglose
	Origen         Ubicacion
	Destino        *Ubicacion // nil para sumideros terminales (VENTA, MERMA)
	PrecioUnitario decimal.Decimal
	Referencia     string // "venta:<id>", "merma", "ajuste", "reversa:<id>", ...
	Fecha          time.Time
	CreadoEn       time.Time
}
