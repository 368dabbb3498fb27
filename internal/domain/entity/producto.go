package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto representa un producto del almacén. Las cantidades NO viven aquí:
// el stock se lleva por ubicación en la tabla stock (ver entity.Stock), y solo
// el ejecutor de movimientos puede modificarlo. Editar metadatos de un producto
// (nombre, precios) nunca toca cantidades.
type Producto struct {
	ID             string
	Nombre         string
	PrecioVenta    decimal.Decimal
	PrecioCompra   decimal.Decimal
	PorcGanancia   *decimal.Decimal // opcional; se fotografía en cada venta
	TieneVariantes bool
	Variantes      []string // definiciones de variantes (solo nombres; cantidades en stock_variantes)
	CreadoEn       time.Time
	ActualizadoEn  time.Time
}

// TieneVariante indica si el producto define una variante con ese nombre.
func (p *Producto) TieneVariante(nombre string) bool {
	for _, v := range p.Variantes {
		if v == nombre {
			return true
		}
	}
	return false
}
