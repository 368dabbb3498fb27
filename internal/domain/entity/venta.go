package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta es un registro del libro de ventas de un vendedor. Inmutable salvo la
// ruta explícita de reversión: editar una venta es revertirla y volver a vender.
type Venta struct {
	ID             string
	ProductoID     string
	VendedorID     string
	Cantidad       int
	Desglose       Desglose
	PrecioUnitario decimal.Decimal
	Total          decimal.Decimal
	// PorcGanancia se fotografía del producto al momento de vender, para que
	// ediciones posteriores del producto no alteren ganancias históricas.
	PorcGanancia *decimal.Decimal
	FechaVenta   time.Time // fecha de negocio elegida por el usuario
	CreadoEn     time.Time
}
