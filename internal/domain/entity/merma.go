package entity

import "time"

// Merma es un registro de desperdicio. VendedorID vacío significa que la merma
// salió directamente del pool compartido (Cafetería) y no del stock de un
// vendedor. Las mermas se agrupan por producto al mostrarse, pero se revierten
// individualmente.
type Merma struct {
	ID         string
	ProductoID string
	VendedorID string
	Cantidad   int
	Desglose   Desglose
	Fecha      time.Time
}

// VendedorCocina es el VendedorID convencional para gastos del área de
// producción.
const VendedorCocina = "cocina"

// Origen devuelve la ubicación de la que se descontó la merma.
func (m *Merma) Origen() Ubicacion {
	switch m.VendedorID {
	case "":
		return Cafeteria()
	case VendedorCocina:
		return Cocina()
	}
	return Vendedor(m.VendedorID)
}
