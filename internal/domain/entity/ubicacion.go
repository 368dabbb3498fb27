package entity

import (
	"fmt"
	"strings"
)

// Tipos de ubicación donde se lleva stock.
const (
	UbicacionBodega    = "bodega"    // fuente autoritativa única
	UbicacionCafeteria = "cafeteria" // pool compartido de punto de venta
	UbicacionCocina    = "cocina"    // área de producción, con sus propios gastos
	UbicacionVendedor  = "vendedor"  // cuenta individual de punto de venta
)

// Ubicacion identifica dónde está el stock de un producto. Para vendedores,
// VendedorID distingue la cuenta; para los demás tipos queda vacío.
type Ubicacion struct {
	Tipo       string
	VendedorID string
}

// Constructores de conveniencia.
func Bodega() Ubicacion            { return Ubicacion{Tipo: UbicacionBodega} }
func Cafeteria() Ubicacion         { return Ubicacion{Tipo: UbicacionCafeteria} }
func Cocina() Ubicacion            { return Ubicacion{Tipo: UbicacionCocina} }
func Vendedor(id string) Ubicacion { return Ubicacion{Tipo: UbicacionVendedor, VendedorID: id} }

// Clave devuelve la representación canónica para persistencia e índices:
// "bodega", "cafeteria", "cocina" o "vendedor:<id>".
func (u Ubicacion) Clave() string {
	if u.Tipo == UbicacionVendedor {
		return UbicacionVendedor + ":" + u.VendedorID
	}
	return u.Tipo
}

// EsVendedor indica si la ubicación es una cuenta de vendedor.
func (u Ubicacion) EsVendedor() bool { return u.Tipo == UbicacionVendedor }

// Valida verifica que la ubicación esté bien formada.
func (u Ubicacion) Valida() bool {
	switch u.Tipo {
	case UbicacionBodega, UbicacionCafeteria, UbicacionCocina:
		return u.VendedorID == ""
	case UbicacionVendedor:
		return u.VendedorID != ""
	}
	return false
}

// ParseUbicacion reconstruye una Ubicacion desde su clave persistida.
func ParseUbicacion(clave string) (Ubicacion, error) {
	switch clave {
	case UbicacionBodega:
		return Bodega(), nil
	case UbicacionCafeteria:
		return Cafeteria(), nil
	case UbicacionCocina:
		return Cocina(), nil
	}
	if id, ok := strings.CutPrefix(clave, UbicacionVendedor+":"); ok && id != "" {
		return Vendedor(id), nil
	}
	return Ubicacion{}, fmt.Errorf("ubicación inválida: %q", clave)
}
