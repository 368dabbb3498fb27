package entity

import "time"

// Variante es una subcantidad con nombre dentro del stock de un producto
// en una ubicación (ej. "Talla M": 12).
type Variante struct {
	Nombre   string
	Cantidad int
}

// Stock representa la cantidad actual de un producto en una ubicación.
// Para productos con variantes, Cantidad es la suma derivada de las variantes
// válidas y se recalcula en cada mutación; nunca se escribe por separado.
type Stock struct {
	ProductoID    string
	Ubicacion     Ubicacion
	Cantidad      int
	Variantes     []Variante
	ActualizadoEn time.Time
}

// VarianteCantidad devuelve la cantidad registrada de una variante por nombre
// (0 si no existe en esta ubicación).
func (s *Stock) VarianteCantidad(nombre string) int {
	for _, v := range s.Variantes {
		if v.Nombre == nombre {
			return v.Cantidad
		}
	}
	return 0
}

// AjustarVariante suma delta a la variante nombrada, creándola si no existe.
// No recalcula el escalar; eso lo hace el ejecutor con las reglas de
// variantes válidas.
func (s *Stock) AjustarVariante(nombre string, delta int) {
	for i := range s.Variantes {
		if s.Variantes[i].Nombre == nombre {
			s.Variantes[i].Cantidad += delta
			return
		}
	}
	s.Variantes = append(s.Variantes, Variante{Nombre: nombre, Cantidad: delta})
}
