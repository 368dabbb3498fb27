package dto

// DiscrepanciaVariante es la diferencia por variante entre lo registrado y lo
// calculado desde el historial de movimientos.
type DiscrepanciaVariante struct {
	Nombre     string `json:"nombre"`
	Entregas   int    `json:"entregas"`
	Bajas      int    `json:"bajas"`
	Ventas     int    `json:"ventas"`
	Calculado  int    `json:"calculado"`
	Registrado int    `json:"registrado"`
	Diferencia int    `json:"diferencia"` // registrado - calculado
}

// Discrepancia reporta, por producto, el stock calculado desde el historial
// (entregas - bajas - ventas) contra el registrado, con los agregados que lo
// componen para que un operador vea qué lado de los libros es sospechoso.
// Es informativa: el motor nunca autocorrige.
type Discrepancia struct {
	ProductoID string                 `json:"producto_id"`
	Nombre     string                 `json:"nombre,omitempty"`
	Entregas   int                    `json:"entregas"`
	Bajas      int                    `json:"bajas"`
	Ventas     int                    `json:"ventas"`
	Calculado  int                    `json:"calculado"`
	Registrado int                    `json:"registrado"`
	Diferencia int                    `json:"diferencia"` // registrado - calculado
	Variantes  []DiscrepanciaVariante `json:"variantes,omitempty"`
}
