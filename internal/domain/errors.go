package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")
	ErrVarianteNoEncontrada = errors.New("variante no encontrada en el producto")
	ErrEntradaInvalida      = errors.New("entrada inválida")
	ErrStockInsuficiente    = errors.New("stock insuficiente")
	ErrOcupado              = errors.New("recurso ocupado, reintentar")
	ErrInvarianteViolada    = errors.New("invariante de stock violada")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrDuplicate            = errors.New("recurso duplicado")
)

// StockInsuficienteError detalla un rechazo por stock insuficiente: cuánto se pidió
// y cuánto había. Variante vacía significa que el faltante es a nivel de producto.
// errors.Is(err, ErrStockInsuficiente) devuelve true para este tipo.
type StockInsuficienteError struct {
	ProductoID string
	Variante   string
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	if e.Variante != "" {
		return fmt.Sprintf("stock insuficiente de %q variante %q: solicitado %d, disponible %d",
			e.ProductoID, e.Variante, e.Solicitado, e.Disponible)
	}
	return fmt.Sprintf("stock insuficiente de %q: solicitado %d, disponible %d",
		e.ProductoID, e.Solicitado, e.Disponible)
}

// Is permite comparar contra el centinela ErrStockInsuficiente.
func (e *StockInsuficienteError) Is(target error) bool {
	return target == ErrStockInsuficiente
}

// InvarianteError surge cuando el escalar de un producto con variantes no coincide
// con la suma de sus variantes válidas antes de aplicar una escritura. Nunca se
// silencia: indica corrupción del libro de stock.
type InvarianteError struct {
	ProductoID string
	Ubicacion  string
	Escalar    int
	SumaValida int
}

func (e *InvarianteError) Error() string {
	return fmt.Sprintf("invariante violada en %q (%s): escalar %d != suma de variantes %d",
		e.ProductoID, e.Ubicacion, e.Escalar, e.SumaValida)
}

// Is permite comparar contra el centinela ErrInvarianteViolada.
func (e *InvarianteError) Is(target error) bool {
	return target == ErrInvarianteViolada
}
