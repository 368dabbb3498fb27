// Package ledger contiene servicios de dominio puros del libro de stock.
package ledger

import (
	"strings"
	"unicode"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// EsVariantePlaceholder detecta filas de variante heredadas o de relleno:
// nombres en blanco o puramente numéricos. Se excluyen de todo cálculo de
// "cuánto hay realmente en stock" pero no se borran; el motor las tolera.
func EsVariantePlaceholder(nombre string) bool {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return true
	}
	for _, r := range nombre {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// SumaValida calcula la suma de cantidades de las variantes válidas (excluye
// placeholders). Es el único valor que puede escribirse como escalar de un
// producto con variantes.
func SumaValida(variantes []entity.Variante) int {
	total := 0
	for _, v := range variantes {
		if EsVariantePlaceholder(v.Nombre) {
			continue
		}
		total += v.Cantidad
	}
	return total
}
