package postgres

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizar baja a minúsculas y quita diacríticos, para que la búsqueda de
// productos encuentre "Cafetería" con "cafeteria". Se persiste junto al
// nombre (columna nombre_normalizado) para poder indexar la comparación.
func Normalizar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
