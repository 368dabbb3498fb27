package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/ledger"
)

func TestEsVariantePlaceholder(t *testing.T) {
	casos := []struct {
		nombre      string
		placeholder bool
	}{
		{"Talla M", false},
		{"500ml", false}, // mezcla dígitos y letras: válida
		{"", true},
		{"   ", true},
		{"123", true},
		{"0", true},
		{" 42 ", true}, // numérico con espacios alrededor
		{"M", false},
	}
	for _, c := range casos {
		assert.Equal(t, c.placeholder, ledger.EsVariantePlaceholder(c.nombre),
			"clasificación incorrecta para %q", c.nombre)
	}
}

func TestSumaValida_ExcluyePlaceholders(t *testing.T) {
	variantes := []entity.Variante{
		{Nombre: "Talla M", Cantidad: 5},
		{Nombre: "Talla L", Cantidad: 3},
		{Nombre: "", Cantidad: 100},   // heredada, no cuenta
		{Nombre: "123", Cantidad: 50}, // numérica, no cuenta
	}
	assert.Equal(t, 8, ledger.SumaValida(variantes),
		"la suma solo debe incluir variantes con nombre válido")
}

func TestSumaValida_Vacia(t *testing.T) {
	assert.Zero(t, ledger.SumaValida(nil))
	assert.Zero(t, ledger.SumaValida([]entity.Variante{}))
}
