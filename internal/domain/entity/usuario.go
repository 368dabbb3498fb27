package entity

import "time"

// Roles válidos para Usuario.
const (
	RolAdmin     = "admin"
	RolBodeguero = "bodeguero"
	RolVendedor  = "vendedor"
)

// Usuario representa una cuenta del sistema. Los vendedores llevan VendedorID
// para atar su sesión a su cuenta de punto de venta.
type Usuario struct {
	ID            string
	Email         string
	PasswordHash  string // bcrypt, nunca plano después de persistir
	Nombre        string
	Rol           string
	VendedorID    string // vacío para admin/bodeguero
	CreadoEn      time.Time
	ActualizadoEn time.Time
}
