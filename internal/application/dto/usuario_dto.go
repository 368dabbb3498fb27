package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Nombre     string `json:"nombre,omitempty"`
	Rol        string `json:"rol,omitempty"`
	VendedorID string `json:"vendedor_id,omitempty"`
}

// UsuarioResponse representación de un usuario (sin hash).
type UsuarioResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Nombre     string `json:"nombre"`
	Rol        string `json:"rol"`
	VendedorID string `json:"vendedor_id,omitempty"`
}

// LoginResponse token + usuario.
type LoginResponse struct {
	Token   string          `json:"token"`
	Usuario UsuarioResponse `json:"usuario"`
}
