package repository

import "github.com/tu-usuario/almacen-pro/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia de cuentas.
type UsuarioRepository interface {
	Create(usuario *entity.Usuario) error
	GetByID(id string) (*entity.Usuario, error)
	GetByEmail(email string) (*entity.Usuario, error)
}
