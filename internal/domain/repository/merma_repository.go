package repository

import (
	"time"

	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// MermaRepository define el puerto de persistencia de mermas. Las mermas se
// agrupan por producto al listarse pero se borran individualmente; el borrado
// solo lo invoca la ruta de reversión, después de acreditar el stock.
type MermaRepository interface {
	Create(merma *entity.Merma) error
	GetByID(id string) (*entity.Merma, error)
	Delete(id string) error
	ListByProducto(productoID string) ([]*entity.Merma, error)
	List(desde, hasta *time.Time, limit, offset int) ([]*entity.Merma, error)
}
