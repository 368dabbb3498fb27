package repository

import "github.com/tu-usuario/almacen-pro/internal/domain/entity"

// ProductoRepository define el puerto de persistencia para productos y sus
// definiciones de variantes. Las operaciones de edición cubren solo metadatos
// (nombre, precios, definiciones): las cantidades solo las toca el ejecutor
// de movimientos vía StockRepository.
type ProductoRepository interface {
	Create(producto *entity.Producto) error
	GetByID(id string) (*entity.Producto, error)
	// List busca por nombre (vacío = todos) con comparación insensible a
	// acentos y mayúsculas.
	List(busqueda string, limit, offset int) ([]*entity.Producto, error)
	// UpdateMetadata actualiza nombre, precios y definiciones de variantes.
	// Nunca escribe cantidades.
	UpdateMetadata(producto *entity.Producto) error
	Delete(id string) error
}
