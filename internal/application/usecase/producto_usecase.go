package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// ProductoUseCase casos de uso CRUD para productos. Las cantidades se manejan
// exclusivamente vía movimientos: editar un producto nunca cambia su stock.
type ProductoUseCase struct {
	repo repository.ProductoRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository) *ProductoUseCase {
	return &ProductoUseCase{repo: repo}
}

// Create crea un producto con sus definiciones de variantes.
func (uc *ProductoUseCase) Create(in dto.CreateProductoRequest) (*dto.ProductoResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrEntradaInvalida
	}
	if in.TieneVariantes && len(in.Variantes) == 0 {
		return nil, domain.ErrEntradaInvalida
	}
	now := time.Now()
	producto := &entity.Producto{
		ID:             uuid.New().String(),
		Nombre:         in.Nombre,
		PrecioVenta:    in.PrecioVenta,
		PrecioCompra:   in.PrecioCompra,
		PorcGanancia:   in.PorcGanancia,
		TieneVariantes: in.TieneVariantes,
		Variantes:      in.Variantes,
		CreadoEn:       now,
		ActualizadoEn:  now,
	}
	if err := uc.repo.Create(producto); err != nil {
		return nil, err
	}
	return toProductoResponse(producto), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductoUseCase) GetByID(id string) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrProductoNoEncontrado
	}
	return toProductoResponse(producto), nil
}

// List busca productos por nombre (insensible a acentos y mayúsculas).
func (uc *ProductoUseCase) List(busqueda string, limit, offset int) ([]*dto.ProductoResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	productos, err := uc.repo.List(busqueda, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, toProductoResponse(p))
	}
	return out, nil
}

// Update actualiza metadatos (nombre, precios, definiciones de variantes).
// La distinción con las cantidades es deliberada y se preserva aquí: este
// camino no puede tocar stock.
func (uc *ProductoUseCase) Update(id string, in dto.UpdateProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrProductoNoEncontrado
	}
	if in.Nombre != "" {
		producto.Nombre = in.Nombre
	}
	if in.PrecioVenta != nil {
		producto.PrecioVenta = *in.PrecioVenta
	}
	if in.PrecioCompra != nil {
		producto.PrecioCompra = *in.PrecioCompra
	}
	if in.PorcGanancia != nil {
		producto.PorcGanancia = in.PorcGanancia
	}
	if in.Variantes != nil {
		if producto.TieneVariantes && len(in.Variantes) == 0 {
			return nil, domain.ErrEntradaInvalida
		}
		producto.Variantes = in.Variantes
	}
	producto.ActualizadoEn = time.Now()
	if err := uc.repo.UpdateMetadata(producto); err != nil {
		return nil, err
	}
	return toProductoResponse(producto), nil
}

// Delete elimina un producto. Las ventas históricas conservan su foto de
// ganancia; revertirlas después fallará con ErrProductoNoEncontrado.
func (uc *ProductoUseCase) Delete(id string) error {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if producto == nil {
		return domain.ErrProductoNoEncontrado
	}
	return uc.repo.Delete(id)
}

func toProductoResponse(p *entity.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:             p.ID,
		Nombre:         p.Nombre,
		PrecioVenta:    p.PrecioVenta,
		PrecioCompra:   p.PrecioCompra,
		PorcGanancia:   p.PorcGanancia,
		TieneVariantes: p.TieneVariantes,
		Variantes:      p.Variantes,
		CreadoEn:       p.CreadoEn,
	}
}
