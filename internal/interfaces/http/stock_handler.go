package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/application/usecase"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// StockHandler maneja las consultas de stock e historial, y las correcciones
// manuales (protegido).
type StockHandler struct {
	uc       *usecase.StockUseCase
	executor *ledger.Executor
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase, executor *ledger.Executor) *StockHandler {
	return &StockHandler{uc: uc, executor: executor}
}

// Listar godoc
// @Summary      Snapshot de stock de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ubicacion  path  string  true  "bodega | cafeteria | cocina | vendedor:<id>"
// @Success      200  {array}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{ubicacion} [get]
func (h *StockHandler) Listar(c *fiber.Ctx) error {
	clave := c.Params("ubicacion")
	if clave == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "ubicación es requerida"})
	}
	out, err := h.uc.ListarStock(clave)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// HistorialProducto godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        desde   query  string  false  "Fecha inicial (RFC3339 o YYYY-MM-DD)"
// @Param        hasta   query  string  false  "Fecha final"
// @Param        limit   query  int     false  "Límite"  default(100)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.MovimientoResponse
// @Router       /api/movimientos/producto/{id} [get]
func (h *StockHandler) HistorialProducto(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	desde, hasta, err := parseFechas(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
	}
	out, err := h.uc.HistorialPorProducto(id, desde, hasta, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// HistorialUbicacion godoc
// @Summary      Historial de movimientos que tocan una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ubicacion  path   string  true   "bodega | cafeteria | cocina | vendedor:<id>"
// @Param        desde      query  string  false  "Fecha inicial"
// @Param        hasta      query  string  false  "Fecha final"
// @Param        limit      query  int     false  "Límite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {array}  dto.MovimientoResponse
// @Router       /api/movimientos/ubicacion/{ubicacion} [get]
func (h *StockHandler) HistorialUbicacion(c *fiber.Ctx) error {
	clave := c.Params("ubicacion")
	if clave == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "ubicación es requerida"})
	}
	desde, hasta, err := parseFechas(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
	}
	out, err := h.uc.HistorialPorUbicacion(clave, desde, hasta, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Corregir godoc
// @Summary      Corregir el stock registrado de un producto en una ubicación
// @Description  Fija la cantidad al valor indicado; el delta queda asentado
// @Description  como movimiento de ajuste, nunca como sobreescritura muda.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CorreccionRequest  true  "Valor deseado"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/correccion [post]
func (h *StockHandler) Corregir(c *fiber.Ctx) error {
	var in dto.CorreccionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" || in.Ubicacion == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id y ubicacion son requeridos"})
	}
	ubicacion, err := entity.ParseUbicacion(in.Ubicacion)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ubicación inválida"})
	}
	err = h.executor.CorregirStock(c.Context(), ledger.SolicitudCorreccion{
		ProductoID: in.ProductoID,
		Ubicacion:  ubicacion,
		Cantidad:   in.Cantidad,
		Desglose:   aDesglose(in.Desglose),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
