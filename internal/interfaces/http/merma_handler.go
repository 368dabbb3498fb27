package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/sales"
)

// MermaHandler maneja el registro de desperdicios (protegido).
type MermaHandler struct {
	uc *sales.UseCase
}

// NewMermaHandler construye el handler.
func NewMermaHandler(uc *sales.UseCase) *MermaHandler {
	return &MermaHandler{uc: uc}
}

// Crear godoc
// @Summary      Registrar una merma
// @Description  Debita el stock del origen y persiste la merma en una sola
// @Description  transacción. vendedor_id vacío descuenta de cafetería;
// @Description  "cocina" descuenta del área de producción.
// @Tags         mermas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MermaRequest  true  "Merma"
// @Success      201   {object}  dto.MermaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/mermas [post]
func (h *MermaHandler) Crear(c *fiber.Ctx) error {
	var in dto.MermaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id es requerido"})
	}
	merma, err := h.uc.CrearMerma(c.Context(), sales.SolicitudMerma{
		ProductoID: in.ProductoID,
		VendedorID: in.VendedorID,
		Cantidad:   in.Cantidad,
		Desglose:   aDesglose(in.Desglose),
		Fecha:      in.Fecha,
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(aMermaResponse(merma))
}

// Listar godoc
// @Summary      Listar mermas
// @Description  Agrupadas por producto; filtrable por producto_id o rango de
// @Description  fechas.
// @Tags         mermas
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  false  "Filtrar por producto"
// @Param        desde        query  string  false  "Fecha inicial"
// @Param        hasta        query  string  false  "Fecha final"
// @Param        limit        query  int     false  "Límite"  default(100)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {array}  dto.MermaResponse
// @Router       /api/mermas [get]
func (h *MermaHandler) Listar(c *fiber.Ctx) error {
	if productoID := c.Query("producto_id"); productoID != "" {
		mermas, err := h.uc.ListarMermasPorProducto(productoID)
		if err != nil {
			return responderError(c, err)
		}
		return c.JSON(aMermaResponses(mermas))
	}
	desde, hasta, err := parseFechas(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
	}
	mermas, err := h.uc.ListarMermas(desde, hasta, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(aMermaResponses(mermas))
}

// Eliminar godoc
// @Summary      Eliminar una merma
// @Description  Acredita el stock de vuelta al origen y elimina el registro,
// @Description  en una sola transacción.
// @Tags         mermas
// @Security     Bearer
// @Param        id  path  string  true  "ID de la merma"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mermas/{id} [delete]
func (h *MermaHandler) Eliminar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.EliminarMerma(c.Context(), id); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
