package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/reconcile"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// ReconcileHandler expone la conciliación de libros por vendedor (protegido).
type ReconcileHandler struct {
	uc *reconcile.UseCase
}

// NewReconcileHandler construye el handler.
func NewReconcileHandler(uc *reconcile.UseCase) *ReconcileHandler {
	return &ReconcileHandler{uc: uc}
}

// Reconciliar godoc
// @Summary      Conciliar los libros de un vendedor
// @Description  Compara el stock registrado contra el calculado desde el
// @Description  historial (entregas - bajas - ventas) producto por producto.
// @Description  Solo lectura: reporta discrepancias, nunca corrige.
// @Tags         reconciliacion
// @Security     Bearer
// @Produce      json
// @Param        vendedorId  path  string  true  "ID del vendedor"
// @Success      200  {array}  dto.Discrepancia
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reconciliacion/{vendedorId} [get]
func (h *ReconcileHandler) Reconciliar(c *fiber.Ctx) error {
	vendedorID := c.Params("vendedorId")
	if vendedorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "vendedorId es requerido"})
	}
	if GetRole(c) == entity.RolVendedor && vendedorID != GetVendedorID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede conciliar sus propios libros"})
	}
	out, err := h.uc.Reconciliar(c.Context(), vendedorID)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}
