package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// MovimientoHandler asienta movimientos de stock: entregas de bodega, bajas a
// bodega y transferencias entre vendedores (protegido).
type MovimientoHandler struct {
	executor *ledger.Executor
}

// NewMovimientoHandler construye el handler.
func NewMovimientoHandler(executor *ledger.Executor) *MovimientoHandler {
	return &MovimientoHandler{executor: executor}
}

// Registrar godoc
// @Summary      Asentar una ENTREGA o BAJA
// @Description  ENTREGA acredita al destino desde bodega; BAJA debita del
// @Description  origen hacia bodega. Ventas, mermas y transferencias tienen
// @Description  sus propios endpoints.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarMovimientoRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovimientoHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistrarMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" || in.Tipo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo y producto_id son requeridos"})
	}
	sol := ledger.SolicitudMovimiento{
		Tipo:           in.Tipo,
		ProductoID:     in.ProductoID,
		Cantidad:       in.Cantidad,
		Desglose:       aDesglose(in.Desglose),
		PrecioUnitario: in.PrecioUnitario,
		Referencia:     in.Referencia,
		Fecha:          in.Fecha,
	}
	if in.Origen != "" {
		origen, err := entity.ParseUbicacion(in.Origen)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "origen inválido"})
		}
		sol.Origen = origen
	}
	if in.Destino != "" {
		destino, err := entity.ParseUbicacion(in.Destino)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "destino inválido"})
		}
		sol.Destino = &destino
	}
	mov, err := h.executor.Aplicar(c.Context(), sol)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(aMovimientoResponse(mov))
}

// Transferir godoc
// @Summary      Transferir stock entre vendedores
// @Description  Asienta un par enlazado BAJA+ENTREGA en una sola transacción;
// @Description  si el crédito al destino falla, el débito al origen se
// @Description  revierte.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferenciaRequest  true  "Transferencia"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transferencias [post]
func (h *MovimientoHandler) Transferir(c *fiber.Ctx) error {
	var in dto.TransferenciaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductoID == "" || in.DeVendedorID == "" || in.AVendedorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id, de_vendedor_id y a_vendedor_id son requeridos"})
	}
	err := h.executor.Transferir(c.Context(), ledger.SolicitudTransferencia{
		ProductoID:   in.ProductoID,
		DeVendedorID: in.DeVendedorID,
		AVendedorID:  in.AVendedorID,
		Cantidad:     in.Cantidad,
		Desglose:     aDesglose(in.Desglose),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
