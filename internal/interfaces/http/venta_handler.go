package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/application/sales"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// VentaHandler maneja el libro de ventas por vendedor (protegido). Un
// vendedor solo opera sobre sus propias ventas; admin y bodeguero sobre
// cualquiera.
type VentaHandler struct {
	uc *sales.UseCase
}

// NewVentaHandler construye el handler.
func NewVentaHandler(uc *sales.UseCase) *VentaHandler {
	return &VentaHandler{uc: uc}
}

// vendedorPermitido aplica el alcance por rol: los vendedores quedan atados a
// su propio vendedor_id.
func vendedorPermitido(c *fiber.Ctx, vendedorID string) bool {
	if GetRole(c) != entity.RolVendedor {
		return true
	}
	return vendedorID == GetVendedorID(c)
}

// Crear godoc
// @Summary      Registrar una venta
// @Description  Debita el stock del vendedor y persiste la venta en una sola
// @Description  transacción; sin stock suficiente no se crea nada.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VentaRequest  true  "Venta"
// @Success      201   {object}  dto.VentaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *VentaHandler) Crear(c *fiber.Ctx) error {
	var in dto.VentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.VendedorID == "" {
		in.VendedorID = GetVendedorID(c)
	}
	if in.ProductoID == "" || in.VendedorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id y vendedor_id son requeridos"})
	}
	if !vendedorPermitido(c, in.VendedorID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no puede vender a nombre de otro vendedor"})
	}
	venta, err := h.uc.Vender(c.Context(), sales.SolicitudVenta{
		ProductoID:     in.ProductoID,
		VendedorID:     in.VendedorID,
		Cantidad:       in.Cantidad,
		Desglose:       aDesglose(in.Desglose),
		PrecioUnitario: in.PrecioUnitario,
		FechaVenta:     in.FechaVenta,
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(aVentaResponse(venta))
}

// Listar godoc
// @Summary      Listar ventas de un vendedor
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        vendedor_id  query  string  false  "Vendedor (los vendedores ven solo el propio)"
// @Param        desde        query  string  false  "Fecha inicial"
// @Param        hasta        query  string  false  "Fecha final"
// @Param        limit        query  int     false  "Límite"  default(100)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {array}  dto.VentaResponse
// @Router       /api/ventas [get]
func (h *VentaHandler) Listar(c *fiber.Ctx) error {
	vendedorID := c.Query("vendedor_id")
	if vendedorID == "" {
		vendedorID = GetVendedorID(c)
	}
	if vendedorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "vendedor_id es requerido"})
	}
	if !vendedorPermitido(c, vendedorID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede consultar sus propias ventas"})
	}
	desde, hasta, err := parseFechas(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
	}
	ventas, err := h.uc.ListarVentas(vendedorID, desde, hasta, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(aVentaResponses(ventas))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.VentaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *VentaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	venta, err := h.uc.ObtenerVenta(id)
	if err != nil {
		return responderError(c, err)
	}
	if !vendedorPermitido(c, venta.VendedorID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede consultar sus propias ventas"})
	}
	return c.JSON(aVentaResponse(venta))
}

// Editar godoc
// @Summary      Editar una venta
// @Description  Revierte la venta original y asienta la nueva con el mismo ID
// @Description  en una sola transacción; ambos lados o ninguno.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.VentaRequest  true  "Nuevos datos"
// @Success      200   {object}  dto.VentaResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [put]
func (h *VentaHandler) Editar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.VentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	original, err := h.uc.ObtenerVenta(id)
	if err != nil {
		return responderError(c, err)
	}
	if !vendedorPermitido(c, original.VendedorID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede editar sus propias ventas"})
	}
	if in.VendedorID == "" {
		in.VendedorID = original.VendedorID
	}
	if in.ProductoID == "" {
		in.ProductoID = original.ProductoID
	}
	// El alcance aplica a ambos lados de la edición: la venta original y el
	// vendedor al que quedaría asignada.
	if !vendedorPermitido(c, in.VendedorID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no puede reasignar la venta a otro vendedor"})
	}
	venta, err := h.uc.EditarVenta(c.Context(), id, sales.SolicitudVenta{
		ProductoID:     in.ProductoID,
		VendedorID:     in.VendedorID,
		Cantidad:       in.Cantidad,
		Desglose:       aDesglose(in.Desglose),
		PrecioUnitario: in.PrecioUnitario,
		FechaVenta:     in.FechaVenta,
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(aVentaResponse(venta))
}

// Revertir godoc
// @Summary      Revertir una venta
// @Description  Acredita el stock de vuelta al vendedor y elimina el registro
// @Description  de venta, en una sola transacción.
// @Tags         ventas
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [delete]
func (h *VentaHandler) Revertir(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	venta, err := h.uc.ObtenerVenta(id)
	if err != nil {
		return responderError(c, err)
	}
	if !vendedorPermitido(c, venta.VendedorID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede revertir sus propias ventas"})
	}
	if err := h.uc.RevertirVenta(c.Context(), id); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
