package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/domain"
)

// responderError mapea la taxonomía de errores de dominio a estados HTTP.
// Los handlers solo delegan aquí para no repetir el switch en cada endpoint.
func responderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrVarianteNoEncontrada):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VARIANT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrProductoNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrVentaNoEncontrada):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SALE_NOT_FOUND", Message: "venta no encontrada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no encontrado"})
	case errors.Is(err, domain.ErrStockInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrOcupado):
		// El registro del producto está bloqueado por otra operación; el
		// cliente puede reintentar.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BUSY", Message: "registro ocupado, reintente"})
	case errors.Is(err, domain.ErrInvarianteViolada):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LEDGER_INCONSISTENT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// parseFechas lee los query params desde/hasta en formato RFC 3339 o
// YYYY-MM-DD. Devuelve nil para los ausentes.
func parseFechas(c *fiber.Ctx) (desde, hasta *time.Time, err error) {
	if s := c.Query("desde"); s != "" {
		t, perr := parseFecha(s)
		if perr != nil {
			return nil, nil, perr
		}
		desde = &t
	}
	if s := c.Query("hasta"); s != "" {
		t, perr := parseFecha(s)
		if perr != nil {
			return nil, nil, perr
		}
		hasta = &t
	}
	return desde, hasta, nil
}

func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
