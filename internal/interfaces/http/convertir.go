package http

import (
	"github.com/tu-usuario/almacen-pro/internal/application/dto"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

func aDesglose(in []dto.VarianteCantidadDTO) entity.Desglose {
	if len(in) == 0 {
		return nil
	}
	out := make(entity.Desglose, 0, len(in))
	for _, v := range in {
		out = append(out, entity.VarianteCantidad{Nombre: v.Nombre, Cantidad: v.Cantidad})
	}
	return out
}

func aDesgloseDTO(in entity.Desglose) []dto.VarianteCantidadDTO {
	if len(in) == 0 {
		return nil
	}
	out := make([]dto.VarianteCantidadDTO, 0, len(in))
	for _, v := range in {
		out = append(out, dto.VarianteCantidadDTO{Nombre: v.Nombre, Cantidad: v.Cantidad})
	}
	return out
}

func aVentaResponse(v *entity.Venta) *dto.VentaResponse {
	return &dto.VentaResponse{
		ID:             v.ID,
		ProductoID:     v.ProductoID,
		VendedorID:     v.VendedorID,
		Cantidad:       v.Cantidad,
		Desglose:       aDesgloseDTO(v.Desglose),
		PrecioUnitario: v.PrecioUnitario,
		Total:          v.Total,
		PorcGanancia:   v.PorcGanancia,
		FechaVenta:     v.FechaVenta,
	}
}

func aVentaResponses(ventas []*entity.Venta) []*dto.VentaResponse {
	out := make([]*dto.VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		out = append(out, aVentaResponse(v))
	}
	return out
}

func aMermaResponse(m *entity.Merma) *dto.MermaResponse {
	return &dto.MermaResponse{
		ID:         m.ID,
		ProductoID: m.ProductoID,
		VendedorID: m.VendedorID,
		Cantidad:   m.Cantidad,
		Desglose:   aDesgloseDTO(m.Desglose),
		Fecha:      m.Fecha,
	}
}

func aMermaResponses(mermas []*entity.Merma) []*dto.MermaResponse {
	out := make([]*dto.MermaResponse, 0, len(mermas))
	for _, m := range mermas {
		out = append(out, aMermaResponse(m))
	}
	return out
}

func aMovimientoResponse(m *entity.Movimiento) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:             m.ID,
		TransaccionID:  m.TransaccionID,
		Tipo:           m.Tipo,
		ProductoID:     m.ProductoID,
		Cantidad:       m.Cantidad,
		Desglose:       aDesgloseDTO(m.Desglose),
		Origen:         m.Origen.Clave(),
		PrecioUnitario: m.PrecioUnitario,
		Referencia:     m.Referencia,
		Fecha:          m.Fecha,
	}
	if m.Destino != nil {
		resp.Destino = m.Destino.Clave()
	}
	return resp
}
