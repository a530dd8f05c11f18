package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/receivable"
)

// ReceivableHandler recebíveis, pago y distribución.
type ReceivableHandler struct {
	uc *receivable.UseCase
}

// NewReceivableHandler construye el handler.
func NewReceivableHandler(uc *receivable.UseCase) *ReceivableHandler {
	return &ReceivableHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recebível
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceivableRequest  true  "fundId, sacadoId, faceValue, dueDate"
// @Success      201   {object}  dto.ReceivableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receivables [post]
func (h *ReceivableHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceivableRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar recebíveis
// @Description  CONSULTANT: fondos propios. INVESTOR: fondos con cuotas COMPLETED. MANAGER: todos.
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        fundId  query  string  false  "Filtrar por fondo"
// @Success      200     {array}  dto.ReceivableResponse
// @Router       /api/receivables [get]
func (h *ReceivableHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), ActorFrom(c), c.Query("fundId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Marcar recebível como pagado
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del recebível"
// @Param        body  body  dto.MarkPaidRequest  true  "paidValue"
// @Success      200   {object}  dto.ReceivableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/mark-paid [patch]
func (h *ReceivableHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.MarkPaidRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.MarkPaid(c.UserContext(), ActorFrom(c), id, in.PaidValue)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Distribute godoc
// @Summary      Distribuir el pago pro-rata entre inversores
// @Description  Solo recebíveis PAID; la operación es única (PAID -> DISTRIBUTED).
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del recebível"
// @Success      200  {object}  dto.DistributeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/distribute [post]
func (h *ReceivableHandler) Distribute(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Distribute(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Distributions godoc
// @Summary      Ledger de pagos de un recebível
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del recebível"
// @Success      200  {array}  dto.DistributionLine
// @Router       /api/receivables/{id}/distributions [get]
func (h *ReceivableHandler) Distributions(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListDistributions(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StatementPDF godoc
// @Summary      Extracto PDF de la distribución
// @Tags         receivables
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del recebível"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/distributions/pdf [get]
func (h *ReceivableHandler) StatementPDF(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, filename, err := h.uc.StatementPDF(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Receipt godoc
// @Summary      Comprobante XML canónico de la distribución
// @Tags         receivables
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del recebível"
// @Success      200  {file}    binary
// @Header       200  {string}  X-Receipt-Digest  "SHA-256 de la forma canónica"
// @Router       /api/receivables/{id}/distributions/receipt [get]
func (h *ReceivableHandler) Receipt(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	rc, filename, err := h.uc.Receipt(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set("X-Receipt-Digest", rc.Digest)
	return c.Send(rc.XML)
}
