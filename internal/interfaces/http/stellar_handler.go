package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/ledger"
)

// StellarHandler expone el colaborador de ledger.
type StellarHandler struct {
	uc *ledger.UseCase
}

// NewStellarHandler construye el handler.
func NewStellarHandler(uc *ledger.UseCase) *StellarHandler {
	return &StellarHandler{uc: uc}
}

// GenerateKeys godoc
// @Summary      Generar keypair Stellar
// @Tags         stellar
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.KeypairResponse
// @Router       /api/stellar/generate-keys [post]
func (h *StellarHandler) GenerateKeys(c *fiber.Ctx) error {
	out, err := h.uc.GenerateKeys()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Consultar saldos de una cuenta
// @Tags         stellar
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BalanceRequest  true  "publicKey"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stellar/balance [post]
func (h *StellarHandler) Balance(c *fiber.Ctx) error {
	var in dto.BalanceRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Balance(c.UserContext(), in.PublicKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Enviar pago
// @Tags         stellar
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "secretKey, destination, asset, amount"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stellar/transfer [post]
func (h *StellarHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Transfer(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
