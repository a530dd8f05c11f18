package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// códigos específicos para los sentinels de validación más frecuentes.
var validationCodes = []struct {
	err  error
	code string
}{
	{domain.ErrExceedsMaxSupply, "EXCEEDS_MAX_SUPPLY"},
	{domain.ErrInsufficientQuotas, "INSUFFICIENT_QUOTAS"},
	{domain.ErrFundNotAvailable, "FUND_NOT_AVAILABLE"},
	{domain.ErrReceivableNotPaid, "RECEIVABLE_NOT_PAID"},
	{domain.ErrNoQuotaHolders, "NO_QUOTA_HOLDERS"},
	{domain.ErrMissingPaidValue, "MISSING_PAID_VALUE"},
	{domain.ErrOrderNotPending, "ORDER_NOT_PENDING"},
	{domain.ErrInvalidTransition, "INVALID_TRANSITION"},
	{domain.ErrNotApprovableTarget, "NOT_APPROVABLE"},
}

// errorStatus clasifica err en status HTTP y código de la respuesta.
func errorStatus(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidInput):
		for _, vc := range validationCodes {
			if errors.Is(err, vc.err) {
				return fiber.StatusBadRequest, vc.code
			}
		}
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrPendingApproval):
		return fiber.StatusForbidden, "PENDING_APPROVAL"
	case errors.Is(err, domain.ErrAccountRejected):
		return fiber.StatusForbidden, "ACCOUNT_REJECTED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrSymbolTaken):
		return fiber.StatusConflict, "SYMBOL_TAKEN"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError traduce errores de dominio a {code, error, details?}.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	body := dto.ErrorResponse{Code: code, Message: err.Error()}

	var verr *domain.ValidationError
	var derr *domain.DetailedError
	switch {
	case errors.As(err, &verr):
		body.Details = verr.Fields
	case errors.As(err, &derr):
		body.Details = derr.Details
	}
	if status == fiber.StatusInternalServerError {
		body.Message = "error interno"
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler manejador global de Fiber: rutas inexistentes, panics recuperados y errores no mapeados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return respondError(c, err)
	}
}
