package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/auth"
	"github.com/jhoicas/vero-api/internal/application/dto"
)

// AuthHandler maneja registro, login y claves Stellar del usuario.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario (queda PENDING hasta aprobación)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Consultores e inversores solo pueden ingresar con estado APPROVED.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "PENDING_APPROVAL o ACCOUNT_REJECTED"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetStellarKey godoc
// @Summary      Registrar claves Stellar del usuario
// @Description  La secret key se guarda cifrada y nunca se devuelve.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StellarKeyRequest  true  "publicKey, secretKey opcional"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/stellar-key [post]
func (h *AuthHandler) SetStellarKey(c *fiber.Ctx) error {
	var in dto.StellarKeyRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetStellarKeys(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
