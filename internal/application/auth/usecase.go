package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/pkg/jwt"
	"github.com/jhoicas/vero-api/pkg/logger"
	"github.com/jhoicas/vero-api/pkg/stellar"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SecretSealer cifra la secret key Stellar antes de persistirla (implementado por pkg/vault).
type SecretSealer interface {
	Enabled() bool
	Seal(plaintext string) (string, error)
}

// AuthUseCase casos de uso de autenticación: registro, login, perfil y claves Stellar.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sealer   SecretSealer
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sealer SecretSealer, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, sealer: sealer, jwtCfg: jwtCfg, log: log.Component("auth"), now: time.Now}
}

// RegisterUser crea un CONSULTANT o INVESTOR en estado PENDING.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role != entity.RoleConsultant && in.Role != entity.RoleInvestor {
		return nil, domain.NewValidationError("role", "oneof", "solo CONSULTANT o INVESTOR pueden registrarse")
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       entity.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario registrado, pendiente de aprobación")
	out := dto.FromUser(user)
	return &out, nil
}

// Login verifica email/password y el estado de aprobación, y emite el JWT.
// Credenciales inválidas -> ErrUnauthenticated; PENDING -> ErrPendingApproval; REJECTED -> ErrAccountRejected.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthenticated)
	}
	if user.RequiresApproval() {
		switch user.Status {
		case entity.StatusApproved:
		case entity.StatusRejected:
			return nil, domain.ErrAccountRejected
		default:
			return nil, domain.ErrPendingApproval
		}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.FromUser(user)}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, actor access.Actor) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.FromUser(user)
	return &out, nil
}

// SetStellarKeys guarda la clave pública y, si se envía, la secret key cifrada.
// La secret key debe corresponder a la clave pública.
func (uc *AuthUseCase) SetStellarKeys(ctx context.Context, actor access.Actor, in dto.StellarKeyRequest) (*dto.UserResponse, error) {
	if !stellar.ValidPublicKey(in.PublicKey) {
		return nil, domain.NewValidationError("publicKey", "strkey", "clave pública Stellar inválida")
	}
	var sealed string
	if in.SecretKey != "" {
		pub, err := stellar.PublicKeyFromSecret(in.SecretKey)
		if err != nil {
			return nil, domain.NewValidationError("secretKey", "strkey", "secret key Stellar inválida")
		}
		if pub != in.PublicKey {
			return nil, domain.NewValidationError("secretKey", "keypair", "la secret key no corresponde a la clave pública")
		}
		if uc.sealer == nil || !uc.sealer.Enabled() {
			return nil, errors.New("auth: almacenamiento de secret keys deshabilitado (VAULT_KEY vacía)")
		}
		if sealed, err = uc.sealer.Seal(in.SecretKey); err != nil {
			return nil, fmt.Errorf("auth: cifrar secret key: %w", err)
		}
	}
	if err := uc.userRepo.UpdateStellarKeys(ctx, actor.UserID, in.PublicKey, sealed, uc.now()); err != nil {
		return nil, err
	}
	return uc.Me(ctx, actor)
}

// EnsureManager crea la cuenta MANAGER si el email no existe. Idempotente: created=false si ya estaba.
func (uc *AuthUseCase) EnsureManager(ctx context.Context, email, password string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return false, domain.NewValidationError("password", "min", "MANAGER_EMAIL y MANAGER_PASSWORD (mínimo 6) son requeridos")
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("auth: buscar gestor: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleManager {
			return false, fmt.Errorf("%w: %s ya existe con rol %s", domain.ErrConflict, email, existing.Role)
		}
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleManager,
		Status:       entity.StatusApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("email", email).Msg("gestor creado")
	return true, nil
}
