package dto

import "time"

// RegisterRequest entrada para registro. MANAGER no puede auto-registrarse.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=CONSULTANT INVESTOR"`
}

// UserResponse salida de un usuario (sin password ni secret key).
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Status           string    `json:"status"`
	StellarPublicKey string    `json:"publicKey,omitempty"`
	HasStellarSecret bool      `json:"hasSecretKey"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// StellarKeyRequest registra la cuenta Stellar del usuario. La secret key es opcional y se guarda cifrada.
type StellarKeyRequest struct {
	PublicKey string `json:"publicKey" validate:"required,len=56,startswith=G"`
	SecretKey string `json:"secretKey" validate:"omitempty,len=56,startswith=S"`
}
