package dto

import "time"

// CreatePartyRequest entrada para registrar un cedente o sacado en un fondo propio.
type CreatePartyRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=200"`
	Document         string `json:"document" validate:"required,min=5,max=32"`
	Address          string `json:"address" validate:"omitempty,max=300"`
	StellarPublicKey string `json:"publicKey" validate:"omitempty,len=56,startswith=G"`
	FundID           string `json:"fundId" validate:"required,uuid"`
}

// PartyResponse salida de cedente/sacado.
type PartyResponse struct {
	ID               string    `json:"id"`
	Kind             string    `json:"kind"`
	Name             string    `json:"name"`
	Document         string    `json:"document"`
	Address          string    `json:"address,omitempty"`
	StellarPublicKey string    `json:"publicKey,omitempty"`
	Status           string    `json:"status"`
	ConsultorID      string    `json:"consultorId"`
	FundID           string    `json:"fundId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
