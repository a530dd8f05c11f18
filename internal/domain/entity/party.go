package entity

import "time"

// Tipos de contraparte registrada por el consultor.
const (
	PartyCedente = "CEDENTE" // originador que cede el recebível al fondo
	PartySacado  = "SACADO"  // deudor obligado a pagar el recebível
)

// Party cedente o sacado; ambos comparten forma y ciclo de aprobación.
type Party struct {
	ID               string
	Kind             string
	Name             string
	Document         string // CPF/CNPJ
	Address          string
	StellarPublicKey string
	Status           string
	ConsultorID      string
	FundID           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
