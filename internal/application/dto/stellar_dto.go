package dto

import "github.com/shopspring/decimal"

// KeypairResponse par de claves generado.
type KeypairResponse struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// BalanceRequest consulta de saldo de una cuenta.
type BalanceRequest struct {
	PublicKey string `json:"publicKey" validate:"required,len=56,startswith=G"`
}

// BalanceDTO saldo de un activo.
type BalanceDTO struct {
	AssetType   string          `json:"assetType"`
	AssetCode   string          `json:"assetCode,omitempty"`
	AssetIssuer string          `json:"assetIssuer,omitempty"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"number"`
}

// BalanceResponse saldos de la cuenta.
type BalanceResponse struct {
	PublicKey string       `json:"publicKey"`
	Balances  []BalanceDTO `json:"balances"`
}

// TransferRequest pago desde la cuenta del firmante.
type TransferRequest struct {
	SecretKey   string          `json:"secretKey" validate:"required,len=56,startswith=S"`
	Destination string          `json:"destination" validate:"required,len=56,startswith=G"`
	AssetCode   string          `json:"assetCode" validate:"omitempty,max=12"`
	AssetIssuer string          `json:"assetIssuer" validate:"omitempty,len=56"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
}

// TransferResponse resultado del pago.
type TransferResponse struct {
	Hash       string `json:"hash"`
	Ledger     int64  `json:"ledger"`
	Successful bool   `json:"successful"`
}
