package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerKeypair par de claves de una cuenta Stellar (strkey G... / S...).
type LedgerKeypair struct {
	PublicKey string
	SecretKey string
}

// LedgerBalance saldo de un activo en una cuenta.
type LedgerBalance struct {
	AssetType   string
	AssetCode   string
	AssetIssuer string
	Balance     decimal.Decimal
}

// LedgerAsset activo a transferir; Code vacío = XLM nativo.
type LedgerAsset struct {
	Code   string
	Issuer string
}

// LedgerPaymentResult resultado de enviar un pago.
type LedgerPaymentResult struct {
	Hash       string
	Ledger     int64
	Successful bool
}

// LedgerService puerto de salida hacia la red Stellar.
// El núcleo de negocio no depende de él: solo lo usan los endpoints /stellar y el registro de claves.
type LedgerService interface {
	GenerateKeypair() (LedgerKeypair, error)
	LoadAccountBalance(ctx context.Context, publicKey string) ([]LedgerBalance, error)
	SubmitPayment(ctx context.Context, secretKey, destination string, asset LedgerAsset, amount decimal.Decimal) (*LedgerPaymentResult, error)
}
