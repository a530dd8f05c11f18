// Package ledger expone el colaborador Stellar (claves, saldos, pagos) a la capa HTTP.
package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/pkg/logger"
)

// UseCase envuelve ports.LedgerService con validación de entrada.
type UseCase struct {
	svc ports.LedgerService
	log *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(svc ports.LedgerService, log *logger.Logger) *UseCase {
	return &UseCase{svc: svc, log: log.Component("ledger")}
}

// GenerateKeys crea un keypair nuevo. La secret key no se persiste.
func (uc *UseCase) GenerateKeys() (*dto.KeypairResponse, error) {
	kp, err := uc.svc.GenerateKeypair()
	if err != nil {
		return nil, fmt.Errorf("ledger: generar keypair: %w", err)
	}
	return &dto.KeypairResponse{PublicKey: kp.PublicKey, SecretKey: kp.SecretKey}, nil
}

// Balance consulta los saldos de una cuenta.
func (uc *UseCase) Balance(ctx context.Context, publicKey string) (*dto.BalanceResponse, error) {
	balances, err := uc.svc.LoadAccountBalance(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	out := &dto.BalanceResponse{PublicKey: publicKey, Balances: make([]dto.BalanceDTO, 0, len(balances))}
	for _, b := range balances {
		out.Balances = append(out.Balances, dto.BalanceDTO{
			AssetType:   b.AssetType,
			AssetCode:   b.AssetCode,
			AssetIssuer: b.AssetIssuer,
			Balance:     b.Balance,
		})
	}
	return out, nil
}

// Transfer envía un pago. amount debe ser positivo y con a lo sumo 7 decimales (precisión de Stellar).
func (uc *UseCase) Transfer(ctx context.Context, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "gt", "amount debe ser positivo")
	}
	if !in.Amount.Equal(in.Amount.Truncate(7)) {
		return nil, domain.NewValidationError("amount", "precision", "amount admite hasta 7 decimales")
	}
	res, err := uc.svc.SubmitPayment(ctx, in.SecretKey, in.Destination, ports.LedgerAsset{Code: in.AssetCode, Issuer: in.AssetIssuer}, in.Amount)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("destination", in.Destination).
		Str("asset", assetLabel(in.AssetCode)).
		Str("amount", in.Amount.String()).
		Str("hash", res.Hash).
		Msg("pago enviado")
	return &dto.TransferResponse{Hash: res.Hash, Ledger: res.Ledger, Successful: res.Successful}, nil
}

func assetLabel(code string) string {
	if code == "" {
		return "XLM"
	}
	return code
}
