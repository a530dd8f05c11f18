// Package stellar adapta ports.LedgerService a la API REST de Horizon.
package stellar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"

	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/pkg/config"
	"github.com/jhoicas/vero-api/pkg/stellar"
)

var _ ports.LedgerService = (*HorizonService)(nil)

// simulatedNativeBalance saldo XLM que reporta el modo simulado para cualquier cuenta válida.
var simulatedNativeBalance = decimal.RequireFromString("10000.0000000")

// HorizonService consulta saldos con el cliente Horizon del SDK y simula el envío de pagos.
type HorizonService struct {
	client     *horizonclient.Client
	passphrase string
	simulate   bool
	ledger     atomic.Int64
	now        func() time.Time
}

// NewHorizonService construye el adaptador a partir de la configuración Stellar.
func NewHorizonService(cfg config.StellarConfig) *HorizonService {
	s := &HorizonService{
		client: &horizonclient.Client{
			HorizonURL: strings.TrimRight(cfg.HorizonURL, "/") + "/",
			HTTP:       &http.Client{Timeout: 15 * time.Second},
		},
		passphrase: cfg.NetworkPassphrase,
		simulate:   cfg.Simulate,
		now:        time.Now,
	}
	s.ledger.Store(1_000_000)
	return s
}

// GenerateKeypair crea un keypair ed25519 en formato strkey.
func (s *HorizonService) GenerateKeypair() (ports.LedgerKeypair, error) {
	kp, err := stellar.RandomKeypair()
	if err != nil {
		return ports.LedgerKeypair{}, err
	}
	return ports.LedgerKeypair{PublicKey: kp.PublicKey, SecretKey: kp.SecretKey}, nil
}

// LoadAccountBalance devuelve los saldos de la cuenta. Cuenta inexistente en la red -> ErrNotFound.
func (s *HorizonService) LoadAccountBalance(ctx context.Context, publicKey string) ([]ports.LedgerBalance, error) {
	if !stellar.ValidPublicKey(publicKey) {
		return nil, domain.NewValidationError("publicKey", "strkey", "clave pública Stellar inválida")
	}
	if s.simulate {
		return []ports.LedgerBalance{{AssetType: "native", Balance: simulatedNativeBalance}}, nil
	}

	account, err := s.accountDetail(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	out := make([]ports.LedgerBalance, 0, len(account.Balances))
	for _, b := range account.Balances {
		amount, err := decimal.NewFromString(b.Balance)
		if err != nil {
			return nil, fmt.Errorf("horizon: saldo inválido %q: %w", b.Balance, err)
		}
		out = append(out, ports.LedgerBalance{
			AssetType:   b.Type,
			AssetCode:   b.Code,
			AssetIssuer: b.Issuer,
			Balance:     amount,
		})
	}
	return out, nil
}

type accountResult struct {
	account hProtocol.Account
	err     error
}

// accountDetail consulta /accounts/{id}. El cliente Horizon no recibe contexto, así que la
// llamada corre en una goroutine y se abandona si ctx termina antes.
func (s *HorizonService) accountDetail(ctx context.Context, publicKey string) (*hProtocol.Account, error) {
	ch := make(chan accountResult, 1)
	go func() {
		acc, err := s.client.AccountDetail(horizonclient.AccountRequest{AccountID: publicKey})
		ch <- accountResult{account: acc, err: err}
	}()

	var res accountResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("horizon: timeout o cancelación: %w", ctx.Err())
	case res = <-ch:
	}
	if res.err == nil {
		return &res.account, nil
	}
	if horizonclient.IsNotFoundError(res.err) {
		return nil, fmt.Errorf("%w: la cuenta %s no existe en la red", domain.ErrNotFound, publicKey)
	}
	if hErr := horizonclient.GetError(res.err); hErr != nil {
		if hErr.Problem.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: la cuenta %s no existe en la red", domain.ErrNotFound, publicKey)
		}
		return nil, fmt.Errorf("horizon: %s (%d): %s", hErr.Problem.Title, hErr.Problem.Status, hErr.Problem.Detail)
	}
	return nil, fmt.Errorf("horizon: consultar cuenta: %w", res.err)
}

// SubmitPayment valida el pago y devuelve un resultado simulado; el hash es SHA-256 del pago.
// La firma real del envelope XDR no está implementada, por eso no depende de s.simulate.
func (s *HorizonService) SubmitPayment(ctx context.Context, secretKey, destination string, asset ports.LedgerAsset, amount decimal.Decimal) (*ports.LedgerPaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source, err := stellar.PublicKeyFromSecret(secretKey)
	if err != nil {
		return nil, domain.NewValidationError("secretKey", "strkey", "secret key Stellar inválida")
	}
	if !stellar.ValidPublicKey(destination) {
		return nil, domain.NewValidationError("destination", "strkey", "cuenta destino inválida")
	}
	if asset.Code != "" && !stellar.ValidPublicKey(asset.Issuer) {
		return nil, domain.NewValidationError("assetIssuer", "strkey", "un activo no nativo requiere emisor válido")
	}
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "gt", "amount debe ser positivo")
	}

	ledger := s.ledger.Add(1)
	payload := strings.Join([]string{
		s.passphrase,
		source,
		destination,
		assetString(asset),
		amount.StringFixed(7),
		fmt.Sprintf("%d", ledger),
		s.now().UTC().Format(time.RFC3339Nano),
	}, "|")
	sum := sha256.Sum256([]byte(payload))

	return &ports.LedgerPaymentResult{
		Hash:       hex.EncodeToString(sum[:]),
		Ledger:     ledger,
		Successful: true,
	}, nil
}

func assetString(a ports.LedgerAsset) string {
	if a.Code == "" {
		return "native"
	}
	return a.Code + ":" + a.Issuer
}
