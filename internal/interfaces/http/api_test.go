package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/vero-api/internal/application/analytics"
	"github.com/jhoicas/vero-api/internal/application/approval"
	"github.com/jhoicas/vero-api/internal/application/auth"
	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/fund"
	"github.com/jhoicas/vero-api/internal/application/ledger"
	"github.com/jhoicas/vero-api/internal/application/order"
	"github.com/jhoicas/vero-api/internal/application/party"
	"github.com/jhoicas/vero-api/internal/application/receivable"
	"github.com/jhoicas/vero-api/internal/application/usecase"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/vero-api/internal/infrastructure/pdf"
	infrareceipt "github.com/jhoicas/vero-api/internal/infrastructure/receipt"
	infrastellar "github.com/jhoicas/vero-api/internal/infrastructure/stellar"
	apphttp "github.com/jhoicas/vero-api/internal/interfaces/http"
	"github.com/jhoicas/vero-api/pkg/config"
	"github.com/jhoicas/vero-api/pkg/logger"
	"github.com/jhoicas/vero-api/pkg/vault"
)

const (
	managerEmail    = "gestor@vero.com"
	managerPassword = "gestor-123"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

// newTestServer arma la API completa sobre el store en memoria con un MANAGER sembrado.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()

	hash, err := bcrypt.GenerateFromPassword([]byte(managerPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, repos.Users.Create(context.Background(), &entity.User{
		ID: uuid.New().String(), Email: managerEmail, PasswordHash: string(hash),
		Role: entity.RoleManager, Status: entity.StatusApproved, CreatedAt: now, UpdatedAt: now,
	}))

	sealer, err := vault.New(strings.Repeat("ab", 32))
	require.NoError(t, err)

	deps := apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(repos.Users, sealer, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		UserUC:       usecase.NewUserUseCase(repos.Users),
		ApprovalUC:   approval.NewUseCase(store, log),
		FundUC:       fund.NewUseCase(repos.Funds, repos.Users, store, log),
		PartyUC:      party.NewUseCase(repos.Parties, repos.Funds, log),
		ReceivableUC: receivable.NewUseCase(repos, store, infrapdf.NewMarotoPDFGenerator(), infrareceipt.NewXMLBuilder(), log),
		OrderUC:      order.NewUseCase(repos.Orders, repos.Funds, store, log),
		LedgerUC:     ledger.NewUseCase(infrastellar.NewHorizonService(config.StellarConfig{Simulate: true}), log),
		DashboardUC:  appanalytics.NewDashboardUseCase(store.Analytics()),
		JWTSecret:    testJWTSecret,
	}
	return &testServer{app: apphttp.NewApp("vero-api-test", deps, log), store: store}
}

// call envía method path con body JSON opcional; out (si no es nil) recibe la respuesta decodificada.
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "respuesta: %s", string(raw))
	}
	return resp.StatusCode
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	var out dto.LoginResponse
	status := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &out)
	require.Equal(t, http.StatusOK, status)
	return out.Token
}

// registerApproved registra un usuario y lo aprueba con el gestor; devuelve su token.
func (s *testServer) registerApproved(t *testing.T, managerTok, email, role string) (string, dto.UserResponse) {
	t.Helper()
	var user dto.UserResponse
	status := s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: email, Password: "secreto1", Role: role}, &user)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, entity.StatusPending, user.Status)

	status = s.call(t, http.MethodPatch, "/api/users/"+user.ID+"/approval", managerTok, dto.ApprovalRequest{Status: entity.StatusApproved}, &user)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, entity.StatusApproved, user.Status)
	return s.login(t, email, "secreto1"), user
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestLogin_InversorPendiente(t *testing.T) {
	s := newTestServer(t)
	status := s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "inv@vero.com", Password: "secreto1", Role: entity.RoleInvestor}, nil)
	require.Equal(t, http.StatusCreated, status)

	var errBody dto.ErrorResponse
	status = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "inv@vero.com", Password: "secreto1"}, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PENDING_APPROVAL", errBody.Code)

	status = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "inv@vero.com", Password: "otra-clave"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin_CuentaRechazada(t *testing.T) {
	s := newTestServer(t)
	managerTok := s.login(t, managerEmail, managerPassword)

	var user dto.UserResponse
	s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "c@vero.com", Password: "secreto1", Role: entity.RoleConsultant}, &user)
	status := s.call(t, http.MethodPatch, "/api/users/"+user.ID+"/approval", managerTok, dto.ApprovalRequest{Status: entity.StatusRejected}, nil)
	require.Equal(t, http.StatusOK, status)

	var errBody dto.ErrorResponse
	status = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "c@vero.com", Password: "secreto1"}, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "ACCOUNT_REJECTED", errBody.Code)
}

func TestRegister_ValidacionConDetalles(t *testing.T) {
	s := newTestServer(t)
	var errBody struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"details"`
	}
	status := s.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "no-es-email", "password": "123", "role": "MANAGER"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)

	fields := map[string]string{}
	for _, d := range errBody.Details {
		fields[d.Field] = d.Rule
	}
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "min", fields["password"])
	assert.Equal(t, "oneof", fields["role"])
}

func TestRegister_EmailDuplicado(t *testing.T) {
	s := newTestServer(t)
	in := dto.RegisterRequest{Email: "dup@vero.com", Password: "secreto1", Role: entity.RoleInvestor}
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/auth/register", "", in, nil))

	in.Email = "DUP@vero.com"
	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/auth/register", "", in, &errBody))
	assert.Equal(t, "EMAIL_EXISTS", errBody.Code)
}

func TestAprobarFondo_ConsultorSiempre403(t *testing.T) {
	s := newTestServer(t)
	managerTok := s.login(t, managerEmail, managerPassword)
	consultorTok, _ := s.registerApproved(t, managerTok, "c@vero.com", entity.RoleConsultant)

	var f dto.FundResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/funds", consultorTok,
		dto.CreateFundRequest{Name: "Fundo Vero", Symbol: "VERO", MaxSupply: 1000, Price: decimal.NewFromInt(10)}, &f))

	body := dto.ApprovalRequest{Status: entity.StatusApproved}
	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPatch, "/api/funds/"+f.ID+"/approval", consultorTok, body, &errBody))
	assert.Equal(t, "FORBIDDEN", errBody.Code)
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPatch, "/api/funds/"+uuid.New().String()+"/approval", consultorTok, body, nil))
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPatch, "/api/funds/no-es-uuid/approval", consultorTok, body, nil))

	// el gestor sí distingue existencia
	assert.Equal(t, http.StatusNotFound, s.call(t, http.MethodPatch, "/api/funds/"+uuid.New().String()+"/approval", managerTok, body, nil))
	assert.Equal(t, http.StatusNotFound, s.call(t, http.MethodPatch, "/api/funds/no-es-uuid/approval", managerTok, body, nil))
}

func TestSinToken_401(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/api/funds", "", nil, nil))
}

// Escenario completo: registro -> aprobación -> fondo -> emisión -> orden -> pago -> distribución.
func TestEscenarioCompleto(t *testing.T) {
	s := newTestServer(t)
	managerTok := s.login(t, managerEmail, managerPassword)
	consultorTok, _ := s.registerApproved(t, managerTok, "consultor@vero.com", entity.RoleConsultant)
	investorTok, investor := s.registerApproved(t, managerTok, "inversor@vero.com", entity.RoleInvestor)

	// fondo PENDING -> APPROVED
	var f dto.FundResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/funds", consultorTok,
		dto.CreateFundRequest{Name: "Fundo Açaí", Symbol: "açaí-01", MaxSupply: 1000, Price: decimal.NewFromInt(10)}, &f))
	assert.Equal(t, "ACAI01", f.Symbol)
	assert.Equal(t, entity.StatusPending, f.Status)

	// antes de aprobar no admite órdenes
	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/orders", investorTok,
		dto.PlaceOrderRequest{FundID: f.ID, Quantity: 1}, &errBody))
	assert.Equal(t, "FUND_NOT_AVAILABLE", errBody.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPatch, "/api/funds/"+f.ID+"/approval", managerTok,
		dto.ApprovalRequest{Status: entity.StatusApproved}, &f))
	assert.Equal(t, entity.StatusApproved, f.Status)

	// emisión acotada por maxSupply
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/funds/"+f.ID+"/issue", managerTok, dto.IssueQuotasRequest{Amount: 500}, &f))
	assert.Equal(t, int64(500), f.TotalIssued)
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/funds/"+f.ID+"/issue", managerTok, dto.IssueQuotasRequest{Amount: 501}, &errBody))
	assert.Equal(t, "EXCEEDS_MAX_SUPPLY", errBody.Code)

	// orden 100 x 10
	var o dto.OrderResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/orders", investorTok, dto.PlaceOrderRequest{FundID: f.ID, Quantity: 100}, &o))
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(1000)))

	// la reserva cuenta contra lo disponible
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/orders", investorTok, dto.PlaceOrderRequest{FundID: f.ID, Quantity: 401}, &errBody))
	assert.Equal(t, "INSUFFICIENT_QUOTAS", errBody.Code)

	// sin hash de liquidación no se completa
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPatch, "/api/orders/"+o.ID+"/complete", managerTok, dto.CompleteOrderRequest{}, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPatch, "/api/orders/"+o.ID+"/complete", managerTok, dto.CompleteOrderRequest{TxHash: "abc"}, &o))
	assert.Equal(t, entity.OrderCompleted, o.Status)
	assert.Equal(t, "abc", o.TxHash)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/funds/"+f.ID, investorTok, nil, &f))
	assert.Equal(t, int64(100), f.TotalSold)
	assert.Equal(t, int64(400), f.AvailableQuotas)

	// el consultor registra el sacado de su fondo
	var sacado dto.PartyResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/sacados", consultorTok,
		dto.CreatePartyRequest{Name: "Sacado SA", Document: "12345678000190", FundID: f.ID}, &sacado))

	// recebível 5000, pagado 2000
	var r dto.ReceivableResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/receivables", managerTok,
		dto.CreateReceivableRequest{FundID: f.ID, SacadoID: sacado.ID, FaceValue: decimal.NewFromInt(5000), DueDate: time.Now().AddDate(0, 1, 0)}, &r))

	// visibilidad: consultor dueño del fondo e inversor con cuotas lo ven; otro consultor no
	otroTok, _ := s.registerApproved(t, managerTok, "otro@vero.com", entity.RoleConsultant)
	var recs []dto.ReceivableResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/receivables", consultorTok, nil, &recs))
	assert.Len(t, recs, 1)
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/receivables", investorTok, nil, &recs))
	assert.Len(t, recs, 1)
	recs = nil
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/receivables", otroTok, nil, &recs))
	assert.Empty(t, recs)

	// distribuir antes de pagar falla
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/receivables/"+r.ID+"/distribute", managerTok, nil, &errBody))
	assert.Equal(t, "RECEIVABLE_NOT_PAID", errBody.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPatch, "/api/receivables/"+r.ID+"/mark-paid", managerTok,
		dto.MarkPaidRequest{PaidValue: decimal.NewFromInt(2000)}, &r))
	assert.Equal(t, entity.ReceivablePaid, r.Status)

	var dist dto.DistributeResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/receivables/"+r.ID+"/distribute", managerTok, nil, &dist))
	assert.Equal(t, entity.ReceivableDistributed, dist.Receivable.Status)
	assert.Equal(t, int64(100), dist.TotalQuotas)
	require.Len(t, dist.Distributions, 1)
	assert.Equal(t, investor.Email, dist.Distributions[0].InvestorEmail)
	assert.True(t, dist.Distributions[0].Amount.Equal(decimal.NewFromInt(2000)))

	// una segunda distribución se rechaza
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/receivables/"+r.ID+"/distribute", managerTok, nil, nil))

	var lines []dto.DistributionLine
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/receivables/"+r.ID+"/distributions", managerTok, nil, &lines))
	assert.Len(t, lines, 1)

	var summary dto.DashboardSummaryDTO
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/dashboard/summary", managerTok, nil, &summary))
	assert.Equal(t, int64(1), summary.PendingApprovals.Sacados)
	assert.Equal(t, int64(500), summary.Quotas.Issued)
	assert.Equal(t, int64(100), summary.Quotas.Sold)
	assert.Equal(t, int64(1), summary.Receivables.DistributedCount)
	assert.True(t, summary.Receivables.DistributedThisMonth.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodGet, "/api/dashboard/summary", investorTok, nil, nil))

	// documentos
	req := httptest.NewRequest(http.MethodGet, "/api/receivables/"+r.ID+"/distributions/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+managerTok)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Receipt-Digest"), 64)
	xmlBody, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(xmlBody), "<Amount>2000.00</Amount>")

	req = httptest.NewRequest(http.MethodGet, "/api/receivables/"+r.ID+"/distributions/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+managerTok)
	pdfResp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	assert.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	pdfBody, _ := io.ReadAll(pdfResp.Body)
	assert.True(t, bytes.HasPrefix(pdfBody, []byte("%PDF")))
}

func TestCancelarOrden_SoloDueno(t *testing.T) {
	s := newTestServer(t)
	managerTok := s.login(t, managerEmail, managerPassword)
	consultorTok, _ := s.registerApproved(t, managerTok, "c@vero.com", entity.RoleConsultant)
	inv1, _ := s.registerApproved(t, managerTok, "i1@vero.com", entity.RoleInvestor)
	inv2, _ := s.registerApproved(t, managerTok, "i2@vero.com", entity.RoleInvestor)

	var f dto.FundResponse
	s.call(t, http.MethodPost, "/api/funds", consultorTok, dto.CreateFundRequest{Name: "Fundo", Symbol: "FND", MaxSupply: 100, Price: decimal.NewFromInt(1)}, &f)
	s.call(t, http.MethodPatch, "/api/funds/"+f.ID+"/approval", managerTok, dto.ApprovalRequest{Status: entity.StatusApproved}, nil)
	s.call(t, http.MethodPost, "/api/funds/"+f.ID+"/issue", managerTok, dto.IssueQuotasRequest{Amount: 100}, nil)

	var o dto.OrderResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/orders", inv1, dto.PlaceOrderRequest{FundID: f.ID, Quantity: 10}, &o))

	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPatch, "/api/orders/"+o.ID+"/cancel", inv2, nil, nil))
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPatch, "/api/orders/"+o.ID+"/cancel", consultorTok, nil, nil))
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPatch, "/api/orders/"+o.ID+"/cancel", inv1, nil, &o))
	assert.Equal(t, entity.OrderFailed, o.Status)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPatch, "/api/orders/"+o.ID+"/complete", managerTok, dto.CompleteOrderRequest{TxHash: "abc"}, &errBody))
	assert.Equal(t, "ORDER_NOT_PENDING", errBody.Code)

	// el inversor solo ve sus órdenes
	var list []dto.OrderResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/orders", inv2, nil, &list))
	assert.Empty(t, list)
}

func TestStellar_GenerarYConsultarSaldo(t *testing.T) {
	s := newTestServer(t)
	managerTok := s.login(t, managerEmail, managerPassword)

	var kp dto.KeypairResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/stellar/generate-keys", managerTok, nil, &kp))
	assert.True(t, strings.HasPrefix(kp.PublicKey, "G"))

	var bal dto.BalanceResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/stellar/balance", managerTok, dto.BalanceRequest{PublicKey: kp.PublicKey}, &bal))
	require.Len(t, bal.Balances, 1)

	var user dto.UserResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/auth/stellar-key", managerTok,
		dto.StellarKeyRequest{PublicKey: kp.PublicKey, SecretKey: kp.SecretKey}, &user))
	assert.Equal(t, kp.PublicKey, user.StellarPublicKey)
	assert.True(t, user.HasStellarSecret)
}
