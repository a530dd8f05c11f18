package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/vero-api/internal/application/analytics"
	"github.com/jhoicas/vero-api/internal/application/approval"
	"github.com/jhoicas/vero-api/internal/application/auth"
	"github.com/jhoicas/vero-api/internal/application/fund"
	"github.com/jhoicas/vero-api/internal/application/ledger"
	"github.com/jhoicas/vero-api/internal/application/order"
	"github.com/jhoicas/vero-api/internal/application/party"
	"github.com/jhoicas/vero-api/internal/application/receivable"
	"github.com/jhoicas/vero-api/internal/application/usecase"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ApprovalUC   *approval.UseCase
	FundUC       *fund.UseCase
	PartyUC      *party.UseCase
	ReceivableUC *receivable.UseCase
	OrderUC      *order.UseCase
	LedgerUC     *ledger.UseCase
	DashboardUC  *appanalytics.DashboardUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/stellar-key", authHandler.SetStellarKey)

	// Users (gestor)
	userHandler := NewUserHandler(deps.UserUC, deps.ApprovalUC)
	users := protected.Group("/users")
	users.Get("/", RequireAction(access.ListUsers), userHandler.List)
	users.Patch("/:id/approval", RequireAction(access.ApproveUser), userHandler.Approve)

	// Funds
	fundHandler := NewFundHandler(deps.FundUC, deps.ApprovalUC)
	funds := protected.Group("/funds")
	funds.Post("/", RequireAction(access.CreateFund), fundHandler.Create)
	funds.Get("/", fundHandler.List)
	funds.Get("/:id", fundHandler.GetByID)
	funds.Patch("/:id/approval", RequireAction(access.ApproveFund), fundHandler.Approve)
	funds.Post("/:id/issue", RequireAction(access.IssueQuotas), fundHandler.Issue)
	funds.Patch("/:id/deactivate", RequireAction(access.DeactivateFund), fundHandler.Deactivate)
	funds.Patch("/:id/contract", RequireAction(access.SetFundContract), fundHandler.SetContract)

	// Cedentes y sacados comparten handler
	for path, kind := range map[string]string{"/cedentes": entity.PartyCedente, "/sacados": entity.PartySacado} {
		h := NewPartyHandler(kind, deps.PartyUC, deps.ApprovalUC)
		g := protected.Group(path)
		g.Post("/", RequireAction(access.CreateParty), h.Create)
		g.Get("/", h.List)
		g.Patch("/:id/status", RequireAction(access.ApproveParty), h.Approve)
	}

	// Receivables
	recHandler := NewReceivableHandler(deps.ReceivableUC)
	receivables := protected.Group("/receivables")
	receivables.Post("/", RequireAction(access.CreateReceivable), recHandler.Create)
	receivables.Get("/", recHandler.List)
	receivables.Patch("/:id/mark-paid", RequireAction(access.MarkReceivablePaid), recHandler.MarkPaid)
	receivables.Post("/:id/distribute", RequireAction(access.Distribute), recHandler.Distribute)
	receivables.Get("/:id/distributions", RequireAction(access.ViewDistributions), recHandler.Distributions)
	receivables.Get("/:id/distributions/pdf", RequireAction(access.ViewDistributions), recHandler.StatementPDF)
	receivables.Get("/:id/distributions/receipt", RequireAction(access.ViewDistributions), recHandler.Receipt)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := protected.Group("/orders")
	orders.Post("/", RequireAction(access.PlaceOrder), orderHandler.Place)
	orders.Get("/", orderHandler.List)
	orders.Patch("/:id/complete", RequireAction(access.CompleteOrder), orderHandler.Complete)
	orders.Patch("/:id/cancel", RequireAction(access.CancelOrder), orderHandler.Cancel)

	// Stellar
	stellarHandler := NewStellarHandler(deps.LedgerUC)
	stellarGroup := protected.Group("/stellar")
	stellarGroup.Post("/generate-keys", stellarHandler.GenerateKeys)
	stellarGroup.Post("/balance", stellarHandler.Balance)
	stellarGroup.Post("/transfer", stellarHandler.Transfer)

	// Dashboard del gestor
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", RequireAction(access.ViewDashboard), dashboardHandler.GetSummary)
}
