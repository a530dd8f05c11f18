package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/vero-api/internal/application/analytics"
	"github.com/jhoicas/vero-api/internal/application/approval"
	"github.com/jhoicas/vero-api/internal/application/auth"
	"github.com/jhoicas/vero-api/internal/application/fund"
	"github.com/jhoicas/vero-api/internal/application/ledger"
	"github.com/jhoicas/vero-api/internal/application/order"
	"github.com/jhoicas/vero-api/internal/application/party"
	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/application/receivable"
	"github.com/jhoicas/vero-api/internal/application/usecase"
	"github.com/jhoicas/vero-api/internal/domain/repository"
	"github.com/jhoicas/vero-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/vero-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vero-api/internal/infrastructure/postgres"
	infrareceipt "github.com/jhoicas/vero-api/internal/infrastructure/receipt"
	infrastellar "github.com/jhoicas/vero-api/internal/infrastructure/stellar"
	httpRouter "github.com/jhoicas/vero-api/internal/interfaces/http"
	"github.com/jhoicas/vero-api/pkg/config"
	"github.com/jhoicas/vero-api/pkg/logger"
	"github.com/jhoicas/vero-api/pkg/vault"

	_ "github.com/jhoicas/vero-api/docs"
)

// @title						Vero API
// @version					1.0
// @description				Plataforma de fondos tokenizados de recebíveis: aprobaciones, emisión de cuotas, órdenes y distribución pro-rata.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Bool("stellar_simulate", cfg.Stellar.Simulate).
		Msg("iniciando aplicación")

	// Montos como números JSON (no strings) en todas las respuestas.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	var (
		repos         repository.Repos
		txRunner      ports.TxRunner
		analyticsRepo repository.AnalyticsRepository
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		repos, txRunner, analyticsRepo = store.Repos(), store, store.Analytics()
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			n, err := postgres.Migrate(pool)
			if err != nil {
				log.Fatal().Err(err).Msg("aplicar migraciones")
			}
			log.Info().Int("applied", n).Msg("migraciones aplicadas")
		}
		repos, txRunner = postgres.NewRepos(pool), postgres.NewTxRunner(pool)
		analyticsRepo = postgres.NewAnalyticsRepository(pool)
	}

	sealer, err := vault.New(cfg.Vault.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar vault")
	}
	if !sealer.Enabled() {
		log.Warn().Msg("VAULT_KEY vacía: no se aceptarán secret keys Stellar")
	}

	authUC := auth.NewAuthUseCase(repos.Users, sealer, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if cfg.Bootstrap.ManagerPassword != "" {
		if _, err := authUC.EnsureManager(ctx, cfg.Bootstrap.ManagerEmail, cfg.Bootstrap.ManagerPassword); err != nil {
			log.Fatal().Err(err).Msg("sembrar gestor")
		}
	}

	// Colaboradores externos: ledger Stellar, extracto PDF y comprobante XML
	ledgerSvc := infrastellar.NewHorizonService(cfg.Stellar)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	receiptBuilder := infrareceipt.NewXMLBuilder()

	deps := httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(repos.Users),
		ApprovalUC:   approval.NewUseCase(txRunner, log),
		FundUC:       fund.NewUseCase(repos.Funds, repos.Users, txRunner, log),
		PartyUC:      party.NewUseCase(repos.Parties, repos.Funds, log),
		ReceivableUC: receivable.NewUseCase(repos, txRunner, pdfGenerator, receiptBuilder, log),
		OrderUC:      order.NewUseCase(repos.Orders, repos.Funds, txRunner, log),
		LedgerUC:     ledger.NewUseCase(ledgerSvc, log),
		DashboardUC:  appanalytics.NewDashboardUseCase(analyticsRepo),
		JWTSecret:    cfg.JWT.Secret,
	}

	app := httpRouter.NewApp(cfg.App.Name, deps, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Vero API",
		}))
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
