// seed crea la cuenta MANAGER inicial a partir de MANAGER_EMAIL y MANAGER_PASSWORD.
//
// Uso: go run ./cmd/seed
// Aplica las migraciones pendientes antes de sembrar. Es idempotente: si el gestor ya existe no hace nada.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/vero-api/internal/application/auth"
	"github.com/jhoicas/vero-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vero-api/pkg/config"
	"github.com/jhoicas/vero-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver != "postgres" {
		fmt.Fprintln(os.Stderr, "seed solo aplica con DB_DRIVER=postgres; en memoria el gestor se siembra al arrancar la API")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	n, err := postgres.Migrate(pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Migraciones aplicadas: %d\n", n)

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), nil, auth.JWTConfig{Secret: cfg.JWT.Secret}, log)
	created, err := authUC.EnsureManager(ctx, cfg.Bootstrap.ManagerEmail, cfg.Bootstrap.ManagerPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar gestor: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Gestor %s creado\n", cfg.Bootstrap.ManagerEmail)
		return
	}
	fmt.Printf("Gestor %s ya existía, sin cambios\n", cfg.Bootstrap.ManagerEmail)
}
