package postgres

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations fuente de migraciones embebidas en el binario.
func Migrations() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationsFS, Root: "migrations"}
}

// Migrate aplica las migraciones pendientes usando una *sql.DB sobre el pool pgx.
// Devuelve cuántas se aplicaron.
func Migrate(pool *pgxpool.Pool) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	n, err := migrate.Exec(db, "postgres", Migrations(), migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("aplicar migraciones: %w", err)
	}
	return n, nil
}
