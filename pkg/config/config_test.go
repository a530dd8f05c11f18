package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/pkg/config"
)

func TestLoad_RequiereJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, 24*60, cfg.JWT.Expiration)
	assert.Equal(t, "0.0.0.0:3001", cfg.HTTP.Addr())
	assert.True(t, cfg.Stellar.Simulate)
	assert.Equal(t, "Test SDF Network ; September 2015", cfg.Stellar.NetworkPassphrase)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STELLAR_SIMULATE", "false")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Stellar.Simulate)
}

func TestLoad_VaultKeyLongitudInvalida(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("VAULT_KEY", "abcd")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "vero", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/vero?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestLoad_DBDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("DB_DRIVER", "Memory")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)

	t.Setenv("DB_DRIVER", "mysql")
	_, err = config.Load()
	assert.Error(t, err)
}
