package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqcrm/crm-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "INV-", cfg.Invoice.NumberPrefix)
	assert.Equal(t, 1001, cfg.Invoice.NumberStart)
	assert.Equal(t, "eur", cfg.Invoice.Currency)
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://app.nqcrm.com")
	t.Setenv("INVOICE_NUMBER_START", "5000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "https://app.nqcrm.com", cfg.HTTP.CORSOrigins)
	assert.Equal(t, 5000, cfg.Invoice.NumberStart)
}

func TestDBConfig_DSN_EscapaCredenciales(t *testing.T) {
	db := config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "crm",
		Password: "p@ss/word",
		DBName:   "crm",
		SSLMode:  "disable",
	}
	dsn := db.DSN()
	assert.Contains(t, dsn, "p%40ss%2Fword", "la contraseña va URL-escapada")
	assert.Equal(t, dsn, db.ConnectionString())
}

func TestDBConfig_DatabaseURLTienePrioridad(t *testing.T) {
	db := config.DBConfig{
		DatabaseURL: "postgres://u:p@db:5432/crm?sslmode=require",
		Host:        "ignored",
	}
	assert.Equal(t, db.DatabaseURL, db.ConnectionString())
}