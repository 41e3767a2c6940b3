package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.SourceMemory, cfg.Source)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SOURCE", " Postgres ")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.SourcePostgres, cfg.Source)
	assert.Equal(t, "postgres://postgres:@localhost:5432/ledger?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidSource(t *testing.T) {
	t.Setenv("SOURCE", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}
