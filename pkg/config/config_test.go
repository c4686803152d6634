package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "almacen-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.HTTP.AuthRequired)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("DB_AUTO_MIGRATE", "no-es-bool")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.AuthRequired)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_ProduccionSinSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:word", DBName: "almacen", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%3Aword@db:5432/almacen?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
