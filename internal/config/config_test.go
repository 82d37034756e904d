package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, TokenFormatPaseto, cfg.Auth.TokenFormat)
	assert.Equal(t, 24*time.Hour, cfg.Auth.VerificationTokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_RejectsShortPasetoKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASETO_KEY")
}

func TestLoad_JWTRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_TOKEN_FORMAT", "JWT")
	t.Setenv("ACCESS_TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TokenFormatJWT, cfg.Auth.TokenFormat)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("D_SECONDS", "30")
	t.Setenv("D_GO", "90m")
	t.Setenv("D_BAD", "soon")

	assert.Equal(t, 30*time.Second, getDurationEnv("D_SECONDS", time.Minute))
	assert.Equal(t, 90*time.Minute, getDurationEnv("D_GO", time.Minute))
	assert.Equal(t, time.Minute, getDurationEnv("D_BAD", time.Minute))
	assert.Equal(t, time.Minute, getDurationEnv("D_UNSET", time.Minute))
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", DBName: "athena", SSLMode: "disable", ChannelBinding: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=athena sslmode=disable channel_binding=require", pg.ConnectionString())

	lite := DatabaseConfig{Driver: DriverSQLite, SQLitePath: "dev.db"}
	assert.Contains(t, lite.ConnectionString(), "file:dev.db?")
}
