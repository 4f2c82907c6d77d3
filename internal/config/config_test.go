package config_test

import (
	"testing"
	"time"
	"authguard/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenDuration)
	require.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	require.Equal(t, 30*time.Minute, cfg.Auth.LockoutDuration)
	require.Equal(t, 3, cfg.Device.WarnAtChange)
	require.Equal(t, 6, cfg.Device.LockAtChange)
	require.Equal(t, "authguard", cfg.Database.DBName)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_DURATION", "5m")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("DEVICE_WARN_AT_CHANGE", "2")
	t.Setenv("DEVICE_LOCK_AT_CHANGE", "4")
	t.Setenv("DB_PORT", "5433")

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenDuration)
	require.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	require.Equal(t, 2, cfg.Device.WarnAtChange)
	require.Equal(t, 4, cfg.Device.LockAtChange)
	require.Equal(t, 5433, cfg.Database.Port)
}

func TestLoadFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	var cfg config.Config
	require.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromEnvRejectsInvertedDeviceThresholds(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DEVICE_WARN_AT_CHANGE", "6")
	t.Setenv("DEVICE_LOCK_AT_CHANGE", "6")

	var cfg config.Config
	require.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_DURATION", "not-a-duration")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "many")

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	require.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
}
