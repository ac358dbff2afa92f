package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thudson/golf-scorecard/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, EnvDev, cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "", cfg.DBURL)
	require.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, 4, cfg.ImportWorkers)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, logging.LevelInfo, cfg.LogLevel)
	require.False(t, cfg.UptraceEnabled)
	require.False(t, cfg.PyroscopeEnabled)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("IMPORT_WORKERS", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, EnvProd, cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, 30*time.Minute, cfg.JWTTTL)
	require.Equal(t, 8, cfg.ImportWorkers)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, logging.LevelWarn, cfg.LogLevel)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad app env", key: "APP_ENV", value: "staging"},
		{name: "bad ttl", key: "JWT_TTL", value: "soon"},
		{name: "bad workers", key: "IMPORT_WORKERS", value: "0"},
		{name: "bad bcrypt cost", key: "BCRYPT_COST", value: "99"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_UptraceRequiresDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	_, err := Load()
	require.ErrorContains(t, err, "UPTRACE_DSN")
}
