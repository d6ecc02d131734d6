package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/fixtures?sslmode=disable",
		"JWT_SECRET_KEY": "secret",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.R2Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9090"
	env["DB_CONNECT_TIMEOUT"] = "12s"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example,"
	env["R2_ACCOUNT_ID"] = "acc"
	env["R2_ACCESS_KEY_ID"] = "key"
	env["R2_SECRET_ACCESS_KEY"] = "secret"
	env["R2_BUCKET_NAME"] = "fixtures"
	env["R2_PUBLIC_BASE_URL"] = "https://cdn.example"

	cfg, err := FromEnv(lookup(env))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 12*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.R2Enabled())
	assert.Equal(t, "fixtures", cfg.R2BucketName)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		wantErr string
	}{
		{name: "missing database url", mutate: func(env map[string]string) { delete(env, "DATABASE_URL") }, wantErr: "DATABASE_URL"},
		{name: "missing jwt secret", mutate: func(env map[string]string) { delete(env, "JWT_SECRET_KEY") }, wantErr: "JWT_SECRET_KEY"},
		{name: "port not a number", mutate: func(env map[string]string) { env["SERVER_PORT"] = "http" }, wantErr: "invalid SERVER_PORT"},
		{name: "port out of range", mutate: func(env map[string]string) { env["SERVER_PORT"] = "70000" }, wantErr: "between 1 and 65535"},
		{name: "bad timeout", mutate: func(env map[string]string) { env["DB_CONNECT_TIMEOUT"] = "soon" }, wantErr: "DB_CONNECT_TIMEOUT"},
		{name: "negative timeout", mutate: func(env map[string]string) { env["DB_CONNECT_TIMEOUT"] = "-1s" }, wantErr: "must be positive"},
		{
			name: "partial r2 block",
			mutate: func(env map[string]string) {
				env["R2_ACCOUNT_ID"] = "acc"
				env["R2_BUCKET_NAME"] = "fixtures"
			},
			wantErr: "missing: R2_ACCESS_KEY_ID, R2_PUBLIC_BASE_URL, R2_SECRET_ACCESS_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)
			cfg, err := FromEnv(lookup(env))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
