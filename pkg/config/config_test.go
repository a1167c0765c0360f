package config

import (
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBase() Config {
	return Config{
		StoreBackend:  BackendMemory,
		AuthMode:      AuthJWT,
		JWTSecret:     "0123456789abcdef",
		PushBackend:   BackendNone,
		MediaBackend:  BackendNone,
		CacheBackend:  BackendNone,
		MediaMaxBytes: 1024,
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("FIREBASE_STORAGE_BUCKET", "demo.appspot.com")
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFirestore, cfg.StoreBackend)
	assert.Equal(t, AuthFirebase, cfg.AuthMode)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.NeedsFirebase())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown store", mutate: func(c *Config) { c.StoreBackend = "dynamo" }, wantErr: "STORE_BACKEND"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StoreBackend = BackendPostgres }, wantErr: "POSTGRES_CONN_STR"},
		{name: "mongo without uri", mutate: func(c *Config) { c.StoreBackend = BackendMongo }, wantErr: "MONGO_URI"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "JWT_SECRET"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.MediaBackend = BackendS3 }, wantErr: "S3_BUCKET"},
		{name: "redis without url", mutate: func(c *Config) { c.CacheBackend = BackendRedis }, wantErr: "REDIS_URL"},
		{name: "zero upload size", mutate: func(c *Config) { c.MediaMaxBytes = 0 }, wantErr: "MEDIA_MAX_BYTES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.False(t, cfg.NeedsFirebase())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
