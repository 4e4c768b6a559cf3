package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"auth": map[string]any{
			"tokenTTL": "240h",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "AUTH_TOKENTTL", want: "auth.tokenTTL"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnv_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := `
env:
  serviceName: qbank
  log:
    level: info
http:
  port: 8080
store:
  driver: mongo
mongo:
  uri: mongodb://localhost:27017
  database: qbank
  connectTimeout: 5s
secretKey:
  access: from-file
auth:
  bcryptCost: 10
  tokenTTL: 240h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(content), 0o600))

	t.Chdir(dir)
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "qbank", cfg.Env.ServiceName)
	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	require.NotNil(t, cfg.Mongo)
	assert.Equal(t, 5*time.Second, cfg.Mongo.ConnectTimeout)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 240*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*24*time.Hour, cfg.Auth.TokenTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.SecretKey.Access = "secret"
		cfg.Store.Driver = StoreDriverMongo
		cfg.Mongo = &MongoConfig{URI: "mongodb://localhost:27017", Database: "qbank"}

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid mongo", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.SecretKey.Access = " " }, wantErr: "secretKey.access"},
		{name: "missing mongo section", mutate: func(c *Config) { c.Mongo = nil }, wantErr: "mongo.uri"},
		{name: "postgres without section", mutate: func(c *Config) { c.Store.Driver = StoreDriverPostgres }, wantErr: "postgres section"},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: "unknown store driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-a")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5432")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "reader")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-b")
	t.Setenv("POSTGRES_REPLICAS_1_PORT", "5433")
	// Index 2 has no port, so reading stops there.
	t.Setenv("POSTGRES_REPLICAS_2_HOST", "replica-c")

	replicas := buildReplicasFromEnv()

	require.Len(t, replicas, 2)
	assert.Equal(t, "replica-a", replicas[0].Host)
	assert.Equal(t, "reader", replicas[0].UserName)
	assert.Equal(t, "5433", replicas[1].Port)
}
