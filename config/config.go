package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultBcryptCost         = 10
	defaultTokenTTL           = 10 * 24 * time.Hour
	defaultStoreDriver        = StoreDriverMongo
)

// Store drivers.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

// Pub/Sub providers.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Store selects the backend holding user records and questions
	Store StoreConfig `json:"store" yaml:"store"`

	Mongo *MongoConfig `json:"mongo" yaml:"mongo"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// PubSub configuration for account event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// StoreConfig picks the persistence driver
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver"`
}

// MongoConfig defines the document store connection
type MongoConfig struct {
	URI            string        `json:"uri" yaml:"uri"`
	Database       string        `json:"database" yaml:"database"`
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connectTimeout"`
	// Upper bound for a single store operation
	OperationTimeout time.Duration `json:"operationTimeout" yaml:"operationTimeout"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost int           `json:"bcryptCost" yaml:"bcryptCost"`
	TokenTTL   time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv reads <currEnv>.yaml from the working directory or one of
// configPath (relative to it), then lets environment variables override any
// key. POSTGRES_SSLMODE lands on postgres.sslMode when the YAML spells it so.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	configFile, err := findConfigFile(currEnv+".yaml", configPath)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	fileKeys := k.Raw()
	envProvider := env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(key, fileKeys), value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := new(T)
	decoder := &mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		MatchName:        strings.EqualFold,
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{DecoderConfig: decoder}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func findConfigFile(name string, dirs []string) (string, error) {
	candidates := []string{filepath.Join(defaultPath, name)}
	if len(dirs) > 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "os.Getwd")
		}
		for _, dir := range dirs {
			candidates = append(candidates, filepath.Join(pwd, dir, name))
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Errorf("config file %s not found in any search path", name)
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if strings.TrimSpace(cfg.Store.Driver) == "" {
		cfg.Store.Driver = defaultStoreDriver
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = defaultBcryptCost
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecretKey.Access) == "" {
		return errors.New("secretKey.access must be provided")
	}

	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Mongo == nil || c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("mongo.uri and mongo.database are required for the mongo store")
		}
	case StoreDriverPostgres:
		if c.Postgres == nil {
			return errors.New("postgres section is required for the postgres store")
		}
	default:
		return errors.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	return nil
}

// canonicalizeEnvKey turns AUTH_TOKENTTL into auth.tokenTTL by walking the
// keys already loaded from YAML. Segments with no YAML counterpart stay lower case.
func canonicalizeEnvKey(rawKey string, tree map[string]any) string {
	var path []string
	for _, segment := range strings.Split(strings.ToLower(rawKey), "_") {
		if segment == "" {
			continue
		}

		key, child := matchKey(tree, segment)
		path = append(path, key)
		tree = child
	}

	return strings.Join(path, ".")
}

// matchKey finds the key in tree equal to segment ignoring case and
// punctuation, returning segment itself when there is none.
func matchKey(tree map[string]any, segment string) (string, map[string]any) {
	for key, value := range tree {
		if foldKey(key) == foldKey(segment) {
			child, _ := value.(map[string]any)

			return key, child
		}
	}

	return segment, nil
}

func foldKey(s string) string {
	return strings.Map(func(r rune) rune {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, s)
}

// buildReplicasFromEnv reads POSTGRES_REPLICAS_<n>_{HOST,PORT,USERNAME,PASSWORD}
// for n = 0, 1, ... and stops at the first index missing a host or port.
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig
	for i := 0; ; i++ {
		replica, ok := replicaFromEnv(i)
		if !ok {
			return replicas
		}
		replicas = append(replicas, replica)
	}
}

func replicaFromEnv(index int) (postgres.ConnectionConfig, bool) {
	get := func(field string) string {
		return os.Getenv("POSTGRES_REPLICAS_" + strconv.Itoa(index) + "_" + field)
	}

	replica := postgres.ConnectionConfig{
		Host:     get("HOST"),
		Port:     get("PORT"),
		UserName: get("USERNAME"),
		Password: get("PASSWORD"),
	}

	return replica, replica.Host != "" && replica.Port != ""
}
