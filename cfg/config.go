package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// PostgresConfig is optional; an empty Host disables the flow audit trail
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// ObservabilityConfig is optional; an empty OTLPEndpoint leaves tracing and metrics as no-ops
type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
}

// Oauth2Config is the single provider registration served by this process.
// AuthURL and TokenURL may be left blank when Issuer is set; they are then discovered.
type Oauth2Config struct {
	ProviderName           string
	ClientID               string
	ClientSecret           string
	AuthURL                string
	TokenURL               string
	RedirectURI            string
	AuthExtra              string
	Issuer                 string
	ExchangeTimeoutSeconds int
}

type Config struct {
	AppEnv               string
	AppPort              string
	Redis                RedisConfig
	Postgres             PostgresConfig
	Observability        ObservabilityConfig
	OAuth2               Oauth2Config
	FlowStatusTTLMinutes int
	SnowflakeNodeID      int64
}

// Load reads .env when present and then the process environment.
// Every missing or malformed variable is reported in the returned error.
func Load() (*Config, error) {
	var errs []error

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := envOr("APP_PORT", "8080")

	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := os.Getenv("REDIS_PASSWORD")

	oauth := Oauth2Config{
		ProviderName: mustEnv("OAUTH2_PROVIDER_NAME", &errs),
		ClientID:     mustEnv("OAUTH2_CLIENT_ID", &errs),
		ClientSecret: mustEnv("OAUTH2_CLIENT_SECRET", &errs),
		RedirectURI:  mustEnv("OAUTH2_REDIRECT_URI", &errs),
		AuthExtra:    os.Getenv("OAUTH2_AUTH_EXTRA"),
		Issuer:       os.Getenv("OAUTH2_ISSUER"),
	}
	if oauth.Issuer == "" {
		oauth.AuthURL = mustEnv("OAUTH2_AUTH_URL", &errs)
		oauth.TokenURL = mustEnv("OAUTH2_TOKEN_URL", &errs)
	} else {
		oauth.AuthURL = os.Getenv("OAUTH2_AUTH_URL")
		oauth.TokenURL = os.Getenv("OAUTH2_TOKEN_URL")
	}
	oauth.ExchangeTimeoutSeconds = intEnv("OAUTH2_EXCHANGE_TIMEOUT_SECONDS", 30, &errs)

	postgres := PostgresConfig{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     envOr("POSTGRES_PORT", "5432"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  envOr("POSTGRES_SSLMODE", "disable"),
	}
	if postgres.Enabled() {
		postgres.User = mustEnv("POSTGRES_USER", &errs)
		postgres.DBName = mustEnv("POSTGRES_DB", &errs)
	}

	observability := ObservabilityConfig{
		ServiceName:  envOr("OTEL_SERVICE_NAME", "authflow"),
		Environment:  appEnv,
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	statusTTL := intEnv("FLOW_STATUS_TTL_MINUTES", 30, &errs)
	nodeID := intEnv("SNOWFLAKE_NODE_ID", 1, &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		Redis: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		Postgres:             postgres,
		Observability:        observability,
		OAuth2:               oauth,
		FlowStatusTTLMinutes: statusTTL,
		SnowflakeNodeID:      int64(nodeID),
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}
