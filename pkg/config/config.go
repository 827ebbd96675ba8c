package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends selectable through DB_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"3000"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	DB struct {
		Driver    string `envconfig:"DB_DRIVER" default:"mongo"`
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	Mongo struct {
		URI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database   string `envconfig:"MONGO_DATABASE" default:"lobby"`
		Collection string `envconfig:"MONGO_COLLECTION" default:"movies"`
	}
	DynamoDB struct {
		Region       string `envconfig:"DDB_REGION"`
		Endpoint     string `envconfig:"DDB_ENDPOINT"`
		AccessKey    string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey    string `envconfig:"DDB_SECRET_KEY"`
		SessionToken string `envconfig:"DDB_SESSION_TOKEN"`
		MoviesTable  string `envconfig:"DDB_MOVIES_TABLE" default:"movies"`
	}
	NATS struct {
		URL     string `envconfig:"NATS_URL"`
		Subject string `envconfig:"NATS_SUBJECT" default:"lobby"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.DB.Driver {
	case DriverMongo, DriverPostgres, DriverDynamoDB:
	default:
		return nil, fmt.Errorf("load config error: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// Origins splits ALLOW_ORIGINS on commas, dropping blanks.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
