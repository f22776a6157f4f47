// Package config assembles the application configuration from defaults, an
// optional .env file, command-line flags, and environment variables, in
// that order of increasing priority.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service. The token signing
// secret and TTL are configuration, never compile-time literals.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	Environment         string        `env:"APP_ENV"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	MongoURI            string        `env:"MONGODB_URI"`
	MongoDatabase       string        `env:"MONGODB_DATABASE"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	TokenSecret         string        `env:"AUTH_TOKEN_SECRET"`
	TokenTTL            time.Duration `env:"AUTH_TOKEN_TTL"`
	BcryptCost          int           `env:"BCRYPT_COST"`
}

// EnvTest selects the ephemeral in-memory store regardless of other
// storage settings.
const EnvTest = "test"

var defaultConfig = Config{
	RunAddr:             ":8080",
	LogLevel:            "info",
	Environment:         "production",
	MongoDatabase:       "itemstash",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "migrations",
	TokenSecret:         "development-only-secret",
	TokenTTL:            time.Hour,
	BcryptCost:          10,
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}
	if err := validate.RegisterValidation("filepath", validateFilePath); err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing turns off command-line flag parsing; tests use it
// to keep the flag package away from the test binary's own arguments.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

// New builds the configuration: defaults, then .env, then flags, then
// environment variables.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "PostgreSQL connection DSN")
		flag.StringVar(&values.MongoURI, "m", values.MongoURI, "MongoDB connection URI")
		flag.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with database")
		flag.Parse()
	}

	if err := env.Parse(values); err != nil {
		return nil, err
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
