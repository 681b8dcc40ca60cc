package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port           int
	StorageBackend string
	DatabaseURL    string
	TablePrefix    string
	AWSRegion      string
	DynamoEndpoint string
	BaseURL        string
}

// Storage backend names accepted by -s / STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDynamo   = "dynamo"
)

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("korpo-bingo", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StorageBackend, "s", "", "Storage backend (memory, sqlite, postgres, dynamo)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite path or postgres DSN)")
	fs.StringVar(&cfg.TablePrefix, "t", "", "Table name prefix")
	fs.StringVar(&cfg.AWSRegion, "region", "", "AWS region for the dynamo backend")
	fs.StringVar(&cfg.DynamoEndpoint, "dynamo-endpoint", "", "DynamoDB endpoint override (local dev)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in join links")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319 // default
		}
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = os.Getenv("STORAGE_BACKEND")
		if cfg.StorageBackend == "" {
			cfg.StorageBackend = BackendMemory
		}
	}
	switch cfg.StorageBackend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendDynamo:
	default:
		return Config{}, errors.New("storage backend must be memory, sqlite, postgres, or dynamo")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && (cfg.StorageBackend == BackendSQLite || cfg.StorageBackend == BackendPostgres) {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = os.Getenv("TABLE_PREFIX")
	}

	if cfg.AWSRegion == "" {
		cfg.AWSRegion = os.Getenv("AWS_REGION")
	}

	if cfg.DynamoEndpoint == "" {
		cfg.DynamoEndpoint = os.Getenv("DYNAMO_ENDPOINT")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	return cfg, nil
}
