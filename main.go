package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/korpo-bingo/cliparse"
	"github.com/danielhkuo/korpo-bingo/middleware"
	"github.com/danielhkuo/korpo-bingo/router"
	"github.com/danielhkuo/korpo-bingo/storage"
)

func main() {
	// Optional .env for local development; missing file is fine
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		slog.Error("storage setup failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("Storage ready", "backend", cfg.StorageBackend)

	// Create router
	mux := router.NewRouter(store, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore builds the storage backend selected by the configuration.
// The returned cleanup func releases any underlying connections.
func openStore(cfg cliparse.Config) (storage.Store, func(), error) {
	tables := storage.DefaultTables(cfg.TablePrefix)
	noop := func() {}

	switch cfg.StorageBackend {
	case cliparse.BackendMemory:
		return storage.NewMemory(tables), noop, nil

	case cliparse.BackendSQLite, cliparse.BackendPostgres:
		driver := "sqlite"
		if cfg.StorageBackend == cliparse.BackendPostgres {
			driver = "postgres"
		}
		db, err := sql.Open(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, noop, err
		}
		s := storage.NewSQL(db, driver, tables)
		if err := s.CreateSchema(context.Background()); err != nil {
			db.Close()
			return nil, noop, err
		}
		slog.Info("Database schema ready")
		return s, func() { db.Close() }, nil

	case cliparse.BackendDynamo:
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.AWSRegion != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
		if err != nil {
			return nil, noop, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
			}
		})
		return storage.NewDynamo(client, tables), noop, nil
	}

	// cliparse already rejects unknown backends; unreachable in practice
	return storage.NewMemory(tables), noop, nil
}
