// Package app wires configuration, storage, clients, and services into
// a runnable application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/clients/quandl"
	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/ledger"
	accountsvc "github.com/avogel/papertrade/internal/services/account"
	stocksvc "github.com/avogel/papertrade/internal/services/stock"
	"github.com/avogel/papertrade/internal/services/stockimport"
	"github.com/avogel/papertrade/internal/storage"
)

// App holds all initialized services, clients, and storage. It is the
// shared core used by cmd/papertrade-server.
type App struct {
	Config             *common.Config
	Logger             *common.Logger
	Storage            interfaces.StorageManager
	QuandlClient       *quandl.Client
	Aggregator         *ledger.Aggregator
	AccountService     interfaces.AccountService
	StockService       interfaces.StockService
	StockImportService interfaces.StockImportService
	StartupTime        time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, PAPERTRADE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PAPERTRADE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "papertrade.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/papertrade.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	codesPath := config.Clients.Quandl.CodesFilePath
	if codesPath != "" && !filepath.IsAbs(codesPath) {
		codesPath = filepath.Join(binDir, codesPath)
		if _, err := os.Stat(codesPath); os.IsNotExist(err) {
			codesPath = config.Clients.Quandl.CodesFilePath
		}
	}

	quandlClient := quandl.NewClient(
		config.Clients.Quandl.APIKey,
		codesPath,
		quandl.WithBaseURL(config.Clients.Quandl.BaseURL),
		quandl.WithLogger(logger),
		quandl.WithRateLimit(config.Clients.Quandl.RateLimit),
		quandl.WithTimeout(config.Clients.Quandl.GetTimeout()),
	)

	initialBalance, err := decimal.NewFromString(config.Account.InitialBalance)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("invalid initial balance %q: %w", config.Account.InitialBalance, err)
	}

	aggregator := ledger.NewAggregator(store.TransactionStore())

	accountService := accountsvc.NewService(store.AccountStore(), store.TransactionStore(), initialBalance, logger)
	stockService := stocksvc.NewService(store.StockStore(), store.TransactionStore(), aggregator, quandlClient, logger)
	importService := stockimport.NewService(store.StockStore(), quandlClient, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("storage_backend", config.Storage.Backend).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return &App{
		Config:             config,
		Logger:             logger,
		Storage:            store,
		QuandlClient:       quandlClient,
		Aggregator:         aggregator,
		AccountService:     accountService,
		StockService:       stockService,
		StockImportService: importService,
		StartupTime:        time.Now(),
	}, nil
}

// Close releases all resources held by the application.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
