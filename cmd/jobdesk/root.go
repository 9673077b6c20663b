package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdesk/internal/adapter"
	"github.com/amishk599/jobdesk/internal/ai"
	"github.com/amishk599/jobdesk/internal/config"
	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/session"
	"github.com/amishk599/jobdesk/internal/store"
)

var (
	cfgPath   string
	debug     bool
	ephemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "jobdesk",
	Short: "Job search, tailored CVs and an application tracker",
	Long: "JobDesk searches live UK listings on Adzuna, tailors CVs and cover letters " +
		"with Anthropic models, and tracks the applications you make.",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Default to `browse` so that `jobdesk` with no args opens the interactive search.
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBDESK_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep settings and applications in memory only")
}

// loadConfig loads .env, then resolves the config path and parses it.
// Priority: explicit path arg > JOBDESK_CONFIG env var > "./config.yaml" > defaults
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnv(".env"); err != nil {
		return nil, err
	}
	return config.Resolve(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// openStore returns the configured key/value store and its closer.
func openStore(cfg *config.Config, logger *slog.Logger) (model.KeyValueStore, func(), error) {
	if ephemeral {
		logger.Debug("ephemeral mode, nothing is persisted")
		return store.NewMemoryStore(), func() {}, nil
	}

	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	sqlStore, err := store.NewSQLiteStore(cfg.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened store", "path", cfg.StoragePath)
	return sqlStore, func() {
		if err := sqlStore.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}, nil
}

// openSession wires the search client, document writer and storage into
// one session. Callers must invoke the returned closer.
func openSession(cfg *config.Config, logger *slog.Logger) (*session.Session, func(), error) {
	kv, closeFn, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Config uses zero for "no floor"; the adapter reserves zero for its default.
	floor := cfg.Search.SalaryFloor
	if floor == 0 {
		floor = -1
	}
	searcher := adapter.NewAdzunaAdapter(adapter.AdzunaConfig{
		BaseURL:        cfg.Search.BaseURL,
		Country:        cfg.Search.Country,
		ResultsPerPage: cfg.Search.ResultsPerPage,
		SalaryFloor:    floor,
	}, httpClient, logger)

	provider := ai.NewAnthropicProvider(cfg.AI.BaseURL, httpClient, logger)
	writer := ai.NewDocumentWriter(provider, ai.WriterConfig{
		CVModel:        cfg.AI.CVModel,
		CVMaxTokens:    cfg.AI.CVMaxTokens,
		CoverModel:     cfg.AI.CoverModel,
		CoverMaxTokens: cfg.AI.CoverMaxTokens,
	}, logger)

	sess := session.Open(kv, session.Options{
		Searcher: searcher,
		Writer:   writer,
		Profile: ai.Profile{
			Name:       cfg.Profile.Name,
			Location:   cfg.Profile.Location,
			Experience: cfg.Profile.Experience,
			Highlights: cfg.Profile.Highlights,
			KeyWins:    cfg.Profile.KeyWins,
		},
		Overrides: session.Credentials{
			AnthropicAPIKey: cfg.Credentials.AnthropicAPIKey,
			AdzunaAppID:     cfg.Credentials.AdzunaAppID,
			AdzunaAppKey:    cfg.Credentials.AdzunaAppKey,
		},
		Logger: logger,
	})
	return sess, closeFn, nil
}

// bootstrap is the common prologue of every command that needs a session.
func bootstrap(logger *slog.Logger) (*session.Session, func(), error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, err
	}
	sess, closeFn, err := openSession(cfg, logger)
	if err != nil {
		logger.Error("failed to open session", "error", err)
		return nil, nil, err
	}
	return sess, closeFn, nil
}
