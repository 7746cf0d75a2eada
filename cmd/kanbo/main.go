// Command kanbo runs the kanban board: `kanbo serve` starts the REST API
// server, `kanbo board` (the default) opens the terminal board against a
// running server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gmllt/kanbo/internal/config"
	"github.com/gmllt/kanbo/internal/gateway"
	"github.com/gmllt/kanbo/internal/server"
	"github.com/gmllt/kanbo/internal/store"
	"github.com/gmllt/kanbo/internal/ui"
)

var (
	configPath string
	serverURL  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "kanbo",
	Short: "A small kanban board with a REST API and a terminal client",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the board API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive terminal board",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")
	rootCmd.AddCommand(serveCmd, boardCmd)
}

func newLogger(toFile bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if toFile {
		// The TUI owns the terminal; logs go to a file next to the cache.
		dir, err := os.UserCacheDir()
		if err != nil {
			return zap.NewNop(), nil
		}
		path := filepath.Join(dir, "kanbo")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return zap.NewNop(), nil
		}
		cfg.OutputPaths = []string{filepath.Join(path, "kanbo.log")}
		cfg.ErrorOutputPaths = cfg.OutputPaths
	}
	return cfg.Build()
}

func openStore(ctx context.Context, cfg config.ServerConfig) (store.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return store.NewMemory(), nil
	case config.StorageSQLite:
		return store.NewSQLite(cfg.SQLitePath)
	case config.StorageS3:
		return store.NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(false)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	st, err := openStore(ctx, cfg.Server)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer st.Close()

	if cfg.Server.Seed {
		if err := store.Seed(ctx, st); err != nil {
			return fmt.Errorf("seed board: %w", err)
		}
	}

	srv := http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(st, log).Router(),
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		srv.Close()
	}()

	log.Info("kanbo server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Server.Storage))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runBoard() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	url := cfg.Client.ServerURL
	if serverURL != "" {
		url = serverURL
	}

	log, err := newLogger(true)
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync()

	gw := gateway.New(url, cfg.Client.Timeout.Std())
	app := ui.NewApp(gw, log)

	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
