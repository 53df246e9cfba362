// Package main is the entry point for the bell board server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bell-board/backend/internal/api"
	"github.com/bell-board/backend/internal/config"
	"github.com/bell-board/backend/internal/display"
	"github.com/bell-board/backend/internal/logging"
	"github.com/bell-board/backend/internal/metrics"
	"github.com/bell-board/backend/internal/settings"
	"github.com/bell-board/backend/internal/storage"
	"github.com/bell-board/backend/internal/timetable"
	"github.com/bell-board/backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

var (
	logger zerolog.Logger
	cfg    *config.Config

	serveAddr   string
	serveData   string
	serveStatic string
)

var rootCmd = &cobra.Command{
	Use:   "bell-board",
	Short: "School bell board",
	Long:  "Bell board shows the current lesson, the next bell and the weekly timetable on classroom displays.",
	// Running the binary bare starts the server, as the container expects.
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bell board server",
	Long:  "Start the HTTP server, the websocket feed and the once-a-second board ticker.",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&serveAddr, "addr", "", "HTTP server address (overrides BELLBOARD_HTTP_ADDR)")
		c.Flags().StringVar(&serveData, "data", "", "Data directory for the SQLite database (overrides BELLBOARD_DATA_DIR)")
		c.Flags().StringVar(&serveStatic, "static", "", "Directory for static frontend files (overrides BELLBOARD_STATIC_DIR)")
	}
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

// loadTimetable returns the configured timetable, falling back to the
// embedded one when no override file is set.
func loadTimetable() (*timetable.Timetable, error) {
	if cfg.TimetableFile == "" {
		return timetable.Default()
	}
	logger.Info().Str("path", cfg.TimetableFile).Msg("loading timetable override")
	return timetable.LoadFile(cfg.TimetableFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}
	if serveData != "" {
		cfg.DataDir = serveData
	}
	if serveStatic != "" {
		cfg.StaticDir = serveStatic
	}

	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	logger.Info().Str("version", version).Str("timezone", cfg.Timezone).Msg("bell board starting")

	tt, err := loadTimetable()
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}

	// The board keeps working without storage; settings then live in memory only.
	var backend settings.Backend
	db, err := storage.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Error().Err(err).Str("dir", cfg.DataDir).Msg("storage unavailable, settings will not persist")
		backend = offlineBackend{err: err}
	} else {
		defer db.Close()
		backend = storage.NewStateRepository(db)
		logger.Info().Str("path", db.Path()).Msg("database ready")
	}

	hub := websocket.NewHub(logger)
	go hub.Run()
	defer hub.Close()
	broadcaster := websocket.NewEventBroadcaster(hub, logger)

	m := metrics.New(hub.ClientCount)

	store := settings.NewStore(backend, logger)
	store.OnSaveError(func(err error) {
		m.SettingsSaveFailures.Inc()
		broadcaster.BroadcastNotification("warning", "Ayarlar kaydedilemedi", err.Error())
	})
	store.Load(context.Background())

	board := display.NewBoard(display.Options{
		Resolver:      timetable.NewResolverWithLocation(tt, cfg.Location),
		Settings:      store,
		Broadcaster:   broadcaster,
		Metrics:       m,
		Logger:        logger,
		IdleTimeout:   cfg.IdleTimeout,
		FadeDuration:  cfg.FadeDuration,
		OverlaySource: cfg.OverlaySource,
	})
	if err := board.Start(); err != nil {
		return fmt.Errorf("start board: %w", err)
	}

	router := api.NewRouter(api.Services{
		DB:        db,
		Hub:       hub,
		Board:     board,
		Settings:  store,
		Metrics:   m,
		Logger:    logger,
		StaticDir: cfg.StaticDir,
		Version:   version,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")

	board.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("bell board stopped")
	return nil
}

// offlineBackend stands in for the database when it cannot be opened.
type offlineBackend struct {
	err error
}

func (b offlineBackend) Get(context.Context, string) (string, error) { return "", b.err }

func (b offlineBackend) Set(context.Context, string, string) error { return b.err }
