package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apiserver "github.com/ecuworks/tunehub/internal/api_server"
	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/events"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tunehub api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service...")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		st := store.NewStore(db)
		defer st.Close()

		if err := st.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		if err := st.Seed(); err != nil {
			zap.S().Fatalw("seeding data store", "error", err)
		}

		producer := events.NewEventProducer(&events.StdoutWriter{})
		defer func() {
			if err := producer.Close(); err != nil {
				zap.S().Warnw("failed to close event producer", "error", err)
			}
		}()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		listener, err := newListener(cfg.Service.Address)
		if err != nil {
			zap.S().Fatalw("creating listener", "error", err)
		}

		server := apiserver.New(cfg, st, listener, producer)
		if err := server.Run(ctx); err != nil {
			zap.S().Fatalw("running server", "error", err)
		}

		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
