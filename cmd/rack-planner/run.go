package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	apiserver "github.com/kubev2v/rack-planner/internal/api_server"
	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the rack-planner api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		store, err := openStore(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}
		defer store.Close()

		producer := events.NewEventProducer(&events.StdoutWriter{}, events.WithOutputTopic(cfg.Service.AuditTopic))
		defer func() {
			if err := producer.Close(); err != nil {
				zap.S().Errorw("failed to close event producer", "error", err)
			}
		}()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				return err
			}
			return apiserver.New(cfg, store, listener, producer).Run(ctx)
		})

		g.Go(func() error {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				return err
			}
			return apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener, store, cfg.Service.LogLevel).Run(ctx)
		})

		if err := g.Wait(); err != nil {
			zap.S().Errorw("server stopped", "error", err)
			return err
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
