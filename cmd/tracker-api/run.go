package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	apiserver "github.com/forecast-ops/job-tracker/internal/api_server"
	"github.com/forecast-ops/job-tracker/internal/config"
	"github.com/forecast-ops/job-tracker/internal/events"
	"github.com/forecast-ops/job-tracker/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job tracker api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		s, err := openStore(ctx, cfg)
		if err != nil {
			zap.S().Fatalw("opening store", "error", err)
		}
		defer s.Close()

		writer, err := newEventWriter(cfg.Service.Events)
		if err != nil {
			zap.S().Fatalw("creating event writer", "error", err)
		}
		producer := events.NewEventProducer(writer, events.WithOutputTopic(cfg.Service.Events.Topic))
		defer func() {
			if err := producer.Close(); err != nil {
				zap.S().Errorw("failed to close event producer", "error", err)
			}
		}()

		go service.NewStatusCollector(s, cfg.Service.Metrics.RefreshInterval).Run(ctx)

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, listener, producer)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("failed to run metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newEventWriter(cfg config.Events) (events.Writer, error) {
	switch {
	case !cfg.Enabled:
		return events.NoopWriter{}, nil
	case len(cfg.Kafka.Brokers) > 0:
		zap.S().Infow("writing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Topic)
		return events.NewKafkaWriter(cfg.Kafka)
	default:
		return &events.StdoutWriter{}, nil
	}
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
