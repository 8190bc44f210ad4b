package main

import (
	"chat-pair/contract"
	"chat-pair/i18n"
	grpcserver "chat-pair/infrastructure/grpc/server"
	"chat-pair/infrastructure/telegram"
	"chat-pair/observability"
	"chat-pair/pairing"
	"chat-pair/repositories"
	"chat-pair/runtime"
	"chat-pair/runtime/workers"
	"chat-pair/services"
	"chat-pair/sink"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/harshyadavone/tgx"
	"github.com/harshyadavone/tgx/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run builds every component, serves the configured front-end and shuts
// everything down once a signal is received.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	renderer, err := i18n.NewRenderer(config.DefaultLocale)
	if err != nil {
		return fmt.Errorf("catalog loading failed: %w", err)
	}

	monitoring, err := observability.NewMonitoringManager(log)
	if err != nil {
		log.Warn("Process monitoring disabled", "error", err)
		monitoring = nil
	}

	// 2. Session engine & Transport
	core := pairing.NewCore(log)
	sup := workers.NewSupervisor(log, config.RestartInterval)

	var (
		transport contract.Transport
		registry  *runtime.Registry
		bot       *tgx.Bot
	)
	if config.TelegramEnabled {
		bot = tgx.NewBot(config.BotToken, config.WebhookURL, logger.NewDefaultLogger(logger.DEBUG))
		transport = telegram.NewTransport(bot, renderer, config.DefaultLocale, log)
	} else {
		registry = runtime.NewRegistry()
		transport = registry
	}

	orchestrator := runtime.NewOrchestrator(log, sup, core, transport, monitoring, runtime.Config{
		NumberOfWorkers:     config.NumberOfWorkers,
		BufferSize:          config.BufferSize,
		SinkTimeout:         config.SinkTimeout,
		DeliveryTimeout:     config.DeliveryTimeout,
		ReportInterval:      config.ReportInterval,
		CapacityWarnPercent: config.CapacityWarnPercent,
	})
	orchestrator.Add(sink.NewLogSink(log))

	// 3. Journal (BadgerDB)
	if config.JournalEnabled {
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		journal := repositories.NewJournalRepository(db, log, config.JournalTTL)
		orchestrator.Add(sink.NewJournalSink(journal, log))
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}
	defer orchestrator.Stop()

	// 5. Front-end
	errChan := make(chan error, 1)
	if config.TelegramEnabled {
		service := services.NewPairingService(orchestrator, nil, core, log)
		front := telegram.NewBot(bot, service, renderer, log)
		front.Register()
		go func() {
			log.Info("Starting Telegram webhook", "address", config.WebhookAddr, "at", time.Now().UTC())
			if err := front.Serve(ctx, config.WebhookAddr); err != nil {
				errChan <- fmt.Errorf("telegram webhook error: %w", err)
			}
		}()
		return wait(ctx, log, errChan)
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer()
	service := services.NewPairingService(orchestrator, registry, core, log)
	grpcserver.RegisterPairingServiceServer(s,
		grpcserver.NewPairingServer(log, service, renderer, config.ConnectionBufferSize))

	go func() {
		log.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	defer gracefulStop(s, config.DeliveryTimeout)

	return wait(ctx, log, errChan)
}

// gracefulStop lets open Connect streams drain, then forces them closed.
func gracefulStop(s *grpc.Server, timeout time.Duration) {
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(timeout):
		s.Stop()
	}
}

func wait(ctx context.Context, log *slog.Logger, errChan <-chan error) error {
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		return nil
	case err := <-errChan:
		return err
	}
}
