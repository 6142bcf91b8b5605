package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ArenaFighter/internal/usecase"
	pkgch "ArenaFighter/pkg/clickhouse"
	"ArenaFighter/pkg/config"
	xhttp "ArenaFighter/pkg/http"
	pkgkafka "ArenaFighter/pkg/kafka"
	applogger "ArenaFighter/pkg/logger"
	"ArenaFighter/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	fighter     *usecase.Fighter
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	queue       *queue.RedisQueue
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	fighter *usecase.Fighter,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	q *queue.RedisQueue,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		fighter:     fighter,
		consumer:    consumer,
		kh:          kh,
		chClient:    chClient,
		queue:       q,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.log, time.Second),
	)

	// Challenge queue workers before the fighter, so queued challenges
	// have somewhere to go from the first event on.
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.log.Error("challenge queue start error", applogger.Error(err))
			return err
		}
	}

	if err := a.fighter.Start(ctx); err != nil {
		a.log.Error("fighter start error", applogger.Error(err))
		return err
	}
	a.log.Info("fighter started",
		applogger.String("gateway", a.cfg.Arena.GatewayURL),
		applogger.String("backend", a.cfg.Backend.Type))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop the fighter first so no new settlements arrive, then flush
	// everything downstream.
	if err := a.fighter.Shutdown(ctx); err != nil {
		a.log.Warn("fighter stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.log.Warn("challenge queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close publisher/archive through the recorder.
	a.fighter.Recorder().Close()

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
