//go:build wireinject
// +build wireinject

package di

import (
	"ArenaFighter/pkg/config"
	"ArenaFighter/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideRand,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisQueue,

		// Repositories
		ProvideProfileStore,
		ProvideMatchPublisher,
		ProvideMatchArchive,
		ProvideArenaStream,

		// Decision services
		ProvideStrategyEngine,
		ProvideBankrollManager,
		ProvidePsychologyModule,

		// Use cases
		ProvideBackendEmitter,
		ProvideEmitPipeline,
		ProvideResultRecorder,
		ProvideDirectDispatcher,
		ProvideChallengeDispatcher,
		ProvideMatchEventsHandler,
		ProvideFighter,

		// API and application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
