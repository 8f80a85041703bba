//go:build wireinject
// +build wireinject

package di

import (
	"MacroPull/pkg/config"
	"MacroPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The cleanup closes infrastructure clients in reverse order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Providers and infrastructure clients
		ProvideCatalog,
		ProvideFREDClient,
		ProvideYahooClient,
		ProvideFetcher,
		ProvideCacheLayer,
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Use cases
		ProvideArchiver,
		ProvideEngine,
		ProvideDashboard,

		// HTTP
		ProvideRateLimiter,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
