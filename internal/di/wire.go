//go:build wireinject
// +build wireinject

package di

import (
	"StockSentry/pkg/config"
	"StockSentry/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideHealth,

		// Collaborator gateways
		ProvidePortfolioSource,
		ProvideSeenStore,
		ProvideMarketData,
		ProvideNewsSource,
		ProvideMessenger,
		ProvideSentimentScorer,

		// Use cases
		ProvideDigestBuilder,
		ProvideScheduler,

		// HTTP surface
		ProvideStatusHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
