//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"rpd/internal"
	"rpd/internal/archive"
	"rpd/internal/controllers"
	"rpd/internal/providers"
	"rpd/internal/reddit"
	"rpd/internal/report"
	"rpd/internal/services"
	"rpd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		reddit.NewClient,
		services.NewActivityService,
		services.NewPersonaService,
		report.NewRenderer,
		archive.NewZstdCompressor,
		archive.NewFileManager,
		archive.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitAnalyzer(cfg *structures.CliFlags) (*internal.Analyzer, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		reddit.NewClient,
		services.NewActivityService,
		services.NewPersonaService,
		report.NewRenderer,
		report.NewWriter,
		archive.NewZstdCompressor,
		archive.NewFileManager,
		archive.NewScheduler,
		internal.NewAnalyzer,
	)

	return nil, nil
}
