//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/templepass/ai-service/internal/bootstrap"
	"github.com/templepass/ai-service/internal/domain/chatbot"
	"github.com/templepass/ai-service/internal/domain/forecast"
	"github.com/templepass/ai-service/internal/infra/config"
	httpiface "github.com/templepass/ai-service/internal/interface/http"
	"github.com/templepass/ai-service/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideBundle,
		forecast.NewService,
		provideChatConfig,
		provideEmbedder,
		provideCorpusRepository,
		provideFAQIndex,
		provideChatStore,
		chatbot.NewService,
		provideChatAvailability,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
