package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/templepass/ai-service/internal/domain/chatbot"
	"github.com/templepass/ai-service/internal/infra/artifact"
	"github.com/templepass/ai-service/internal/infra/chatstore"
	"github.com/templepass/ai-service/internal/infra/config"
	"github.com/templepass/ai-service/internal/infra/corpusrepo"
	"github.com/templepass/ai-service/internal/infra/embedder"
	httpiface "github.com/templepass/ai-service/internal/interface/http"
)

// provideBundle loads the model artifact before anything else is wired. A
// load failure aborts startup: serving predictions with mismatched encoders
// is never acceptable.
func provideBundle(cfg *config.Config, logger *slog.Logger) (*artifact.Bundle, error) {
	s3 := cfg.Forecast.Artifact.S3
	if s3.Endpoint != "" {
		source, err := artifact.NewObjectStoreSource(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return source.Fetch(ctx, s3.Key)
	}
	bundle, err := artifact.Load(cfg.Forecast.Artifact.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("model artifact loaded",
		"path", cfg.Forecast.Artifact.Path,
		"model", bundle.Model.Kind(),
		"temples", len(bundle.TempleEncoder.Classes),
		"moonPhases", len(bundle.MoonEncoder.Classes),
	)
	return bundle, nil
}

func provideChatConfig(cfg *config.Config) chatbot.Config {
	return chatbot.Config{
		SimilarityThreshold: cfg.Chat.SimilarityThreshold,
		TopRecommendations:  cfg.Chat.TopRecommendations,
	}
}

// provideEmbedder returns nil when the configured provider cannot come up;
// chat then serves the offline answer while predictions stay available.
func provideEmbedder(cfg *config.Config, logger *slog.Logger) chatbot.Embedder {
	switch cfg.Chat.Embedding.Provider {
	case config.EmbeddingProviderLocal:
		logger.Info("using local deterministic embedder", "dims", cfg.Chat.Embedding.LocalDims)
		return embedder.NewDeterministicEmbedder(cfg.Chat.Embedding.LocalDims)
	default:
		if strings.TrimSpace(cfg.Chat.Embedding.APIKey) == "" {
			logger.Warn("embedding api key not set, chat degrades to offline answers")
			return nil
		}
		client, err := embedder.NewOpenAIEmbedder(cfg.Chat.Embedding.APIKey, cfg.Chat.Embedding.BaseURL, cfg.Chat.Embedding.Model, logger)
		if err != nil {
			logger.Error("embedding client init failed, chat degrades to offline answers", "error", err)
			return nil
		}
		return client
	}
}

func provideCorpusRepository(cfg *config.Config, logger *slog.Logger) chatbot.CorpusRepository {
	fallback := corpusrepo.NewMemoryRepository(nil)
	dsn := strings.TrimSpace(cfg.Chat.Postgres.DSN)
	if dsn == "" {
		logger.Info("chat postgres dsn not set, using seed corpus")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using seed corpus", "error", err)
		return fallback
	}
	if cfg.Chat.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Chat.Postgres.MaxConns
	}
	if cfg.Chat.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Chat.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using seed corpus", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using seed corpus", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("chat postgres corpus enabled")
	return corpusrepo.NewPostgresRepository(pool)
}

// provideFAQIndex embeds the corpus once, before the server starts taking
// traffic. Failures degrade chat instead of failing startup.
func provideFAQIndex(repo chatbot.CorpusRepository, emb chatbot.Embedder, logger *slog.Logger) *chatbot.Index {
	if emb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	index, err := chatbot.BuildIndex(ctx, repo, emb, logger)
	if err != nil {
		logger.Error("faq index build failed, chat degrades to offline answers", "error", err)
		return nil
	}
	return index
}

func provideChatStore(cfg *config.Config, logger *slog.Logger) chatbot.Store {
	if cfg.Chat.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return chatstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return chatstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("chat valkey store enabled", "addr", cfg.Chat.Valkey.Addr)
			return chatstore.NewValkeyStore(client, "chatbot")
		}
	}
	return chatstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Chat.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Chat.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Chat.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideChatAvailability(index *chatbot.Index, emb chatbot.Embedder) httpiface.ChatAvailability {
	return httpiface.ChatAvailability(index != nil && emb != nil)
}
