package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// Service answers visitor questions against the FAQ index.
type Service interface {
	Resolve(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

type service struct {
	cfg      Config
	index    *Index
	embedder Embedder
	store    Store
	logger   *slog.Logger
}

// NewService wires up the chat domain. A nil index or embedder puts the
// service into permanent degraded mode: every query gets the offline answer
// and prediction availability is unaffected.
func NewService(cfg Config, index *Index, embedder Embedder, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		index:    index,
		embedder: embedder,
		store:    store,
		logger:   logger.With("component", "chatbot.service"),
	}
}

func (s *service) Resolve(ctx context.Context, req Request) (Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "query cannot be empty", nil)
	}

	if s.index == nil || s.embedder == nil {
		s.logger.Debug("chat degraded, serving offline answer")
		return Response{Answer: OfflineAnswer}, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeEmbeddingError, "query embedding failed", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeEmbeddingError, "query embedding failed", errors.New("embedding response empty"))
	}

	best, score := s.index.Nearest(vectors[0])

	answer := FallbackAnswer
	if score >= s.cfg.threshold() {
		answer = s.index.Entry(best).Answer
	}
	// Live context is appended after the threshold decision; it never
	// influences matching.
	if liveContext := strings.TrimSpace(req.Context); liveContext != "" {
		answer += "\n\nLive update: " + liveContext
	}

	s.recordQuery(ctx, query)

	clamped := clampScore(score)
	return Response{Answer: answer, Score: &clamped}, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	items, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeChatError, "failed to load trending queries", err)
	}
	return items, nil
}

func (s *service) recordQuery(ctx context.Context, query string) {
	canonical := normalizeQuery(query)
	if err := s.store.IncrementQuery(ctx, canonical, query); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
