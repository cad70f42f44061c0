package chatbot

import "context"

// DefaultSimilarityThreshold is the boundary between a confident corpus match
// and the fallback answer. Scores strictly below it fall back.
const DefaultSimilarityThreshold = 0.35

// Fixed answers for the two degraded paths. OfflineAnswer is served when the
// embedding model never became available; FallbackAnswer when no corpus entry
// clears the threshold.
const (
	OfflineAnswer  = "The temple assistant is temporarily offline. Please check the temple information pages or contact the temple office directly."
	FallbackAnswer = "I don't have information about that yet. Please check the help section or contact the temple office."
)

// Request encapsulates a chat query. Context carries live operational data
// (current crowd, alerts) that is appended to the answer, never matched on.
type Request struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

// Response is returned to the HTTP transport. Score is only present when a
// similarity was actually computed.
type Response struct {
	Answer string   `json:"answer"`
	Score  *float64 `json:"score,omitempty"`
}

// Entry is one question/answer pair of the FAQ corpus.
type Entry struct {
	Question string
	Answer   string
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Embedder turns text into fixed-length vectors. The corpus and every query
// must go through the same embedder, otherwise similarities are meaningless.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// CorpusRepository lists the FAQ entries the index is built from.
type CorpusRepository interface {
	ListEntries(ctx context.Context) ([]Entry, error)
}

// EmbeddingWriter is implemented by repositories that can persist the
// embeddings computed at startup, keeping the stored corpus inspectable.
type EmbeddingWriter interface {
	SaveEmbeddings(ctx context.Context, entries []Entry, embeddings [][]float32) error
}

// Store tracks query popularity for the trending endpoint.
type Store interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
