package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// stubEmbedder returns preset vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := e.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no stub vector for %q", text)
		}
		out[i] = vec
	}
	return out, nil
}

type stubStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newStubStore() *stubStore {
	return &stubStore{counts: make(map[string]int64)}
}

func (s *stubStore) IncrementQuery(_ context.Context, canonical, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	return nil
}

func (s *stubStore) TopQueries(_ context.Context, limit int) ([]TrendingQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]TrendingQuery, 0, len(s.counts))
	for q, c := range s.counts {
		items = append(items, TrendingQuery{Query: q, Count: c})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// unitVector builds a 2-d vector whose cosine against [1, 0] is exactly cos.
func unitVector(cos float64) []float32 {
	sin := math.Sqrt(1 - cos*cos)
	return []float32{float32(cos), float32(sin)}
}

func timingsIndex(t *testing.T, embedder *stubEmbedder) *Index {
	t.Helper()
	entries := SeedCorpus()
	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	vectors, err := embedder.Embed(context.Background(), questions)
	require.NoError(t, err)
	return NewIndex(entries, vectors)
}

// seedEmbedder assigns each corpus question an axis-aligned vector in its own
// dimension, so every question only matches itself.
func seedEmbedder() *stubEmbedder {
	entries := SeedCorpus()
	dims := len(entries) + 1
	vectors := make(map[string][]float32, dims)
	for i, e := range entries {
		vec := make([]float32, dims)
		vec[i] = 1
		vectors[e.Question] = vec
	}
	nonsense := make([]float32, dims)
	nonsense[dims-1] = 1
	vectors["asdkjqwe nonsense xyz"] = nonsense
	return &stubEmbedder{vectors: vectors}
}

func newChatService(index *Index, embedder Embedder, store Store) Service {
	return NewService(Config{TopRecommendations: 10}, index, embedder, store, slog.Default())
}

func TestResolve_SeededTimingsQuestion(t *testing.T) {
	embedder := seedEmbedder()
	svc := newChatService(timingsIndex(t, embedder), embedder, newStubStore())

	resp, err := svc.Resolve(context.Background(), Request{Query: "What are the temple timings?"})
	require.NoError(t, err)
	require.Equal(t, "Most temples are open from 6 AM to 10 PM with a midday break. Check the specific temple page for exact darshan timings.", resp.Answer)
	require.NotNil(t, resp.Score)
	require.GreaterOrEqual(t, *resp.Score, DefaultSimilarityThreshold)
}

func TestResolve_NonsenseFallsBack(t *testing.T) {
	embedder := seedEmbedder()
	svc := newChatService(timingsIndex(t, embedder), embedder, newStubStore())

	resp, err := svc.Resolve(context.Background(), Request{Query: "asdkjqwe nonsense xyz"})
	require.NoError(t, err)
	require.Equal(t, FallbackAnswer, resp.Answer)
	require.NotNil(t, resp.Score)
	require.Less(t, *resp.Score, DefaultSimilarityThreshold)
}

func TestResolve_Deterministic(t *testing.T) {
	embedder := seedEmbedder()
	svc := newChatService(timingsIndex(t, embedder), embedder, newStubStore())

	first, err := svc.Resolve(context.Background(), Request{Query: "How do I cancel my booking?"})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := svc.Resolve(context.Background(), Request{Query: "How do I cancel my booking?"})
		require.NoError(t, err)
		require.Equal(t, first.Answer, again.Answer)
		require.Equal(t, *first.Score, *again.Score)
	}
}

func TestResolve_ThresholdBoundary(t *testing.T) {
	entries := []Entry{{Question: "anchor", Answer: "anchor answer"}}
	index := NewIndex(entries, [][]float32{{1, 0}})

	cases := []struct {
		cos       float64
		wantMatch bool
	}{
		{0.351, true},
		{0.349, false},
	}
	for _, tc := range cases {
		query := fmt.Sprintf("query at %.3f", tc.cos)
		embedder := &stubEmbedder{vectors: map[string][]float32{query: unitVector(tc.cos)}}
		svc := newChatService(index, embedder, newStubStore())

		resp, err := svc.Resolve(context.Background(), Request{Query: query})
		require.NoError(t, err)
		require.NotNil(t, resp.Score)
		require.InDelta(t, tc.cos, *resp.Score, 1e-4)
		if tc.wantMatch {
			require.Equal(t, "anchor answer", resp.Answer)
		} else {
			require.Equal(t, FallbackAnswer, resp.Answer)
		}
	}
}

func TestResolve_LiveContextAppended(t *testing.T) {
	embedder := seedEmbedder()
	svc := newChatService(timingsIndex(t, embedder), embedder, newStubStore())

	resp, err := svc.Resolve(context.Background(), Request{
		Query:   "What are the temple timings?",
		Context: "Somnath is currently at High crowd level.",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Answer, "6 AM to 10 PM")
	require.Contains(t, resp.Answer, "\n\nLive update: Somnath is currently at High crowd level.")
}

func TestResolve_DegradedMode(t *testing.T) {
	svc := newChatService(nil, nil, newStubStore())

	resp, err := svc.Resolve(context.Background(), Request{Query: "anything at all", Context: "ignored in offline mode"})
	require.NoError(t, err)
	require.Equal(t, OfflineAnswer, resp.Answer)
	require.Nil(t, resp.Score)
}

func TestResolve_EmptyQuery(t *testing.T) {
	svc := newChatService(nil, nil, newStubStore())
	_, err := svc.Resolve(context.Background(), Request{Query: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestResolve_EmbedderErrorSurfaces(t *testing.T) {
	embedder := seedEmbedder()
	index := timingsIndex(t, embedder)
	svc := newChatService(index, &stubEmbedder{err: errors.New("upstream 503")}, newStubStore())

	_, err := svc.Resolve(context.Background(), Request{Query: "What are the temple timings?"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmbeddingError))
}

func TestTrending_CountsNormalizedQueries(t *testing.T) {
	embedder := seedEmbedder()
	store := newStubStore()
	svc := newChatService(timingsIndex(t, embedder), embedder, store)

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(context.Background(), Request{Query: "What are the temple timings?"})
		require.NoError(t, err)
	}
	_, err := svc.Resolve(context.Background(), Request{Query: "How do I cancel my booking?"})
	require.NoError(t, err)

	items, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "what are the temple timings", items[0].Query)
	require.Equal(t, int64(3), items[0].Count)
}

func TestBuildIndex_EmbedsSeedCorpus(t *testing.T) {
	embedder := seedEmbedder()
	index, err := BuildIndex(context.Background(), memoryCorpus{}, embedder, slog.Default())
	require.NoError(t, err)
	require.Equal(t, len(SeedCorpus()), index.Len())
}

func TestBuildIndex_EmbedderFailure(t *testing.T) {
	_, err := BuildIndex(context.Background(), memoryCorpus{}, &stubEmbedder{err: errors.New("model unavailable")}, slog.Default())
	require.Error(t, err)
}

type memoryCorpus struct{}

func (memoryCorpus) ListEntries(context.Context) ([]Entry, error) {
	return SeedCorpus(), nil
}
