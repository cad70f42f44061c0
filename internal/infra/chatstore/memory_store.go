package chatstore

import (
	"context"
	"sort"
	"sync"

	"github.com/templepass/ai-service/internal/domain/chatbot"
)

// MemoryStore is an in-memory trending store used for tests/dev and as the
// fallback when Valkey is not configured.
type MemoryStore struct {
	mu       sync.RWMutex
	trending map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trending: make(map[string]int64),
		displays: make(map[string]string),
	}
}

// IncrementQuery bumps the counter for a canonical query and records a display string.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trending[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries returns the most frequent canonical queries.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]chatbot.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.trending)
	}
	items := make([]chatbot.TrendingQuery, 0, len(s.trending))
	for canonical, count := range s.trending {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, chatbot.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ chatbot.Store = (*MemoryStore)(nil)
