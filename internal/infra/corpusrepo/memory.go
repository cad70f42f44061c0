package corpusrepo

import (
	"context"

	"github.com/templepass/ai-service/internal/domain/chatbot"
)

// MemoryRepository serves a fixed in-process corpus, defaulting to the seed
// corpus shipped with the service.
type MemoryRepository struct {
	entries []chatbot.Entry
}

// NewMemoryRepository constructs a repo over the given entries; nil means the
// built-in seed corpus.
func NewMemoryRepository(entries []chatbot.Entry) *MemoryRepository {
	if entries == nil {
		entries = chatbot.SeedCorpus()
	}
	return &MemoryRepository{entries: entries}
}

// ListEntries implements chatbot.CorpusRepository.
func (r *MemoryRepository) ListEntries(_ context.Context) ([]chatbot.Entry, error) {
	out := make([]chatbot.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

var _ chatbot.CorpusRepository = (*MemoryRepository)(nil)
