package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Index is the immutable FAQ search structure: one embedding per corpus
// entry, aligned by position. Built once at startup and shared read-only
// across requests; nothing is added or removed while serving.
type Index struct {
	entries    []Entry
	embeddings [][]float32
}

// BuildIndex embeds every corpus question with the given embedder. The whole
// pass must succeed: a partially embedded corpus would skew every later
// argmax, so any failure aborts the build and the caller degrades chat.
func BuildIndex(ctx context.Context, repo CorpusRepository, embedder Embedder, logger *slog.Logger) (*Index, error) {
	entries, err := repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpus entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("corpus is empty")
	}

	questions := make([]string, len(entries))
	for i, entry := range entries {
		questions[i] = entry.Question
	}
	embeddings, err := embedder.Embed(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(embeddings) != len(entries) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d questions", len(embeddings), len(entries))
	}

	if writer, ok := repo.(EmbeddingWriter); ok {
		if err := writer.SaveEmbeddings(ctx, entries, embeddings); err != nil {
			logger.Warn("persisting corpus embeddings failed", "error", err)
		}
	}

	logger.Info("faq index built", "entries", len(entries), "dims", len(embeddings[0]))
	return NewIndex(entries, embeddings), nil
}

// NewIndex wraps prepared entries and embeddings.
func NewIndex(entries []Entry, embeddings [][]float32) *Index {
	return &Index{entries: entries, embeddings: embeddings}
}

// Len returns the corpus size.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Nearest returns the index and cosine similarity of the best-matching
// entry. Ties keep the lowest index, so resolution is deterministic for a
// fixed corpus.
func (ix *Index) Nearest(query []float32) (int, float64) {
	best := 0
	bestScore := cosineSimilarity(query, ix.embeddings[0])
	for i := 1; i < len(ix.embeddings); i++ {
		if score := cosineSimilarity(query, ix.embeddings[i]); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}

// Entry returns the corpus entry at position i.
func (ix *Index) Entry(i int) Entry {
	return ix.entries[i]
}
