package corpusrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/templepass/ai-service/internal/domain/chatbot"
)

// PostgresRepository lists operator-managed FAQ entries from Postgres. The
// embedding column is write-only from the service's point of view: vectors
// are recomputed at startup with the live embedder and persisted back so the
// table stays inspectable with pgvector tooling.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListEntries implements chatbot.CorpusRepository. Order is fixed by id so
// index positions are stable across restarts.
func (r *PostgresRepository) ListEntries(ctx context.Context) ([]chatbot.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT question, answer
		FROM faq_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []chatbot.Entry
	for rows.Next() {
		var entry chatbot.Entry
		if err := rows.Scan(&entry.Question, &entry.Answer); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveEmbeddings implements chatbot.EmbeddingWriter.
func (r *PostgresRepository) SaveEmbeddings(ctx context.Context, entries []chatbot.Entry, embeddings [][]float32) error {
	for i, entry := range entries {
		if i >= len(embeddings) {
			break
		}
		if _, err := r.pool.Exec(ctx, `
			UPDATE faq_entries
			SET embedding = $1
			WHERE question = $2
		`, pgvector.NewVector(embeddings[i]), entry.Question); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ chatbot.CorpusRepository = (*PostgresRepository)(nil)
	_ chatbot.EmbeddingWriter  = (*PostgresRepository)(nil)
)
