package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Querier defines the database operations Store needs. Defined on the
// consumer side (like io.Reader) so tests can substitute a mock.
type Querier interface {
	// InsertPassages inserts a batch of passages in a single transaction.
	InsertPassages(ctx context.Context, passages []Passage) error

	// SearchPassages returns the topK nearest passages to the query
	// embedding, ordered by L2 distance.
	SearchPassages(ctx context.Context, embedding []float32, topK int) ([]Result, error)

	// CountPassages returns the total number of stored passages.
	CountPassages(ctx context.Context) (int64, error)

	// Analyze refreshes planner statistics after a bulk load so the
	// ivfflat index is actually used.
	Analyze(ctx context.Context) error
}

// PGQuerier implements Querier on a pgx connection pool. Vector values
// round-trip through pgvector-go type support registered on the pool.
type PGQuerier struct {
	pool *pgxpool.Pool
}

// NewPGQuerier creates a PGQuerier backed by the given pool.
func NewPGQuerier(pool *pgxpool.Pool) *PGQuerier {
	return &PGQuerier{pool: pool}
}

func (q *PGQuerier) InsertPassages(ctx context.Context, passages []Passage) error {
	if len(passages) == 0 {
		return nil
	}

	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range passages {
		batch.Queue(
			`INSERT INTO passages (id, category, content, source, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.Category, p.Content, p.Source,
			pgvector.NewVector(p.Embedding), p.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range passages {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("inserting passage %d of %d: %w", i+1, len(passages), err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (q *PGQuerier) SearchPassages(ctx context.Context, embedding []float32, topK int) ([]Result, error) {
	// Distance ties are broken by created_at then id so result order is
	// deterministic across repeated queries.
	rows, err := q.pool.Query(ctx,
		`SELECT id, category, content, source, created_at,
		        embedding <-> $1 AS distance
		 FROM passages
		 ORDER BY distance, created_at, id
		 LIMIT $2`,
		pgvector.NewVector(embedding), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.Passage.ID, &r.Passage.Category, &r.Passage.Content,
			&r.Passage.Source, &r.Passage.CreatedAt, &r.Distance,
		); err != nil {
			return nil, fmt.Errorf("scanning passage row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passage rows: %w", err)
	}
	return results, nil
}

func (q *PGQuerier) CountPassages(ctx context.Context) (int64, error) {
	var count int64
	if err := q.pool.QueryRow(ctx, `SELECT count(*) FROM passages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return count, nil
}

func (q *PGQuerier) Analyze(ctx context.Context) error {
	if _, err := q.pool.Exec(ctx, `ANALYZE passages`); err != nil {
		return fmt.Errorf("analyzing passages: %w", err)
	}
	return nil
}
