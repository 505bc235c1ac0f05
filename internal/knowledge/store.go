package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
)

// defaultSearchTimeout bounds a single retrieval round trip (embedding
// plus vector search).
const defaultSearchTimeout = 10 * time.Second

// Store manages persona passages with vector search. It embeds content on
// write and queries on read through the configured embedder.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	queries       Querier
	embedder      ai.Embedder
	dim           int
	logger        *slog.Logger
	searchTimeout time.Duration
}

// New creates a Store. dim is the embedding dimension the passages table
// was created with; every embedding crossing the store is checked against
// it. A nil logger falls back to slog.Default().
func New(querier Querier, embedder ai.Embedder, dim int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		queries:       querier,
		embedder:      embedder,
		dim:           dim,
		logger:        logger,
		searchTimeout: defaultSearchTimeout,
	}
}

// Dim returns the embedding dimension the store enforces.
func (s *Store) Dim() int {
	return s.dim
}

// Retrieve embeds the query and returns up to topK passages ordered by
// ascending L2 distance. An empty result is valid and means the corpus has
// nothing close enough to return, not an error.
func (s *Store) Retrieve(ctx context.Context, query string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top k must be positive, got %d", ErrInvalidInput, topK)
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	embedding, err := s.embed(queryCtx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	results, err := s.queries.SearchPassages(queryCtx, embedding, topK)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s.logger.Debug("retrieved passages", "query_length", len(query), "count", len(results))
	return results, nil
}

// Insert embeds and stores a batch of passages in one transaction. All
// embeddings are generated and dimension-checked before the first row is
// written, so a mid-batch mismatch can never leave a partial insert.
func (s *Store) Insert(ctx context.Context, passages []Passage) error {
	if len(passages) == 0 {
		return nil
	}

	for i := range passages {
		if strings.TrimSpace(passages[i].Content) == "" {
			return fmt.Errorf("%w: passage %d has empty content", ErrInvalidInput, i)
		}
	}

	for i := range passages {
		if len(passages[i].Embedding) != 0 {
			continue
		}
		embedding, err := s.embed(ctx, passages[i].Content)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("embedding passage %d: %w", i, err)
		}
		passages[i].Embedding = embedding
	}

	for i := range passages {
		if len(passages[i].Embedding) != s.dim {
			return fmt.Errorf("%w: passage %d has dimension %d, table expects %d",
				ErrSchemaMismatch, i, len(passages[i].Embedding), s.dim)
		}
	}

	if err := s.queries.InsertPassages(ctx, passages); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s.logger.Debug("inserted passages", "count", len(passages))
	return nil
}

// Load refreshes planner statistics after a bulk ingestion so subsequent
// searches use the vector index.
func (s *Store) Load(ctx context.Context) error {
	if err := s.queries.Analyze(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Count returns the number of stored passages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	count, err := s.queries.CountPassages(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingProvider, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", ErrEmbeddingProvider)
	}

	embedding := resp.Embeddings[0].Embedding
	if len(embedding) != s.dim {
		return nil, fmt.Errorf("%w: provider returned dimension %d, table expects %d",
			ErrSchemaMismatch, len(embedding), s.dim)
	}
	return embedding, nil
}
