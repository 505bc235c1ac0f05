// Package ingest loads persona source passages from a JSON Lines stream
// into the knowledge store. Unlike the chat path, ingestion has no
// degraded mode: any failure aborts the run and propagates.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagechat/sage/internal/knowledge"
)

// maxLineBytes bounds a single JSONL line. A 5000-char passage plus a
// 1536-float embedding serializes well under this.
const maxLineBytes = 1 << 20

// defaultBatchSize is how many passages go to the store per transaction.
const defaultBatchSize = 256

// Record is one JSONL input line. Embeddings are precomputed by the
// corpus preparation step; TokenCount is carried for operator visibility
// only.
type Record struct {
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	Embedding  []float32 `json:"embedding"`
	TokenCount int       `json:"token_count,omitempty"`
}

// Receipt summarizes a completed ingestion run.
type Receipt struct {
	Inserted int
}

// Store is the storage seam the pipeline depends on; the production
// implementation is knowledge.Store.
type Store interface {
	Insert(ctx context.Context, passages []knowledge.Passage) error
	Load(ctx context.Context) error
}

// Pipeline validates, truncates, and batch-inserts passages.
type Pipeline struct {
	store     Store
	dim       int
	batchSize int
	logger    *slog.Logger
}

// New creates a Pipeline. dim is the embedding dimension every record
// must match. A nil logger falls back to slog.Default().
func New(store Store, dim int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     store,
		dim:       dim,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
}

// Run ingests the whole stream. Every record is decoded and
// dimension-checked before the first insert, so a malformed line late in
// the file can never leave earlier lines half-committed. After the last
// batch the store is analyzed so the new rows are immediately searchable.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (Receipt, error) {
	passages, err := p.decodeAll(r)
	if err != nil {
		return Receipt{}, err
	}
	if len(passages) == 0 {
		return Receipt{}, nil
	}

	for start := 0; start < len(passages); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return Receipt{}, err
		}
		end := min(start+p.batchSize, len(passages))
		if err := p.store.Insert(ctx, passages[start:end]); err != nil {
			return Receipt{}, fmt.Errorf("inserting batch starting at record %d: %w", start, err)
		}
	}

	if err := p.store.Load(ctx); err != nil {
		return Receipt{}, fmt.Errorf("loading store after ingestion: %w", err)
	}

	p.logger.Info("ingestion completed", "inserted", len(passages))
	return Receipt{Inserted: len(passages)}, nil
}

// decodeAll reads every line, validating as it goes. Line numbers in
// errors are 1-based to match editor display.
func (p *Pipeline) decodeAll(r io.Reader) ([]knowledge.Passage, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var passages []knowledge.Passage
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", knowledge.ErrInvalidInput, line, err)
		}
		if strings.TrimSpace(rec.Content) == "" {
			return nil, fmt.Errorf("%w: line %d: empty content", knowledge.ErrInvalidInput, line)
		}
		if len(rec.Embedding) != p.dim {
			return nil, fmt.Errorf("%w: line %d has dimension %d, expected %d",
				knowledge.ErrSchemaMismatch, line, len(rec.Embedding), p.dim)
		}

		passages = append(passages, knowledge.Passage{
			ID:        uuid.New(),
			Category:  knowledge.TruncateField(rec.Category, knowledge.MaxCategoryLen),
			Content:   knowledge.TruncateField(rec.Content, knowledge.MaxContentLen),
			Source:    knowledge.TruncateField(rec.Source, knowledge.MaxSourceLen),
			Embedding: rec.Embedding,
			CreatedAt: time.Now(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return passages, nil
}
