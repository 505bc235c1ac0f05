package knowledge

import (
	"time"

	"github.com/google/uuid"
)

// Column width limits shared by the passages table schema and ingestion.
// Oversized fields are truncated on ingest, never rejected.
const (
	MaxCategoryLen = 500
	MaxContentLen  = 5000
	MaxSourceLen   = 500
)

// Passage is a single unit of persona source material: a quote, an excerpt
// from a shareholder letter, or an interview fragment.
type Passage struct {
	ID        uuid.UUID
	Category  string
	Content   string
	Source    string
	Embedding []float32
	CreatedAt time.Time
}

// Result is a retrieved passage with its L2 distance from the query
// embedding. Smaller distance means more relevant.
type Result struct {
	Passage  Passage
	Distance float32
}

// TruncateField clips s to at most maxRunes runes. Truncation is by rune,
// not byte, so multi-byte characters are never split.
func TruncateField(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
