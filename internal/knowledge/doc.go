// Package knowledge stores and retrieves persona source passages backed by
// PostgreSQL with pgvector. Passages are embedded on insert; retrieval
// embeds the query and performs an L2 nearest-neighbor search.
package knowledge
