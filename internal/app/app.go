// Package app wires the application together: configuration, Genkit
// provider, database pool, knowledge store, persona, and the per-session
// conversation factory. Setup builds everything; Close releases it.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagechat/sage/internal/chat"
	"github.com/sagechat/sage/internal/config"
	"github.com/sagechat/sage/internal/ingest"
	"github.com/sagechat/sage/internal/knowledge"
	"github.com/sagechat/sage/internal/llm"
	"github.com/sagechat/sage/internal/log"
	"github.com/sagechat/sage/internal/persona"
)

// App is the application container.
type App struct {
	Config   *config.Config
	Logger   log.Logger
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	Persona   *persona.Persona
	Knowledge *knowledge.Store
	Completer *llm.Client
	Sessions  *chat.Manager
}

// Close releases all resources. Safe to call on a partially built App.
func (a *App) Close() error {
	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Debug("database pool closed")
	}
	return nil
}

// NewOrchestrator builds a fresh conversation against the shared store
// and providers. Each call is an independent session.
func (a *App) NewOrchestrator() *chat.Orchestrator {
	return chat.NewOrchestrator(
		chat.NewCondenser(a.Completer),
		a.Knowledge,
		chat.NewResponder(a.Completer, a.Persona),
		a.Persona,
		a.Config.TopK,
		a.Logger.With("component", "chat"),
	)
}

// NewIngestPipeline builds the batch ingestion pipeline.
func (a *App) NewIngestPipeline() *ingest.Pipeline {
	return ingest.New(a.Knowledge, a.Config.EmbeddingDim, a.Logger.With("component", "ingest"))
}
