package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sagechat/sage/internal/knowledge"
	"github.com/sagechat/sage/internal/persona"
)

// Retriever is the passage-retrieval seam the orchestrator depends on.
// The production implementation is knowledge.Store.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]knowledge.Result, error)
}

// State is the orchestrator's current phase, observable while a turn is
// in flight.
type State int32

const (
	StateIdle State = iota
	StateCondensing
	StateRetrieving
	StateResponding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCondensing:
		return "condensing"
	case StateRetrieving:
		return "retrieving"
	case StateResponding:
		return "responding"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// sourceExcerptLen caps each cited source excerpt.
const sourceExcerptLen = 200

// AnswerWithSources is one completed turn's answer plus excerpts of the
// passages that grounded it. Sources is empty exactly when retrieval
// returned nothing.
type AnswerWithSources struct {
	Answer  string
	Sources []string
}

// Orchestrator runs the condense, retrieve, respond loop for one
// conversation and owns its history. Turns are serialized: a concurrent
// Submit blocks until the previous turn finishes.
//
// Provider and store failures never surface as errors from Submit; they
// become a persona-voiced degraded answer and the history stays
// untouched. Only caller mistakes (blank question) and context
// cancellation return errors.
type Orchestrator struct {
	condenser *Condenser
	retriever Retriever
	responder *Responder
	persona   *persona.Persona
	topK      int
	logger    *slog.Logger

	mu      sync.Mutex
	history []Turn
	state   atomic.Int32
}

// NewOrchestrator wires a conversation. A nil logger falls back to
// slog.Default().
func NewOrchestrator(condenser *Condenser, retriever Retriever, responder *Responder, p *persona.Persona, topK int, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		condenser: condenser,
		retriever: retriever,
		responder: responder,
		persona:   p,
		topK:      topK,
		logger:    logger,
	}
}

// State reports the phase of the turn currently in flight, or StateIdle.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Persona returns the persona this conversation speaks as.
func (o *Orchestrator) Persona() *persona.Persona {
	return o.persona
}

// Submit runs one full turn. On success both the question and the answer
// are appended to history together; on any failure the history is exactly
// as it was before the call.
func (o *Orchestrator) Submit(ctx context.Context, question string) (AnswerWithSources, error) {
	if strings.TrimSpace(question) == "" {
		return AnswerWithSources{}, fmt.Errorf("%w: empty question", ErrInvalidInput)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.state.Store(int32(StateIdle))

	o.state.Store(int32(StateCondensing))
	standalone, err := o.condenser.Condense(ctx, o.history, question)
	if err != nil {
		return o.failTurn(ctx, "condense", err)
	}

	o.state.Store(int32(StateRetrieving))
	results, err := o.retriever.Retrieve(ctx, standalone, o.topK)
	if err != nil {
		return o.failTurn(ctx, "retrieve", err)
	}

	o.state.Store(int32(StateResponding))
	answer, err := o.responder.Respond(ctx, standalone, results)
	if err != nil {
		return o.failTurn(ctx, "respond", err)
	}

	o.history = append(o.history,
		Turn{Role: RoleUser, Text: question},
		Turn{Role: RoleAssistant, Text: answer},
	)

	o.logger.Debug("turn completed",
		"history_turns", len(o.history),
		"sources", len(results))

	return AnswerWithSources{
		Answer:  answer,
		Sources: sourceExcerpts(results),
	}, nil
}

// failTurn translates a step failure. Caller cancellation is a real
// error; everything else, including a provider's own timeout, becomes a
// degraded persona answer with a nil error so the conversation surface
// stays responsive.
func (o *Orchestrator) failTurn(ctx context.Context, step string, err error) (AnswerWithSources, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return AnswerWithSources{}, ctxErr
	}

	o.logger.Warn("turn degraded", "step", step, "error", err)
	return AnswerWithSources{Answer: o.persona.DegradedAnswer(err)}, nil
}

// History returns a copy of the conversation so far.
func (o *Orchestrator) History() []Turn {
	o.mu.Lock()
	defer o.mu.Unlock()
	cp := make([]Turn, len(o.history))
	copy(cp, o.history)
	return cp
}

// Reset clears the conversation history.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = nil
}

// sourceExcerpts clips each retrieved passage for citation display.
func sourceExcerpts(results []knowledge.Result) []string {
	if len(results) == 0 {
		return nil
	}
	excerpts := make([]string, len(results))
	for i, r := range results {
		excerpts[i] = knowledge.TruncateField(r.Passage.Content, sourceExcerptLen)
	}
	return excerpts
}
