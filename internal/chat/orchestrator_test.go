package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagechat/sage/internal/knowledge"
	"github.com/sagechat/sage/internal/log"
	"github.com/sagechat/sage/internal/persona"
	"github.com/sagechat/sage/internal/testutil"
)

// mockRetriever is a hand-written Retriever returning canned results.
type mockRetriever struct {
	mu      sync.Mutex
	results []knowledge.Result
	err     error
	queries []string
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, topK int) ([]knowledge.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) > topK {
		return m.results[:topK], nil
	}
	return m.results, nil
}

func newTestOrchestrator(completer Completer, retriever Retriever) *Orchestrator {
	p := persona.Default()
	return NewOrchestrator(
		NewCondenser(completer),
		retriever,
		NewResponder(completer, p),
		p,
		3,
		log.NewNop(),
	)
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	t.Run("successful turn commits question and answer together", func(t *testing.T) {
		t.Parallel()

		retriever := &mockRetriever{results: []knowledge.Result{
			resultWith("Rule number one: never lose money."),
		}}
		orch := newTestOrchestrator(testutil.NewMockCompleter("Don't lose money."), retriever)

		answer, err := orch.Submit(context.Background(), "What is your first rule?")
		require.NoError(t, err)
		assert.Equal(t, "Don't lose money.", answer.Answer)
		require.Len(t, answer.Sources, 1)
		assert.Equal(t, "Rule number one: never lose money.", answer.Sources[0])

		history := orch.History()
		require.Len(t, history, 2)
		assert.Equal(t, RoleUser, history[0].Role)
		assert.Equal(t, "What is your first rule?", history[0].Text)
		assert.Equal(t, RoleAssistant, history[1].Role)
		assert.Equal(t, "Don't lose money.", history[1].Text)
	})

	t.Run("sources empty when nothing retrieved", func(t *testing.T) {
		t.Parallel()

		orch := newTestOrchestrator(testutil.NewMockCompleter("general answer"), &mockRetriever{})

		answer, err := orch.Submit(context.Background(), "obscure question")
		require.NoError(t, err)
		assert.Empty(t, answer.Sources)
	})

	t.Run("sources capped at top k", func(t *testing.T) {
		t.Parallel()

		retriever := &mockRetriever{results: []knowledge.Result{
			resultWith("a"), resultWith("b"), resultWith("c"), resultWith("d"),
		}}
		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), retriever)

		answer, err := orch.Submit(context.Background(), "question")
		require.NoError(t, err)
		assert.Len(t, answer.Sources, 3)
	})

	t.Run("long passage excerpted to 200 runes", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", 500)
		retriever := &mockRetriever{results: []knowledge.Result{resultWith(long)}}
		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), retriever)

		answer, err := orch.Submit(context.Background(), "question")
		require.NoError(t, err)
		require.Len(t, answer.Sources, 1)
		assert.Len(t, []rune(answer.Sources[0]), 200)
	})

	t.Run("blank question returns ErrInvalidInput without a turn", func(t *testing.T) {
		t.Parallel()

		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), &mockRetriever{})

		_, err := orch.Submit(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, orch.History())
	})

	t.Run("completion failure degrades with nil error and untouched history", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("")
		completer.FailWith(errors.New("model overloaded"))
		orch := newTestOrchestrator(completer, &mockRetriever{})

		answer, err := orch.Submit(context.Background(), "question")
		require.NoError(t, err)
		assert.Contains(t, answer.Answer, "technical glitch")
		assert.Contains(t, answer.Answer, "model overloaded")
		assert.Empty(t, answer.Sources)
		assert.Empty(t, orch.History())
	})

	t.Run("retrieval failure degrades with nil error", func(t *testing.T) {
		t.Parallel()

		retriever := &mockRetriever{err: errors.New("connection refused")}
		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), retriever)

		answer, err := orch.Submit(context.Background(), "question")
		require.NoError(t, err)
		assert.Contains(t, answer.Answer, "technical glitch")
		assert.Empty(t, orch.History())
	})

	t.Run("provider deadline with live context degrades, not errors", func(t *testing.T) {
		t.Parallel()

		retriever := &mockRetriever{err: context.DeadlineExceeded}
		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), retriever)

		answer, err := orch.Submit(context.Background(), "question")
		require.NoError(t, err)
		assert.Contains(t, answer.Answer, "technical glitch")
		assert.Empty(t, orch.History())
	})

	t.Run("cancellation returns the context error, not a degraded answer", func(t *testing.T) {
		t.Parallel()

		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), &mockRetriever{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := orch.Submit(ctx, "question")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, orch.History())
	})

	t.Run("second turn condenses against first turn history", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("answer")
		completer.AddResponse("follow up question: and then?", "standalone: what happened next in markets")
		retriever := &mockRetriever{}
		orch := newTestOrchestrator(completer, retriever)

		_, err := orch.Submit(context.Background(), "What happened in 2008?")
		require.NoError(t, err)
		_, err = orch.Submit(context.Background(), "And then?")
		require.NoError(t, err)

		require.Len(t, retriever.queries, 2)
		assert.Equal(t, "What happened in 2008?", retriever.queries[0])
		assert.Equal(t, "standalone: what happened next in markets", retriever.queries[1])
	})

	t.Run("concurrent submits serialize and both commit", func(t *testing.T) {
		t.Parallel()

		orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), &mockRetriever{})

		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := orch.Submit(context.Background(), "question")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// two full turns, never a dangling user-only entry
		assert.Len(t, orch.History(), 4)
	})
}

func TestHistoryAndReset(t *testing.T) {
	t.Parallel()

	orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), &mockRetriever{})

	_, err := orch.Submit(context.Background(), "question")
	require.NoError(t, err)

	// History returns a copy
	history := orch.History()
	history[0].Text = "mutated"
	assert.Equal(t, "question", orch.History()[0].Text)

	orch.Reset()
	assert.Empty(t, orch.History())
}

func TestStateIdleBetweenTurns(t *testing.T) {
	t.Parallel()

	orch := newTestOrchestrator(testutil.NewMockCompleter("answer"), &mockRetriever{})
	assert.Equal(t, StateIdle, orch.State())

	_, err := orch.Submit(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, orch.State())
}
