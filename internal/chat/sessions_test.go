package chat

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagechat/sage/internal/testutil"
)

func newTestManager() *Manager {
	return NewManager(func() *Orchestrator {
		return newTestOrchestrator(testutil.NewMockCompleter("answer"), &mockRetriever{})
	})
}

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("create and get", func(t *testing.T) {
		t.Parallel()

		m := newTestManager()
		id, orch := m.Create()
		require.NotNil(t, orch)

		got, err := m.Get(id)
		require.NoError(t, err)
		assert.Same(t, orch, got)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()

		m := newTestManager()
		_, err := m.Get(uuid.New())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		m := newTestManager()
		id, _ := m.Create()
		m.Delete(id)

		_, err := m.Get(id)
		assert.Error(t, err)
		assert.Zero(t, m.Len())
	})

	t.Run("sessions are independent", func(t *testing.T) {
		t.Parallel()

		m := newTestManager()
		_, first := m.Create()
		_, second := m.Create()

		_, err := first.Submit(context.Background(), "question")
		require.NoError(t, err)

		assert.Len(t, first.History(), 2)
		assert.Empty(t, second.History())
	})

	t.Run("concurrent creates", func(t *testing.T) {
		t.Parallel()

		m := newTestManager()
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Create()
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, m.Len())
	})
}
