package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagechat/sage/internal/testutil"
)

func TestCondense(t *testing.T) {
	t.Parallel()

	t.Run("empty history passes question through without provider call", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("should not be called")
		c := NewCondenser(completer)

		got, err := c.Condense(context.Background(), nil, "What is intrinsic value?")
		require.NoError(t, err)
		assert.Equal(t, "What is intrinsic value?", got)
		assert.Empty(t, completer.Calls())
	})

	t.Run("non-empty history sends transcript and follow-up", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("What did Warren Buffett say about risk?")
		c := NewCondenser(completer)

		history := []Turn{
			{Role: RoleUser, Text: "Tell me about risk."},
			{Role: RoleAssistant, Text: "Risk comes from not knowing what you're doing."},
		}

		got, err := c.Condense(context.Background(), history, "Can you elaborate?")
		require.NoError(t, err)
		assert.Equal(t, "What did Warren Buffett say about risk?", got)

		calls := completer.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Prompt, "Human: Tell me about risk.")
		assert.Contains(t, calls[0].Prompt, "AI: Risk comes from not knowing what you're doing.")
		assert.Contains(t, calls[0].Prompt, "Follow up question: Can you elaborate?")
		assert.Contains(t, calls[0].Prompt, "standalone question")
	})

	t.Run("blank question is invalid", func(t *testing.T) {
		t.Parallel()

		c := NewCondenser(testutil.NewMockCompleter(""))

		_, err := c.Condense(context.Background(), nil, "   ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("provider failure wraps ErrCompletionProvider", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("")
		completer.FailWith(errors.New("rate limited"))
		c := NewCondenser(completer)

		_, err := c.Condense(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, "next")
		assert.ErrorIs(t, err, ErrCompletionProvider)
	})

	t.Run("cancellation propagates as context error", func(t *testing.T) {
		t.Parallel()

		c := NewCondenser(testutil.NewMockCompleter("answer"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Condense(ctx, []Turn{{Role: RoleUser, Text: "hi"}}, "next")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrCompletionProvider)
	})

	t.Run("blank model output falls back to original question", func(t *testing.T) {
		t.Parallel()

		c := NewCondenser(testutil.NewMockCompleter("  \n"))

		got, err := c.Condense(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, "next question")
		require.NoError(t, err)
		assert.Equal(t, "next question", got)
	})
}
