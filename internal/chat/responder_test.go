package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagechat/sage/internal/knowledge"
	"github.com/sagechat/sage/internal/persona"
	"github.com/sagechat/sage/internal/testutil"
)

func resultWith(content string) knowledge.Result {
	return knowledge.Result{Passage: knowledge.Passage{Content: content}}
}

func TestRespond(t *testing.T) {
	t.Parallel()

	t.Run("prompt carries passages and question", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("Price is what you pay; value is what you get.")
		r := NewResponder(completer, persona.Default())

		results := []knowledge.Result{
			resultWith("Our favorite holding period is forever."),
			resultWith("Be fearful when others are greedy."),
		}

		answer, err := r.Respond(context.Background(), "How long should I hold?", results)
		require.NoError(t, err)
		assert.Equal(t, "Price is what you pay; value is what you get.", answer)

		calls := completer.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Prompt, "Our favorite holding period is forever.")
		assert.Contains(t, calls[0].Prompt, "Be fearful when others are greedy.")
		assert.Contains(t, calls[0].Prompt, "How long should I hold?")
	})

	t.Run("empty retrieval notes missing reference material", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("general wisdom")
		r := NewResponder(completer, persona.Default())

		_, err := r.Respond(context.Background(), "question", nil)
		require.NoError(t, err)

		calls := completer.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Prompt, "no reference material")
	})

	t.Run("provider failure wraps ErrCompletionProvider", func(t *testing.T) {
		t.Parallel()

		completer := testutil.NewMockCompleter("")
		completer.FailWith(errors.New("model overloaded"))
		r := NewResponder(completer, persona.Default())

		_, err := r.Respond(context.Background(), "question", nil)
		assert.ErrorIs(t, err, ErrCompletionProvider)
	})
}
