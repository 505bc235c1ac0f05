package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Completer is the completion seam the chat layer depends on. The
// production implementation is llm.Client; tests substitute a mock.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// condenseTemplate rewrites a follow-up question into a standalone one.
// Verb and layout deliberately plain: the model only has to merge, not
// answer.
const condenseTemplate = `Combine the chat history and follow up question into a standalone question.

Chat History:
%s
Follow up question: %s`

// Condenser rewrites follow-up questions so retrieval sees a
// self-contained query.
type Condenser struct {
	completer Completer
}

// NewCondenser creates a Condenser using the given completion provider.
func NewCondenser(completer Completer) *Condenser {
	return &Condenser{completer: completer}
}

// Condense returns a standalone form of question given the conversation
// so far. With empty history the question is already standalone and is
// returned verbatim without a provider call.
func (c *Condenser) Condense(ctx context.Context, history []Turn, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: empty question", ErrInvalidInput)
	}
	if len(history) == 0 {
		return question, nil
	}

	prompt := fmt.Sprintf(condenseTemplate, renderHistory(history), question)
	standalone, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: condensing question: %w", ErrCompletionProvider, err)
	}

	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		// A silent model must not erase the user's question.
		return question, nil
	}
	return standalone, nil
}
