package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sagechat/sage/internal/knowledge"
	"github.com/sagechat/sage/internal/persona"
)

// Responder answers a standalone question in the persona's voice, using
// retrieved passages as grounding context.
type Responder struct {
	completer Completer
	persona   *persona.Persona
}

// NewResponder creates a Responder for the given persona.
func NewResponder(completer Completer, p *persona.Persona) *Responder {
	return &Responder{completer: completer, persona: p}
}

// Respond generates the persona answer. With zero results the persona is
// told no reference material was found and answers from its general
// principles; it never cites passages it was not given.
func (r *Responder) Respond(ctx context.Context, question string, results []knowledge.Result) (string, error) {
	answer, err := r.completer.Complete(ctx, r.persona.AnswerPrompt(contextText(results), question))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: generating answer: %w", ErrCompletionProvider, err)
	}
	return strings.TrimSpace(answer), nil
}

// contextText joins retrieved passage contents, most relevant first.
func contextText(results []knowledge.Result) string {
	if len(results) == 0 {
		return ""
	}
	parts := make([]string, len(results))
	for i, res := range results {
		parts[i] = res.Passage.Content
	}
	return strings.Join(parts, "\n\n")
}
