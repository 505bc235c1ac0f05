package persona

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerPrompt_IncludesContextAndQuestion(t *testing.T) {
	t.Parallel()

	p := Default()
	prompt := p.AnswerPrompt("Rule No. 1: never lose money.", "What is your first rule?")

	assert.Contains(t, prompt, "Rule No. 1: never lose money.")
	assert.Contains(t, prompt, "What is your first rule?")
	assert.Contains(t, prompt, "Warren Buffett")
}

func TestAnswerPrompt_EmptyContext(t *testing.T) {
	t.Parallel()

	p := Default()
	prompt := p.AnswerPrompt("   ", "What do you think about gold?")

	// The prompt must state the absence of material rather than leave a
	// dangling empty section the model could hallucinate into.
	assert.Contains(t, prompt, "no reference material")
	assert.Contains(t, prompt, "What do you think about gold?")
}

func TestDegradedAnswer_EmbedsErrorDetail(t *testing.T) {
	t.Parallel()

	p := Default()
	msg := p.DegradedAnswer(errors.New("connection refused"))

	assert.Contains(t, msg, "connection refused")
	assert.Contains(t, msg, "technical glitch")
}

func TestDegradedAnswer_TruncatesLongDetail(t *testing.T) {
	t.Parallel()

	p := Default()
	long := strings.Repeat("x", 1000)
	msg := p.DegradedAnswer(errors.New(long))

	assert.Less(t, len(msg), 400)
	assert.Contains(t, msg, strings.Repeat("x", maxErrorDetail))
	assert.NotContains(t, msg, strings.Repeat("x", maxErrorDetail+1))
}

func TestDegradedAnswer_NilError(t *testing.T) {
	t.Parallel()

	p := Default()
	msg := p.DegradedAnswer(nil)
	assert.Contains(t, msg, "unknown error")
}

func TestFormatWithSources(t *testing.T) {
	t.Parallel()

	p := Default()

	t.Run("no sources returns answer unchanged", func(t *testing.T) {
		t.Parallel()
		out := p.FormatWithSources("Buy wonderful companies.", nil)
		assert.Equal(t, "Buy wonderful companies.", out)
		assert.NotContains(t, out, p.CitationHeader)
	})

	t.Run("sources are numbered", func(t *testing.T) {
		t.Parallel()
		out := p.FormatWithSources("Answer.", []string{"first excerpt", "second excerpt"})

		require.Contains(t, out, p.CitationHeader)
		assert.Contains(t, out, "1. first excerpt...")
		assert.Contains(t, out, "2. second excerpt...")
		assert.True(t, strings.HasPrefix(out, "Answer."))
	})
}
