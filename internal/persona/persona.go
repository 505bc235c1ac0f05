// Package persona defines the voice the assistant answers in.
//
// A Persona bundles everything that is character-specific: the greeting,
// the style instructions baked into the answer prompt, the citation header
// used when retrieved passages back an answer, and the apologetic message
// shown when a turn fails. The chat core stays persona-agnostic and renders
// all user-facing text through this package.
package persona

import (
	"fmt"
	"strings"
)

// maxErrorDetail caps how much of a raw error message leaks into the
// degraded answer shown to the user.
const maxErrorDetail = 200

// Persona describes a character the assistant speaks as.
type Persona struct {
	// Name is the character's display name.
	Name string

	// Greeting opens a fresh session before any turn is recorded.
	Greeting string

	// answerTemplate renders the persona answer prompt. It receives the
	// retrieved context and the standalone question, in that order.
	answerTemplate string

	// CitationHeader introduces the numbered source excerpts appended to
	// an answer that drew on retrieved passages.
	CitationHeader string

	// degradedTemplate renders the always-respond failure message. It
	// receives the (truncated) error detail.
	degradedTemplate string
}

// Default returns the Warren Buffett persona the assistant ships with.
func Default() *Persona {
	return &Persona{
		Name: "Warren Buffett",
		Greeting: "Hello! I'm Warren Buffett. I'm here to share my investment wisdom " +
			"and life experiences with you. What would you like to discuss?",
		answerTemplate: `You are Warren Buffett, the legendary investor and CEO of Berkshire Hathaway.
Use the following pieces of context to answer the question in my authentic voice and style.

Context: %s

Question: %s

Instructions for formulating the response:
1. Draw primarily from the given context and my known investment principles
2. Use my characteristic plain-spoken, Midwestern style
3. Include relevant analogies and folksy wisdom where appropriate
4. If discussing investments, emphasize long-term value investing principles
5. Be direct and honest - if you don't know something, say so
6. Reference specific experiences or examples from the context when relevant
7. Maintain my ethical stance and emphasis on integrity

If the question cannot be answered based on the context, use my general philosophy and principles,
but clearly indicate when you are going beyond the provided context.

Answer the question as I would, maintaining my voice and personality:`,
		CitationHeader: "This wisdom draws from my following experiences and statements:",
		degradedTemplate: "Well, I seem to have encountered a technical glitch. As I always say, " +
			"it's better to be honest about our limitations. Error: %s",
	}
}

// AnswerPrompt builds the full answer prompt from the retrieved context and
// the standalone question. An empty context is stated explicitly so the
// model answers from the persona's general principles instead of inventing
// sources.
func (p *Persona) AnswerPrompt(contextText, question string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = "(no reference material was retrieved for this question)"
	}
	return fmt.Sprintf(p.answerTemplate, contextText, question)
}

// DegradedAnswer renders the always-respond failure message for err.
// The error text is truncated so provider stack traces don't flood the chat.
func (p *Persona) DegradedAnswer(err error) string {
	detail := "unknown error"
	if err != nil {
		detail = truncateRunes(err.Error(), maxErrorDetail)
	}
	return fmt.Sprintf(p.degradedTemplate, detail)
}

// FormatWithSources renders the final chat message: the answer followed by
// the citation block when sources are present. With no sources the answer
// is returned untouched.
func (p *Persona) FormatWithSources(answer string, sources []string) string {
	if len(sources) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\n")
	b.WriteString(p.CitationHeader)
	for i, src := range sources {
		fmt.Fprintf(&b, "\n%d. %s...", i+1, src)
	}
	return b.String()
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
