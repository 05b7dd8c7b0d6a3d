package llm

import (
	"fmt"
	"strings"

	"github.com/tabletalk/rules-qa/internal/domain"
)

// DefaultSystemInstruction is the assistant persona used when no override is
// configured: a board game shop clerk walking a customer through a game.
const DefaultSystemInstruction = "You are a board game shop clerk. Explain game rules in simple, " +
	"clear language. Start with a one-sentence summary of the core rule, then describe the setup, " +
	"theme, main mechanics and win condition, and walk through what a player does each turn. " +
	"Finish with common questions and the points worth emphasizing."

// BuildChatPrompt serializes a conversation window as alternating labeled
// lines followed by a generation cue.
func BuildChatPrompt(turns []domain.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	b.WriteString("assistant:")
	return b.String()
}

// BuildAnswerPrompt creates a grounded-answer prompt: each retrieved chunk
// prefixed by its source label, optional prior conversation, the question
// verbatim, and the response instruction.
func BuildAnswerPrompt(question string, chunks []domain.DocumentChunk, history []domain.Turn) string {
	sections := make([]string, 0, len(chunks))
	for i, c := range chunks {
		src := c.Source()
		if src == "" {
			src = fmt.Sprintf("doc_%d", i)
		}
		sections = append(sections, fmt.Sprintf("[Source: %s]\n%s", src, c.Text))
	}
	context := strings.Join(sections, "\n\n")

	historyBlock := ""
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("\nConversation so far:\n")
		for _, t := range history {
			b.WriteString(fmt.Sprintf("%s: %s\n", t.Role, t.Content))
		}
		historyBlock = b.String()
	}

	return fmt.Sprintf(`You answer questions about board game rules. Use the reference material below, give clear steps and key points, and list the cited sources at the end of your answer.

Reference material:
%s
%s
Question: %s

Answer in the language the question was asked in.`, context, historyBlock, question)
}
