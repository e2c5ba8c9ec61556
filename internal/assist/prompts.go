package assist

import (
	"fmt"
	"strings"
)

const critiqueSystem = `You are an academic writing coach. You review draft text for
grammar, clarity, structure, and academic tone. You respond with a short critique:
first a one-paragraph overall assessment, then a numbered list of concrete issues,
each with the problematic phrase quoted and a suggested rewrite. Do not rewrite the
whole text.`

// critiquePrompt builds the user-facing prompt for a grammar and style
// critique of the given draft text.
func critiquePrompt(text string) string {
	var b strings.Builder
	b.WriteString("Critique the following draft for grammar, clarity, and academic style.\n")
	b.WriteString("Point out specific problems and suggest fixes. Keep the critique concise.\n\n")
	b.WriteString("DRAFT:\n")
	b.WriteString(text)
	return b.String()
}

// backendCritiquePrompt wraps the critique request for the knowledge-base
// query endpoint, which expects a free-form question.
func backendCritiquePrompt(text string) string {
	return fmt.Sprintf("%s\n\n%s", critiqueSystem, critiquePrompt(text))
}
