package lint

import (
	"fmt"
	"strings"
)

const judgeSystemPrompt = `You are a strict code compliance judge. You are given one lint rule, written in natural language, and the full content of one source file. Decide whether the file complies with the rule.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble. The object has this exact structure:
{
  "pass": true or false,
  "message": "one short sentence explaining the judgment",
  "line": approximate line number of the first violation, or null
}

Judge ONLY the given rule. Do not report unrelated problems. If the file complies, set "pass" to true and keep the message brief.`

// SystemPrompt returns the fixed judge instruction.
func SystemPrompt() string {
	return judgeSystemPrompt
}

// BuildUserPrompt embeds the rule and the file under review. content may have
// been through secret redaction; the file path is always the real path.
func BuildUserPrompt(name, prompt, path, content string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rule: %s\n", name)
	fmt.Fprintf(&b, "Requirement: %s\n\n", prompt)
	fmt.Fprintf(&b, "File: %s\n", path)
	b.WriteString("--- BEGIN FILE ---\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("--- END FILE ---\n")

	return b.String()
}
