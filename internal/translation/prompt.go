package translation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Placeholders substituted into the prompt instruction
const (
	SourceLangPlaceholder = "{source_lang}"
	TargetLangPlaceholder = "{target_lang}"
)

// Bracketed tokens used by older config files
var legacyPlaceholders = []struct{ token, which string }{
	{"[待翻译的语言]", SourceLangPlaceholder},
	{"[要翻译成的语言]", TargetLangPlaceholder},
}

// BuildPrompt renders the instruction, the requirement list and the batch
// as a JSON array. Non-Latin text is written as-is, not \u-escaped.
func BuildPrompt(instruction string, requirements []string, texts []string, sourceLang, targetLang string) (string, error) {
	for _, p := range legacyPlaceholders {
		instruction = strings.ReplaceAll(instruction, p.token, p.which)
	}
	instruction = strings.ReplaceAll(instruction, SourceLangPlaceholder, sourceLang)
	instruction = strings.ReplaceAll(instruction, TargetLangPlaceholder, targetLang)

	input, err := encodeTexts(texts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString(strings.Join(requirements, "\n"))
	b.WriteString("\n\nInput:\n")
	b.WriteString(input)
	return b.String(), nil
}

func encodeTexts(texts []string) (string, error) {
	if texts == nil {
		texts = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(texts); err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
