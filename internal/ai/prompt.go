package ai

import "fmt"

const DefaultPrompt = "What is the main risk factor:"

// maxDocumentChars keeps document-bearing prompts inside typical context windows.
const maxDocumentChars = 12000

var documentPromptTemplate = `%s

---
%s
---`

// BuildPrompt returns prompt unchanged unless includeText is set, in which case the
// document text is appended, truncated to maxDocumentChars runes.
func BuildPrompt(prompt, text string, includeText bool) string {
	if !includeText {
		return prompt
	}

	runes := []rune(text)
	if len(runes) > maxDocumentChars {
		text = string(runes[:maxDocumentChars])
	}
	return fmt.Sprintf(documentPromptTemplate, prompt, text)
}
