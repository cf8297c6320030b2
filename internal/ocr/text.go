package ocr

import "strings"

// transcribePrompt is the shared prompt used by all vision providers
const transcribePrompt = `You are transcribing a receipt or invoice document. Read every piece of visible text in the image, from top to bottom.

Return the transcription as plain text with one output line per visual line on the receipt. Preserve the original wording, numbers, currency symbols and punctuation exactly as printed.

Important:
- Do not summarize, interpret or reorder anything
- Do not add commentary before or after the transcription
- Do not use markdown code blocks`

// normalizeResponse strips markdown fences that chat models wrap around
// responses despite instructions
func normalizeResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// splitLines segments transcribed text into trimmed, non-empty visual lines
func splitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
