package format

import "strings"

var markdownV1Escaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// EscapeMarkdown escapes the characters that legacy Telegram Markdown treats as entity markers.
func EscapeMarkdown(text string) string {
	return markdownV1Escaper.Replace(text)
}
