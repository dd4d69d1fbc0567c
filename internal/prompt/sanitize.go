package prompt

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Clean flattens text onto a single line, collapses whitespace and caps the
// result at max runes.
func Clean(text string, max int) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if runes := []rune(cleaned); len(runes) > max {
		cleaned = strings.TrimSpace(string(runes[:max]))
	}
	return cleaned
}

// Escape makes text safe to place between the template's double quotes.
func Escape(text string) string {
	return escaper.Replace(text)
}
