package prompt

import (
	"fmt"
	"strings"
)

const (
	NameLimit    = 60
	WishLimit    = 220
	MessageLimit = 140

	DefaultMessage = "With love."
)

const template = `High-quality Christmas greeting postcard, subtle paper grain and printed ink texture, clean cream border frame around the artwork. Cozy winter illustration in elegant watercolor + gouache style, cinematic soft lighting, rich but tasteful color palette (deep greens, warm ambers, muted reds). A beautiful Christmas tree on the left side with gentle bokeh lights and ornaments.
On the right side, include a clear, visually readable depiction of: {WISH}, as if it were the Christmas gift or wish made real (integrated naturally into the scene, not floating abstractly). Keep it tasteful, elegant, and coherent with the watercolor + gouache style. Make sure the right side stays uncluttered enough so the gift/wish is instantly recognizable.
Add exactly this text, perfectly legible, centered in the right area (over a clean, unobtrusive background), with elegant classic postcard serif typography: "Merry christmas, {NAME}"
Add a second, smaller line of text in the bottom-left corner, inside the cream border area (not over the artwork). It must be perfectly legible, in a tasteful classic postcard serif (or neat handwritten-style) typography, dark ink, aligned left, with generous margin. Use exactly this text: "{MESSAGE}". No other additional text. If the signature is long, reduce font size slightly and keep it to a single line (no wrapping). No logos. No signatures. No watermark.`

// ValidationError reports a required field that was empty after cleaning.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// Build renders the postcard prompt. Each placeholder is filled in a single
// pass, so user text that looks like a placeholder is inserted verbatim.
func Build(name, wish, message string) (string, error) {
	cleanName := Escape(Clean(name, NameLimit))
	cleanWish := Escape(Clean(wish, WishLimit))
	cleanMessage := Escape(Clean(message, MessageLimit))

	if cleanName == "" {
		return "", &ValidationError{Field: "name"}
	}
	if cleanWish == "" {
		return "", &ValidationError{Field: "wish"}
	}
	if cleanMessage == "" {
		cleanMessage = DefaultMessage
	}

	return strings.NewReplacer(
		"{NAME}", cleanName,
		"{WISH}", cleanWish,
		"{MESSAGE}", cleanMessage,
	).Replace(template), nil
}
