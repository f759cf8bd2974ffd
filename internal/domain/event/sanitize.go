package event

import "strings"

// escaper rewrites the markup-significant characters plus the forward slash
// to their HTML entities. strings.Replacer makes a single left-to-right pass
// and never rescans replaced text, so the ampersands introduced by the other
// substitutions are not escaped again. "&" is listed first deliberately.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Escape neutralizes markup-significant characters in a raw message.
func Escape(s string) string {
	return escaper.Replace(s)
}
