package reporter

import "strings"

// escapeReplacer rewrites text for embedding in a single-quoted service
// message attribute. The single left-to-right pass never rescans its own
// output, so '|' runes introduced by the |n, |r, |[ and |] sequences are
// not doubled again.
var escapeReplacer = strings.NewReplacer(
	"|", "||",
	"'", "`",
	"\n", "|n",
	"\r", "|r",
	"[", "|[",
	"]", "|]",
)

// Escape makes text safe to use as a single-quoted attribute value in a
// TeamCity service message. Characters outside the six special ones,
// multi-byte sequences included, pass through unchanged.
func Escape(text string) string {
	return escapeReplacer.Replace(text)
}
