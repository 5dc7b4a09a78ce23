package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxSanitizePasses = 8

var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from customer-supplied text. The policy escapes
// entities, which are turned back into plain characters for storage, so the
// result is sanitized again until it stops changing. Input that never
// settles is stored in its escaped form.
func cleanText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
