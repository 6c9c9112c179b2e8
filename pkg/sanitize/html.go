package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Text strips everything; HTML keeps a small formatting whitelist.
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// Text strips all HTML and returns plain text.
// Use for values that end up inside rendered markup, like error messages
// on the startup failure page.
func Text(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// HTML allows safe formatting tags (p, a, strong, em, lists, code).
// Use for user-generated content that needs basic HTML formatting.
// Strips all dangerous elements and attributes including scripts, event
// handlers, and javascript: URLs.
func HTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// Custom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func Custom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
