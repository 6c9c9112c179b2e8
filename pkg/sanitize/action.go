package sanitize

import "strings"

// ActionName reduces a host-provided action value to the character set that
// is safe to interpolate into a hook or event name: lowercase ASCII letters,
// digits, underscores, and hyphens. Uppercase letters are lowered, everything
// else is stripped. Returns "" when nothing survives.
//
// Action values arrive from the request (query or form field) and end up
// inside host hook names, so they must never carry spaces, quotes, or other
// metacharacters.
func ActionName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
