package email

import (
	"html"
	"regexp"
	"strings"
)

// =============================================================================
// HTML Assembly Helpers
// =============================================================================
//
// Every user-influenced string (colors, URLs, free text) passes through one
// of these before interpolation. Injection through block attributes is a
// hard correctness requirement, not a style choice.

// escapeHTML escapes text content for element bodies.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// escapeAttr escapes a value for use inside a double-quoted HTML attribute.
func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// safeCSSValue strips characters that could break out of an inline style
// declaration. Colors, lengths, and font stacks pass through unchanged.
var unsafeCSSChars = regexp.MustCompile(`[<>"'` + "`" + `;{}\\]`)

func safeCSSValue(s string) string {
	return unsafeCSSChars.ReplaceAllString(s, "")
}

// styleAttr builds an inline style declaration from property/value pairs.
// Pairs with an empty value are dropped. The result is already
// attribute-safe.
func styleAttr(pairs ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		prop, val := pairs[i], safeCSSValue(pairs[i+1])
		if val == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(prop)
		sb.WriteString(": ")
		sb.WriteString(val)
	}
	return sb.String()
}

// safeURL rejects URL schemes that execute script in HTML contexts.
// Anything else passes through attribute escaping untouched.
func safeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "vbscript:") {
		return ""
	}
	return trimmed
}
