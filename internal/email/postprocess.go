package email

import (
	"regexp"
	"strings"
)

// =============================================================================
// Post-Processing Pipeline
// =============================================================================
//
// Both steps run on the fully assembled document, CSS step first. Each is a
// stand-alone string transform so the pipeline stays trivially testable.

var styleBlockPattern = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>\s*`)

// stripStyleBlocks removes embedded <style> elements.
//
// This stands in for a full CSS-inlining pass: every block renderer already
// emits inline styles, so the document stays presentable without the
// embedded block. Disabling the css_inline option keeps the block and with
// it the responsive media query.
func stripStyleBlocks(html string) string {
	return styleBlockPattern.ReplaceAllString(html, "")
}

const viewportMeta = `<meta name="viewport" content="width=device-width, initial-scale=1.0" />`

var headOpenPattern = regexp.MustCompile(`(?i)<head[^>]*>`)

// ensureViewportMeta injects a viewport meta tag into <head> when none is
// present. Idempotent: running it twice never duplicates the tag.
func ensureViewportMeta(html string) string {
	if strings.Contains(strings.ToLower(html), `name="viewport"`) {
		return html
	}

	loc := headOpenPattern.FindStringIndex(html)
	if loc == nil {
		return html
	}

	return html[:loc[1]] + "\n" + viewportMeta + html[loc[1]:]
}
