package domain

import (
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// Email Generation Options
// =============================================================================

// Default generation option values. These mirror what the block editor
// assumes when a campaign has no explicit design settings.
const (
	DefaultEmailWidth      = 600
	DefaultMaxWidth        = 600
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#333333"
	DefaultFontFamily      = "Arial, Helvetica, sans-serif"
	DefaultEmailTitle      = "Email Campaign"
	DefaultLocale          = "en"
)

// EmailOptions configures a single email generation call.
//
// Options are resolved once per call; missing or malformed values fall back
// to defaults so a bad option can never abort generation.
type EmailOptions struct {
	Width           int    // Content width in pixels
	MaxWidth        int    // Maximum content width in pixels
	BackgroundColor string // Document background (hex)
	TextColor       string // Base text color (hex)
	FontFamily      string // Base font stack
	EmailClient     string // Informational target client hint
	Title           string // Document <title>, supplied by the caller
	Locale          string // BCP 47 locale for the lang attribute
	InlineCSS       bool   // Strip embedded <style> blocks after assembly
	Responsive      bool   // Ensure a viewport meta tag is present
}

// DefaultEmailOptions returns the options used when the caller supplies none.
func DefaultEmailOptions() EmailOptions {
	return EmailOptions{
		Width:           DefaultEmailWidth,
		MaxWidth:        DefaultMaxWidth,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		FontFamily:      DefaultFontFamily,
		Title:           DefaultEmailTitle,
		Locale:          DefaultLocale,
		InlineCSS:       true,
		Responsive:      true,
	}
}

// EmailOptionsFromMap resolves a flat key/value option map against the
// defaults. Recognized keys are coerced per type; unparseable values fall
// back to the default for that key and unknown keys are ignored.
func EmailOptionsFromMap(m map[string]any) EmailOptions {
	return ResolveEmailOptions(DefaultEmailOptions(), m)
}

// ResolveEmailOptions resolves an option map against a caller-supplied base,
// typically the deployment-wide defaults from configuration.
func ResolveEmailOptions(base EmailOptions, m map[string]any) EmailOptions {
	opts := base
	if len(m) == 0 {
		if opts.Width <= 0 {
			opts.Width = DefaultEmailWidth
		}
		if opts.MaxWidth <= 0 {
			opts.MaxWidth = DefaultMaxWidth
		}
		return opts
	}

	opts.Width = coerceInt(m["email_width"], opts.Width)
	opts.MaxWidth = coerceInt(m["max_width"], opts.MaxWidth)
	opts.BackgroundColor = coerceString(m["background_color"], opts.BackgroundColor)
	opts.TextColor = coerceString(m["text_color"], opts.TextColor)
	opts.FontFamily = coerceString(m["font_family"], opts.FontFamily)
	opts.EmailClient = coerceString(m["email_client"], opts.EmailClient)
	opts.Title = coerceString(m["title"], opts.Title)
	opts.Locale = coerceString(m["locale"], opts.Locale)
	opts.InlineCSS = coerceBool(m["css_inline"], opts.InlineCSS)
	opts.Responsive = coerceBool(m["responsive"], opts.Responsive)

	// Zero or negative widths would produce a degenerate table scaffold.
	if opts.Width <= 0 {
		opts.Width = DefaultEmailWidth
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}

	return opts
}

func coerceString(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func coerceInt(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return fallback
}

func coerceBool(v any, fallback bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return fallback
}
