package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailOptionsFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want EmailOptions
	}{
		{
			name: "nil map yields defaults",
			in:   nil,
			want: DefaultEmailOptions(),
		},
		{
			name: "empty map yields defaults",
			in:   map[string]any{},
			want: DefaultEmailOptions(),
		},
		{
			name: "recognized keys override",
			in: map[string]any{
				"email_width":      float64(640),
				"max_width":        float64(700),
				"background_color": "#000000",
				"text_color":       "#eeeeee",
				"font_family":      "Georgia, serif",
				"title":            "Weekly Digest",
				"locale":           "de",
				"css_inline":       false,
				"responsive":       false,
			},
			want: EmailOptions{
				Width:           640,
				MaxWidth:        700,
				BackgroundColor: "#000000",
				TextColor:       "#eeeeee",
				FontFamily:      "Georgia, serif",
				Title:           "Weekly Digest",
				Locale:          "de",
				InlineCSS:       false,
				Responsive:      false,
			},
		},
		{
			name: "numeric strings coerced",
			in: map[string]any{
				"email_width": "640",
				"css_inline":  "false",
			},
			want: func() EmailOptions {
				o := DefaultEmailOptions()
				o.Width = 640
				o.InlineCSS = false
				return o
			}(),
		},
		{
			name: "malformed values fall back per key",
			in: map[string]any{
				"email_width":      "not a number",
				"background_color": 42,
				"css_inline":       "maybe",
			},
			want: DefaultEmailOptions(),
		},
		{
			name: "unknown keys ignored",
			in: map[string]any{
				"email_width": float64(500),
				"frobnicate":  true,
			},
			want: func() EmailOptions {
				o := DefaultEmailOptions()
				o.Width = 500
				return o
			}(),
		},
		{
			name: "non-positive widths reset",
			in: map[string]any{
				"email_width": float64(0),
				"max_width":   float64(-100),
			},
			want: DefaultEmailOptions(),
		},
		{
			name: "blank strings fall back",
			in: map[string]any{
				"background_color": "   ",
				"title":            "",
			},
			want: DefaultEmailOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailOptionsFromMap(tt.in))
		})
	}
}

func TestResolveEmailOptions_BaseWins(t *testing.T) {
	base := DefaultEmailOptions()
	base.Width = 640
	base.Title = "Acme Newsletter"

	got := ResolveEmailOptions(base, nil)
	assert.Equal(t, 640, got.Width)
	assert.Equal(t, "Acme Newsletter", got.Title)

	got = ResolveEmailOptions(base, map[string]any{"email_width": float64(500)})
	assert.Equal(t, 500, got.Width, "request options override the base")
	assert.Equal(t, "Acme Newsletter", got.Title, "unset keys keep the base value")
}

func TestResolveEmailOptions_ZeroBaseWidths(t *testing.T) {
	got := ResolveEmailOptions(EmailOptions{}, nil)
	assert.Equal(t, DefaultEmailWidth, got.Width)
	assert.Equal(t, DefaultMaxWidth, got.MaxWidth)
}
