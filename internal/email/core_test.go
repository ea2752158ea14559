package email

import (
	"context"
	"strings"
	"testing"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Core Block Renderer Tests
// =============================================================================

func TestClampHeadingLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 1},
		{3, 3},
		{6, 6},
		{0, 2},
		{7, 2},
		{-2, 2},
		{100, 2},
	}
	for _, tt := range tests {
		if got := clampHeadingLevel(tt.level); got != tt.want {
			t.Errorf("clampHeadingLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestRenderHeading_OutOfRangeLevelFallsBack(t *testing.T) {
	block := domain.BlockNode{
		BlockName:    "core/heading",
		Attrs:        map[string]any{"level": float64(9)},
		InnerContent: []string{"<h9>Title</h9>"},
	}

	html := renderHeading(block, domain.DefaultEmailOptions())

	if !strings.HasPrefix(html, "<h2 ") || !strings.HasSuffix(html, "</h2>") {
		t.Errorf("level 9 should clamp to h2, got: %s", html)
	}
}

func TestRenderParagraph(t *testing.T) {
	opts := domain.DefaultEmailOptions()

	t.Run("unwraps outer tag and re-styles", func(t *testing.T) {
		block := domain.BlockNode{
			BlockName:    "core/paragraph",
			InnerContent: []string{"<p>Hello <strong>world</strong></p>"},
		}
		html := renderParagraph(block, opts)

		if !strings.Contains(html, "Hello <strong>world</strong>") {
			t.Errorf("inline markup must be preserved, got: %s", html)
		}
		if strings.Count(html, "<p") != 1 {
			t.Errorf("original wrapper must be replaced, not nested, got: %s", html)
		}
	})

	t.Run("empty content renders nothing", func(t *testing.T) {
		block := domain.BlockNode{BlockName: "core/paragraph"}
		if html := renderParagraph(block, opts); html != "" {
			t.Errorf("empty paragraph should render nothing, got: %s", html)
		}
	})

	t.Run("alignment and text color from attrs", func(t *testing.T) {
		block := domain.BlockNode{
			BlockName: "core/paragraph",
			Attrs: map[string]any{
				"align": "center",
				"style": map[string]any{"color": map[string]any{"text": "#ff0000"}},
			},
			InnerContent: []string{"<p>centered</p>"},
		}
		html := renderParagraph(block, opts)

		if !strings.Contains(html, "text-align: center") {
			t.Errorf("align attr must be honored, got: %s", html)
		}
		if !strings.Contains(html, "color: #ff0000") {
			t.Errorf("style color must be honored, got: %s", html)
		}
	})
}

func TestRenderColumns_EvenWidthDistribution(t *testing.T) {
	g := testGenerator(nil)

	column := func(text string) domain.BlockNode {
		return domain.BlockNode{
			BlockName: "core/column",
			InnerBlocks: []domain.BlockNode{
				{BlockName: "core/paragraph", InnerContent: []string{"<p>" + text + "</p>"}},
			},
		}
	}

	block := domain.BlockNode{
		BlockName:   "core/columns",
		InnerBlocks: []domain.BlockNode{column("one"), column("two"), column("three")},
	}

	html := g.renderColumns(context.Background(), block, domain.DefaultEmailOptions())

	if got := strings.Count(html, "width: 33.33%"); got != 3 {
		t.Errorf("three columns must each get 33.33%% width, got %d cells: %s", got, html)
	}
	if got := strings.Count(html, `class="mobile-stack"`); got != 3 {
		t.Errorf("every column cell must carry the mobile-stack class, got %d", got)
	}
	for _, text := range []string{"one", "two", "three"} {
		if !strings.Contains(html, text) {
			t.Errorf("column content %q missing from output", text)
		}
	}
}

func TestRenderColumns_TwoColumns(t *testing.T) {
	g := testGenerator(nil)

	block := domain.BlockNode{
		BlockName: "core/columns",
		InnerBlocks: []domain.BlockNode{
			{BlockName: "core/column"},
			{BlockName: "core/column"},
		},
	}

	html := g.renderColumns(context.Background(), block, domain.DefaultEmailOptions())

	if got := strings.Count(html, "width: 50.00%"); got != 2 {
		t.Errorf("two columns must each get 50%% width, got %d cells", got)
	}
}

func TestRenderButtons_SkipsNonButtonChildren(t *testing.T) {
	block := domain.BlockNode{
		BlockName: "core/buttons",
		InnerBlocks: []domain.BlockNode{
			{BlockName: "core/button", Attrs: map[string]any{"url": "https://example.com"}, InnerContent: []string{`<div><a>Go</a></div>`}},
			{BlockName: "core/paragraph", InnerContent: []string{"<p>stray</p>"}},
		},
	}

	html := renderButtons(block, domain.DefaultEmailOptions())

	if !strings.Contains(html, ">Go") {
		t.Errorf("nested button must render, got: %s", html)
	}
	if strings.Contains(html, "stray") {
		t.Errorf("non-button children must be skipped, got: %s", html)
	}
}

func TestRenderButton_Defaults(t *testing.T) {
	block := domain.BlockNode{BlockName: "core/button"}

	html := renderButton(block, domain.DefaultEmailOptions())

	if !strings.Contains(html, `href="#"`) {
		t.Errorf("missing url must default to #, got: %s", html)
	}
	if !strings.Contains(html, "Click Here") {
		t.Errorf("missing text must use the default label, got: %s", html)
	}
	if !strings.Contains(html, "background-color: #0073aa") {
		t.Errorf("missing style must use the default button color, got: %s", html)
	}
}

func TestRenderImage(t *testing.T) {
	t.Run("src from attrs", func(t *testing.T) {
		block := domain.BlockNode{
			BlockName: "core/image",
			Attrs:     map[string]any{"url": "https://example.com/a.jpg", "alt": "A photo", "width": float64(480)},
		}
		html := renderImage(block)

		if !strings.Contains(html, `src="https://example.com/a.jpg"`) {
			t.Errorf("src attr missing: %s", html)
		}
		if !strings.Contains(html, `alt="A photo"`) {
			t.Errorf("alt attr missing: %s", html)
		}
		if !strings.Contains(html, `width="480"`) {
			t.Errorf("width attr missing: %s", html)
		}
	})

	t.Run("src recovered from literal content", func(t *testing.T) {
		block := domain.BlockNode{
			BlockName:    "core/image",
			InnerContent: []string{`<figure><img src="https://example.com/b.png" /></figure>`},
		}
		html := renderImage(block)

		if !strings.Contains(html, `src="https://example.com/b.png"`) {
			t.Errorf("src must fall back to the literal img fragment: %s", html)
		}
	})

	t.Run("no src renders nothing", func(t *testing.T) {
		block := domain.BlockNode{BlockName: "core/image"}
		if html := renderImage(block); html != "" {
			t.Errorf("image without a source should render nothing, got: %s", html)
		}
	})
}

func TestRenderSpacer(t *testing.T) {
	tests := []struct {
		name   string
		attrs  map[string]any
		expect string
	}{
		{"explicit height", map[string]any{"height": float64(64)}, "height: 64px"},
		{"default height", nil, "height: 32px"},
		{"negative height falls back", map[string]any{"height": float64(-10)}, "height: 32px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := domain.BlockNode{BlockName: "core/spacer", Attrs: tt.attrs}
			if html := renderSpacer(block); !strings.Contains(html, tt.expect) {
				t.Errorf("want %q in output, got: %s", tt.expect, html)
			}
		})
	}
}

func TestRenderSeparator(t *testing.T) {
	block := domain.BlockNode{BlockName: "core/separator"}
	html := renderSeparator(block)

	if !strings.Contains(html, "border-top: 1px solid #dddddd") {
		t.Errorf("separator should use the default rule color, got: %s", html)
	}
}

// =============================================================================
// Injection Safety
// =============================================================================

func TestRenderButton_EscapesTextAttribute(t *testing.T) {
	block := domain.BlockNode{
		BlockName: "core/button",
		Attrs:     map[string]any{"text": `<img src=x onerror=alert(1)>`},
	}

	html := renderButton(block, domain.DefaultEmailOptions())

	if strings.Contains(html, "<img") {
		t.Errorf("markup in the text attribute must not survive into the output: %s", html)
	}
	if !strings.Contains(html, "&lt;img src=x onerror=alert(1)&gt;") {
		t.Errorf("text attribute must render escaped, got: %s", html)
	}
}

func TestRenderButton_ScriptURLRejected(t *testing.T) {
	block := domain.BlockNode{
		BlockName: "core/button",
		Attrs:     map[string]any{"url": "javascript:alert(1)"},
	}

	html := renderButton(block, domain.DefaultEmailOptions())

	if strings.Contains(html, "javascript:") {
		t.Errorf("script URL must not survive into the output: %s", html)
	}
	if !strings.Contains(html, `href="#"`) {
		t.Errorf("rejected URL must fall back to #, got: %s", html)
	}
}

func TestStyleAttr_StripsUnsafeCharacters(t *testing.T) {
	got := styleAttr("color", `#fff"; background: url(javascript:x)`, "margin", "0")

	if strings.Contains(got, `"`) || strings.Contains(got, ";  ") {
		t.Errorf("quotes and declarations must not escape the value, got: %q", got)
	}
	if !strings.Contains(got, "margin: 0") {
		t.Errorf("later pairs must still be emitted, got: %q", got)
	}
}

func TestUnwrapOuterTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple paragraph", "<p>text</p>", "text"},
		{"with attributes", `<p class="x">text</p>`, "text"},
		{"mismatched tags untouched", "<p>text</div>", "<p>text</div>"},
		{"plain text untouched", "just text", "just text"},
		{"inline markup preserved", "<p>a <em>b</em> c</p>", "a <em>b</em> c"},
		{"whitespace trimmed", "  <p> padded </p>  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapOuterTag(tt.input); got != tt.want {
				t.Errorf("unwrapOuterTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
