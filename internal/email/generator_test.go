package email

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testGenerator(posts PostLookup) *Generator {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGenerator(posts, logger)
}

// stubLookup serves a fixed post set; unknown ids report not found.
type stubLookup struct {
	posts map[int64]*domain.PostSummary
}

func (s *stubLookup) GetPostSummary(ctx context.Context, id int64) (*domain.PostSummary, error) {
	if p, ok := s.posts[id]; ok {
		return p, nil
	}
	return nil, domain.NotFound("post.get", "post", fmt.Sprint(id))
}

// =============================================================================
// Full Document Generation
// =============================================================================

func TestGenerate_EmptyTreeProducesValidDocument(t *testing.T) {
	g := testGenerator(nil)
	html := g.Generate(context.Background(), nil, domain.DefaultEmailOptions())

	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("document should start with DOCTYPE, got prefix: %.40q", html)
	}
	if !strings.HasSuffix(html, "</html>") {
		t.Errorf("document should end with </html>, got suffix: %.40q", html[len(html)-40:])
	}
	if !strings.Contains(html, `width="600"`) {
		t.Error("default document should use the 600px content width")
	}
	if !strings.Contains(html, "#ffffff") {
		t.Error("default document should use the #ffffff background")
	}
}

func TestGenerate_UnknownCustomBlockContributesNothing(t *testing.T) {
	g := testGenerator(nil)

	blocks := []domain.BlockNode{
		{BlockName: "core/paragraph", InnerContent: []string{"<p>before</p>"}},
		{BlockName: "campaignbridge/does-not-exist", InnerContent: []string{"<p>SHOULD NOT APPEAR</p>"}},
		{BlockName: "core/paragraph", InnerContent: []string{"<p>after</p>"}},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if strings.Contains(html, "SHOULD NOT APPEAR") {
		t.Error("unknown block in the custom namespace must render nothing")
	}
	if !strings.Contains(html, "before") || !strings.Contains(html, "after") {
		t.Error("siblings of an unknown block must still render")
	}
}

func TestGenerate_UnknownCoreBlockKeepsContent(t *testing.T) {
	g := testGenerator(nil)

	blocks := []domain.BlockNode{
		{BlockName: "core/pullquote", InnerContent: []string{"<blockquote>keep me</blockquote>"}},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, "keep me") {
		t.Error("unmatched core block must keep its literal content via the generic renderer")
	}
}

func TestGenerate_GenericRendererRecursesIntoChildren(t *testing.T) {
	g := testGenerator(nil)

	blocks := []domain.BlockNode{
		{
			BlockName: "thirdparty/wrapper",
			InnerBlocks: []domain.BlockNode{
				{BlockName: "core/paragraph", InnerContent: []string{"<p>nested child</p>"}},
			},
		},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, "nested child") {
		t.Error("wrapper block without literal content must render its children")
	}
}

func TestGenerate_ContainerBackgroundOverridesDocument(t *testing.T) {
	g := testGenerator(nil)

	blocks := []domain.BlockNode{
		{
			BlockName: "campaignbridge/container",
			Attrs: map[string]any{
				"style": map[string]any{
					"color": map[string]any{"background": "#112233"},
				},
			},
		},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, `<body style="margin: 0; padding: 0; background-color: #112233`) {
		t.Error("first top-level container background must restyle the document body")
	}
}

func TestGenerate_NonContainerFirstBlockKeepsConfiguredBackground(t *testing.T) {
	g := testGenerator(nil)

	blocks := []domain.BlockNode{
		{BlockName: "core/paragraph", InnerContent: []string{"<p>hi</p>"}},
		{
			BlockName: "campaignbridge/container",
			Attrs: map[string]any{
				"style": map[string]any{
					"color": map[string]any{"background": "#112233"},
				},
			},
		},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, `<body style="margin: 0; padding: 0; background-color: #ffffff`) {
		t.Error("only the first top-level block may override the document background")
	}
}

// =============================================================================
// Post Reference Degradation
// =============================================================================

func TestGenerate_PostCardWithoutPostIdRendersPlaceholder(t *testing.T) {
	g := testGenerator(&stubLookup{})

	blocks := []domain.BlockNode{
		{BlockName: "campaignbridge/post-card"},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, "No post selected") {
		t.Error("missing postId must render the no-post placeholder")
	}
}

func TestGenerate_MissingPostRendersPlaceholderAndSiblingsSurvive(t *testing.T) {
	g := testGenerator(&stubLookup{})

	blocks := []domain.BlockNode{
		{BlockName: "campaignbridge/post-card", Attrs: map[string]any{"postId": float64(42)}},
		{BlockName: "core/paragraph", InnerContent: []string{"<p>still here</p>"}},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, "Post not found") {
		t.Error("unresolvable post must render the not-found placeholder")
	}
	if !strings.Contains(html, "still here") {
		t.Error("a broken post reference must not abort sibling rendering")
	}
}

func TestGenerate_NilLookupDegradesToPlaceholder(t *testing.T) {
	g := testGenerator(nil)

	blocks := []domain.BlockNode{
		{BlockName: "campaignbridge/post-title", Attrs: map[string]any{"postId": float64(7)}},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, "Post not found") {
		t.Error("nil post lookup must degrade to the not-found placeholder")
	}
}

func TestGenerate_ResolvedPostCardRendersTitleAndExcerpt(t *testing.T) {
	g := testGenerator(&stubLookup{posts: map[int64]*domain.PostSummary{
		5: {
			ID:        5,
			Title:     "Launch Week Recap",
			Excerpt:   "We shipped a lot of things.",
			Permalink: "https://example.com/launch-week",
		},
	}})

	blocks := []domain.BlockNode{
		{BlockName: "campaignbridge/post-card", Attrs: map[string]any{"postId": float64(5)}},
	}

	html := g.Generate(context.Background(), blocks, domain.DefaultEmailOptions())

	if !strings.Contains(html, "Launch Week Recap") {
		t.Error("post card must render the post title")
	}
	if !strings.Contains(html, "We shipped a lot of things.") {
		t.Error("default display mode must render the excerpt")
	}
	if !strings.Contains(html, `href="https://example.com/launch-week"`) {
		t.Error("post card must link to the permalink")
	}
	if !strings.Contains(html, "Read More") {
		t.Error("post card must render the read-more link by default")
	}
}

// =============================================================================
// Post-Processing Interaction
// =============================================================================

func TestGenerate_InlineCSSStripsStyleBlocks(t *testing.T) {
	g := testGenerator(nil)

	opts := domain.DefaultEmailOptions()
	opts.InlineCSS = true
	html := g.Generate(context.Background(), nil, opts)

	if strings.Contains(html, "<style") {
		t.Error("css inlining must remove embedded style blocks")
	}
	// The viewport meta must survive even though head content was rewritten.
	if strings.Count(html, `name="viewport"`) != 1 {
		t.Errorf("document must carry exactly one viewport meta, got %d", strings.Count(html, `name="viewport"`))
	}
}

func TestGenerate_WithoutInlineCSSKeepsMediaQuery(t *testing.T) {
	g := testGenerator(nil)

	opts := domain.DefaultEmailOptions()
	opts.InlineCSS = false
	html := g.Generate(context.Background(), nil, opts)

	if !strings.Contains(html, "@media (max-width: 600px)") {
		t.Error("disabling css inlining must keep the responsive media query")
	}
	if !strings.Contains(html, ".mobile-stack") {
		t.Error("media query must retain the mobile stacking rule")
	}
}

// =============================================================================
// Metric Label Bounding
// =============================================================================

func TestMetricBlockType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "unknown"},
		{"core/paragraph", "core/paragraph"},
		{"campaignbridge/post-card", "campaignbridge/post-card"},
		{"someplugin/fancy-block", "other"},
	}
	for _, tt := range tests {
		if got := metricBlockType(tt.name); got != tt.want {
			t.Errorf("metricBlockType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
