package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// CampaignBridge Block Renderers
// =============================================================================
//
// The custom namespace carries email-specific dynamic content: the outer
// container and the post-reference family. Post references share one rule:
// a missing or unresolvable post never aborts generation, it renders a
// muted placeholder the editor can spot in the output.

// Post-card display modes.
const (
	displayTitleOnly         = "title_only"
	displayTitleExcerpt      = "title_excerpt"
	displayTitleExcerptImage = "title_excerpt_image"
	displayFullContent       = "full_content"
)

// Placeholder strings for unresolved post references.
const (
	placeholderNoPost        = "No post selected"
	placeholderPostNotFound  = "Post not found"
	placeholderNoImage       = "No featured image"
	defaultReadMoreLabel     = "Read More"
	defaultExcerptWordCount  = 30
	defaultContainerMaxWidth = 600
)

// renderPlaceholder emits the visible marker for a broken content reference,
// styled muted and italic so unresolved references stand out when the email
// is previewed.
func renderPlaceholder(message string, opts domain.EmailOptions) string {
	return fmt.Sprintf(`<p style="%s">%s</p>`, styleAttr(
		"margin", "0 0 16px 0",
		"font-family", opts.FontFamily,
		"font-size", "14px",
		"font-style", "italic",
		"color", "#999999",
	), escapeHTML(message))
}

// lookupPost resolves a post reference. The second return value reports the
// placeholder to render instead when the reference is missing or broken.
func (g *Generator) lookupPost(ctx context.Context, block domain.BlockNode) (*domain.PostSummary, string) {
	id := int64(block.AttrInt("postId", 0))
	if id <= 0 {
		return nil, placeholderNoPost
	}
	if g.posts == nil {
		return nil, placeholderPostNotFound
	}

	post, err := g.posts.GetPostSummary(ctx, id)
	if err != nil {
		var derr *domain.Error
		if !errors.As(err, &derr) || derr.Code != domain.ENOTFOUND {
			g.logger.Warn("post lookup failed", "post_id", id, "error", err)
		}
		return nil, placeholderPostNotFound
	}
	return post, ""
}

// =============================================================================
// Container
// =============================================================================

// renderContainer wraps its children in a centered table scaffold with
// configurable padding and max width. The container is the only block that
// can restyle the document background; that override happens while building
// the shell, not here (see resolveBackgroundColor).
func (g *Generator) renderContainer(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	inner := g.ConvertBlocks(ctx, block.InnerBlocks, opts)

	maxWidth := block.AttrInt("maxWidth", defaultContainerMaxWidth)
	if maxWidth <= 0 {
		maxWidth = defaultContainerMaxWidth
	}
	padTop := block.AttrInt("paddingTop", 0)
	padRight := block.AttrInt("paddingRight", 24)
	padBottom := block.AttrInt("paddingBottom", 0)
	padLeft := block.AttrInt("paddingLeft", 24)
	background := block.AttrPath("", "style", "color", "background")

	return fmt.Sprintf(
		`<table role="presentation" width="100%%" cellpadding="0" cellspacing="0" border="0"><tr><td align="center">`+
			`<table role="presentation" width="%d" cellpadding="0" cellspacing="0" border="0" style="%s"><tr>`+
			`<td style="padding: %dpx %dpx %dpx %dpx;">%s</td>`+
			`</tr></table>`+
			`</td></tr></table>`,
		maxWidth,
		styleAttr(
			"width", "100%",
			"max-width", fmt.Sprintf("%dpx", maxWidth),
			"background-color", background,
		),
		padTop, padRight, padBottom, padLeft,
		inner,
	)
}

// =============================================================================
// Post Card
// =============================================================================

func (g *Generator) renderPostCard(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	post, placeholder := g.lookupPost(ctx, block)
	if post == nil {
		return renderPlaceholder(placeholder, opts)
	}

	mode := block.AttrString("displayMode", displayTitleExcerpt)
	showReadMore := block.AttrBool("showReadMore", true)

	var sb strings.Builder
	sb.WriteString(`<div style="margin: 0 0 24px 0;">`)

	if mode == displayTitleExcerptImage {
		if img := g.postImageHTML(post, domain.ThumbnailSizeLarge); img != "" {
			sb.WriteString(img)
		}
	}

	sb.WriteString(g.postTitleHTML(post, defaultHeadingLevel, opts))

	switch mode {
	case displayTitleOnly:
		// Nothing beyond the title.
	case displayFullContent:
		sb.WriteString(fmt.Sprintf(`<div style="%s">%s</div>`, styleAttr(
			"font-family", opts.FontFamily,
			"font-size", "16px",
			"line-height", "1.6",
			"color", opts.TextColor,
		), post.Content))
	default:
		// title_excerpt and title_excerpt_image, plus any unknown mode.
		sb.WriteString(g.postExcerptHTML(post, defaultExcerptWordCount, opts))
	}

	if showReadMore && post.Permalink != "" {
		sb.WriteString(fmt.Sprintf(`<p style="margin: 8px 0 0 0;"><a href="%s" style="%s">%s &rarr;</a></p>`,
			escapeAttr(safeURL(post.Permalink)),
			styleAttr(
				"font-family", opts.FontFamily,
				"font-size", "14px",
				"font-weight", "bold",
				"color", defaultButtonColor,
				"text-decoration", "none",
			),
			defaultReadMoreLabel,
		))
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// =============================================================================
// Post Facets
// =============================================================================

func (g *Generator) renderPostTitle(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	post, placeholder := g.lookupPost(ctx, block)
	if post == nil {
		return renderPlaceholder(placeholder, opts)
	}
	level := clampHeadingLevel(block.AttrInt("level", defaultHeadingLevel))
	return g.postTitleHTML(post, level, opts)
}

func (g *Generator) renderPostExcerpt(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	post, placeholder := g.lookupPost(ctx, block)
	if post == nil {
		return renderPlaceholder(placeholder, opts)
	}
	words := block.AttrInt("wordCount", defaultExcerptWordCount)
	if words <= 0 {
		words = defaultExcerptWordCount
	}
	return g.postExcerptHTML(post, words, opts)
}

func (g *Generator) renderPostImage(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	post, placeholder := g.lookupPost(ctx, block)
	if post == nil {
		return renderPlaceholder(placeholder, opts)
	}

	size := domain.ThumbnailSize(block.AttrString("size", string(domain.ThumbnailSizeLarge)))
	if !size.IsValid() {
		size = domain.ThumbnailSizeLarge
	}

	img := g.postImageHTML(post, size)
	if img == "" {
		return renderPlaceholder(placeholderNoImage, opts)
	}
	return img
}

func (g *Generator) renderPostCTA(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	post, placeholder := g.lookupPost(ctx, block)
	if post == nil {
		return renderPlaceholder(placeholder, opts)
	}

	label := block.AttrString("text", defaultReadMoreLabel)
	background := block.AttrPath(defaultButtonColor, "style", "color", "background")
	color := block.AttrPath("#ffffff", "style", "color", "text")

	url := safeURL(post.Permalink)
	if url == "" {
		url = "#"
	}

	return fmt.Sprintf(`<div style="margin: 0 0 16px 0; text-align: center;"><a href="%s" style="%s">%s</a></div>`,
		escapeAttr(url),
		styleAttr(
			"display", "inline-block",
			"padding", "12px 24px",
			"background-color", background,
			"color", color,
			"font-family", opts.FontFamily,
			"font-size", "16px",
			"font-weight", "bold",
			"text-decoration", "none",
			"border-radius", "4px",
		),
		escapeHTML(label),
	)
}

// =============================================================================
// Shared Fragment Builders
// =============================================================================

func (g *Generator) postTitleHTML(post *domain.PostSummary, level int, opts domain.EmailOptions) string {
	size := 32 - (level-1)*4
	if size < 14 {
		size = 14
	}
	return fmt.Sprintf(`<h%d style="%s">%s</h%d>`, level, styleAttr(
		"margin", "0 0 8px 0",
		"font-family", opts.FontFamily,
		"font-size", fmt.Sprintf("%dpx", size),
		"line-height", "1.3",
		"color", opts.TextColor,
	), escapeHTML(post.Title), level)
}

func (g *Generator) postExcerptHTML(post *domain.PostSummary, words int, opts domain.EmailOptions) string {
	excerpt := trimWords(stripTags(post.ExcerptOrContent()), words)
	if excerpt == "" {
		return ""
	}
	return fmt.Sprintf(`<p style="%s">%s</p>`, styleAttr(
		"margin", "0 0 8px 0",
		"font-family", opts.FontFamily,
		"font-size", "15px",
		"line-height", "1.6",
		"color", opts.TextColor,
	), escapeHTML(excerpt))
}

func (g *Generator) postImageHTML(post *domain.PostSummary, size domain.ThumbnailSize) string {
	url := safeURL(post.ThumbnailURL(size))
	if url == "" {
		return ""
	}
	return fmt.Sprintf(
		`<div style="margin: 0 0 12px 0;"><img src="%s" alt="%s" width="100%%" style="max-width: 100%%; height: auto; display: block; border: 0;" /></div>`,
		escapeAttr(url), escapeAttr(post.Title),
	)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags removes markup from post content before excerpt trimming.
func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, " "))
}

// trimWords truncates text to at most n words, appending an ellipsis when
// anything was cut.
func trimWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ") + "…"
}
