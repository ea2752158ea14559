// Package email implements the block-to-email-HTML generator.
//
// A parsed block tree is walked depth-first and rendered into table-based,
// inline-styled HTML that survives the inconsistent rendering engines of
// email clients. Rendering never fails on bad data: unknown block types,
// missing attributes, and unresolvable post references all degrade to empty
// fragments or visible placeholders so one broken block can never abort the
// rest of the document.
package email

import (
	"context"
	"log/slog"
	"strings"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/metrics"
)

// CustomNamespace is the block namespace owned by CampaignBridge.
const CustomNamespace = "campaignbridge/"

// coreNamespace prefixes the built-in editor block types.
const coreNamespace = "core/"

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// PostLookup resolves post references for post-card and related blocks.
//
// Implementations must be safe for concurrent reads; lookups within one
// generation call are independent and idempotent. A missing post is reported
// with a domain.ENOTFOUND error and rendered as a placeholder, never
// propagated.
type PostLookup interface {
	GetPostSummary(ctx context.Context, id int64) (*domain.PostSummary, error)
}

// =============================================================================
// Generator
// =============================================================================

// Generator converts block trees into email-safe HTML documents.
//
// A Generator holds no per-call state; every Generate invocation is
// independent and reentrant-safe.
type Generator struct {
	posts  PostLookup
	logger *slog.Logger
}

// NewGenerator creates a Generator. posts may be nil, in which case every
// post reference renders its not-found placeholder (useful for offline
// export of templates without a content source).
func NewGenerator(posts PostLookup, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		posts:  posts,
		logger: logger,
	}
}

// Generate renders a complete email document from the block tree.
//
// The returned string begins with <!DOCTYPE html> and ends with </html>,
// is self-contained, and is safe to hand to a delivery provider or a
// download/export action. An empty block tree yields a valid empty document.
func (g *Generator) Generate(ctx context.Context, blocks []domain.BlockNode, opts domain.EmailOptions) string {
	// The first top-level container block owns the document background.
	opts.BackgroundColor = resolveBackgroundColor(blocks, opts.BackgroundColor)

	var sb strings.Builder
	sb.WriteString(buildEmailHeader(opts))
	sb.WriteString(g.ConvertBlocks(ctx, blocks, opts))
	sb.WriteString(buildEmailFooter())

	html := sb.String()
	if opts.InlineCSS {
		html = stripStyleBlocks(html)
	}
	if opts.Responsive {
		html = ensureViewportMeta(html)
	}

	g.logger.Debug("email generated",
		"blocks", len(blocks),
		"size_bytes", len(html),
		"width", opts.Width,
	)

	return html
}

// =============================================================================
// Dispatcher
// =============================================================================

// ConvertBlocks renders an ordered block sequence, preserving order. An
// empty sequence yields an empty string.
func (g *Generator) ConvertBlocks(ctx context.Context, blocks []domain.BlockNode, opts domain.EmailOptions) string {
	var sb strings.Builder
	for _, block := range blocks {
		sb.WriteString(g.ConvertBlock(ctx, block, opts))
	}
	return sb.String()
}

// ConvertBlock renders a single block node to an HTML fragment.
//
// Dispatch is keyed on the block name prefix: CampaignBridge blocks route to
// the custom renderer family (unknown names contribute nothing), core blocks
// to the core family (unknown names fall through to the generic renderer
// with the original node), and everything else, including an empty name,
// renders generically.
func (g *Generator) ConvertBlock(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	name := block.BlockName

	var fragment string
	switch {
	case strings.HasPrefix(name, CustomNamespace):
		fragment = g.convertCustomBlock(ctx, block, opts)
	case strings.HasPrefix(name, coreNamespace):
		fragment = g.convertCoreBlock(ctx, block, opts)
	default:
		fragment = g.renderGenericBlock(ctx, block, opts)
	}

	metrics.EmailBlocksRenderedTotal.WithLabelValues(metricBlockType(name)).Inc()
	return fragment
}

func (g *Generator) convertCustomBlock(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	switch block.BlockName {
	case CustomNamespace + "container":
		return g.renderContainer(ctx, block, opts)
	case CustomNamespace + "post-card":
		return g.renderPostCard(ctx, block, opts)
	case CustomNamespace + "post-title":
		return g.renderPostTitle(ctx, block, opts)
	case CustomNamespace + "post-excerpt":
		return g.renderPostExcerpt(ctx, block, opts)
	case CustomNamespace + "post-image":
		return g.renderPostImage(ctx, block, opts)
	case CustomNamespace + "post-cta":
		return g.renderPostCTA(ctx, block, opts)
	}

	// Unrecognized blocks in our own namespace contribute nothing.
	return ""
}

func (g *Generator) convertCoreBlock(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	switch strings.TrimPrefix(block.BlockName, coreNamespace) {
	case "paragraph":
		return renderParagraph(block, opts)
	case "heading":
		return renderHeading(block, opts)
	case "image":
		return renderImage(block)
	case "button":
		return renderButton(block, opts)
	case "buttons":
		return renderButtons(block, opts)
	case "columns":
		return g.renderColumns(ctx, block, opts)
	case "group":
		return g.renderGroup(ctx, block, opts)
	case "spacer":
		return renderSpacer(block)
	case "separator":
		return renderSeparator(block)
	}

	// Unmatched core types keep their content via the generic renderer,
	// dispatched with the original, un-stripped node.
	return g.renderGenericBlock(ctx, block, opts)
}

// renderGenericBlock preserves the literal inner content of unrecognized
// blocks inside a neutral container. Blocks with no literal content but
// nested children render the children instead, so wrapper blocks from
// third-party editors don't swallow their subtrees.
func (g *Generator) renderGenericBlock(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	content := block.InnerHTML()
	if content == "" {
		if len(block.InnerBlocks) == 0 {
			return ""
		}
		return g.ConvertBlocks(ctx, block.InnerBlocks, opts)
	}

	var sb strings.Builder
	sb.WriteString(`<div style="`)
	sb.WriteString(styleAttr(
		"font-family", opts.FontFamily,
		"color", opts.TextColor,
		"line-height", "1.6",
		"margin", "0 0 16px 0",
	))
	sb.WriteString(`">`)
	sb.WriteString(content)
	sb.WriteString(`</div>`)
	return sb.String()
}

// metricBlockType reduces block names to a bounded label set.
func metricBlockType(name string) string {
	if name == "" {
		return "unknown"
	}
	if strings.HasPrefix(name, CustomNamespace) || strings.HasPrefix(name, coreNamespace) {
		return name
	}
	return "other"
}

// resolveBackgroundColor peeks at the first top-level node: if and only if
// it is a container block, its background color attribute overrides the
// configured document background.
func resolveBackgroundColor(blocks []domain.BlockNode, fallback string) string {
	if len(blocks) == 0 {
		return fallback
	}
	first := blocks[0]
	if first.BlockName != CustomNamespace+"container" {
		return fallback
	}
	if bg := first.AttrPath("", "style", "color", "background"); bg != "" {
		return bg
	}
	return fallback
}
