package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Core Block Renderers
// =============================================================================
//
// One renderer per supported built-in block type. Renderers are pure with
// respect to their inputs: the same node and options always produce the
// same fragment. Literal inner content originates from the block editor and
// is passed through; every attribute value is escaped.

// Renderer defaults for core blocks.
const (
	defaultHeadingLevel  = 2
	defaultSpacerHeight  = 32
	defaultButtonColor   = "#0073aa"
	defaultSeparatorRule = "#dddddd"
)

var outerTagPattern = regexp.MustCompile(`(?s)^\s*<([a-zA-Z][a-zA-Z0-9]*)[^>]*>(.*)</([a-zA-Z][a-zA-Z0-9]*)>\s*$`)

// unwrapOuterTag strips a single enclosing element from a literal content
// fragment so the renderer can re-wrap it with email-safe inline styling.
// Inner inline markup (bold, links) is preserved.
func unwrapOuterTag(content string) string {
	m := outerTagPattern.FindStringSubmatch(content)
	if m == nil {
		return strings.TrimSpace(content)
	}
	if !strings.EqualFold(m[1], m[3]) {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(m[2])
}

// clampHeadingLevel forces out-of-range levels into h1..h6. Malformed block
// data can carry any integer here and invalid heading tags get dropped
// outright by several email clients.
func clampHeadingLevel(level int) int {
	if level < 1 || level > 6 {
		return defaultHeadingLevel
	}
	return level
}

func renderParagraph(block domain.BlockNode, opts domain.EmailOptions) string {
	content := unwrapOuterTag(block.InnerHTML())
	if content == "" {
		return ""
	}

	align := block.AttrString("align", "left")
	color := block.AttrPath(opts.TextColor, "style", "color", "text")
	fontSize := block.AttrPath("16px", "style", "typography", "fontSize")

	return fmt.Sprintf(`<p style="%s">%s</p>`, styleAttr(
		"margin", "0 0 16px 0",
		"font-family", opts.FontFamily,
		"font-size", fontSize,
		"line-height", "1.6",
		"color", color,
		"text-align", align,
	), content)
}

func renderHeading(block domain.BlockNode, opts domain.EmailOptions) string {
	content := unwrapOuterTag(block.InnerHTML())
	if content == "" {
		return ""
	}

	level := clampHeadingLevel(block.AttrInt("level", defaultHeadingLevel))
	align := block.AttrString("textAlign", "left")
	color := block.AttrPath(opts.TextColor, "style", "color", "text")

	// Stepped sizes, h1 largest.
	size := 32 - (level-1)*4
	if size < 14 {
		size = 14
	}

	return fmt.Sprintf(`<h%d style="%s">%s</h%d>`, level, styleAttr(
		"margin", "0 0 16px 0",
		"font-family", opts.FontFamily,
		"font-size", fmt.Sprintf("%dpx", size),
		"line-height", "1.3",
		"font-weight", "bold",
		"color", color,
		"text-align", align,
	), content, level)
}

var imgSrcPattern = regexp.MustCompile(`<img[^>]+src="([^"]+)"`)

func renderImage(block domain.BlockNode) string {
	src := block.AttrString("url", "")
	if src == "" {
		// Fall back to the src of the literal <img> fragment.
		if m := imgSrcPattern.FindStringSubmatch(block.InnerHTML()); m != nil {
			src = m[1]
		}
	}
	src = safeURL(src)
	if src == "" {
		return ""
	}

	alt := block.AttrString("alt", "")
	width := block.AttrInt("width", 0)

	widthAttr := ""
	if width > 0 {
		widthAttr = fmt.Sprintf(` width="%d"`, width)
	}

	return fmt.Sprintf(
		`<div style="margin: 0 0 16px 0; text-align: center;">`+
			`<img src="%s" alt="%s"%s style="max-width: 100%%; height: auto; display: inline-block; border: 0;" />`+
			`</div>`,
		escapeAttr(src), escapeAttr(alt), widthAttr,
	)
}

// renderButtons renders the children of a buttons wrapper. Only nested
// button blocks are rendered; anything else inside is skipped.
func renderButtons(block domain.BlockNode, opts domain.EmailOptions) string {
	var sb strings.Builder
	for _, child := range block.InnerBlocks {
		if child.BlockName != coreNamespace+"button" {
			continue
		}
		sb.WriteString(renderButton(child, opts))
	}
	if sb.Len() == 0 {
		return ""
	}
	return fmt.Sprintf(`<div style="margin: 0 0 16px 0; text-align: center;">%s</div>`, sb.String())
}

func renderButton(block domain.BlockNode, opts domain.EmailOptions) string {
	url := safeURL(block.AttrString("url", "#"))
	if url == "" {
		url = "#"
	}

	text := unwrapOuterTag(unwrapOuterTag(block.InnerHTML()))
	if text == "" {
		text = escapeHTML(block.AttrString("text", "Click Here"))
	}

	background := block.AttrPath(defaultButtonColor, "style", "color", "background")
	color := block.AttrPath("#ffffff", "style", "color", "text")

	return fmt.Sprintf(`<a href="%s" style="%s">%s</a>`, escapeAttr(url), styleAttr(
		"display", "inline-block",
		"padding", "12px 24px",
		"margin", "4px",
		"background-color", background,
		"color", color,
		"font-family", opts.FontFamily,
		"font-size", "16px",
		"font-weight", "bold",
		"text-decoration", "none",
		"border-radius", "4px",
	), text)
}

// renderColumns lays out child columns as table cells with evenly
// distributed widths. The mobile-stack class pairs with the media query in
// the document shell to collapse cells to full width on narrow viewports.
func (g *Generator) renderColumns(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	count := len(block.InnerBlocks)
	if count == 0 {
		return ""
	}

	width := fmt.Sprintf("%.2f%%", 100.0/float64(count))

	var sb strings.Builder
	sb.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0" style="margin: 0 0 16px 0;"><tr>`)
	for _, column := range block.InnerBlocks {
		sb.WriteString(fmt.Sprintf(`<td class="mobile-stack" valign="top" style="width: %s; padding: 0 8px;">`, width))
		sb.WriteString(g.ConvertBlocks(ctx, column.InnerBlocks, opts))
		sb.WriteString(`</td>`)
	}
	sb.WriteString(`</tr></table>`)
	return sb.String()
}

func (g *Generator) renderGroup(ctx context.Context, block domain.BlockNode, opts domain.EmailOptions) string {
	inner := g.ConvertBlocks(ctx, block.InnerBlocks, opts)
	if inner == "" {
		return ""
	}

	background := block.AttrPath("", "style", "color", "background")
	return fmt.Sprintf(`<div style="%s">%s</div>`, styleAttr(
		"margin", "0 0 16px 0",
		"background-color", background,
	), inner)
}

func renderSpacer(block domain.BlockNode) string {
	height := block.AttrInt("height", defaultSpacerHeight)
	if height < 0 {
		height = defaultSpacerHeight
	}
	return fmt.Sprintf(`<div style="height: %dpx; line-height: %dpx; font-size: 1px;">&nbsp;</div>`, height, height)
}

func renderSeparator(block domain.BlockNode) string {
	color := block.AttrPath(defaultSeparatorRule, "style", "color", "background")
	return fmt.Sprintf(`<hr style="%s" />`, styleAttr(
		"border", "none",
		"border-top", "1px solid "+color,
		"margin", "24px 0",
	))
}
