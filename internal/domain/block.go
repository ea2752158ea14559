// Package domain contains core business types for CampaignBridge.
//
// This file defines the block tree consumed by the email generator: the
// parsed form of a serialized rich-content document, one node per block.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// Block Node
// =============================================================================

// BlockNode is one node of a parsed content tree.
//
// BlockName is a namespaced identifier such as "core/paragraph" or
// "campaignbridge/post-card" and is the sole dispatch key for rendering.
// Attrs carries arbitrary JSON-like attribute data; renderers must tolerate
// missing keys. InnerContent holds literal HTML/text fragments, InnerBlocks
// the ordered child nodes.
type BlockNode struct {
	BlockName    string         `json:"blockName"`
	Attrs        map[string]any `json:"attrs"`
	InnerContent []string       `json:"innerContent"`
	InnerBlocks  []BlockNode    `json:"innerBlocks"`
}

// ParseBlocks decodes a serialized block tree (a JSON array of block nodes).
func ParseBlocks(data []byte) ([]BlockNode, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var blocks []BlockNode
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parse blocks: %w", err)
	}

	return blocks, nil
}

// =============================================================================
// Attribute Accessors
// =============================================================================
//
// Block attributes arrive as untyped JSON. Every accessor returns the
// fallback for a missing key or a value of the wrong shape, so renderers
// never have to validate attribute maps themselves.

// AttrString returns the string attribute at key, or fallback.
func (b BlockNode) AttrString(key, fallback string) string {
	if v, ok := b.Attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// AttrInt returns the integer attribute at key, or fallback.
//
// JSON numbers decode as float64; numeric strings are accepted too because
// block editors are not consistent about how they serialize widths and levels.
func (b BlockNode) AttrInt(key string, fallback int) int {
	v, ok := b.Attrs[key]
	if !ok {
		return fallback
	}

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

// AttrBool returns the boolean attribute at key, or fallback.
func (b BlockNode) AttrBool(key string, fallback bool) bool {
	if v, ok := b.Attrs[key]; ok {
		if t, ok := v.(bool); ok {
			return t
		}
	}
	return fallback
}

// AttrMap returns the nested object attribute at key, or nil.
func (b BlockNode) AttrMap(key string) map[string]any {
	if v, ok := b.Attrs[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// AttrPath walks a nested object path (e.g. "style", "color", "background")
// and returns the string leaf, or fallback if any step is missing or not an
// object.
func (b BlockNode) AttrPath(fallback string, path ...string) string {
	if len(path) == 0 {
		return fallback
	}

	var cur any = b.Attrs
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return fallback
		}
		cur, ok = m[key]
		if !ok {
			return fallback
		}
	}

	if s, ok := cur.(string); ok {
		return s
	}
	return fallback
}

// InnerHTML joins the literal inner content fragments of a leaf block.
func (b BlockNode) InnerHTML() string {
	var sb strings.Builder
	for _, fragment := range b.InnerContent {
		sb.WriteString(fragment)
	}
	return strings.TrimSpace(sb.String())
}
