package utils

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

func init() {
	// 帖子描述里的链接一律新窗口打开
	ugcPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	ugcPolicy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown renders a post description to sanitised HTML.
func RenderMarkdown(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return strictPolicy.Sanitize(source)
	}
	return ugcPolicy.Sanitize(buf.String())
}

// StripHTML removes every tag from user supplied plain text. Entities are
// decoded so "A & B" stays as typed; decoding and sanitising repeat until
// the text is stable, so entity-encoded markup cannot come back as tags.
func StripHTML(s string) string {
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// 多层编码仍未收敛时保留转义后的文本
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

const maxStripPasses = 8
