package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer turns Markdown into HTML that is safe to emit unescaped.
type MarkdownRenderer struct {
	md      goldmark.Markdown
	policy  *bluemonday.Policy
	enhance bool
}

type MarkdownOption func(*MarkdownRenderer)

// WithImages switches to the full UGC policy, which keeps <img> tags, and adds
// lazy-loading attributes to them.
func WithImages() MarkdownOption {
	return func(r *MarkdownRenderer) {
		r.policy = bluemonday.UGCPolicy()
		r.enhance = true
	}
}

// commentPolicy allows inline formatting, lists, quotes, code and links.
func commentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("p", "br", "strong", "em", "del", "code", "pre", "blockquote", "ul", "ol", "li", "hr")
	return p
}

func NewMarkdownRenderer(opts ...MarkdownOption) *MarkdownRenderer {
	r := &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		policy: commentPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.policy.AddTargetBlankToFullyQualifiedLinks(true)
	r.policy.RequireNoReferrerOnLinks(true)
	return r
}

func (r *MarkdownRenderer) Render(source string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		// 转换失败时转义原文，避免输出未过滤的 HTML
		return template.HTML(template.HTMLEscapeString(source))
	}

	sanitized := r.policy.SanitizeBytes(buf.Bytes())
	if !r.enhance {
		return template.HTML(sanitized)
	}
	return EnhanceHTMLContent(string(sanitized))
}

var (
	articleRenderer = NewMarkdownRenderer(WithImages())
	commentRenderer = NewMarkdownRenderer()
)

// RenderMarkdown renders an article body; images are allowed.
func RenderMarkdown(source string) template.HTML {
	return articleRenderer.Render(source)
}

// RenderComment renders a reader's comment; images are stripped.
func RenderComment(source string) template.HTML {
	return commentRenderer.Render(source)
}
