// Package markdown turns response bodies into safe HTML.
//
// Only paragraphs, fenced code, code spans, emphasis, bare links and
// '>' quote lines are recognised. Anchors like >>12 or >>10-20 become links
// into the same thread.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/itchan-dev/nanabbs/internal/domain"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// anchorRegex matches escaped >>N, >>N-M, >>N- and >>-M.
var anchorRegex = regexp.MustCompile(`&gt;&gt;(\d*-?\d*)`)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(NewQuoteParser(), 800),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			renderer.WithNodeRenderers(util.Prioritized(NewQuoteHTMLRenderer(), 500)),
		),
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^anchor$`)).OnElements("a")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^quote$`)).OnElements("span")
	policy.RequireNoFollowOnLinks(false)
	policy.RequireNoFollowOnFullyQualifiedLinks(true)
	policy.AllowRelativeURLs(true)

	return &TextProcessor{md: md, policy: policy}
}

// Render converts the body of a response in threadId.
func (tp *TextProcessor) Render(threadId domain.ThreadId, content domain.Content) (string, error) {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render content: %w", err)
	}
	linked := processAnchors(threadId, strings.TrimSpace(buf.String()))
	return tp.policy.Sanitize(linked), nil
}

// processAnchors rewrites anchors outside of <code> elements.
func processAnchors(threadId domain.ThreadId, html string) string {
	var result strings.Builder
	result.Grow(len(html))

	pos := 0
	for pos < len(html) {
		codeStart := strings.Index(html[pos:], "<code")
		if codeStart == -1 {
			result.WriteString(replaceAnchors(threadId, html[pos:]))
			break
		}
		codeStart += pos
		result.WriteString(replaceAnchors(threadId, html[pos:codeStart]))

		codeEnd := strings.Index(html[codeStart:], "</code>")
		if codeEnd == -1 {
			result.WriteString(html[codeStart:])
			break
		}
		codeEnd += codeStart + len("</code>")
		result.WriteString(html[codeStart:codeEnd])
		pos = codeEnd
	}
	return result.String()
}

func replaceAnchors(threadId domain.ThreadId, text string) string {
	return anchorRegex.ReplaceAllStringFunc(text, func(match string) string {
		target := strings.TrimPrefix(match, "&gt;&gt;")
		if !validAnchor(target) {
			return match
		}
		return fmt.Sprintf(`<a href="/threads/%d/%s" class="anchor">&gt;&gt;%s</a>`, threadId, target, target)
	})
}

// validAnchor accepts N, N-M, N- and -M.
func validAnchor(target string) bool {
	if target == "" || target == "-" {
		return false
	}
	start, end, _ := strings.Cut(target, "-")
	return isDigits(start) || isDigits(end)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
