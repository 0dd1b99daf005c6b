// ABOUTME: This file converts raw feed-entry HTML into the plain-text snippet stored with an article
// ABOUTME: Uses go-readability for main-content extraction with goquery/bluemonday fallbacks
package html_parser

import (
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// readabilityMinLength guards against readability extracting only a title or
// metadata; shorter results fall through to simple paragraph extraction.
const readabilityMinLength = 200

// ExtractText converts raw article HTML into normalized plain text.
func ExtractText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Short-circuit if the payload is already plain text.
	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	// Drop non-content elements before readability sees the document.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed)); err == nil {
		doc.Find("head, script, style, noscript, title, aside, nav, header, footer").Remove()
		doc.Find("iframe, embed, object, video, audio, canvas").Remove()
		doc.Find("[class*='social'], [class*='share'], [class*='comment'], [id*='comment']").Remove()

		if cleaned, err := doc.Html(); err == nil && cleaned != "" {
			trimmed = cleaned
		}
	}

	if article, err := readability.FromReader(strings.NewReader(trimmed), nil); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			text := strings.TrimSpace(buf.String())
			if len(text) >= readabilityMinLength {
				return normalizeWhitespace(text)
			}
		}
	}

	return extractParagraphs(trimmed)
}

// Snippet builds the short content snippet persisted with an article: the
// extracted text truncated to maxRunes at a word boundary.
func Snippet(raw string, maxRunes int) string {
	text := ExtractText(raw)
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ,;:.") + "…"
}

// extractParagraphs pulls text from headers, paragraphs and list items,
// falling back to bare tag stripping when the document has no structure.
func extractParagraphs(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return normalizeWhitespace(StripTags(raw))
	}

	var parts []string

	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return normalizeWhitespace(StripTags(raw))
	}

	return normalizeWhitespace(strings.Join(parts, " "))
}

// StripTags removes HTML tags from a string and returns plain text.
func StripTags(raw string) string {
	p := bluemonday.StrictPolicy()
	return p.Sanitize(raw)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
