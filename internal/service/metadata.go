package service

import (
	"strings"

	"meta_debug_web/internal/domain/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	openGraphPrefix  = "og:"
	textPreviewLimit = 2000
)

type pageMetadata struct {
	Title         string
	OpenGraphTags []models.MetaTagEntry
	MetaTags      []models.MetaTagEntry
	TextPreview   string
}

func extractMetadata(doc *goquery.Document, baseURL string) pageMetadata {
	return pageMetadata{
		Title:         extractTitle(doc, baseURL),
		OpenGraphTags: extractOpenGraphTags(doc),
		MetaTags:      extractMetaTags(doc),
		TextPreview:   extractTextPreview(doc),
	}
}

// extractTitle prefers <title>, then the first og:title, then baseURL.
func extractTitle(doc *goquery.Document, baseURL string) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if ogTitle := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).First().AttrOr("content", "")); ogTitle != "" {
		return ogTitle
	}
	return baseURL
}

func extractOpenGraphTags(doc *goquery.Document) []models.MetaTagEntry {
	tags := []models.MetaTagEntry{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop := s.AttrOr("property", "")
		content := s.AttrOr("content", "")
		if strings.HasPrefix(prop, openGraphPrefix) && content != "" {
			tags = append(tags, models.MetaTagEntry{Name: prop, Content: content})
		}
	})
	return tags
}

// extractMetaTags keys each meta element by name, falling back to
// property, and leaves Open Graph entries to extractOpenGraphTags.
func extractMetaTags(doc *goquery.Document) []models.MetaTagEntry {
	tags := []models.MetaTagEntry{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		if name == "" {
			name = s.AttrOr("property", "")
		}
		content := s.AttrOr("content", "")
		if name == "" || content == "" || strings.HasPrefix(name, openGraphPrefix) {
			return
		}
		tags = append(tags, models.MetaTagEntry{Name: name, Content: content})
	})
	return tags
}

// extractTextPreview joins the visible text nodes with single spaces and
// keeps the first textPreviewLimit characters.
func extractTextPreview(doc *goquery.Document) string {
	var parts []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && invisibleElement(n.Data) {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	for _, n := range doc.Nodes {
		traverse(n)
	}

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return truncateRunes(text, textPreviewLimit)
}

func invisibleElement(tag string) bool {
	switch tag {
	case "script", "style", "template", "noscript":
		return true
	}
	return false
}
