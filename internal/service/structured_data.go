package service

import (
	"strings"

	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/jsontree"

	"github.com/PuerkitoBio/goquery"
)

const (
	jsonLDMediaType = "application/ld+json"
	rawExcerptLimit = 1000
)

// extractStructuredData returns one block per non-empty JSON-LD script, in
// document order. A block that fails to parse is recorded as invalid and
// does not affect the others.
func extractStructuredData(doc *goquery.Document) []models.StructuredDataBlock {
	blocks := []models.StructuredDataBlock{}
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if !isJSONLD(s.AttrOr("type", "")) {
			return
		}

		text := s.Text()
		if strings.TrimSpace(text) == "" {
			return
		}

		value, err := jsontree.Parse(text)
		if err != nil {
			blocks = append(blocks, models.StructuredDataBlock{
				Error: err.Error(),
				Raw:   truncateRunes(text, rawExcerptLimit),
			})
			return
		}
		blocks = append(blocks, models.StructuredDataBlock{Valid: true, Data: value})
	})
	return blocks
}

// isJSONLD matches the script type case-insensitively, ignoring parameters.
func isJSONLD(scriptType string) bool {
	mediaType, _, _ := strings.Cut(scriptType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), jsonLDMediaType)
}
