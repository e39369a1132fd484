package service

import (
	"net/url"
	"strings"

	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/jsontree"
	"meta_debug_web/internal/pkg/metrics"

	"github.com/PuerkitoBio/goquery"
)

const (
	labelOpenGraphImage = "og:image"
	labelTwitterImage   = "twitter:image"
	labelFavicon        = "favicon"
	labelAppleTouchIcon = "apple-touch-icon"
	labelImgTag         = "img tag"
	structuredDataLabel = "JSON-LD: "
)

// Favicon relations, matched as substrings of the normalized rel value.
var faviconRels = []string{"icon", "shortcut icon", "apple-touch-icon", "apple-touch-icon-precomposed"}

// JSON-LD keys (lowercased) whose values reference images.
var structuredImageKeys = map[string]bool{
	"image":        true,
	"logo":         true,
	"photo":        true,
	"thumbnail":    true,
	"thumbnailurl": true,
	"contenturl":   true,
}

type imageCollector struct {
	base *url.URL
	set  *imageSet
}

func newImageCollector(baseURL string) *imageCollector {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	return &imageCollector{base: base, set: newImageSet()}
}

// add resolves ref against the page URL and records it under label.
func (c *imageCollector) add(ref, label, source string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if !c.set.Add(c.resolve(ref), label) {
		return false
	}
	metrics.ImageCandidatesTotal.WithLabelValues(source).Inc()
	return true
}

func (c *imageCollector) resolve(ref string) string {
	if c.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// collectImages builds the de-duplicated image list for the chosen strategy.
func collectImages(doc *goquery.Document, blocks []models.StructuredDataBlock, baseURL string, strategy models.ImageStrategy, tagLimit int) []models.ImageCandidate {
	c := newImageCollector(baseURL)
	c.collectOpenGraphImages(doc)

	if strategy == models.ImageStrategyImgTags {
		c.collectImgTags(doc, tagLimit)
		return c.set.Items()
	}

	c.collectTwitterImage(doc)
	c.collectFavicons(doc)
	for _, block := range blocks {
		if block.Valid {
			c.walkStructuredData(block.Data, "")
		}
	}
	return c.set.Items()
}

func (c *imageCollector) collectOpenGraphImages(doc *goquery.Document) {
	doc.Find(`meta[property="og:image"]`).Each(func(_ int, s *goquery.Selection) {
		c.add(s.AttrOr("content", ""), labelOpenGraphImage, labelOpenGraphImage)
	})
}

// collectTwitterImage takes the first twitter:image meta element only.
func (c *imageCollector) collectTwitterImage(doc *goquery.Document) {
	s := doc.Find(`meta[name="twitter:image"]`).First()
	if s.Length() == 0 {
		return
	}
	c.add(s.AttrOr("content", ""), labelTwitterImage, labelTwitterImage)
}

// collectFavicons adds at most one candidate per matching link element.
// rel="mask-icon" and similar variants count as favicons.
func (c *imageCollector) collectFavicons(doc *goquery.Document) {
	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		rel := strings.Join(strings.Fields(strings.ToLower(s.AttrOr("rel", ""))), " ")
		if !isFaviconRel(rel) {
			return
		}

		label := labelFavicon
		if strings.Contains(rel, "apple") {
			label = labelAppleTouchIcon
		}
		c.add(href, label, label)
	})
}

func isFaviconRel(rel string) bool {
	for _, fav := range faviconRels {
		if strings.Contains(rel, fav) {
			return true
		}
	}
	return false
}

// collectImgTags adds <img src> elements, labeled by alt text, until the
// list holds limit candidates.
func (c *imageCollector) collectImgTags(doc *goquery.Document, limit int) {
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if c.set.Len() >= limit {
			return false
		}
		label := s.AttrOr("alt", "")
		if label == "" {
			label = labelImgTag
		}
		c.add(s.AttrOr("src", ""), label, "img")
		return c.set.Len() < limit
	})
}

// walkStructuredData searches a JSON-LD tree for image references. Objects
// update the type context with their @type; the type of the nearest
// enclosing object names the label.
func (c *imageCollector) walkStructuredData(v *jsontree.Value, schemaType string) {
	switch v.Kind {
	case jsontree.Object:
		currentType := schemaType
		if t, ok := v.Get("@type"); ok {
			currentType = t.Text()
		}

		for _, m := range v.Members {
			if !structuredImageKeys[strings.ToLower(m.Key)] {
				c.walkStructuredData(m.Value, currentType)
				continue
			}

			label := m.Key
			if currentType != "" {
				label = currentType + "." + m.Key
			}
			for _, ref := range imageRefs(m.Value) {
				c.add(ref, structuredDataLabel+label, "json-ld")
			}
		}
	case jsontree.Array:
		for _, item := range v.Items {
			c.walkStructuredData(item, schemaType)
		}
	}
}

// imageRefs reads the URLs held by an image-bearing value: a string, an
// ImageObject-like object, or an array of either.
func imageRefs(v *jsontree.Value) []string {
	switch v.Kind {
	case jsontree.String:
		return []string{v.Str}
	case jsontree.Object:
		if ref, ok := imageObjectURL(v); ok {
			return []string{ref}
		}
	case jsontree.Array:
		var refs []string
		for _, item := range v.Items {
			switch item.Kind {
			case jsontree.String:
				refs = append(refs, item.Str)
			case jsontree.Object:
				if ref, ok := imageObjectURL(item); ok {
					refs = append(refs, ref)
				}
			}
		}
		return refs
	}
	return nil
}

// imageObjectURL returns url, or contentUrl when url is missing or empty.
func imageObjectURL(v *jsontree.Value) (string, bool) {
	for _, key := range []string{"url", "contentUrl"} {
		if u, ok := v.Get(key); ok && u.Kind == jsontree.String && strings.TrimSpace(u.Str) != "" {
			return u.Str, true
		}
	}
	return "", false
}
