package models

import (
	"encoding/json"

	"meta_debug_web/internal/pkg/jsontree"
)

// FetchResult is the outcome of one successful page retrieval.
type FetchResult struct {
	RequestedURL string
	FinalURL     string
	StatusCode   int
	ContentType  string
	BodyText     string
}

// MetaTagEntry is one (name, content) pair taken from a meta element.
type MetaTagEntry struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ImageCandidate is an absolute image URL and the label of the source it
// was discovered in (og:image, favicon, JSON-LD: Product.image, ...).
type ImageCandidate struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// StructuredDataBlock is one JSON-LD script element. Exactly one of Data or
// Error is set.
type StructuredDataBlock struct {
	Valid bool
	Data  *jsontree.Value
	Error string
	Raw   string
}

// SchemaType renders the top-level @type of a valid block, "Unknown" when
// there is none.
func (b StructuredDataBlock) SchemaType() string {
	if !b.Valid {
		return ""
	}
	t, ok := b.Data.Get("@type")
	if !ok || t.Text() == "" {
		return "Unknown"
	}
	return t.Text()
}

func (b StructuredDataBlock) MarshalJSON() ([]byte, error) {
	if b.Valid {
		return json.Marshal(struct {
			Valid bool            `json:"valid"`
			Data  *jsontree.Value `json:"data"`
		}{Valid: true, Data: b.Data})
	}
	return json.Marshal(struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
		Raw   string `json:"raw"`
	}{Valid: false, Error: b.Error, Raw: b.Raw})
}

// AnalysisResult is everything extracted from one fetched page.
type AnalysisResult struct {
	RequestedURL         string                `json:"requested_url"`
	FinalURL             string                `json:"final_url"`
	StatusCode           int                   `json:"status_code"`
	Title                string                `json:"title"`
	OpenGraphTags        []MetaTagEntry        `json:"open_graph_tags"`
	MetaTags             []MetaTagEntry        `json:"meta_tags"`
	Images               []ImageCandidate      `json:"images"`
	TextPreview          string                `json:"text_preview"`
	StructuredDataBlocks []StructuredDataBlock `json:"structured_data_blocks"`
}

// InvalidBlockCount returns the number of structured-data blocks that
// failed to parse.
func (r *AnalysisResult) InvalidBlockCount() int {
	n := 0
	for _, b := range r.StructuredDataBlocks {
		if !b.Valid {
			n++
		}
	}
	return n
}

// ImageStrategy selects which sources feed the image candidate list.
type ImageStrategy string

const (
	// ImageStrategyStructured collects og:image, twitter:image, favicons
	// and images referenced from JSON-LD.
	ImageStrategyStructured ImageStrategy = "structured"
	// ImageStrategyImgTags collects og:image followed by <img src> elements.
	ImageStrategyImgTags ImageStrategy = "img-tags"
)

func (s ImageStrategy) IsValid() bool {
	return s == ImageStrategyStructured || s == ImageStrategyImgTags
}
