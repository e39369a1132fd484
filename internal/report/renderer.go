// Package report renders analysis results as a single HTML page that also
// carries the URL input form.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/errors"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

const emptyImages = "No meta images found (og:image, favicon, JSON-LD images)."

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/report.html.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse report template`)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type blockView struct {
	Index      int
	Valid      bool
	SchemaType string
	JSON       string
	Error      string
	Raw        string
}

type imageView struct {
	// Src is a template.URL for trusted schemes, otherwise the raw string
	// so html/template filters it.
	Src   any
	URL   string
	Label string
}

type pageView struct {
	URL          string
	Error        string
	Result       *models.AnalysisResult
	Images       []imageView
	Blocks       []blockView
	BlockSummary string
	EmptyImages  string
}

// Form writes the page with the input form only.
func (r *Renderer) Form(w io.Writer) error {
	return r.execute(w, pageView{})
}

// Error writes the form for url followed by an error card.
func (r *Renderer) Error(w io.Writer, url string, message string) error {
	return r.execute(w, pageView{URL: url, Error: message})
}

// Report writes the full report for result.
func (r *Renderer) Report(w io.Writer, url string, result *models.AnalysisResult) error {
	blocks, err := blockViews(result.StructuredDataBlocks)
	if err != nil {
		return err
	}

	return r.execute(w, pageView{
		URL:          url,
		Result:       result,
		Images:       imageViews(result.Images),
		Blocks:       blocks,
		BlockSummary: blockSummary(result),
		EmptyImages:  emptyImages,
	})
}

func (r *Renderer) execute(w io.Writer, view pageView) error {
	if err := r.tmpl.Execute(w, view); err != nil {
		return errors.Wrap(err, `failed to render report`)
	}
	return nil
}

// Diagnostic writes the plain-text output used when extraction fails after
// a successful fetch.
func Diagnostic(w io.Writer, err error) error {
	trace := ""
	var extractionErr *errors.ExtractionError
	if errors.As(err, &extractionErr) {
		trace = extractionErr.Trace
	}
	_, werr := fmt.Fprintf(w, "Error during HTML analysis:\n%v\n\n%s", err, trace)
	return werr
}

func blockViews(blocks []models.StructuredDataBlock) ([]blockView, error) {
	views := make([]blockView, 0, len(blocks))
	for i, block := range blocks {
		view := blockView{Index: i + 1, Valid: block.Valid}
		if block.Valid {
			formatted, err := block.Data.Indent("  ")
			if err != nil {
				return nil, errors.Wrap(err, `failed to format JSON-LD block`)
			}
			view.SchemaType = block.SchemaType()
			view.JSON = formatted
		} else {
			view.Error = block.Error
			view.Raw = block.Raw
		}
		views = append(views, view)
	}
	return views, nil
}

func imageViews(images []models.ImageCandidate) []imageView {
	views := make([]imageView, 0, len(images))
	for _, img := range images {
		view := imageView{Src: img.URL, URL: img.URL, Label: img.Label}
		if displayableImage(img.URL) {
			view.Src = template.URL(img.URL)
		}
		views = append(views, view)
	}
	return views
}

// displayableImage accepts http(s) URLs and inline data:image/* payloads.
func displayableImage(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	case "data":
		return strings.HasPrefix(strings.ToLower(u.Opaque), "image/")
	}
	return false
}

func blockSummary(result *models.AnalysisResult) string {
	summary := fmt.Sprintf("%d block(s)", len(result.StructuredDataBlocks))
	if invalid := result.InvalidBlockCount(); invalid > 0 {
		summary += fmt.Sprintf(" (%d invalid)", invalid)
	}
	return summary
}
