package service

import (
	"context"

	"meta_debug_web/internal/domain/adaptors"
	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/errors"
	"meta_debug_web/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

const defaultImageTagLimit = 30

type Analyzer struct {
	log           *log.Logger
	webClient     adaptors.WebClient
	imageStrategy models.ImageStrategy
	imageTagLimit int
}

type Option func(*Analyzer)

// WithImageStrategy selects the image sources. limit only applies to
// models.ImageStrategyImgTags.
func WithImageStrategy(strategy models.ImageStrategy, limit int) Option {
	return func(a *Analyzer) {
		a.imageStrategy = strategy
		if limit > 0 {
			a.imageTagLimit = limit
		}
	}
}

func NewAnalyzer(log *log.Logger, webClient adaptors.WebClient, opts ...Option) *Analyzer {
	a := &Analyzer{
		log:           log,
		webClient:     webClient,
		imageStrategy: models.ImageStrategyStructured,
		imageTagLimit: defaultImageTagLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches userURL and extracts its metadata. A failed fetch returns
// *errors.FetchError and nothing is parsed; any failure after the fetch
// returns *errors.ExtractionError.
func (a *Analyzer) Analyze(ctx context.Context, userURL string) (*models.AnalysisResult, error) {
	a.log.WithContext(ctx).Debug(`analyze web page started...`)

	page, err := a.webClient.Fetch(ctx, userURL)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFetchError).Inc()
		a.log.WithContext(ctx).WithError(err).Error(`failed to get web page`)
		var fetchErr *errors.FetchError
		if !errors.As(err, &fetchErr) {
			err = errors.NewFetchError(userURL, err)
		}
		return nil, err
	}

	result, err := a.Extract(page)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeExtractionError).Inc()
		a.log.WithContext(ctx).WithError(err).Error(`failed to analyze web page`)
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	a.log.WithContext(ctx).WithFields(log.Fields{
		`url`:         userURL,
		`images`:      len(result.Images),
		`json_ld`:     len(result.StructuredDataBlocks),
		`json_ld_bad`: result.InvalidBlockCount(),
	}).Debug(`analyze web page ended...`)
	return result, nil
}

// Extract runs the parsing and extraction stages over a fetched page.
// Panics raised while walking the document are returned as
// *errors.ExtractionError carrying the stack trace.
func (a *Analyzer) Extract(page *models.FetchResult) (result *models.AnalysisResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = errors.FromPanic(rec)
		}
	}()

	doc, err := parseDocument(page.BodyText)
	if err != nil {
		return nil, errors.NewExtractionError(errors.Wrap(err, `failed to parse html`))
	}

	baseURL := page.FinalURL
	meta := extractMetadata(doc, baseURL)
	blocks := extractStructuredData(doc)
	images := collectImages(doc, blocks, baseURL, a.imageStrategy, a.imageTagLimit)

	for _, block := range blocks {
		validity := `valid`
		if !block.Valid {
			validity = `invalid`
		}
		metrics.StructuredDataBlocksTotal.WithLabelValues(validity).Inc()
	}

	return &models.AnalysisResult{
		RequestedURL:         page.RequestedURL,
		FinalURL:             page.FinalURL,
		StatusCode:           page.StatusCode,
		Title:                meta.Title,
		OpenGraphTags:        meta.OpenGraphTags,
		MetaTags:             meta.MetaTags,
		Images:               images,
		TextPreview:          meta.TextPreview,
		StructuredDataBlocks: blocks,
	}, nil
}
