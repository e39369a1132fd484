package handlers

import (
	"context"

	"meta_debug_web/internal/domain/models"
)

// PageAnalyzer runs one analysis per call. service.Analyzer implements it.
type PageAnalyzer interface {
	Analyze(ctx context.Context, url string) (*models.AnalysisResult, error)
}
