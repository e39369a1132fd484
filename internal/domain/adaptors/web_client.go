package adaptors

import (
	"context"

	"meta_debug_web/internal/domain/models"
)

// WebClient retrieves a single page. Failures are returned as
// *errors.FetchError.
type WebClient interface {
	Fetch(ctx context.Context, url string) (*models.FetchResult, error)
}
