package adaptors

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/errors"
	"meta_debug_web/internal/pkg/metrics"

	"github.com/andybalholm/brotli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
)

// Charsets that servers commonly send by default rather than by knowledge
// of the content. Bodies declared with them are read as UTF-8.
var unreliableCharsets = map[string]bool{
	"iso-8859-1": true,
	"iso8859-1":  true,
	"latin1":     true,
	"latin-1":    true,
	"l1":         true,
}

type WebClient struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	log          *log.Logger
}

func NewWebClient(timeout time.Duration, userAgent string, maxBodyBytes int64, log *log.Logger) *WebClient {
	rTripper := promhttp.InstrumentRoundTripperDuration(
		metrics.HTTPClientRequestDuration,
		promhttp.InstrumentRoundTripperCounter(metrics.HTTPClientRequestsTotal, http.DefaultTransport))

	return &WebClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: rTripper,
		},
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}
}

// Fetch performs one GET, following redirects, and returns the decoded
// body. Non-2xx responses are returned as results, not errors.
func (w *WebClient) Fetch(ctx context.Context, rawURL string) (*models.FetchResult, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		w.log.WithError(err).WithField(`url`, rawURL).Error(`failed to parse url`)
		return nil, errors.NewFetchError(rawURL, err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		err := errors.Errorf(`invalid URL %q: only absolute http and https URLs are supported`, rawURL)
		w.log.WithError(err).Error(`url is invalid`)
		return nil, errors.NewFetchError(rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		w.log.WithError(err).Error(`failed to create request`)
		return nil, errors.NewFetchError(rawURL, err)
	}

	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := w.client.Do(req)
	if err != nil {
		fetchErr := errors.NewFetchError(rawURL, err)
		reason := `network`
		if fetchErr.Timeout() {
			reason = `timeout`
		}
		metrics.HTTPClientErrorsTotal.WithLabelValues(reason).Inc()
		w.log.WithError(err).WithField(`url`, rawURL).Error(`failed to fetch url`)
		return nil, fetchErr
	}
	defer resp.Body.Close()

	body, err := w.readBody(resp)
	if err != nil {
		w.log.Errorf(`failed to read response body. error: %v`, err)
		return nil, errors.NewFetchError(rawURL, err)
	}

	finalURL := target.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	contentType := resp.Header.Get("Content-Type")
	w.log.WithFields(log.Fields{
		`url`:       rawURL,
		`final_url`: finalURL,
		`status`:    resp.StatusCode,
		`bytes`:     len(body),
	}).Debug(`page fetched`)

	return &models.FetchResult{
		RequestedURL: rawURL,
		FinalURL:     finalURL,
		StatusCode:   resp.StatusCode,
		ContentType:  contentType,
		BodyText:     decodeBody(body, contentType),
	}, nil
}

// readBody undoes the Content-Encoding and reads at most maxBodyBytes.
// Longer bodies are cut at the limit.
func (w *WebClient) readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, `gzip decode`)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	body, err := io.ReadAll(io.LimitReader(reader, w.maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, `failed to read response body`)
	}
	return body, nil
}

// decodeBody converts body to UTF-8 using the charset declared in
// contentType. Missing, unknown and unreliable charsets fall back to UTF-8
// with invalid bytes replaced by U+FFFD.
func decodeBody(body []byte, contentType string) string {
	label := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		label = strings.ToLower(strings.TrimSpace(params["charset"]))
	}
	if label == "" || unreliableCharsets[label] {
		return utf8Text(body)
	}

	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return utf8Text(body)
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return utf8Text(body)
	}
	return string(decoded)
}

func utf8Text(body []byte) string {
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(body)
	if err != nil {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}
	return string(decoded)
}
