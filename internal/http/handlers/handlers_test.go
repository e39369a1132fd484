package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/pkg/errors"
	"meta_debug_web/internal/report"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, url)
	res, _ := args.Get(0).(*models.AnalysisResult)
	return res, args.Error(1)
}

func testLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		RequestedURL:  "https://x.com/",
		FinalURL:      "https://x.com/home",
		StatusCode:    200,
		Title:         "Hello",
		OpenGraphTags: []models.MetaTagEntry{{Name: "og:title", Content: "Hello"}},
		MetaTags:      []models.MetaTagEntry{{Name: "og:title", Content: "Hello"}},
		Images:        []models.ImageCandidate{{URL: "https://x.com/a.png", Label: "og:image"}},
		TextPreview:   "Hello world",
	}
}

func newReportHandler(t *testing.T, analyzer PageAnalyzer) *ReportHandler {
	t.Helper()
	renderer, err := report.NewRenderer()
	require.NoError(t, err)
	return NewReportHandler(analyzer, renderer, testLogger())
}

func TestReportHandler(t *testing.T) {
	t.Run("no url renders the form only", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		rec := httptest.NewRecorder()
		newReportHandler(t, analyzer).Handle(rec, httptest.NewRequest(http.MethodGet, "/?url=%20%20", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "Analyze URL")
		assert.NotContains(t, rec.Body.String(), "Page Information")
		analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})

	t.Run("success renders the report", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "https://x.com/").Return(sampleResult(), nil)

		rec := httptest.NewRecorder()
		newReportHandler(t, analyzer).Handle(rec, httptest.NewRequest(http.MethodGet, "/?url=https://x.com/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Page Information")
		assert.Contains(t, body, "https://x.com/home")
		assert.Contains(t, body, "0 block(s)")
		analyzer.AssertExpectations(t)
	})

	t.Run("fetch error renders the error card only", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "https://down.example/").
			Return(nil, errors.NewFetchError("https://down.example/", errors.New("connection refused")))

		rec := httptest.NewRecorder()
		newReportHandler(t, analyzer).Handle(rec, httptest.NewRequest(http.MethodGet, "/?url=https://down.example/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Error fetching URL: connection refused")
		assert.NotContains(t, body, "Page Information")
		assert.NotContains(t, body, "Open Graph Tags")
	})

	t.Run("extraction error writes a plain text diagnostic", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "https://x.com/").
			Return(nil, errors.NewExtractionError(errors.New("tree walk failed")))

		rec := httptest.NewRecorder()
		newReportHandler(t, analyzer).Handle(rec, httptest.NewRequest(http.MethodGet, "/?url=https://x.com/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Error during HTML analysis:\n"))
		assert.Contains(t, rec.Body.String(), "tree walk failed")
	})
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestReportHandler_WriteErrorsAreLogged(t *testing.T) {
	renderer, err := report.NewRenderer()
	require.NoError(t, err)

	t.Run("report", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "https://x.com/").Return(sampleResult(), nil)

		w := failingWriter{httptest.NewRecorder()}
		NewReportHandler(analyzer, renderer, logger).Handle(w, httptest.NewRequest(http.MethodGet, "/?url=https://x.com/", nil))

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, "failed to write report", hook.LastEntry().Message)
	})

	t.Run("diagnostic", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "https://x.com/").
			Return(nil, errors.NewExtractionError(errors.New("walk failed")))

		w := failingWriter{httptest.NewRecorder()}
		NewReportHandler(analyzer, renderer, logger).Handle(w, httptest.NewRequest(http.MethodGet, "/?url=https://x.com/", nil))

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "failed to write diagnostic", hook.LastEntry().Message)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestWebPageAnalysisHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockAnalyzer)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "invalid json",
			body:       `{"url":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty url",
			body:       `{"url":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported scheme",
			body:       `{"url":"ftp://x.com/"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "fetch error",
			body: `{"url":"https://x.com/"}`,
			setup: func(m *MockAnalyzer) {
				m.On("Analyze", mock.Anything, "https://x.com/").
					Return(nil, errors.NewFetchError("https://x.com/", errors.New("no such host")))
			},
			wantStatus: http.StatusBadGateway,
			check: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, http.StatusBadGateway, resp.Code)
				assert.True(t, strings.HasPrefix(resp.Error, "Error fetching URL: no such host"))
			},
		},
		{
			name: "fetch timeout",
			body: `{"url":"https://x.com/"}`,
			setup: func(m *MockAnalyzer) {
				m.On("Analyze", mock.Anything, "https://x.com/").
					Return(nil, errors.NewFetchError("https://x.com/", context.DeadlineExceeded))
			},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name: "extraction error",
			body: `{"url":"https://x.com/"}`,
			setup: func(m *MockAnalyzer) {
				m.On("Analyze", mock.Anything, "https://x.com/").
					Return(nil, errors.NewExtractionError(errors.New("boom")))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "success",
			body: `{"url":" https://x.com/ "}`,
			setup: func(m *MockAnalyzer) {
				m.On("Analyze", mock.Anything, "https://x.com/").Return(sampleResult(), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "Hello", resp["title"])
				assert.Equal(t, "https://x.com/home", resp["final_url"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := new(MockAnalyzer)
			if tt.setup != nil {
				tt.setup(analyzer)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			NewWebPageAnalysisHandler(analyzer, testLogger()).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
			analyzer.AssertExpectations(t)
		})
	}
}

func TestReadyHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewReadyHandler().Handle(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
