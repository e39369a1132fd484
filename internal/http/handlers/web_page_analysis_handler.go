package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"meta_debug_web/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

type WebPageAnalysisHandler struct {
	analyzer PageAnalyzer
	log      *log.Logger
}

type WebPageAnalysisRequest struct {
	URL string `json:"url"`
}

func (r *WebPageAnalysisRequest) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	if r.URL == "" {
		return errors.New("url is empty")
	}

	baseURL, err := url.Parse(r.URL)
	if err != nil {
		return errors.Wrap(err, `failed to parse url`)
	}

	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return errors.New("url is invalid")
	}

	return nil
}

func NewWebPageAnalysisHandler(analyzer PageAnalyzer, log *log.Logger) *WebPageAnalysisHandler {
	return &WebPageAnalysisHandler{
		analyzer: analyzer,
		log:      log,
	}
}

// Handle serves POST /analyze and answers with the AnalysisResult as JSON.
func (h *WebPageAnalysisHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.log.Debug(`analyze web page handler called`)

	var request WebPageAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, h.log, `failed to decode request body`, err, http.StatusBadRequest)
		return
	}

	if err := request.Validate(); err != nil {
		sendError(w, h.log, `failed to validate request body`, err, http.StatusBadRequest)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), request.URL)
	if err != nil {
		var fetchErr *errors.FetchError
		if errors.As(err, &fetchErr) {
			code := http.StatusBadGateway
			if fetchErr.Timeout() {
				code = http.StatusGatewayTimeout
			}
			sendError(w, h.log, `failed to fetch web page`, err, code)
			return
		}
		sendError(w, h.log, `failed to analyze web page`, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(result); err != nil {
		h.log.WithError(err).Error(`failed to encode response`)
	}
}
