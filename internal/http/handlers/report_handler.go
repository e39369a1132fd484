package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"meta_debug_web/internal/pkg/errors"
	"meta_debug_web/internal/report"

	log "github.com/sirupsen/logrus"
)

// ReportHandler serves the HTML report. It is the handler behind GET / and
// the CGI entry point.
type ReportHandler struct {
	analyzer PageAnalyzer
	renderer *report.Renderer
	log      *log.Logger
}

func NewReportHandler(analyzer PageAnalyzer, renderer *report.Renderer, log *log.Logger) *ReportHandler {
	return &ReportHandler{
		analyzer: analyzer,
		renderer: renderer,
		log:      log,
	}
}

func (h *ReportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get(`url`))
	w.Header().Set(`Content-Type`, `text/html; charset=utf-8`)

	if target == "" {
		if err := h.renderer.Form(w); err != nil {
			h.log.WithError(err).Error(`failed to render form`)
		}
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), target)
	if err != nil {
		var fetchErr *errors.FetchError
		if errors.As(err, &fetchErr) {
			if rerr := h.renderer.Error(w, target, fetchErr.Error()); rerr != nil {
				h.log.WithError(rerr).Error(`failed to render error page`)
			}
			return
		}

		w.Header().Set(`Content-Type`, `text/plain; charset=utf-8`)
		w.WriteHeader(http.StatusInternalServerError)
		if derr := report.Diagnostic(w, err); derr != nil {
			h.log.WithError(derr).Error(`failed to write diagnostic`)
		}
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Report(&buf, target, result); err != nil {
		h.log.WithError(err).Error(`failed to render report`)
		w.Header().Set(`Content-Type`, `text/plain; charset=utf-8`)
		w.WriteHeader(http.StatusInternalServerError)
		if derr := report.Diagnostic(w, errors.NewExtractionError(err)); derr != nil {
			h.log.WithError(derr).Error(`failed to write diagnostic`)
		}
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WithError(err).Error(`failed to write report`)
	}
}
