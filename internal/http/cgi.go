package http

import (
	"net/http"
	"net/http/cgi"

	"meta_debug_web/internal/application/config"
	"meta_debug_web/internal/http/handlers"
	"meta_debug_web/internal/http/middleware"
	"meta_debug_web/internal/report"

	log "github.com/sirupsen/logrus"
)

// ServeCGI answers the single request described by the CGI environment with
// the report page. Any script path is accepted.
func ServeCGI(log *log.Logger, appCfg *config.AppConfig) error {
	handler, err := newCGIHandler(log, NewAnalyzer(appCfg, log))
	if err != nil {
		return err
	}
	return cgi.Serve(handler)
}

func newCGIHandler(log *log.Logger, analyzer handlers.PageAnalyzer) (http.Handler, error) {
	renderer, err := report.NewRenderer()
	if err != nil {
		return nil, err
	}
	reportHandler := handlers.NewReportHandler(analyzer, renderer, log)
	return middleware.RequestIDLoggerMiddleware(log)(http.HandlerFunc(reportHandler.Handle)), nil
}
