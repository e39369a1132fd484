package http

import (
	"context"

	"meta_debug_web/internal/adaptors"
	"meta_debug_web/internal/application/config"
	"meta_debug_web/internal/http/handlers"
	"meta_debug_web/internal/http/middleware"
	"meta_debug_web/internal/report"
	"meta_debug_web/internal/service"

	log "github.com/sirupsen/logrus"
)

// NewAnalyzer builds the analysis pipeline from the application config.
func NewAnalyzer(appCfg *config.AppConfig, log *log.Logger) *service.Analyzer {
	webClient := adaptors.NewWebClient(appCfg.Fetch.Timeout, appCfg.Fetch.UserAgent, appCfg.Fetch.MaxBodyBytes, log)
	return service.NewAnalyzer(log, webClient, service.WithImageStrategy(appCfg.Images.Strategy, appCfg.Images.TagLimit))
}

func initRoutes(_ context.Context, r *Router, analyzer handlers.PageAnalyzer) error {
	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))

	r.httpRouter.Get("/", handlers.NewReportHandler(analyzer, renderer, r.log).Handle)
	r.httpRouter.Get("/ready", handlers.NewReadyHandler().Handle)
	r.httpRouter.Post("/analyze", handlers.NewWebPageAnalysisHandler(analyzer, r.log).Handle)
	return nil
}
