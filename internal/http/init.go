package http

import (
	"context"
	"os/signal"
	"syscall"

	"meta_debug_web/internal/application/config"
	"meta_debug_web/internal/http/handlers"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Router struct {
	httpRouter *chi.Mux
	log        *log.Logger
}

func NewRouter(ctx context.Context, log *log.Logger, analyzer handlers.PageAnalyzer) (*chi.Mux, error) {
	router := &Router{
		httpRouter: chi.NewRouter(),
		log:        log,
	}
	if err := initRoutes(ctx, router, analyzer); err != nil {
		return nil, err
	}
	return router.httpRouter, nil
}

// Init runs the report server and the operations servers until SIGINT or
// SIGTERM, or until one of them fails to listen.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := NewHTTPServerConfig()
	if err != nil {
		return err
	}

	router, err := NewRouter(ctx, log, NewAnalyzer(appCfg, log))
	if err != nil {
		return err
	}

	servers := []server{NewHttpServer(ctx, cfg, router, log)}
	if appCfg.MetricsHost != "" {
		servers = append(servers, NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log))
	}
	if appCfg.PprofHost != "" {
		servers = append(servers, NewPprofServer(appCfg.PprofHost, cfg.Timeouts.ShutdownWait, log))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(s.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		var firstErr error
		for _, s := range servers {
			if err := s.Stop(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})

	return g.Wait()
}

type server interface {
	Start() error
	Stop() error
}
