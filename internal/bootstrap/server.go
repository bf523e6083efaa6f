package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/booklytrip/booking/api"
	"github.com/booklytrip/booking/config"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, payseraHandler *api.PayseraHandler, markupHandler *api.MarkupHandler, pricingHandler *api.PricingHandler) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	payseraHandler.Register(router)
	markupHandler.Register(router.Group("/projects/:project/markups"))
	pricingHandler.Register(router.Group("/projects/:project/flights"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
