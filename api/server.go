// Package api assembles the HTTP handlers into one server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/railfleet/locopredict/api/locomotives"
	"github.com/railfleet/locopredict/api/predictions"
	"github.com/railfleet/locopredict/core/fleet"
	"github.com/railfleet/locopredict/core/prediction"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/internal/bus"
)

// NewMux registers every API route. The history routes are present only
// when a prediction store is given.
func NewMux(reg fleet.Store, pred prediction.Predictor, st predictions.PredictionStore, eb bus.EventBus) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/predictions/quick", predictions.NewQuickHandler(reg, pred, eb))
	mux.Handle("/api/predictions/bulk", predictions.NewBulkHandler(reg, pred, st, eb))
	if st != nil {
		mux.Handle("/api/predictions/recent", predictions.NewHistoryHandler(st))
		mux.Handle("/api/predictions/clear", predictions.NewClearHandler(st))
	}
	info := locomotives.NewInfoHandler(reg)
	mux.Handle("/api/locomotives", info)
	mux.Handle("/api/locomotives/", info)
	mux.Handle("/api/fleet/statistics", locomotives.NewStatisticsHandler(reg))
	return mux
}

// StartServer serves the mux on the given address until the context is
// canceled.
func StartServer(ctx context.Context, addr string, mux *http.ServeMux) error {
	log := logger.New("api-server")
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
