// Package kernel assembles the storefront HTTP handler: global middleware,
// operational endpoints and the application routes.
package kernel

import (
	"context"
	"net/http"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/ratelimit"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// HTTPKernel owns the router built for one database handle.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the handler. Middleware order, outermost first:
// metrics, recovery, request id, logger, rate limiter.
func NewHTTPKernel(db *gorm.DB, limiter ratelimit.Limiter) *HTTPKernel {
	registerListeners()

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.RateLimit(limiter))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", "", metrics.Handler())
	r.Get("/healthz", "health", healthz(db))

	routes.Register(r, db)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Router exposes the route table, e.g. for `storefront route:list`.
func (k *HTTPKernel) Router() *router.Router { return k.router }

func healthz(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"database": "ok"})
	}
}

var listenersOnce sync.Once

// registerListeners wires domain events to metrics once per process.
func registerListeners() {
	listenersOnce.Do(func() {
		event.Listen(event.OrderPlaced, func(_ context.Context, payload any) {
			placed, ok := payload.(services.PlacedOrder)
			if !ok {
				return
			}
			metrics.OrdersPlaced.Inc()
			for reason, n := range placed.Skipped {
				metrics.OrderLinesSkipped.WithLabelValues(reason).Add(float64(n))
			}
		})
		event.Listen(event.OrderStatusChanged, func(_ context.Context, payload any) {
			if changed, ok := payload.(services.StatusChanged); ok {
				metrics.OrderStatusChanges.WithLabelValues(string(changed.To)).Inc()
			}
		})
	})
}
