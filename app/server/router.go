package server

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/mytheresa/storefront/app/api"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// Routes is implemented by every handler group.
type Routes interface {
	RegisterRoutes(r *mux.Router)
}

type Options struct {
	Log         logrus.FieldLogger
	ServiceName string
	Tracing     bool
	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error
}

func NewRouter(opts Options, groups ...Routes) *mux.Router {
	r := mux.NewRouter()
	if opts.Tracing {
		r.Use(otelmux.Middleware(opts.ServiceName))
	}
	r.Use(logRequests(opts.Log))

	r.HandleFunc("/healthz", healthz(opts.Health)).Methods(http.MethodGet)
	r.Handle("/", http.RedirectHandler("/products", http.StatusFound)).Methods(http.MethodGet)
	for _, g := range groups {
		g.RegisterRoutes(r)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusNotFound, api.Envelope{Status: api.StatusError, Message: "route not found"})
	})
	return r
}

func logRequests(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   m.Code,
				"duration": m.Duration.String(),
				"bytes":    m.Written,
			}).Info("request")
		})
	}
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				api.WriteJSON(w, http.StatusServiceUnavailable, api.Envelope{Status: api.StatusError, Message: "database unavailable"})
				return
			}
		}
		api.WriteSuccess(w, http.StatusOK, "ok")
	}
}
