package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/madkurv/api/internal/platform/httpx"
)

// RouteRegistrar mounts a group of routes on the router.
type RouteRegistrar func(r chi.Router)

const requestTimeout = 60 * time.Second

type routerConfig struct {
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	storefront RouteRegistrar
	carts      RouteRegistrar
	checkout   RouteRegistrar
	feedback   RouteRegistrar
	admin      RouteRegistrar
	webhooks   RouteRegistrar

	authRequired func(http.Handler) http.Handler
	staffOnly    func(http.Handler) http.Handler
}

// Option customises the router before construction.
type Option func(*routerConfig)

// WithMiddlewares appends shared middleware applied to every route.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) { cfg.middlewares = append(cfg.middlewares, mw...) }
}

// WithHealth overrides the default probe handlers.
func WithHealth(h *HealthHandlers) Option {
	return func(cfg *routerConfig) { cfg.health = h }
}

// WithStorefront mounts the public storefront routes.
func WithStorefront(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.storefront = reg }
}

// WithCarts mounts the authenticated cart routes under /carts.
func WithCarts(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.carts = reg }
}

// WithCheckout mounts the checkout and order routes.
func WithCheckout(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.checkout = reg }
}

// WithFeedback mounts the customer feedback routes under /feedback.
func WithFeedback(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.feedback = reg }
}

// WithAdmin mounts the back-office routes under /admin.
func WithAdmin(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.admin = reg }
}

// WithWebhooks mounts provider webhook routes under /webhooks. They skip
// bearer auth; signature verification happens in the handler.
func WithWebhooks(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) { cfg.webhooks = reg }
}

// WithAuth sets the middleware guarding customer routes and the stricter
// one guarding admin routes.
func WithAuth(required, staffOnly func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.authRequired = required
		cfg.staffOnly = staffOnly
	}
}

// NewRouter assembles the API surface under /api/v1.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(requestTimeout),
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w,
			httpx.NotFound(fmt.Sprintf("no route for %s", req.URL.Path)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.Error{
			Status:  http.StatusMethodNotAllowed,
			Code:    "method_not_allowed",
			Message: fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path),
		})
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.storefront != nil {
			api.Group(func(public chi.Router) {
				cfg.storefront(public)
			})
		}
		if cfg.webhooks != nil {
			api.Route("/webhooks", func(hooks chi.Router) {
				cfg.webhooks(hooks)
			})
		}

		api.Group(func(authed chi.Router) {
			if cfg.authRequired != nil {
				authed.Use(cfg.authRequired)
			}
			if cfg.carts != nil {
				authed.Route("/carts", func(carts chi.Router) {
					cfg.carts(carts)
				})
			}
			if cfg.checkout != nil {
				cfg.checkout(authed)
			}
			if cfg.feedback != nil {
				authed.Route("/feedback", func(fb chi.Router) {
					cfg.feedback(fb)
				})
			}
		})

		if cfg.admin != nil {
			api.Route("/admin", func(admin chi.Router) {
				if cfg.staffOnly != nil {
					admin.Use(cfg.staffOnly)
				}
				cfg.admin(admin)
			})
		}
	})

	return r
}
