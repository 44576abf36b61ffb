package routes

import (
	"net/http"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/realtime"
	"oxypace/oxypace/utils/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the HTTP surface is built from.
type Handlers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Portals  *controllers.PortalController
	Posts    *controllers.PostController
	Comments *controllers.CommentController
	Messages *controllers.MessageController
	Contact  *controllers.ContactController
	Media    *controllers.MediaController
	Health   *controllers.HealthController
	Hub      *realtime.Hub
	Limiter  *middlewares.RateLimiter
}

func NewRouter(h Handlers, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.NewCORSMiddleware(cfg.CORSOrigins).Handler)

	r.Mount("/health", HealthRoutes(h.Health))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		// long-lived, so outside the request timeout
		if h.Hub != nil {
			api.Get("/realtime", RealtimeRoutes(h.Hub, cfg))
		}

		api.Group(func(gr chi.Router) {
			gr.Use(middleware.Timeout(60 * time.Second))
			if h.Limiter != nil {
				// limiter keys on the caller's identity when a token is present
				gr.Use(middlewares.OptionalAuth(cfg))
				gr.Use(h.Limiter.Handler)
			}
			gr.Mount("/auth", AuthRoutes(h.Auth))
			gr.Mount("/users", UserRoutes(h.Users, cfg))
			gr.Mount("/portals", PortalRoutes(h.Portals, cfg))
			gr.Mount("/posts", PostRoutes(h.Posts, h.Comments, cfg))
			gr.Mount("/comments", CommentRoutes(h.Comments, cfg))
			gr.Mount("/messages", MessageRoutes(h.Messages, cfg))
			gr.Mount("/contact", ContactRoutes(h.Contact, cfg))
			gr.Mount("/media", MediaRoutes(h.Media, cfg))
		})
	})

	return r
}
