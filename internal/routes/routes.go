package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AnshRaj112/inkwell-backend/internal/handlers"
	"github.com/AnshRaj112/inkwell-backend/internal/metrics"
	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
	"github.com/AnshRaj112/inkwell-backend/pkg/clientip"
)

// Deps holds everything the router needs.
type Deps struct {
	Logger         *slog.Logger
	Metrics        middleware.RequestObserver
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	HSTS           bool

	Sessions       middleware.SessionResolver
	CookieVerifier middleware.CookieVerifier

	Auth    *handlers.AuthHandler
	Pages   *handlers.PageHandler
	Posts   *handlers.PostHandler
	Profile *handlers.ProfileHandler
	Upload  *handlers.UploadHandler
	Health  http.HandlerFunc
}

// NewRouter builds the full middleware chain and route table.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(clientip.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.SecurityHeaders(deps.HSTS))
	r.Use(middleware.CORS(deps.AllowedOrigins))

	if deps.Health != nil {
		r.Get("/health", deps.Health)
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.Sessions, deps.CookieVerifier))
		SetupRoutes(r, deps)
	})

	return r
}

// SetupRoutes registers the pages and the JSON API on r. The session loader
// must already be installed.
func SetupRoutes(r chi.Router, deps *Deps) {
	// Pages
	r.Get("/", deps.Pages.Home)
	r.Get("/login", deps.Pages.LoginForm)
	r.Post("/login", deps.Pages.Login)
	r.With(middleware.RequireAnonymous).Get("/register", deps.Pages.RegisterForm)
	r.With(middleware.RequireAnonymous).Post("/register", deps.Pages.Register)
	r.Get("/logout", deps.Pages.Logout)
	r.Post("/logout", deps.Pages.Logout)
	r.Get("/forgot", deps.Pages.ForgotForm)
	r.Post("/forgot", deps.Pages.Forgot)
	r.Get("/reset/{token}", deps.Pages.ResetForm)
	r.Post("/reset", deps.Pages.Reset)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.With(middleware.RequireAnonymous).Post("/register", deps.Auth.Register)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/forgot", deps.Auth.ForgotPassword)
			r.Post("/reset", deps.Auth.ResetPassword)
			r.Get("/me", deps.Auth.Me)
		})

		r.Get("/posts", deps.Posts.List)
		r.Get("/posts/{id}", deps.Posts.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Post("/posts", deps.Posts.Create)
			r.Put("/posts/{id}", deps.Posts.Update)
			r.Delete("/posts/{id}", deps.Posts.Delete)
			r.Post("/posts/{postID}/comments", deps.Posts.CreateComment)
			r.Put("/comments/{id}", deps.Posts.UpdateComment)
			r.Delete("/comments/{id}", deps.Posts.DeleteComment)

			r.Get("/profile", deps.Profile.Get)
			r.Put("/profile", deps.Profile.Update)
			r.Get("/profile/activity", deps.Profile.Activity)

			r.Post("/upload", deps.Upload.Upload)
		})
	})
}
