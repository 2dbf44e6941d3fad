package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sdpro1234/skin-disease-ai/internal/api/handlers"
	"github.com/sdpro1234/skin-disease-ai/internal/auth"
	"github.com/sdpro1234/skin-disease-ai/internal/inference"
	"github.com/sdpro1234/skin-disease-ai/internal/services"
	"github.com/sdpro1234/skin-disease-ai/internal/session"
	"github.com/sdpro1234/skin-disease-ai/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	users services.UserServiceProvider,
	sessions session.Manager,
	analyses services.AnalysisServiceProvider,
	analyzer *inference.Analyzer,
	hub *websocket.Hub,
	secureEnv bool,
	maxImageBytes int64,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, sessions, analyses, secureEnv)
	predictHandler := handlers.NewPredictHandler(analyzer, analyses, hub, maxImageBytes)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/", authHandler.Home)
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	// Page routes bounce unauthenticated visitors back to the login page.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSessionOrRedirect(sessions))
		r.Get("/dashboard", authHandler.Dashboard)
	})

	// API routes answer 401 instead.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))
		r.Post("/predict", predictHandler.Predict)
		r.Get("/ws", wsHandler.Serve)
		r.Get("/api/v1/analyses", authHandler.RecentAnalyses)
	})

	return r
}
