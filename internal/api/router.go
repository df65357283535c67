package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/classdesk/classdesk-be/internal/api/handlers"
	"github.com/classdesk/classdesk-be/internal/auth"
	"github.com/classdesk/classdesk-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(a *auth.Auth, userService services.UserServiceProvider, courseService services.CourseServiceProvider, uploadService services.UploadServiceProvider, aiService services.AIServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	pageHandler := handlers.NewPageHandler()
	authHandler := handlers.NewAuthHandler(userService, a)
	userHandler := handlers.NewUserHandler(userService)
	courseHandler := handlers.NewCourseHandler(courseService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	aiHandler := handlers.NewAIHandler(aiService)

	// HTML pages and form flows
	r.Group(func(r chi.Router) {
		r.Use(a.Populate)
		r.Get("/", pageHandler.Landing)
	})
	r.Get("/register", pageHandler.RegisterPage)
	r.Post("/register", authHandler.RegisterForm)
	r.Get("/login", pageHandler.LoginPage)
	r.Post("/login", authHandler.LoginForm)
	r.Get("/logout", authHandler.Logout)
	r.Group(func(r chi.Router) {
		r.Use(a.Require)
		r.Get("/ask-ai", pageHandler.AskAIPage)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", authHandler.LoginJSON)

		r.Group(func(r chi.Router) {
			r.Use(a.Require)

			r.Get("/me", userHandler.GetMe)
			r.Get("/users", userHandler.List)

			r.Post("/ask-ai", aiHandler.Ask)

			r.Post("/upload", uploadHandler.Upload)
			r.Get("/uploads", uploadHandler.List)

			r.Post("/courses", courseHandler.CreateCourse)
			r.Get("/courses/{id}/assignments", courseHandler.ListAssignments)
			r.Post("/assignments", courseHandler.CreateAssignment)
			r.Post("/enrollments", courseHandler.Enroll)
		})
	})

	r.NotFound(pageHandler.NotFound)

	return r
}
