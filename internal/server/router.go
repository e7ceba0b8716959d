// Package server assembles the HTTP routes of the service.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sbilibin2017/messagely/internal/handlers"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/middlewares"
	httpSwagger "github.com/swaggo/http-swagger"
)

// AuthService registers users and logs them in.
type AuthService interface {
	handlers.Registerer
	handlers.Loginer
}

// UserService reads user profiles.
type UserService interface {
	handlers.UserLister
	handlers.UserGetter
}

// MessageService handles messages and mailboxes.
type MessageService interface {
	handlers.MailboxReader
	handlers.MessageViewer
	handlers.MessageSender
	handlers.MessageMarker
}

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Auth     AuthService
	Users    UserService
	Messages MessageService
	Tokens   middlewares.Tokener

	// SwaggerURL is where the UI fetches doc.json from; empty disables /swagger.
	SwaggerURL string
}

// NewRouter builds the route tree. Everything except /auth and /swagger
// requires a bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handlers.NewRegisterHandler(d.Auth))
		r.Post("/login", handlers.NewLoginHandler(d.Auth))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(d.Tokens))

		r.Get("/users", handlers.NewListUsersHandler(d.Users))
		r.Route("/users/{username}", func(r chi.Router) {
			r.Use(middlewares.EnsureCorrectUser("username"))
			r.Get("/", handlers.NewGetUserHandler(d.Users))
			r.Get("/from", handlers.NewMessagesFromHandler(d.Messages))
			r.Get("/to", handlers.NewMessagesToHandler(d.Messages))
		})

		r.Post("/messages", handlers.NewSendMessageHandler(d.Messages))
		r.Get("/messages/{id}", handlers.NewGetMessageHandler(d.Messages))
		r.Post("/messages/{id}/read", handlers.NewMarkReadHandler(d.Messages))
	})

	if d.SwaggerURL != "" {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(d.SwaggerURL)))
	}

	return r
}
