package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Suya678/Stream/internal/http/handler"
	"github.com/Suya678/Stream/internal/http/middleware"
)

type Dependencies struct {
	Auth   *handler.AuthHandler
	Logger *slog.Logger
}

func New(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(dep.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", dep.Auth.SignUp)
		r.Post("/signin", dep.Auth.SignIn)
		r.Post("/logout", dep.Auth.SignOut)
		r.Post("/verify-email", dep.Auth.VerifyEmail)
		r.Post("/resend-verification", dep.Auth.ResendVerification)
		r.Get("/me", dep.Auth.Me)
	})

	return r
}
