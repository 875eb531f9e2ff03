// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// board API. Public reads, member writes, and admin actions are separate
// route groups with their own middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qaboard/internal/handlers"
	"qaboard/internal/middleware"
)

// Deps are the handlers and settings the router wires together.
type Deps struct {
	Sessions  middleware.SessionGetter
	Auth      *handlers.Auth
	Questions *handlers.Questions
	Reviews   *handlers.Reviews
	Uploads   *handlers.Uploads
	Star      *handlers.Star
	Dashboard *handlers.Dashboard
	Contact   *handlers.Contact

	CORSOrigins []string
	// SecureCookies is set outside development. It also turns on HSTS.
	SecureCookies bool

	// RateLimit requests per RateWindow, per client IP, on auth and
	// write routes.
	RateLimit  int
	RateWindow time.Duration
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders(d.SecureCookies))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"not found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, `{"error":"method not allowed"}`)
	})

	// Health and metrics: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.SecureCookies))
		r.Use(middleware.LoadSession(d.Sessions))

		r.Get("/csrf", csrfHandler)

		// Public reads.
		r.Get("/categories", d.Questions.Categories)
		r.Get("/questions", d.Questions.List)
		r.Get("/questions/{id}", d.Questions.Get)
		r.Get("/reviews", d.Reviews.List)
		r.Get("/star-question", d.Star.Current)
		r.Get("/weekly-star/history", d.Star.History)

		// Anonymous writes, rate limited.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit("public", d.RateLimit, d.RateWindow))
			r.Post("/auth/register", d.Auth.Register)
			r.Post("/auth/login", d.Auth.Login)
			r.Post("/contact", d.Contact.Submit)
			r.Post("/reviews/agreements", d.Reviews.Agreements)
			r.Post("/reviews/{id}/view", d.Reviews.View)
		})

		r.Post("/auth/logout", d.Auth.Logout)

		// Signed in, two-factor not yet required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/me", d.Auth.Me)
			r.Get("/auth/2fa/setup", d.Auth.TwoFASetup)
			r.With(middleware.RateLimit("2fa", d.RateLimit, d.RateWindow)).
				Post("/auth/2fa/verify", d.Auth.TwoFAVerify)
		})

		// Signed in with a complete session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/dashboard", d.Dashboard.Show)
			r.Put("/auth/interests", d.Auth.SetInterests)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit("member", d.RateLimit, d.RateWindow))

				r.Post("/questions", d.Questions.Create)
				r.Post("/questions/{id}/like", d.Questions.Like)
				r.Post("/questions/{id}/dislike", d.Questions.Dislike)
				r.Post("/questions/{id}/replies", d.Questions.CreateReply)
				r.Post("/replies/{id}/like", d.Questions.LikeReply)
				r.Post("/replies/{id}/dislike", d.Questions.DislikeReply)
				r.Post("/reviews", d.Reviews.Create)
				r.Post("/upload", d.Uploads.Video)
				r.Post("/upload-image", d.Uploads.Image)
			})

			// Admin only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/weekly-star", d.Star.Select)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"status":"ok"}`)
}

// csrfHandler hands the CSRF token to clients that cannot read cookies.
func csrfHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"csrf_token":"`+middleware.CSRFTokenFromCtx(r.Context())+`"}`)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
