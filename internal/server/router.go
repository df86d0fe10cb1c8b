package server

import (
	"context"
	"net/http"

	"biostack/internal/handlers"
	applog "biostack/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/logout", handlers.Logout)

	protected := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuthentication(h)
	}
	mux.Handle("/api/state", protected(handlers.State))
	mux.Handle("/api/timeline", protected(handlers.Timeline))
	mux.Handle("/api/logs", protected(handlers.IntakeLogs))
	mux.Handle("/api/safety/check", protected(handlers.SafetyCheck))
	mux.Handle("/api/safety/stack", protected(handlers.StackSafety))
	mux.Handle("/api/safety/headroom", protected(handlers.SafetyHeadroom))
	mux.Handle("/api/supplements", protected(handlers.Supplements))

	applog.Debug(context.Background(), "http routes registered")
	return mux
}
