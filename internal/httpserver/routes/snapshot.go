package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/booksyhq/booksy/internal/httpserver/deps"
	"github.com/booksyhq/booksy/internal/httpserver/handlers"
	"github.com/booksyhq/booksy/internal/httpserver/mw"
)

func init() { Register(registerSnapshot) }

func registerSnapshot(r chi.Router, d deps.Deps) {
	r.With(mw.Identity(d.Users, d.Logger)).Post("/api/snapshot/reload", handlers.SnapshotReload(d))
}
