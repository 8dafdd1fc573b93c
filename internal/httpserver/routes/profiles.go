package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/booksyhq/booksy/internal/httpserver/deps"
	"github.com/booksyhq/booksy/internal/httpserver/handlers"
	"github.com/booksyhq/booksy/internal/httpserver/mw"
)

func init() { Register(registerProfiles) }

// registerProfiles owns the whole /api/profiles subtree; the bookmark
// and sync routes nest under the profile they operate on.
func registerProfiles(r chi.Router, d deps.Deps) {
	r.Route("/api/profiles", func(r chi.Router) {
		r.Use(mw.Identity(d.Users, d.Logger))

		r.Get("/", handlers.ListProfiles(d))
		r.Post("/", handlers.CreateProfile(d))

		r.Route("/{profileID}", func(r chi.Router) {
			r.Get("/", handlers.GetProfile(d))
			r.Patch("/", handlers.RenameProfile(d))
			r.Delete("/", handlers.DeleteProfile(d))

			r.Post("/sync", handlers.Sync(d))
			r.Route("/bookmarks", bookmarkRoutes(d))
		})
	})
}
