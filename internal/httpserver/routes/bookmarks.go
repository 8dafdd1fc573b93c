package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/booksyhq/booksy/internal/httpserver/deps"
	"github.com/booksyhq/booksy/internal/httpserver/handlers"
)

// bookmarkRoutes is mounted under /api/profiles/{profileID}/bookmarks.
func bookmarkRoutes(d deps.Deps) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", handlers.ReadBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Post("/bulk/delete", handlers.BulkDelete(d))
		r.Post("/bulk/tag", handlers.BulkTag(d))
		r.Patch("/{bookmarkID}", handlers.UpdateBookmark(d))
		r.Delete("/{bookmarkID}", handlers.DeleteBookmark(d))
		r.Post("/{bookmarkID}/refresh-metadata", handlers.RefreshMetadata(d))
	}
}
