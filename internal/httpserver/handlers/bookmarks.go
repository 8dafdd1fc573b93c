package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/booksyhq/booksy/internal/bookmarks"
	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/httpserver/deps"
	"github.com/booksyhq/booksy/internal/httpserver/mw"
)

func scopeFrom(r *http.Request) domain.Scope {
	return domain.Scope{
		UserID:    mw.UserFrom(r.Context()).ID,
		ProfileID: chi.URLParam(r, "profileID"),
	}
}

// CreateBookmark stores a single bookmark. Enrichment runs detached;
// the response may not carry metadata yet.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bookmarks.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, fmt.Errorf("malformed body: %w", domain.ErrInvalidInput))
			return
		}

		b, err := d.Bookmarks.Create(r.Context(), scopeFrom(r), in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

// ReadBookmarks returns the profile's bookmarks as a nested forest, or
// flat when ?flat=true. ?roots=true restricts the flat variant to root
// records.
func ReadBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFrom(r)

		if r.URL.Query().Get("flat") == "true" {
			rootsOnly := r.URL.Query().Get("roots") == "true"
			flat, err := d.Bookmarks.List(r.Context(), scope, rootsOnly)
			if err != nil {
				writeError(w, d.Logger, err)
				return
			}
			writeJSON(w, http.StatusOK, flat)
			return
		}

		forest, err := d.Bookmarks.Forest(r.Context(), scope)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, forest)
	}
}

// UpdateBookmark applies a partial update to one record.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bookmarks.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, fmt.Errorf("malformed body: %w", domain.ErrInvalidInput))
			return
		}

		b, err := d.Bookmarks.Update(r.Context(), scopeFrom(r), chi.URLParam(r, "bookmarkID"), in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteBookmark physically removes one record.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "bookmarkID")
		if err := d.Bookmarks.Delete(r.Context(), scopeFrom(r), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{ID: id, Deleted: true})
	}
}

// RefreshMetadata re-extracts metadata for one bookmark. Extraction
// failure is reported in-band, never as a transport error.
func RefreshMetadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Bookmarks.RefreshMetadata(r.Context(), scopeFrom(r), chi.URLParam(r, "bookmarkID"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
