package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/booksyhq/booksy/internal/bookmarks"
	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/httpserver/deps"
)

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDelete removes many bookmarks, reporting partial success
// explicitly instead of aborting the batch.
func BulkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bulkDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, fmt.Errorf("malformed body: %w", domain.ErrInvalidInput))
			return
		}

		res, err := d.Bookmarks.BulkDelete(r.Context(), scopeFrom(r), in.IDs)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// BulkTag applies one tag operation to many bookmarks.
func BulkTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bookmarks.BulkTagInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, fmt.Errorf("malformed body: %w", domain.ErrInvalidInput))
			return
		}

		res, err := d.Bookmarks.BulkTag(r.Context(), scopeFrom(r), in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
