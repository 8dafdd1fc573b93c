package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/httpserver/deps"
	"github.com/booksyhq/booksy/internal/httpserver/mw"
)

// Sync accepts a full snapshot forest for one profile and returns the
// reconciliation counts.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := mw.UserFrom(r.Context())
		scope := domain.Scope{
			UserID:    user.ID,
			ProfileID: chi.URLParam(r, "profileID"),
		}

		var snapshot []domain.SyncItem
		if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
			writeError(w, d.Logger,
				fmt.Errorf("bookmarks must be a JSON array: %w", domain.ErrInvalidInput))
			return
		}

		result, err := d.Reconciler.Reconcile(r.Context(), scope, snapshot)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

type snapshotReloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message,omitempty"`
}

// SnapshotReload requests a manual re-sync of the snapshot seed file.
func SnapshotReload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SnapshotTrigger == nil {
			writeJSON(w, http.StatusConflict, snapshotReloadResponse{
				Triggered: false,
				Message:   "snapshot file not configured",
			})
			return
		}

		select {
		case d.SnapshotTrigger <- struct{}{}:
			writeJSON(w, http.StatusAccepted, snapshotReloadResponse{Triggered: true})
		default:
			// A reload is already queued.
			writeJSON(w, http.StatusAccepted, snapshotReloadResponse{
				Triggered: false,
				Message:   "reload already pending",
			})
		}
	}
}
