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

type profileRequest struct {
	Name string `json:"name"`
}

func CreateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in profileRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, fmt.Errorf("malformed body: %w", domain.ErrInvalidInput))
			return
		}

		p, err := d.Profiles.Create(r.Context(), mw.UserFrom(r.Context()).ID, in.Name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func ListProfiles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Profiles.List(r.Context(), mw.UserFrom(r.Context()).ID)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Profiles.Get(r.Context(), mw.UserFrom(r.Context()).ID, chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func RenameProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in profileRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, fmt.Errorf("malformed body: %w", domain.ErrInvalidInput))
			return
		}

		p, err := d.Profiles.Rename(r.Context(), mw.UserFrom(r.Context()).ID, chi.URLParam(r, "profileID"), in.Name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func DeleteProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "profileID")
		if err := d.Profiles.Delete(r.Context(), mw.UserFrom(r.Context()).ID, id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{ID: id, Deleted: true})
	}
}
