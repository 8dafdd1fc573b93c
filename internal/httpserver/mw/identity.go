package mw

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/store"
)

// UserHeader names the caller. Full authentication sits in front of
// this service; here the id is only resolved against the injected
// user store so unknown callers are rejected.
const UserHeader = "X-Booksy-User"

type ctxKey int

const userKey ctxKey = 0

// Identity resolves the caller header to a user and injects it into
// the request context.
func Identity(users store.UserStore, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(UserHeader)
			if id == "" {
				unauthorized(w, "missing "+UserHeader+" header")
				return
			}

			user, err := users.GetUser(r.Context(), id)
			if err != nil {
				log.Debug("unknown caller", logger.String("user", id))
				unauthorized(w, "unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the resolved caller, or nil outside the Identity
// middleware.
func UserFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
