// Package middleware holds the handler wrappers applied to the whole
// router in main.go.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/schoolhub/records-api/internal/utils/response"
)

// Recover catches panics escaping a handler and turns them into a 500
// with a generic body. The panic value and stack position stay in the
// server log; the client never sees them.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered in handler",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec))
				response.WriteJSON(w, http.StatusInternalServerError,
					response.Error("Internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
