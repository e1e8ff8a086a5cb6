// Package auth contains the login handler.
//
// There is deliberately no session or token machinery here: a
// successful login returns the user profile once, and the client is
// trusted to remember the logged-in role/identity on its side. Every
// request after login is as anonymous as the one before it.
package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/schoolhub/records-api/internal/storage"
	"github.com/schoolhub/records-api/internal/types"
	"github.com/schoolhub/records-api/internal/utils/response"
)

// Authenticator is the narrow slice of the store this package needs.
// Declared here, on the consumer side, per the usual Go advice:
// accept interfaces, return structs.
type Authenticator interface {
	Authenticate(username, password string) (storage.Record, bool)
}

// ─────────────────────────────────────────────────────────────────────────────
// Login handles POST /api/auth/login
//
// Request body (JSON) — both fields required:
//
//	{ "username": "admin", "password": "admin@123" }
//
// Success response (200 OK) — the profile never includes the password:
//
//	{ "success": true, "user": { "id": "...", "username": "admin", "role": "admin" } }
//
// Error responses:
//
//	400 — empty/malformed body or a missing field
//	401 — unknown username or wrong password (indistinguishable on
//	      purpose; don't tell an attacker which half was right)
//
// A missing users file means an empty users collection, so before any
// user has been provisioned every login fails with 401 — never 500.
// ─────────────────────────────────────────────────────────────────────────────
func Login(store Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("login attempt")

		var creds types.Credentials

		err := json.NewDecoder(r.Body).Decode(&creds)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Error("request body is empty"))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Error("invalid request body"))
			return
		}

		if err := validator.New().Struct(creds); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		user, ok := store.Authenticate(creds.Username, creds.Password)
		if !ok {
			slog.Info("login rejected", slog.String("username", creds.Username))
			response.WriteJSON(w, http.StatusUnauthorized,
				response.Error("Invalid credentials"))
			return
		}

		slog.Info("login succeeded", slog.String("username", creds.Username))
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    user,
		})
	}
}
