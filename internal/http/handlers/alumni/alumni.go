// Package alumni contains all HTTP handlers related to the Alumni
// resource. The handlers follow the same factory/closure pattern as
// package student; see that package's doc comment for the rationale.
package alumni

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/schoolhub/records-api/internal/storage"
	"github.com/schoolhub/records-api/internal/types"
	"github.com/schoolhub/records-api/internal/utils/response"
)

// fields builds the stored record from a validated payload, applying
// defaults for the optional fields: graduationGrade "12", company,
// designation and address "".
//
// registrationDate is stamped on create only. Updates build the record
// without it, and since alumni updates are full replacements the date
// is dropped by any update — inherited behaviour, preserved as-is.
func fields(p types.AlumniPayload) storage.Record {
	grade := string(p.GraduationGrade)
	if grade == "" {
		grade = "12"
	}
	return storage.Record{
		"name":            p.Name,
		"email":           p.Email,
		"phone":           p.Phone,
		"graduationYear":  string(p.GraduationYear),
		"graduationGrade": grade,
		"currentCompany":  p.CurrentCompany,
		"designation":     p.Designation,
		"address":         p.Address,
	}
}

// decode reads and validates the request body shared by New and Update.
func decode(w http.ResponseWriter, r *http.Request) (types.AlumniPayload, bool) {
	var payload types.AlumniPayload

	err := json.NewDecoder(r.Body).Decode(&payload)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("request body is empty"))
		return payload, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("invalid request body"))
		return payload, false
	}

	if err := validator.New().Struct(payload); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		response.WriteJSON(w, http.StatusBadRequest,
			response.ValidationError(validateErrs))
		return payload, false
	}

	return payload, true
}

// GetList handles GET /api/alumni — all alumni records in stored order.
func GetList(alumni storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all alumni")

		response.WriteJSON(w, http.StatusOK, alumni.ReadAll())
	}
}

// GetByID handles GET /api/alumni/{id} — one record, or 404.
func GetByID(alumni storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting an alumni record", slog.String("id", id))

		record, ok := alumni.GetByID(id)
		if !ok {
			response.WriteJSON(w, http.StatusNotFound,
				response.Error("Alumni not found"))
			return
		}

		response.WriteJSON(w, http.StatusOK, record)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/alumni
// Creates an alumni record. name, email, phone and graduationYear are
// required; graduationYear may arrive as a JSON string or number.
//
// registrationDate is set server-side to today's date (YYYY-MM-DD).
//
// Success response (201 Created) — the stored record:
//
//	{ "id": "alumni-1723651200000", "name": "...", ...,
//	  "registrationDate": "2026-08-31" }
// ─────────────────────────────────────────────────────────────────────────────
func New(alumni storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an alumni record")

		payload, ok := decode(w, r)
		if !ok {
			return
		}

		record := fields(payload)
		record["registrationDate"] = time.Now().Format("2006-01-02")

		record = alumni.Create(record)

		slog.Info("alumni record created", slog.String("id", record.ID()))
		response.WriteJSON(w, http.StatusCreated, record)
	}
}

// Update handles PUT /api/alumni/{id} — a full replacement, same as
// students. 400 on a bad body, 404 when the id is absent.
func Update(alumni storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating an alumni record", slog.String("id", id))

		payload, ok := decode(w, r)
		if !ok {
			return
		}

		record, ok := alumni.Replace(id, fields(payload))
		if !ok {
			response.WriteJSON(w, http.StatusNotFound,
				response.Error("Alumni not found"))
			return
		}

		slog.Info("alumni record updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, record)
	}
}

// Delete handles DELETE /api/alumni/{id}.
//
// Success response (200 OK):
//
//	{ "message": "Alumni deleted successfully" }
func Delete(alumni storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting an alumni record", slog.String("id", id))

		if !alumni.Delete(id) {
			response.WriteJSON(w, http.StatusNotFound,
				response.Error("Alumni not found"))
			return
		}

		slog.Info("alumni record deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK,
			map[string]string{"message": "Alumni deleted successfully"})
	}
}
