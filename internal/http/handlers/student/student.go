// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a record store.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (the students collection)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access the collection even after the factory call has returned:
//
//	router.HandleFunc("POST /api/students", student.New(store.Students()))
//	//                                      ^^^^^^^^^^^^^^^^^^^^^^^^^^^^
//	//                       New(...) is called ONCE at startup. It
//	//                       returns a handler func which is called on
//	//                       EVERY incoming request.
package student

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

// fields builds the stored record from a validated payload, applying
// the defaults for the optional fields: grade "10", address "".
// Both create and update build the record the same way, so an update
// without a grade resets it to "10" — full-replacement semantics.
func fields(p types.StudentPayload) storage.Record {
	grade := string(p.Grade)
	if grade == "" {
		grade = "10"
	}
	return storage.Record{
		"name":    p.Name,
		"email":   p.Email,
		"phone":   p.Phone,
		"grade":   grade,
		"dob":     p.DOB,
		"address": p.Address,
	}
}

// decode reads and validates the request body shared by New and Update.
// It writes the 400 response itself and reports ok=false so the caller
// can simply return.
func decode(w http.ResponseWriter, r *http.Request) (types.StudentPayload, bool) {
	var payload types.StudentPayload

	err := json.NewDecoder(r.Body).Decode(&payload)
	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty — nothing to decode.
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("request body is empty"))
		return payload, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("invalid request body"))
		return payload, false
	}

	// Presence validation only. Anything beyond required-field checks
	// (email shape, date shape) is out of scope here.
	if err := validator.New().Struct(payload); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		response.WriteJSON(w, http.StatusBadRequest,
			response.ValidationError(validateErrs))
		return payload, false
	}

	return payload, true
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of all students, in stored order.
//
// Returns an empty array [] (not null) when there are no students —
// including when the backing file is unreadable, per the store's
// silent-failure policy.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(students storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		response.WriteJSON(w, http.StatusOK, students.ReadAll())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// Fetches a single student by id.
//
// Success response (200 OK):
//
//	{ "id": "1", "name": "John Doe", "email": "john@example.com", ... }
//
// Error response: 404 when no student has that id.
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(students storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL.
		// This works because Go 1.22+ supports named path parameters in
		// the ServeMux pattern: "GET /api/students/{id}"
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		record, ok := students.GetByID(id)
		if !ok {
			response.WriteJSON(w, http.StatusNotFound,
				response.Error("Student not found"))
			return
		}

		response.WriteJSON(w, http.StatusOK, record)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON) — name, email, phone and dob are required:
//
//	{ "name": "Ann", "email": "a@x.com", "phone": "555", "dob": "2010-01-01" }
//
// Success response (201 Created) — the stored record, including the
// server-assigned id and defaulted fields:
//
//	{ "id": "1723651200000", "name": "Ann", ..., "grade": "10", "address": "" }
//
// Error response: 400 on empty/malformed body or a missing required field.
// ─────────────────────────────────────────────────────────────────────────────
func New(students storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		payload, ok := decode(w, r)
		if !ok {
			return
		}

		record := students.Create(fields(payload))

		slog.Info("student created", slog.String("id", record.ID()))
		response.WriteJSON(w, http.StatusCreated, record)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL fields of an existing student. A field not present in
// the payload is gone after the update (grade and address fall back to
// their defaults) — this mirrors how creation builds the record.
//
// Error responses: 400 on a bad body, 404 when the id is absent.
// ─────────────────────────────────────────────────────────────────────────────
func Update(students storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		payload, ok := decode(w, r)
		if !ok {
			return
		}

		record, ok := students.Replace(id, fields(payload))
		if !ok {
			response.WriteJSON(w, http.StatusNotFound,
				response.Error("Student not found"))
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, record)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Permanently removes a student record.
//
// Success response (200 OK):
//
//	{ "message": "Student deleted successfully" }
//
// Error response: 404 when the id is absent — so deleting the same id
// twice yields 200 then 404.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(students storage.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if !students.Delete(id) {
			response.WriteJSON(w, http.StatusNotFound,
				response.Error("Student not found"))
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK,
			map[string]string{"message": "Student deleted successfully"})
	}
}
