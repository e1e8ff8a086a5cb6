// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// Consistent response shapes also make life easier for API consumers —
// they always know what error responses look like.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a record, a list, a
// message…). Error responses always look like:
//
//	{ "error": "Student not found" }
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// The "any" type means data can be a struct, map, slice, or primitive —
// WriteJSON doesn't care.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// json.NewEncoder(w) streams directly into w, avoiding an
	// intermediate buffer. Encode() appends a newline after the JSON —
	// handy for CLI testing.
	return json.NewEncoder(w).Encode(data)
}

// Error wraps a message in the standard ErrorBody shape.
//
// Example usage:
//
//	response.WriteJSON(w, http.StatusNotFound,
//	    response.Error("Student not found"))
func Error(msg string) ErrorBody {
	return ErrorBody{Error: msg}
}

// ValidationError converts a slice of validator.FieldError values into
// a single human-readable ErrorBody.
//
// The go-playground/validator package returns one FieldError per failing
// struct field. We convert each to a plain English sentence and join them
// with ", " so the client sees a single descriptive error string:
//
//	{ "error": "field Name is required, field DOB is required" }
func ValidationError(errs validator.ValidationErrors) ErrorBody {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return ErrorBody{Error: strings.Join(errMessages, ", ")}
}
