// Package types holds the request payload structures shared across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "encoding/json"

// FlexString is a string that also accepts a JSON number on decode.
// Browser form state usually sends "2015", but hand-written clients
// send 2015; the original backend accepted both, so we do too.
// Either way the value is normalized to its string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// StudentPayload is the create/update body for a student.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field is matched when decoding
//     the request body (lowercase names match the REST API).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-empty.
//
// Grade and Address are optional; the HTTP layer fills in their
// defaults ("10" and "") when they are missing.
type StudentPayload struct {
	Name    string     `json:"name"    validate:"required"`
	Email   string     `json:"email"   validate:"required"`
	Phone   string     `json:"phone"   validate:"required"`
	Grade   FlexString `json:"grade"`
	DOB     string     `json:"dob"     validate:"required"`
	Address string     `json:"address"`
}

// AlumniPayload is the create/update body for an alumni record.
// GraduationGrade defaults to "12"; company, designation and address
// default to "". registrationDate is not part of the payload — it is
// stamped by the HTTP layer on create only.
type AlumniPayload struct {
	Name            string     `json:"name"            validate:"required"`
	Email           string     `json:"email"           validate:"required"`
	Phone           string     `json:"phone"           validate:"required"`
	GraduationYear  FlexString `json:"graduationYear"  validate:"required"`
	GraduationGrade FlexString `json:"graduationGrade"`
	CurrentCompany  string     `json:"currentCompany"`
	Designation     string     `json:"designation"`
	Address         string     `json:"address"`
}

// Credentials is the login body. Passwords are compared in plaintext —
// there is no hashing anywhere in this system.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
