// Package storage defines the contracts that any record backend must
// satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care how records are
// persisted. By depending only on these interfaces:
//
//   - Switching backends = implement the interface for the new backend,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake that satisfies the interface.
//     No real files needed for unit tests.
package storage

// Record is one entity instance (student, alumni, or user) as a flat
// field map. Records are schemaless on purpose: the store persists
// exactly what the HTTP layer hands it, and the HTTP layer is the only
// place that knows which fields a given entity kind carries.
//
// The identity field "id" is a string, assigned by the store on create,
// and unique within a collection.
type Record map[string]any

// ID returns the record's identity field, or "" when it is missing or
// not a string (a hand-edited data file can contain anything).
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy of the record. Values are flat
// string/number scalars, so a shallow copy is a full copy in practice.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Collection is durable CRUD over one ordered set of records of a
// single entity kind. Insertion order is preserved and is the only
// implicit ordering.
//
// Operations are best-effort: read failures yield an empty slice,
// write failures yield false, lookups yield (nil, false). Failures are
// logged server-side, never raised to the caller — which means a read
// path cannot distinguish "storage broken" from "no data". That is a
// documented weakness of this design, kept deliberately.
type Collection interface {
	// ReadAll returns every record in the collection, in stored order.
	// Returns an empty slice (not nil) on a missing file, a read error,
	// or a parse error.
	ReadAll() []Record

	// WriteAll overwrites the collection with exactly the given records.
	// Returns false on serialization or I/O failure.
	WriteAll(items []Record) bool

	// GetByID returns the first record whose id equals the argument.
	GetByID(id string) (Record, bool)

	// Create assigns a fresh id (any caller-supplied id is overwritten),
	// appends the record, persists the whole collection, and returns the
	// new record.
	Create(fields Record) Record

	// Replace swaps the record with the given id for {id} + fields.
	// Fields not present in the payload are dropped — this is a FULL
	// replacement. Returns (nil, false) with no side effect when the id
	// is absent. Used by students and alumni.
	Replace(id string, fields Record) (Record, bool)

	// Merge overlays fields onto the existing record, preserving fields
	// the payload does not mention. The id is never changed. Returns
	// (nil, false) with no side effect when the id is absent. Used by
	// users. The Replace/Merge split per entity kind is intentional.
	Merge(id string, fields Record) (Record, bool)

	// Delete removes the record with the given id. Returns false and
	// performs no write when no record matched.
	Delete(id string) bool
}

// Store aggregates the three collections and the credential check.
type Store interface {
	Students() Collection
	Alumni() Collection
	Users() Collection

	// Authenticate looks a user up by username and compares the stored
	// password by exact string equality. On match it returns the user
	// record with the password field stripped. There is no hashing, no
	// throttling, and no session issuance.
	Authenticate(username, password string) (Record, bool)
}
