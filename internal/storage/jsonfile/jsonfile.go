// Package jsonfile provides a flat-file implementation of the
// storage interfaces. Each collection lives in a single JSON file
// holding one array of record objects, pretty-printed with 2-space
// indentation so the files stay readable and hand-editable.
//
// WHY FLAT FILES?
// ───────────────
// The data set is tiny (one school's records), the files double as the
// system's import/export format, and there is no separate server
// process to install. Every operation is a full-file read, an
// in-memory mutation, and a full-file rewrite.
//
// KNOWN LIMITS (deliberate, not bugs to fix silently):
//   - No locking. Two concurrent writers to the same collection race,
//     and the last writer wins — the earlier write is discarded.
//     At most one server process should run against a data directory.
//   - Ids are derived from the current time in milliseconds. Within a
//     single process the generator bumps past ids already in the
//     collection, but two processes sharing a directory can still
//     collide.
//   - Read failures are logged and surfaced as an empty collection, so
//     callers cannot tell a broken disk from an empty file.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/schoolhub/records-api/internal/config"
	"github.com/schoolhub/records-api/internal/storage"
)

// File names inside the data directory, one per collection.
const (
	studentsFile = "students.json"
	alumniFile   = "alumni.json"
	usersFile    = "users.json"
)

// seedStudents is written to students.json the first time the store is
// constructed against an empty data directory. Only the students file
// is seeded; alumni.json and users.json start absent and read as empty
// collections until something is written to them. That asymmetry is
// inherited behaviour, preserved as-is.
var seedStudents = []storage.Record{
	{
		"id":      "1",
		"name":    "John Doe",
		"email":   "john@example.com",
		"phone":   "555-0101",
		"grade":   "10",
		"dob":     "2008-05-15",
		"address": "123 Main St, City",
	},
	{
		"id":      "2",
		"name":    "Jane Smith",
		"email":   "jane@example.com",
		"phone":   "555-0102",
		"grade":   "11",
		"dob":     "2007-03-22",
		"address": "456 Oak Ave, Town",
	},
}

// Store is the concrete implementation of storage.Store. It owns one
// Collection per entity kind, each bound to its own file and id scheme.
type Store struct {
	students *Collection
	alumni   *Collection
	users    *Collection
}

// New builds a Store rooted at cfg.DataDir, creating the directory if
// needed and seeding students.json when it does not exist yet.
//
// Naming convention: New() acts as a constructor. Construction errors
// are real errors — unlike the runtime operations, which are
// best-effort — because a server that cannot create its data directory
// should refuse to start.
func New(cfg *config.Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile.New: create data dir: %w", err)
	}

	s := &Store{
		students: &Collection{
			path: filepath.Join(cfg.DataDir, studentsFile),
			// Student ids are bare decimal timestamps: "1723651200000".
			idPrefix: "",
		},
		alumni: &Collection{
			path:     filepath.Join(cfg.DataDir, alumniFile),
			idPrefix: "alumni-",
		},
		users: &Collection{
			path:     filepath.Join(cfg.DataDir, usersFile),
			idPrefix: "user-",
		},
	}

	if err := s.students.seed(seedStudents); err != nil {
		return nil, fmt.Errorf("jsonfile.New: seed students: %w", err)
	}

	return s, nil
}

// Students returns the students collection.
func (s *Store) Students() storage.Collection { return s.students }

// Alumni returns the alumni collection.
func (s *Store) Alumni() storage.Collection { return s.alumni }

// Users returns the users collection.
func (s *Store) Users() storage.Collection { return s.users }

// Authenticate looks a user up by username (linear scan, first match)
// and compares the stored password by exact string equality. On match
// it returns a copy of the user record with the password stripped, so
// the credential never reaches a response body.
//
// When users.json does not exist every login fails with "no match" —
// a missing file is an empty collection, never an error.
func (s *Store) Authenticate(username, password string) (storage.Record, bool) {
	for _, user := range s.users.ReadAll() {
		name, _ := user["username"].(string)
		if name != username {
			continue
		}
		stored, _ := user["password"].(string)
		if stored != password {
			return nil, false
		}
		view := user.Clone()
		delete(view, "password")
		return view, true
	}
	return nil, false
}

// Collection is one JSON-array-backed record set. The zero value is
// not usable; collections are built by New.
type Collection struct {
	path     string
	idPrefix string
}

// seed writes the given records to the backing file, but only when the
// file does not exist yet. An existing file — even an empty or broken
// one — is left alone.
func (c *Collection) seed(items []storage.Record) error {
	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

// ReadAll reads the backing file and parses it as a JSON array.
// Any failure — unreadable file, malformed JSON — is logged and
// surfaced as an empty collection. A missing file is the normal state
// for a collection nothing has written to, so it is not logged as an
// error.
func (c *Collection) ReadAll() []storage.Record {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("error reading collection",
				slog.String("path", c.path),
				slog.String("error", err.Error()))
		}
		return []storage.Record{}
	}

	var items []storage.Record
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Error("error parsing collection",
			slog.String("path", c.path),
			slog.String("error", err.Error()))
		return []storage.Record{}
	}
	if items == nil {
		// The file contained the literal "null". Treat as empty rather
		// than returning nil, so callers can range and append safely.
		items = []storage.Record{}
	}
	return items
}

// WriteAll serializes the full record set back to the backing file,
// pretty-printed, overwriting whatever was there. Returns false on
// failure — the caller gets a signal, never a panic.
func (c *Collection) WriteAll(items []storage.Record) bool {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		slog.Error("error serializing collection",
			slog.String("path", c.path),
			slog.String("error", err.Error()))
		return false
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		slog.Error("error writing collection",
			slog.String("path", c.path),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// GetByID does a linear scan for the first record whose id matches.
// Linear scan is fine here: collections are one school's worth of
// records, not millions of rows.
func (c *Collection) GetByID(id string) (storage.Record, bool) {
	for _, item := range c.ReadAll() {
		if item.ID() == id {
			return item, true
		}
	}
	return nil, false
}

// Create assigns a fresh id, appends the record, and persists the
// whole collection. A caller-supplied "id" field is overwritten — the
// store owns identity. The new record is returned even when the
// persist failed; creation is best-effort like every other operation.
func (c *Collection) Create(fields storage.Record) storage.Record {
	items := c.ReadAll()

	record := fields.Clone()
	record["id"] = c.nextID(items)

	items = append(items, record)
	c.WriteAll(items)
	return record
}

// Replace swaps the stored record for {id} + fields. This is a FULL
// replacement: any previously-set field the payload does not carry is
// gone afterwards. Returns (nil, false) without writing when the id is
// absent.
func (c *Collection) Replace(id string, fields storage.Record) (storage.Record, bool) {
	items := c.ReadAll()
	for i, item := range items {
		if item.ID() != id {
			continue
		}
		record := fields.Clone()
		record["id"] = id
		items[i] = record
		c.WriteAll(items)
		return record, true
	}
	return nil, false
}

// Merge overlays fields onto the stored record, keeping everything the
// payload does not mention. The id cannot be changed through a merge.
// Returns (nil, false) without writing when the id is absent.
func (c *Collection) Merge(id string, fields storage.Record) (storage.Record, bool) {
	items := c.ReadAll()
	for i, item := range items {
		if item.ID() != id {
			continue
		}
		record := item.Clone()
		for k, v := range fields {
			record[k] = v
		}
		record["id"] = id
		items[i] = record
		c.WriteAll(items)
		return record, true
	}
	return nil, false
}

// Delete filters out every record matching the id (ids are unique, so
// "every" means "the one"). Returns false — and skips the write — when
// nothing matched, so a failed delete leaves the file untouched.
func (c *Collection) Delete(id string) bool {
	items := c.ReadAll()

	filtered := make([]storage.Record, 0, len(items))
	for _, item := range items {
		if item.ID() != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return false
	}

	c.WriteAll(filtered)
	return true
}

// nextID derives a fresh id from the current time in milliseconds,
// prefixed per entity kind ("", "alumni-", "user-"). When two creates
// land in the same millisecond the candidate is bumped until it clears
// every id already in the collection, which keeps ids unique within a
// single process. Processes sharing a data directory can still collide.
func (c *Collection) nextID(items []storage.Record) string {
	taken := make(map[string]struct{}, len(items))
	for _, item := range items {
		taken[item.ID()] = struct{}{}
	}

	ms := time.Now().UnixMilli()
	for {
		id := c.idPrefix + strconv.FormatInt(ms, 10)
		if _, exists := taken[id]; !exists {
			return id
		}
		ms++
	}
}
