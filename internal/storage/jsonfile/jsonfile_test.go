package jsonfile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/records-api/internal/config"
	"github.com/schoolhub/records-api/internal/storage"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(&config.Config{Env: "dev", DataDir: dir})
	require.NoError(t, err)
	return s, dir
}

func TestNew_SeedsStudentsOnly(t *testing.T) {
	_, dir := newTestStore(t)

	// students.json gets the two example records on first run.
	data, err := os.ReadFile(filepath.Join(dir, "students.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "John Doe")
	assert.Contains(t, string(data), "Jane Smith")

	// alumni.json and users.json are NOT created until first write.
	// Inherited asymmetry, pinned here so nobody "fixes" it by accident.
	_, err = os.Stat(filepath.Join(dir, "alumni.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "users.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestNew_DoesNotReseedExistingFile(t *testing.T) {
	s, dir := newTestStore(t)

	require.True(t, s.Students().Delete("1"))

	// A second construction against the same directory must leave the
	// existing file alone.
	s2, err := New(&config.Config{Env: "dev", DataDir: dir})
	require.NoError(t, err)

	items := s2.Students().ReadAll()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID())
}

func TestReadAll_MissingFileReadsAsEmpty(t *testing.T) {
	s, dir := newTestStore(t)

	items := s.Alumni().ReadAll()
	assert.NotNil(t, items)
	assert.Empty(t, items)

	// Reading must not create the file as a side effect.
	_, err := os.Stat(filepath.Join(dir, "alumni.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadAll_CorruptFileReadsAsEmpty(t *testing.T) {
	s, dir := newTestStore(t)

	// The silent-failure policy: a broken file degrades to an empty
	// collection rather than an error. Callers cannot tell the two
	// apart — that is the documented weakness, not a bug.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "alumni.json"), []byte("{not json"), 0o644))

	items := s.Alumni().ReadAll()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestWriteAll_RoundTrip(t *testing.T) {
	s, dir := newTestStore(t)

	records := []storage.Record{
		{"id": "alumni-1", "name": "Ana", "graduationYear": "2015", "score": float64(88)},
		{"id": "alumni-2", "name": "Ben", "graduationYear": "2018", "score": float64(91)},
	}
	require.True(t, s.Alumni().WriteAll(records))

	// Same records, same order, same field values.
	assert.Equal(t, records, s.Alumni().ReadAll())

	// Persisted pretty-printed with 2-space indentation.
	data, err := os.ReadFile(filepath.Join(dir, "alumni.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"))
}

func TestCreate_AssignsUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)

	// Rapid creates land in the same millisecond; the generator must
	// still hand out distinct ids.
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		rec := s.Students().Create(storage.Record{"name": "Bulk"})
		id := rec.ID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}

	// Every id in the persisted collection is distinct too.
	all := s.Students().ReadAll()
	ids := map[string]bool{}
	for _, item := range all {
		require.False(t, ids[item.ID()])
		ids[item.ID()] = true
	}
}

func TestCreate_OverwritesCallerSuppliedID(t *testing.T) {
	s, _ := newTestStore(t)

	rec := s.Students().Create(storage.Record{"id": "chosen-by-caller", "name": "X"})
	assert.NotEqual(t, "chosen-by-caller", rec.ID())
}

func TestCreate_IDSchemePerKind(t *testing.T) {
	s, _ := newTestStore(t)

	// Students get bare decimal timestamps; alumni and users get a
	// kind prefix in front of the same timestamp form.
	st := s.Students().Create(storage.Record{"name": "S"})
	_, err := strconv.ParseInt(st.ID(), 10, 64)
	assert.NoError(t, err)

	al := s.Alumni().Create(storage.Record{"name": "A"})
	assert.True(t, strings.HasPrefix(al.ID(), "alumni-"))

	us := s.Users().Create(storage.Record{"username": "u"})
	assert.True(t, strings.HasPrefix(us.ID(), "user-"))
}

func TestReplace_IsFullReplacement(t *testing.T) {
	s, _ := newTestStore(t)

	rec := s.Students().Create(storage.Record{
		"name": "Ann", "email": "a@x.com", "phone": "555",
	})

	updated, ok := s.Students().Replace(rec.ID(), storage.Record{"name": "Ann B"})
	require.True(t, ok)

	// Fields not in the payload are gone afterwards.
	assert.Equal(t, "Ann B", updated["name"])
	_, hasEmail := updated["email"]
	assert.False(t, hasEmail)

	// And the replacement is persisted, not just returned.
	stored, ok := s.Students().GetByID(rec.ID())
	require.True(t, ok)
	assert.Equal(t, updated, stored)
}

func TestReplace_AbsentIDHasNoSideEffect(t *testing.T) {
	s, dir := newTestStore(t)

	_, ok := s.Alumni().Replace("alumni-nope", storage.Record{"name": "X"})
	assert.False(t, ok)

	// No write happened; the file was never even created.
	_, err := os.Stat(filepath.Join(dir, "alumni.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestMerge_PreservesUnspecifiedFields(t *testing.T) {
	s, _ := newTestStore(t)

	user := s.Users().Create(storage.Record{
		"username": "jdoe", "password": "pw", "role": "student", "studentId": "1",
	})

	updated, ok := s.Users().Merge(user.ID(), storage.Record{"role": "admin"})
	require.True(t, ok)

	// Merge overlays; everything else survives. This is the deliberate
	// asymmetry with Replace — users get partial updates, students and
	// alumni get full replacement.
	assert.Equal(t, "admin", updated["role"])
	assert.Equal(t, "jdoe", updated["username"])
	assert.Equal(t, "1", updated["studentId"])

	stored, ok := s.Users().GetByID(user.ID())
	require.True(t, ok)
	assert.Equal(t, updated, stored)
}

func TestMerge_CannotChangeID(t *testing.T) {
	s, _ := newTestStore(t)

	user := s.Users().Create(storage.Record{"username": "jdoe"})

	updated, ok := s.Users().Merge(user.ID(), storage.Record{"id": "user-hijack"})
	require.True(t, ok)
	assert.Equal(t, user.ID(), updated.ID())
}

func TestMerge_AbsentID(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok := s.Users().Merge("user-nope", storage.Record{"role": "admin"})
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.Students().Delete("1"))

	items := s.Students().ReadAll()
	require.Len(t, items, 1)
	_, ok := s.Students().GetByID("1")
	assert.False(t, ok)

	// Deleting the same id again signals failure and changes nothing.
	before := s.Students().ReadAll()
	assert.False(t, s.Students().Delete("1"))
	assert.Equal(t, before, s.Students().ReadAll())
}

func TestDelete_AbsentIDLeavesCollectionUnchanged(t *testing.T) {
	s, _ := newTestStore(t)

	before := s.Students().ReadAll()
	assert.False(t, s.Students().Delete("does-not-exist"))
	assert.Equal(t, before, s.Students().ReadAll())
}

// TestWriteAll_LastWriterWins pins the accepted concurrency limitation:
// there is no locking, so of two writers that each read the collection
// and then write, the later write discards the earlier one (a "lost
// update"). This is a documented property of the design, not a bug.
func TestWriteAll_LastWriterWins(t *testing.T) {
	s, _ := newTestStore(t)

	snapshotA := s.Students().ReadAll()
	snapshotB := s.Students().ReadAll()

	withA := append(snapshotA, storage.Record{"id": "a", "name": "Writer A"})
	withB := append(snapshotB, storage.Record{"id": "b", "name": "Writer B"})

	require.True(t, s.Students().WriteAll(withA))
	require.True(t, s.Students().WriteAll(withB))

	final := s.Students().ReadAll()
	_, hasB := s.Students().GetByID("b")
	_, hasA := s.Students().GetByID("a")
	assert.True(t, hasB)
	assert.False(t, hasA, "earlier concurrent write should be discarded")
	assert.Len(t, final, 3)
}

func TestAuthenticate(t *testing.T) {
	s, _ := newTestStore(t)

	created := s.Users().Create(storage.Record{
		"username": "admin", "password": "admin@123", "role": "admin",
	})

	user, ok := s.Authenticate("admin", "admin@123")
	require.True(t, ok)

	// The returned view never carries the password...
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])

	// ...but the stored record still does — Authenticate returns a copy.
	stored, ok := s.Users().GetByID(created.ID())
	require.True(t, ok)
	assert.Equal(t, "admin@123", stored["password"])
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	s, _ := newTestStore(t)
	s.Users().Create(storage.Record{"username": "admin", "password": "admin@123"})

	_, ok := s.Authenticate("admin", "wrong")
	assert.False(t, ok)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	s, _ := newTestStore(t)
	s.Users().Create(storage.Record{"username": "admin", "password": "admin@123"})

	_, ok := s.Authenticate("nobody", "admin@123")
	assert.False(t, ok)
}

func TestAuthenticate_NoUsersFile(t *testing.T) {
	s, _ := newTestStore(t)

	// Before anyone provisions users.json, every login must fail as a
	// plain credential mismatch — a missing file is an empty collection.
	_, ok := s.Authenticate("admin", "admin@123")
	assert.False(t, ok)
}
