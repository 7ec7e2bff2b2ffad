package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/model"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students.json")
	store, _, err := Open(path, nil)
	require.NoError(t, err)
	return store, path
}

func TestAddAndGet(t *testing.T) {
	store, _ := openStore(t)

	rec, err := store.Add(1, "Ann", 95)
	require.NoError(t, err)
	assert.Equal(t, model.GradeS, rec.Grade)

	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = store.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDuplicateRollFails(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Add(1, "Ann", 95)
	require.NoError(t, err)

	_, err = store.Add(1, "Impostor", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "roll", verr.Field)

	// The roster is unchanged.
	assert.Equal(t, 1, store.Len())
	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestAddInvalidFieldsLeaveStoreUnchanged(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Add(0, "Ann", 95)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = store.Add(1, " ", 95)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = store.Add(1, "Ann", 101)
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Equal(t, 0, store.Len())
}

func TestUpdate(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Add(1, "Ann", 95)
	require.NoError(t, err)

	rec, err := store.Update(1, "Ann", 55)
	require.NoError(t, err)
	assert.Equal(t, 55.0, rec.Marks)
	assert.Equal(t, model.GradeD, rec.Grade)

	_, err = store.Update(2, "Ghost", 50)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Update(1, "", 50)
	assert.ErrorIs(t, err, model.ErrValidation)
	got, _ := store.Get(1)
	assert.Equal(t, "Ann", got.Name, "failed update must not change the record")
}

func TestDeleteNotIdempotent(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Add(1, "Ann", 95)
	require.NoError(t, err)

	require.NoError(t, store.Delete(1))
	assert.ErrorIs(t, store.Delete(1), ErrNotFound)
}

func TestFind(t *testing.T) {
	store, _ := openStore(t)

	mustAdd(t, store, 1, "Ann Smith", 95)
	mustAdd(t, store, 2, "Bob Jones", 42)
	mustAdd(t, store, 12, "Annabel Lee", 73)

	assert.Equal(t, []int{1, 12}, findRolls(store, "ann"))
	assert.Equal(t, []int{1, 12}, findRolls(store, "ANN"))
	assert.Equal(t, []int{2}, findRolls(store, "jones"))

	// Roll matching is exact: "1" must not match roll 12.
	assert.Equal(t, []int{1}, findRolls(store, "1"))
	assert.Equal(t, []int{12}, findRolls(store, "12"))

	// Empty query matches everything.
	assert.Equal(t, []int{1, 2, 12}, findRolls(store, ""))
	assert.Empty(t, findRolls(store, "zzz"))
}

func TestFindIsRestartableAndDetached(t *testing.T) {
	store, _ := openStore(t)
	mustAdd(t, store, 1, "Ann", 95)
	mustAdd(t, store, 2, "Bob", 42)

	seq := store.Find("")

	first := collect(seq)
	require.Len(t, first, 2)

	// Mutating the store must not change an already-obtained sequence.
	require.NoError(t, store.Delete(2))
	second := collect(seq)
	assert.Equal(t, first, second)
}

func TestSortedByReversal(t *testing.T) {
	store, _ := openStore(t)
	mustAdd(t, store, 3, "Cid", 61)
	mustAdd(t, store, 1, "Ann", 95)
	mustAdd(t, store, 2, "Bob", 42)

	for _, key := range []SortKey{SortByRoll, SortByName, SortByMarks} {
		asc := store.SortedBy(key, false)
		desc := store.SortedBy(key, true)
		require.Len(t, desc, len(asc))
		for i := range asc {
			assert.Equal(t, asc[i], desc[len(desc)-1-i], "key %s", key)
		}
	}

	asc := store.SortedBy(SortByRoll, false)
	assert.Equal(t, []int{1, 2, 3}, rolls(asc))
}

func TestRankDeterministic(t *testing.T) {
	store, _ := openStore(t)
	mustAdd(t, store, 3, "Cid", 70)
	mustAdd(t, store, 1, "Ann", 90)
	mustAdd(t, store, 2, "Bob", 70)

	assert.Equal(t, []int{1, 2, 3}, rolls(store.Rank()))
}

func TestStatsScenario(t *testing.T) {
	store, _ := openStore(t)

	rec, err := store.Add(1, "Ann", 95)
	require.NoError(t, err)
	assert.Equal(t, model.GradeS, rec.Grade)

	rec, err = store.Add(2, "Bob", 42)
	require.NoError(t, err)
	assert.Equal(t, model.GradeE, rec.Grade)

	stats := store.Stats()
	assert.Equal(t, 95.0, stats.Max)
	assert.Equal(t, 42.0, stats.Min)
	assert.Equal(t, 68.5, stats.Average)
	assert.Equal(t, map[model.Grade]int{model.GradeS: 1, model.GradeE: 1}, stats.Distribution)

	require.NoError(t, store.Delete(2))

	stats = store.Stats()
	assert.Equal(t, 95.0, stats.Max)
	assert.Equal(t, 95.0, stats.Min)
	assert.Equal(t, 95.0, stats.Average)
	assert.Equal(t, map[model.Grade]int{model.GradeS: 1}, stats.Distribution)
}

func TestSnapshotIsDetached(t *testing.T) {
	store, _ := openStore(t)
	mustAdd(t, store, 1, "Ann", 95)

	snap := store.Snapshot()
	snap[0].Name = "Tampered"
	snap[0].Marks = 0

	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, 95.0, got.Marks)
}

func TestMutationsPersistAcrossReopen(t *testing.T) {
	store, path := openStore(t)
	mustAdd(t, store, 1, "Ann", 95)
	mustAdd(t, store, 2, "Bob", 42)
	_, err := store.Update(2, "Bob", 52)
	require.NoError(t, err)

	reopened, report, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.Equal(t, store.Snapshot(), reopened.Snapshot())
}

func TestOpenCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "students.json")
	require.NoError(t, os.WriteFile(path, []byte("not json {{{"), 0644))

	store, report, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report.Unrecoverable)
	assert.Equal(t, 0, store.Len())

	// Opening rewrote a canonical empty file, so the next load is clean.
	_, report2, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report2.Clean())

	// And normal operation works from there.
	_, err = store.Add(1, "Ann", 95)
	require.NoError(t, err)

	reopened, report3, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report3.Clean())
	assert.Equal(t, 1, reopened.Len())
}

func TestOpenRepairedRosterIsRewrittenImmediately(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "students.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": {"name": "Ann", "marks": "95"}}`), 0644))

	store, report, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Migrated)
	assert.Equal(t, 1, store.Len())

	// Without any further mutation the file on disk is already canonical.
	reopened, report2, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report2.Clean())
	assert.Equal(t, store.Snapshot(), reopened.Snapshot())
}

func TestOpenRewritesEmptyLegacyMapDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "students.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	store, report, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report.LegacyLayout)
	assert.Equal(t, 0, store.Len())

	// The empty map shape is gone from disk after the first open.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	_, report2, err := Open(path, nil)
	require.NoError(t, err)
	assert.True(t, report2.Clean())
}

func mustAdd(t *testing.T, store *Store, roll int, name string, marks float64) {
	t.Helper()
	_, err := store.Add(roll, name, marks)
	require.NoError(t, err)
}

func findRolls(store *Store, query string) []int {
	var out []int
	for rec := range store.Find(query) {
		out = append(out, rec.Roll)
	}
	return out
}

func collect(seq func(func(model.Record) bool)) []model.Record {
	var out []model.Record
	for rec := range seq {
		out = append(out, rec)
	}
	return out
}

func rolls(records []model.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Roll
	}
	return out
}
