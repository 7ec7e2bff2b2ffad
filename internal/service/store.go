// Package service owns the in-memory roster and every operation on it:
// CRUD, search, sorting, statistics, ranking, and bulk import. The roster
// is flushed to its JSON file after every successful mutation, so memory
// and disk never diverge.
package service

import (
	"errors"
	"iter"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gradebook/internal/model"
	"gradebook/internal/storage"
)

// ErrNotFound is returned when an operation targets a roll that is not in
// the roster. Deleting an absent roll is an error, not a no-op, so callers
// can tell "nothing happened" from "already gone".
var ErrNotFound = errors.New("record not found")

// SortKey selects the field an ordered view is sorted by.
type SortKey string

const (
	SortByRoll  SortKey = "roll"
	SortByName  SortKey = "name"
	SortByMarks SortKey = "marks"
)

// ParseSortKey maps a request parameter onto a SortKey, defaulting to roll.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByName:
		return SortByName
	case SortByMarks:
		return SortByMarks
	default:
		return SortByRoll
	}
}

// Store is the authoritative roster. All reads hand out copies; the
// internal map is never shared with callers.
type Store struct {
	mu      sync.RWMutex
	path    string
	log     *slog.Logger
	records map[int]model.Record
}

// Open loads the roster at path, repairing it if needed. If the loader had
// to repair anything (or found the file unrecoverable), the cleaned-up
// roster is written back immediately so the next load is a plain read.
func Open(path string, log *slog.Logger) (*Store, storage.RepairReport, error) {
	if log == nil {
		log = slog.Default()
	}
	records, report := storage.NewLoader(path, log).Load()

	s := &Store{
		path:    path,
		log:     log,
		records: make(map[int]model.Record, len(records)),
	}
	for _, r := range records {
		s.records[r.Roll] = r
	}

	if !report.Clean() {
		if err := s.persist(); err != nil {
			return nil, report, err
		}
	}
	return s, report, nil
}

// Add validates the fields and inserts a new record. The roll must not be
// in use. On any failure the roster is unchanged.
func (s *Store) Add(roll int, name string, marks float64) (model.Record, error) {
	rec, err := model.Validate(roll, name, marks)
	if err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[roll]; exists {
		return model.Record{}, &model.ValidationError{Field: "roll", Reason: "already in use"}
	}
	s.records[roll] = rec
	if err := s.persist(); err != nil {
		delete(s.records, roll)
		return model.Record{}, err
	}
	return rec, nil
}

// Update re-validates the fields for an existing roll and replaces the
// record. The roll itself is immutable; changing identity is delete+add.
func (s *Store) Update(roll int, name string, marks float64) (model.Record, error) {
	rec, err := model.Validate(roll, name, marks)
	if err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.records[roll]
	if !exists {
		return model.Record{}, ErrNotFound
	}
	s.records[roll] = rec
	if err := s.persist(); err != nil {
		s.records[roll] = prev
		return model.Record{}, err
	}
	return rec, nil
}

// Delete removes the record for roll. Absent rolls are an error.
func (s *Store) Delete(roll int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.records[roll]
	if !exists {
		return ErrNotFound
	}
	delete(s.records, roll)
	if err := s.persist(); err != nil {
		s.records[roll] = prev
		return err
	}
	return nil
}

// Get returns the record for roll.
func (s *Store) Get(roll int) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[roll]
	if !exists {
		return model.Record{}, ErrNotFound
	}
	return rec, nil
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Find yields records whose name contains query (case-insensitive) or whose
// roll matches it exactly. An empty query matches everything. The sequence
// iterates a point-in-time snapshot in roll order, so ranging it a second
// time replays the same results and never observes later mutations.
func (s *Store) Find(query string) iter.Seq[model.Record] {
	q := strings.ToLower(strings.TrimSpace(query))
	records := s.Snapshot()
	return func(yield func(model.Record) bool) {
		for _, r := range records {
			if !matches(r, q) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

func matches(r model.Record, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	return strconv.Itoa(r.Roll) == q
}

// SortedBy returns an ordered view of the roster, rebuilt from the live
// mapping on every call. Descending order is the exact reverse of the
// ascending one.
func (s *Store) SortedBy(key SortKey, descending bool) []model.Record {
	return model.SortBy(s.Snapshot(), string(key), descending)
}

// Stats computes the aggregate statistics snapshot for the full roster.
func (s *Store) Stats() model.Statistics {
	return model.StatisticsOf(s.Snapshot())
}

// Rank returns the roster ordered by marks descending, ties by roll.
func (s *Store) Rank() []model.Record {
	return model.Ranked(s.Snapshot())
}

// Snapshot returns an independent copy of all records, sorted by roll.
// Export consumers can hold it without touching the live roster.
func (s *Store) Snapshot() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []model.Record {
	records := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Roll < records[j].Roll })
	return records
}

// persist flushes the roster to disk. Callers must hold the write lock and
// roll back their in-memory change if this fails.
func (s *Store) persist() error {
	return storage.Save(s.path, s.snapshotLocked())
}
