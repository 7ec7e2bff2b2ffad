// Package storage reads and writes the roster's backing JSON document.
// Loading never fails: malformed or legacy data is repaired where possible
// and degraded to an empty roster where not, so the application always
// starts with a usable state.
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"gradebook/internal/model"
)

// RepairReport summarizes what Load had to do to produce usable records.
type RepairReport struct {
	// Initialized is true when no data file existed and the roster starts fresh.
	Initialized bool `json:"initialized"`
	// Unrecoverable is true when the file existed but could not be parsed at
	// all. The caller should write a fresh canonical file immediately.
	Unrecoverable bool `json:"unrecoverable"`
	// LegacyLayout is true when the document used the old map top-level
	// shape, even if it held no entries. The file needs a canonical rewrite.
	LegacyLayout bool `json:"legacy_layout"`
	// Loaded counts records that survived loading.
	Loaded int `json:"loaded"`
	// Migrated counts records that needed conversion from a legacy shape.
	Migrated int `json:"migrated"`
	// Dropped counts entries that could not be mapped to a valid record.
	Dropped int `json:"dropped"`
}

// Clean reports whether the load was a plain read with no repairs.
func (r RepairReport) Clean() bool {
	return !r.Initialized && !r.Unrecoverable && !r.LegacyLayout && r.Migrated == 0 && r.Dropped == 0
}

// Loader reads the roster document at a fixed path.
type Loader struct {
	path string
	log  *slog.Logger
}

func NewLoader(path string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{path: path, log: log}
}

// Load reads, repairs, and validates the persisted roster. It never returns
// an error: a missing file yields an empty roster with Initialized set, and
// an unparsable file yields an empty roster with Unrecoverable set.
// Persisting the repaired result is the caller's job.
func (l *Loader) Load() ([]model.Record, RepairReport) {
	var report RepairReport

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			report.Initialized = true
			l.log.Info("no data file, starting fresh", "path", l.path)
			return []model.Record{}, report
		}
		report.Unrecoverable = true
		l.log.Warn("data file unreadable, starting empty", "path", l.path, "error", err)
		return []model.Record{}, report
	}

	entries, legacy, ok := decodeDocument(data)
	if !ok {
		report.Unrecoverable = true
		l.log.Warn("data file unparsable, starting empty", "path", l.path)
		return []model.Record{}, report
	}
	report.LegacyLayout = legacy

	records := make([]model.Record, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, raw := range entries {
		rec, migrated, ok := migrateEntry(raw)
		if !ok {
			report.Dropped++
			continue
		}
		if seen[rec.Roll] {
			report.Dropped++
			l.log.Warn("dropping duplicate roll", "roll", rec.Roll)
			continue
		}
		seen[rec.Roll] = true
		if migrated {
			report.Migrated++
		}
		records = append(records, rec)
	}

	report.Loaded = len(records)
	if !report.Clean() {
		l.log.Info("repaired data file",
			"loaded", report.Loaded, "migrated", report.Migrated, "dropped", report.Dropped)
	}
	return records, report
}

// decodeDocument accepts the canonical top-level shape (an array of entry
// objects) or the legacy map shape (roll → entry). It returns the per-entry
// raw messages, whether the document was map-shaped, and whether decoding
// succeeded at all.
func decodeDocument(data []byte) ([]json.RawMessage, bool, bool) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, false, true
	}

	var byRoll map[string]json.RawMessage
	if err := json.Unmarshal(data, &byRoll); err != nil {
		return nil, false, false
	}

	// Re-wrap each legacy map entry as {"roll": ..., "value": ...} so the
	// entry migrators see the roll. Keys are sorted for a deterministic
	// record order.
	rolls := make([]string, 0, len(byRoll))
	for roll := range byRoll {
		rolls = append(rolls, roll)
	}
	sort.Strings(rolls)

	entries = make([]json.RawMessage, 0, len(byRoll))
	for _, roll := range rolls {
		wrapped, err := json.Marshal(legacyMapEntry{Roll: roll, Value: byRoll[roll]})
		if err != nil {
			continue
		}
		entries = append(entries, wrapped)
	}
	return entries, true, true
}

type legacyMapEntry struct {
	Roll  string          `json:"legacy_roll"`
	Value json.RawMessage `json:"legacy_value"`
}

// An entryMigrator tries to read one raw entry into a valid Record. The
// first migrator is the canonical shape; the rest handle legacy shapes in
// order. Each is independently testable against a fixed sample.
type entryMigrator func(json.RawMessage) (model.Record, bool)

var entryMigrators = []entryMigrator{
	migrateCanonical,
	migrateTextMarks,
	migrateAltFields,
	migrateLegacyMapValue,
}

// migrateEntry runs the migrator chain. It reports whether the entry needed
// a non-canonical migrator.
func migrateEntry(raw json.RawMessage) (model.Record, bool, bool) {
	for i, m := range entryMigrators {
		if rec, ok := m(raw); ok {
			return rec, i > 0, true
		}
	}
	return model.Record{}, false, false
}

// migrateCanonical handles the current shape. The stored grade, if any, is
// ignored: grades are always recomputed from marks.
func migrateCanonical(raw json.RawMessage) (model.Record, bool) {
	var entry struct {
		Roll  int     `json:"roll"`
		Name  string  `json:"name"`
		Marks float64 `json:"marks"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.Record{}, false
	}
	rec, err := model.Validate(entry.Roll, entry.Name, entry.Marks)
	return rec, err == nil
}

// migrateTextMarks handles entries whose marks were stored as text.
func migrateTextMarks(raw json.RawMessage) (model.Record, bool) {
	var entry struct {
		Roll  int    `json:"roll"`
		Name  string `json:"name"`
		Marks string `json:"marks"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.Record{}, false
	}
	marks, err := strconv.ParseFloat(strings.TrimSpace(entry.Marks), 64)
	if err != nil {
		return model.Record{}, false
	}
	rec, err := model.Validate(entry.Roll, entry.Name, marks)
	return rec, err == nil
}

// migrateAltFields handles the older field-naming convention
// (roll_no / student_name / score), with marks numeric or text.
func migrateAltFields(raw json.RawMessage) (model.Record, bool) {
	var entry struct {
		Roll  int             `json:"roll_no"`
		Name  string          `json:"student_name"`
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.Record{}, false
	}
	marks, ok := looseMarks(entry.Score)
	if !ok {
		return model.Record{}, false
	}
	rec, err := model.Validate(entry.Roll, entry.Name, marks)
	return rec, err == nil
}

// migrateLegacyMapValue handles entries rewrapped from the legacy map
// document: the value is either {"name": ..., "marks": ...} or bare marks.
func migrateLegacyMapValue(raw json.RawMessage) (model.Record, bool) {
	var entry legacyMapEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Roll == "" {
		return model.Record{}, false
	}
	roll, err := strconv.Atoi(strings.TrimSpace(entry.Roll))
	if err != nil {
		return model.Record{}, false
	}

	var info struct {
		Name  string          `json:"name"`
		Marks json.RawMessage `json:"marks"`
	}
	if err := json.Unmarshal(entry.Value, &info); err == nil && info.Name != "" {
		marks, ok := looseMarks(info.Marks)
		if !ok {
			return model.Record{}, false
		}
		rec, err := model.Validate(roll, info.Name, marks)
		return rec, err == nil
	}

	// Oldest shape: the value is just the marks.
	marks, ok := looseMarks(entry.Value)
	if !ok {
		return model.Record{}, false
	}
	rec, err := model.Validate(roll, "UNKNOWN", marks)
	return rec, err == nil
}

// looseMarks reads a marks value that may be a JSON number or a numeric string.
func looseMarks(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
