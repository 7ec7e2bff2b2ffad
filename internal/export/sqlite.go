package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gradebook/internal/model"
)

// ArchiveRecord is one archived roster row. Every Write call tags its rows
// with a shared run ID so separate archive runs stay distinguishable.
type ArchiveRecord struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"index"`
	Roll       int
	Name       string
	Marks      float64
	Grade      string
	ArchivedAt time.Time
}

// SQLiteArchive appends roster snapshots to a standalone SQLite file for
// downstream analysis tools.
type SQLiteArchive struct {
	path string
}

func NewSQLiteArchive(path string) *SQLiteArchive {
	return &SQLiteArchive{path: path}
}

// Path returns the archive file location.
func (a *SQLiteArchive) Path() string {
	return a.path
}

// Write appends one row per record and returns the run ID for the batch.
func (a *SQLiteArchive) Write(records []model.Record) (string, error) {
	db, err := gorm.Open(sqlite.Open(a.path), &gorm.Config{})
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", a.path, err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := db.AutoMigrate(&ArchiveRecord{}); err != nil {
		return "", fmt.Errorf("migrate archive: %w", err)
	}

	runID := uuid.NewString()
	now := time.Now()
	rows := make([]ArchiveRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, ArchiveRecord{
			RunID:      runID,
			Roll:       r.Roll,
			Name:       r.Name,
			Marks:      r.Marks,
			Grade:      string(r.Grade),
			ArchivedAt: now,
		})
	}
	if len(rows) == 0 {
		return runID, nil
	}
	if err := db.CreateInBatches(rows, 100).Error; err != nil {
		return "", fmt.Errorf("write archive rows: %w", err)
	}
	return runID, nil
}
