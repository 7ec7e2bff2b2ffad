package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gradebook/internal/model"
)

// ImportReport summarizes a bulk CSV import.
type ImportReport struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// ImportCSV reads roster rows from r and adds them one by one. The expected
// columns are roll, name, marks, preceded by a header row. Rows that fail
// validation or collide with an existing roll are skipped and counted, not
// fatal; a malformed stream aborts with whatever was already added kept.
func (s *Store) ImportCSV(r io.Reader) (ImportReport, error) {
	var report ImportReport

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return report, fmt.Errorf("read csv header: %w", err)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) < 3 {
			report.Skipped++
			continue
		}

		roll, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			report.Skipped++
			continue
		}
		marks, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			report.Skipped++
			continue
		}

		if _, err := s.Add(roll, row[1], marks); err != nil {
			if errors.Is(err, model.ErrValidation) {
				s.log.Warn("skipping csv row", "roll", roll, "error", err)
				report.Skipped++
				continue
			}
			return report, err
		}
		report.Added++
	}
	return report, nil
}
