// Package export writes roster snapshots for external consumers: a ranked
// CSV report and a SQLite archive file. Both operate on snapshot copies and
// impose no ordering of their own.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"gradebook/internal/model"
)

// WriteCSV writes a header row and one row per record, in exactly the order
// given. The Rank column is the row position, so passing model.Ranked(...)
// produces the classic ranked report.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rank", "Roll", "Name", "Marks", "Grade"}); err != nil {
		return err
	}
	for i, r := range records {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Roll),
			r.Name,
			strconv.FormatFloat(r.Marks, 'f', -1, 64),
			string(r.Grade),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
