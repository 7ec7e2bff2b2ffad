// Package model holds the core roster types: the student Record, the
// derived Grade, field validation, and the pure statistics and ranking
// functions everything else is built on.
package model

// Grade is a letter grade derived from marks. It is never stored as an
// independent input; it is always recomputed from the marks it belongs to.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeN Grade = "N"
)

// GradeOrder lists all grades from best to worst.
var GradeOrder = []Grade{GradeS, GradeA, GradeB, GradeC, GradeD, GradeE, GradeN}

// IsValid reports whether g is one of the known letter grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeS, GradeA, GradeB, GradeC, GradeD, GradeE, GradeN:
		return true
	}
	return false
}

// GradeOf maps marks to a letter grade. Bands have inclusive lower bounds:
// 90+ is S, 80-89 A, 70-79 B, 60-69 C, 50-59 D, 40-49 E, below 40 N.
func GradeOf(marks float64) Grade {
	switch {
	case marks >= 90:
		return GradeS
	case marks >= 80:
		return GradeA
	case marks >= 70:
		return GradeB
	case marks >= 60:
		return GradeC
	case marks >= 50:
		return GradeD
	case marks >= 40:
		return GradeE
	default:
		return GradeN
	}
}

// Record is one student's entry in the roster. Roll is the primary key and
// is immutable once the record exists. Grade is derived from Marks.
type Record struct {
	Roll  int     `json:"roll"`
	Name  string  `json:"name"`
	Marks float64 `json:"marks"`
	Grade Grade   `json:"grade"`
}
