package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrValidation is the sentinel all validation failures wrap. Callers can
// test for it with errors.Is without caring which field was bad.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the candidate fields and, on success, returns a canonical
// Record with the grade already derived. A Record never exists without a
// grade matching its marks.
func Validate(roll int, name string, marks float64) (Record, error) {
	if roll <= 0 {
		return Record{}, &ValidationError{Field: "roll", Reason: "must be a positive integer"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	// NaN compares false against both bounds, so it needs its own check.
	if math.IsNaN(marks) || marks < 0 || marks > 100 {
		return Record{}, &ValidationError{Field: "marks", Reason: "must be between 0 and 100"}
	}
	return Record{
		Roll:  roll,
		Name:  name,
		Marks: marks,
		Grade: GradeOf(marks),
	}, nil
}
