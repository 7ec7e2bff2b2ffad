package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		roll      int
		studName  string
		marks     float64
		wantField string
	}{
		{"valid", 1, "Ann", 95, ""},
		{"zero marks valid", 2, "Bob", 0, ""},
		{"full marks valid", 3, "Cid", 100, ""},
		{"zero roll", 0, "Ann", 50, "roll"},
		{"negative roll", -3, "Ann", 50, "roll"},
		{"empty name", 1, "", 50, "name"},
		{"whitespace name", 1, "   \t", 50, "name"},
		{"marks below range", 1, "Ann", -0.5, "marks"},
		{"marks above range", 1, "Ann", 100.5, "marks"},
		{"marks NaN", 1, "Ann", math.NaN(), "marks"},
		{"marks +Inf", 1, "Ann", math.Inf(1), "marks"},
		{"marks -Inf", 1, "Ann", math.Inf(-1), "marks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Validate(tt.roll, tt.studName, tt.marks)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.roll, rec.Roll)
				assert.Equal(t, GradeOf(tt.marks), rec.Grade)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateTrimsName(t *testing.T) {
	rec, err := Validate(7, "  Dana  ", 81)
	require.NoError(t, err)
	assert.Equal(t, "Dana", rec.Name)
	assert.Equal(t, GradeA, rec.Grade)
}
