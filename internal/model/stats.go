package model

import (
	"math"
	"sort"
)

// Statistics is an aggregate snapshot over a set of records. A Count of
// zero is the "no data" value; the numeric fields are all zero and the
// distribution is empty rather than nil.
type Statistics struct {
	Count        int           `json:"count"`
	Max          float64       `json:"max"`
	Min          float64       `json:"min"`
	Average      float64       `json:"average"`
	Distribution map[Grade]int `json:"distribution"`
}

// StatisticsOf computes class statistics from records. The average is
// rounded to 2 decimal places for display stability.
func StatisticsOf(records []Record) Statistics {
	stats := Statistics{Distribution: make(map[Grade]int)}
	if len(records) == 0 {
		return stats
	}

	stats.Count = len(records)
	stats.Max = records[0].Marks
	stats.Min = records[0].Marks

	var sum float64
	for _, r := range records {
		if r.Marks > stats.Max {
			stats.Max = r.Marks
		}
		if r.Marks < stats.Min {
			stats.Min = r.Marks
		}
		sum += r.Marks
		stats.Distribution[GradeOf(r.Marks)]++
	}
	stats.Average = roundTo2(sum / float64(len(records)))
	return stats
}

// Ranked returns a new slice sorted by marks descending, ties broken by
// roll ascending so the order is reproducible. The input is not modified.
func Ranked(records []Record) []Record {
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Marks != ranked[j].Marks {
			return ranked[i].Marks > ranked[j].Marks
		}
		return ranked[i].Roll < ranked[j].Roll
	})
	return ranked
}

// SortBy returns a new slice ordered by key ("roll", "name", or "marks";
// anything else falls back to roll). Ties break on roll so the order is
// deterministic, and descending is the exact reverse of ascending. The
// input is not modified.
func SortBy(records []Record, key string, descending bool) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		switch key {
		case "name":
			if sorted[i].Name != sorted[j].Name {
				return sorted[i].Name < sorted[j].Name
			}
		case "marks":
			if sorted[i].Marks != sorted[j].Marks {
				return sorted[i].Marks < sorted[j].Marks
			}
		}
		return sorted[i].Roll < sorted[j].Roll
	})
	if descending {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	return sorted
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
