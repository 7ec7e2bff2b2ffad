package report

import (
	"fmt"
	"strconv"
	"time"

	"gradebook/internal/model"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildLineChart produces the marks-by-rank line chart. Callers pass the
// ranked order (model.Ranked); point labels are the rank positions.
func BuildLineChart(ranked []model.Record) *ChartConfig {
	if len(ranked) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(ranked))
	for i, r := range ranked {
		points = append(points, ChartPoint{
			Label: strconv.Itoa(i + 1),
			Value: r.Marks,
		})
	}

	return &ChartConfig{
		ChartType: "line",
		Title:     "Marks Trend",
		XAxis:     "Rank",
		YAxis:     "Marks",
		Series: []ChartSeries{{
			Name:  "Marks",
			Data:  points,
			Color: defaultColors[0],
		}},
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildBarChart produces the per-student bar chart, one bar per record in
// the order given, labelled with roll and name.
func BuildBarChart(records []model.Record) *ChartConfig {
	if len(records) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(records))
	for _, r := range records {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%d %s", r.Roll, r.Name),
			Value: r.Marks,
		})
	}

	return &ChartConfig{
		ChartType: "bar",
		Title:     "Performance Overview",
		XAxis:     "Student",
		YAxis:     "Marks",
		Series: []ChartSeries{{
			Name:  "Marks",
			Data:  points,
			Color: defaultColors[2],
		}},
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildPieChart produces the grade-distribution pie from a statistics
// snapshot. Slices appear best-to-worst; empty buckets are omitted.
func BuildPieChart(stats model.Statistics) *ChartConfig {
	if stats.Count == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(stats.Distribution))
	for _, g := range model.GradeOrder {
		if n := stats.Distribution[g]; n > 0 {
			points = append(points, ChartPoint{Label: string(g), Value: float64(n)})
		}
	}

	colors := make([]string, len(points))
	for i := range points {
		colors[i] = defaultColors[i%len(defaultColors)]
	}

	return &ChartConfig{
		ChartType: "pie",
		Title:     "Grade Distribution",
		Series: []ChartSeries{{
			Name: "Grades",
			Data: points,
		}},
		Colors:     colors,
		ShowLegend: true,
		ShowGrid:   false,
	}
}

// BuildReport assembles the class report: statistics plus the ranked table.
// Callers pass the ranked order so ranks line up with the charts.
func BuildReport(title string, stats model.Statistics, ranked []model.Record) *ReportData {
	rows := make([]ReportRow, 0, len(ranked))
	for i, r := range ranked {
		rows = append(rows, ReportRow{
			Rank:  i + 1,
			Roll:  r.Roll,
			Name:  r.Name,
			Marks: r.Marks,
			Grade: r.Grade,
		})
	}

	return &ReportData{
		Title:       title,
		GeneratedAt: time.Now(),
		Stats:       stats,
		Rows:        rows,
	}
}
