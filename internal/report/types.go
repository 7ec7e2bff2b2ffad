// Package report builds render-ready data for the chart and PDF
// collaborators. It produces plain structs; drawing pixels and laying out
// pages is entirely the consumer's problem.
package report

import (
	"time"

	"gradebook/internal/model"
)

// ChartConfig describes how to render one chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "line", "bar", "pie"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries is a named run of data points.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a single labelled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ReportRow is one line of the ranked report table.
type ReportRow struct {
	Rank  int         `json:"rank"`
	Roll  int         `json:"roll"`
	Name  string      `json:"name"`
	Marks float64     `json:"marks"`
	Grade model.Grade `json:"grade"`
}

// ReportData is everything the PDF collaborator needs for a class report:
// a stats block and the ranked table.
type ReportData struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Stats       model.Statistics `json:"stats"`
	Rows        []ReportRow      `json:"rows"`
}
