package handler

import (
	"net/http"

	"gradebook/internal/report"
	"gradebook/internal/service"
)

const reportTitle = "Student Grade Report"

type ReportHandler struct {
	store *service.Store
}

func NewReportHandler(store *service.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// LineChart returns the marks-by-rank line chart data.
func (h *ReportHandler) LineChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.BuildLineChart(h.store.Rank()))
}

// BarChart returns the per-student bar chart data, in roll order.
func (h *ReportHandler) BarChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.BuildBarChart(h.store.Snapshot()))
}

// PieChart returns the grade-distribution pie chart data.
func (h *ReportHandler) PieChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.BuildPieChart(h.store.Stats()))
}

// Report returns the full report payload for the PDF collaborator.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.BuildReport(reportTitle, h.store.Stats(), h.store.Rank()))
}
