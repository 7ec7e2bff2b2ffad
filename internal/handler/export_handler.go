package handler

import (
	"log/slog"
	"net/http"

	"gradebook/internal/export"
	"gradebook/internal/model"
	"gradebook/internal/service"
)

type ExportHandler struct {
	store   *service.Store
	archive *export.SQLiteArchive
	log     *slog.Logger
}

func NewExportHandler(store *service.Store, archive *export.SQLiteArchive, log *slog.Logger) *ExportHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ExportHandler{store: store, archive: archive, log: log}
}

// CSV streams the roster as a CSV download. The row order follows
// ?sort_by= / ?sort_order=; without them the rows come out in rank order,
// which is what the classic report expects.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var records []model.Record
	if sortBy := query.Get("sort_by"); sortBy != "" {
		records = h.store.SortedBy(
			service.ParseSortKey(sortBy),
			query.Get("sort_order") == "desc",
		)
	} else {
		records = h.store.Rank()
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="students.csv"`)
	if err := export.WriteCSV(w, records); err != nil {
		h.log.Error("csv export failed", "error", err)
	}
}

// SQLite appends the current snapshot to the archive file.
func (h *ExportHandler) SQLite(w http.ResponseWriter, r *http.Request) {
	records := h.store.Snapshot()
	runID, err := h.archive.Write(records)
	if err != nil {
		h.log.Error("archive export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "archive export failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  runID,
		"path":    h.archive.Path(),
		"records": len(records),
	})
}
