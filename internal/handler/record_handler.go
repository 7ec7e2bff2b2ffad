package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gradebook/internal/model"
	"gradebook/internal/service"
)

type RecordHandler struct {
	store *service.Store
	log   *slog.Logger
}

func NewRecordHandler(store *service.Store, log *slog.Logger) *RecordHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RecordHandler{store: store, log: log}
}

type recordPayload struct {
	Roll  int     `json:"roll"`
	Name  string  `json:"name"`
	Marks float64 `json:"marks"`
}

// List returns records, optionally filtered by ?q= and ordered by
// ?sort_by= / ?sort_order=.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var records []model.Record
	if q := query.Get("q"); q != "" {
		for rec := range h.store.Find(q) {
			records = append(records, rec)
		}
		records = sortRecords(records, query)
	} else {
		records = h.store.SortedBy(
			service.ParseSortKey(query.Get("sort_by")),
			query.Get("sort_order") == "desc",
		)
	}
	if records == nil {
		records = []model.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  records,
		"total": len(records),
	})
}

// sortRecords applies the requested order to an already-filtered slice.
func sortRecords(records []model.Record, query map[string][]string) []model.Record {
	get := func(k string) string {
		if v, ok := query[k]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}
	key := service.ParseSortKey(get("sort_by"))
	desc := get("sort_order") == "desc"
	return model.SortBy(records, string(key), desc)
}

// Create adds a new record.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	rec, err := h.store.Add(payload.Roll, payload.Name, payload.Marks)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Get returns one record by roll.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	roll, ok := pathRoll(w, r)
	if !ok {
		return
	}
	rec, err := h.store.Get(roll)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// updatePayload uses pointers so an omitted field can be told apart from a
// zero value: omitted fields keep their current value.
type updatePayload struct {
	Roll  *int     `json:"roll"`
	Name  *string  `json:"name"`
	Marks *float64 `json:"marks"`
}

// Update merges the payload onto an existing record and re-validates the
// result. The roll in the path wins; a different roll in the body is
// rejected since roll is immutable.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	roll, ok := pathRoll(w, r)
	if !ok {
		return
	}

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if payload.Roll != nil && *payload.Roll != roll {
		http.Error(w, "roll is immutable; delete and re-add to change it", http.StatusBadRequest)
		return
	}

	prev, err := h.store.Get(roll)
	if err != nil {
		h.writeError(w, err)
		return
	}
	name, marks := prev.Name, prev.Marks
	if payload.Name != nil {
		name = *payload.Name
	}
	if payload.Marks != nil {
		marks = *payload.Marks
	}

	rec, err := h.store.Update(roll, name, marks)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete removes a record. Deleting an absent roll is 404, never silent.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roll, ok := pathRoll(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(roll); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns the aggregate statistics snapshot.
func (h *RecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

// Rank returns the roster in rank order.
func (h *RecordHandler) Rank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Rank())
}

// Import ingests one or more uploaded CSV files synchronously and reports
// how many rows were added and skipped.
func (h *RecordHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "malformed multipart body", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	var total service.ImportReport
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.log.Warn("cannot open uploaded file", "file", fh.Filename, "error", err)
			continue
		}
		report, err := h.store.ImportCSV(f)
		f.Close()
		total.Added += report.Added
		total.Skipped += report.Skipped
		if err != nil {
			h.log.Warn("import aborted", "file", fh.Filename, "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   err.Error(),
				"added":   total.Added,
				"skipped": total.Skipped,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, total)
}

func (h *RecordHandler) writeError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func pathRoll(w http.ResponseWriter, r *http.Request) (int, bool) {
	roll, err := strconv.Atoi(mux.Vars(r)["roll"])
	if err != nil || roll <= 0 {
		http.Error(w, "roll must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return roll, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encode response", "error", err)
	}
}
