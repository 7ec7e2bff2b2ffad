package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"gradebook/internal/config"
	"gradebook/internal/export"
	"gradebook/internal/handler"
	"gradebook/internal/service"
)

func main() {
	cfg := config.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	store, report, err := service.Open(cfg.DataFile, log)
	if err != nil {
		log.Error("cannot open roster", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}
	if !report.Clean() {
		log.Warn("roster needed repair",
			"initialized", report.Initialized,
			"unrecoverable", report.Unrecoverable,
			"legacy_layout", report.LegacyLayout,
			"loaded", report.Loaded,
			"migrated", report.Migrated,
			"dropped", report.Dropped,
		)
	}

	archive := export.NewSQLiteArchive(cfg.ArchiveFile)

	recordHandler := handler.NewRecordHandler(store, log)
	exportHandler := handler.NewExportHandler(store, archive, log)
	reportHandler := handler.NewReportHandler(store)
	themeHandler := handler.NewThemeHandler(cfg.Theme)

	r := mux.NewRouter()
	r.Use(handler.RequestID, handler.Logging(log))

	r.HandleFunc("/records", recordHandler.List).Methods("GET")
	r.HandleFunc("/records", recordHandler.Create).Methods("POST")
	r.HandleFunc("/records/{roll}", recordHandler.Get).Methods("GET")
	r.HandleFunc("/records/{roll}", recordHandler.Update).Methods("PUT")
	r.HandleFunc("/records/{roll}", recordHandler.Delete).Methods("DELETE")

	r.HandleFunc("/stats", recordHandler.Stats).Methods("GET")
	r.HandleFunc("/rank", recordHandler.Rank).Methods("GET")
	r.HandleFunc("/import", recordHandler.Import).Methods("POST")

	r.HandleFunc("/export/csv", exportHandler.CSV).Methods("GET")
	r.HandleFunc("/export/sqlite", exportHandler.SQLite).Methods("POST")

	r.HandleFunc("/charts/line", reportHandler.LineChart).Methods("GET")
	r.HandleFunc("/charts/bar", reportHandler.BarChart).Methods("GET")
	r.HandleFunc("/charts/pie", reportHandler.PieChart).Methods("GET")
	r.HandleFunc("/report", reportHandler.Report).Methods("GET")

	r.HandleFunc("/theme", themeHandler.Get).Methods("GET")
	r.HandleFunc("/theme", themeHandler.Put).Methods("PUT")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.CORSOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	log.Info("server listening", "addr", cfg.Addr, "records", store.Len())
	if err := http.ListenAndServe(cfg.Addr, cors(r)); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
