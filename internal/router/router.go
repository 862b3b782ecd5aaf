package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/robertobuso/legal-evidence-organizer/internal/handlers"
	"github.com/robertobuso/legal-evidence-organizer/internal/middleware"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

func NewRouter(svc *services.Services, maxFileSize int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	uploads := handlers.NewUploadHandler(svc.Uploads, maxFileSize, logger)
	emails := handlers.NewEmailHandler(svc.Emails, logger)
	sources := handlers.NewSourceHandler(svc.Sources, logger)
	timelines := handlers.NewTimelineHandler(svc.Timelines, logger)
	evidence := handlers.NewEvidenceHandler(svc.Evidence, logger)
	reports := handlers.NewReportHandler(svc.Reports, logger)
	tasks := handlers.NewTaskHandler(svc.Tasks, logger)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Uploads
	api.HandleFunc("/upload/chat", uploads.UploadChat).Methods(http.MethodPost)
	api.HandleFunc("/upload/pdf", uploads.UploadPDF).Methods(http.MethodPost)
	api.HandleFunc("/upload/status/{filename}", uploads.UploadStatus).Methods(http.MethodGet)

	// Sources
	api.HandleFunc("/emails/fetch", emails.FetchEmails).Methods(http.MethodPost)
	api.HandleFunc("/emails/status", emails.EmailStatus).Methods(http.MethodGet)
	api.HandleFunc("/emails/{id:[0-9]+}", emails.GetEmail).Methods(http.MethodGet)
	api.HandleFunc("/emails", emails.ListEmails).Methods(http.MethodGet)
	api.HandleFunc("/chats", sources.ListChats).Methods(http.MethodGet)
	api.HandleFunc("/pdfs", sources.ListPDFs).Methods(http.MethodGet)
	api.HandleFunc("/search", sources.Search).Methods(http.MethodGet)

	// Timelines
	api.HandleFunc("/timeline/generate", timelines.GenerateTimeline).Methods(http.MethodPost)
	api.HandleFunc("/timeline/{id}", timelines.GetTimeline).Methods(http.MethodGet)
	api.HandleFunc("/timeline/{id}", timelines.DeleteTimeline).Methods(http.MethodDelete)
	api.HandleFunc("/timelines", timelines.ListTimelines).Methods(http.MethodGet)

	// Evidence
	api.HandleFunc("/evidence/analyze", evidence.AnalyzeEvidence).Methods(http.MethodPost)
	api.HandleFunc("/evidence/source/{type}/{id}", evidence.GetSource).Methods(http.MethodGet)
	api.HandleFunc("/evidence/{id}", evidence.GetEvidence).Methods(http.MethodGet)
	api.HandleFunc("/evidence/{id}", evidence.DeleteEvidence).Methods(http.MethodDelete)
	api.HandleFunc("/evidence", evidence.ListEvidence).Methods(http.MethodGet)

	// Reports
	api.HandleFunc("/report/generate", reports.GenerateReport).Methods(http.MethodPost)
	api.HandleFunc("/report/{id}/html", reports.GetReportHTML).Methods(http.MethodGet)
	api.HandleFunc("/report/{id}", reports.GetReport).Methods(http.MethodGet)
	api.HandleFunc("/report/{id}", reports.DeleteReport).Methods(http.MethodDelete)
	api.HandleFunc("/reports", reports.ListReports).Methods(http.MethodGet)

	// Tasks
	api.HandleFunc("/tasks/{id}", tasks.GetTask).Methods(http.MethodGet)

	// Preflight requests are answered by the CORS middleware.
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return r
}
