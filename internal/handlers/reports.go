package handlers

import (
	"net/http"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type ReportHandler struct {
	base
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger *utils.Logger) *ReportHandler {
	return &ReportHandler{base: base{logger: logger}, service: service}
}

type generateReportBody struct {
	TimelineID int64  `json:"timeline_id"`
	Title      string `json:"title"`
}

func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var body generateReportBody
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	if body.TimelineID <= 0 {
		h.respondError(w, utils.NewBadRequestError("timeline_id is required"))
		return
	}

	resp, err := h.service.GenerateReport(r.Context(), &models.GenerateReportRequest{TimelineID: body.TimelineID, Title: body.Title})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) GetReportHTML(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	html, err := h.service.GetReportHTML(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		h.logger.Error("Failed to write HTML response", "error", err)
	}
}

func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.service.DeleteReport(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Report deleted"})
}
