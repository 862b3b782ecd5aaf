package handlers

import (
	"net/http"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type TimelineHandler struct {
	base
	service services.TimelineService
}

func NewTimelineHandler(service services.TimelineService, logger *utils.Logger) *TimelineHandler {
	return &TimelineHandler{base: base{logger: logger}, service: service}
}

type generateTimelineBody struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *TimelineHandler) GenerateTimeline(w http.ResponseWriter, r *http.Request) {
	var body generateTimelineBody
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(w, err)
		return
	}

	dr, err := parseRange(body.StartDate, body.EndDate)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.GenerateTimeline(r.Context(), &models.GenerateTimelineRequest{Title: body.Title, Range: dr})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	timeline, err := h.service.GetTimeline(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, timeline)
}

func (h *TimelineHandler) ListTimelines(w http.ResponseWriter, r *http.Request) {
	timelines, err := h.service.ListTimelines(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, timelines)
}

func (h *TimelineHandler) DeleteTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.service.DeleteTimeline(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Timeline deleted"})
}
