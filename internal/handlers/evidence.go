package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type EvidenceHandler struct {
	base
	service services.EvidenceService
}

func NewEvidenceHandler(service services.EvidenceService, logger *utils.Logger) *EvidenceHandler {
	return &EvidenceHandler{base: base{logger: logger}, service: service}
}

func (h *EvidenceHandler) AnalyzeEvidence(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.AnalyzeEvidence(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *EvidenceHandler) ListEvidence(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListEvidence(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, items)
}

func (h *EvidenceHandler) GetEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	ev, err := h.service.GetEvidence(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ev)
}

func (h *EvidenceHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	rec, err := h.service.ResolveSource(r.Context(), mux.Vars(r)["type"], id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rec)
}

func (h *EvidenceHandler) DeleteEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.service.DeleteEvidence(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Evidence deleted"})
}
