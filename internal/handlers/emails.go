package handlers

import (
	"net/http"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const defaultEmailLimit = 100

type EmailHandler struct {
	base
	service services.EmailService
}

func NewEmailHandler(service services.EmailService, logger *utils.Logger) *EmailHandler {
	return &EmailHandler{base: base{logger: logger}, service: service}
}

type fetchEmailsBody struct {
	Addresses []struct {
		Address string `json:"address"`
	} `json:"addresses"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *EmailHandler) FetchEmails(w http.ResponseWriter, r *http.Request) {
	var body fetchEmailsBody
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(w, err)
		return
	}

	dr, err := parseRange(body.StartDate, body.EndDate)
	if err != nil {
		h.respondError(w, err)
		return
	}

	req := &models.FetchEmailsRequest{Range: dr}
	for _, a := range body.Addresses {
		req.Addresses = append(req.Addresses, a.Address)
	}

	resp, err := h.service.FetchEmails(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *EmailHandler) ListEmails(w http.ResponseWriter, r *http.Request) {
	dr, err := queryRange(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		h.respondError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultEmailLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	q := r.URL.Query()
	emails, err := h.service.ListEmails(r.Context(), models.EmailFilter{
		Sender:    q.Get("sender"),
		Recipient: q.Get("recipient"),
		Subject:   q.Get("subject"),
		Range:     dr,
		Offset:    skip,
		Limit:     limit,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, emails)
}

func (h *EmailHandler) EmailStatus(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountEmails(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":       "completed",
		"total_emails": n,
	})
}

func (h *EmailHandler) GetEmail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	email, err := h.service.GetEmail(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, email)
}
