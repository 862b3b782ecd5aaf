package handlers

import (
	"fmt"
	"net/http"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type SourceHandler struct {
	base
	service services.SourceService
}

func NewSourceHandler(service services.SourceService, logger *utils.Logger) *SourceHandler {
	return &SourceHandler{base: base{logger: logger}, service: service}
}

func (h *SourceHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	dr, err := queryRange(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	q := r.URL.Query()
	msgs, err := h.service.ListChats(r.Context(), models.ChatFilter{
		Sender:   q.Get("sender"),
		Content:  q.Get("content"),
		FilePath: q.Get("file_path"),
		Range:    dr,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, msgs)
}

func (h *SourceHandler) ListPDFs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := h.service.ListPDFs(r.Context(), models.PDFFilter{
		FileName: q.Get("file_name"),
		Content:  q.Get("content"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, docs)
}

func (h *SourceHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &models.SearchRequest{Query: q.Get("query"), Person: q.Get("person")}

	if raw := q.Get("source_type"); raw != "" {
		kind, ok := models.ParseSourceType(raw)
		if !ok {
			h.respondError(w, utils.NewBadRequestError(fmt.Sprintf("Invalid source_type '%s'. Use email, chat or pdf", raw)))
			return
		}
		req.SourceType = kind
	}

	var err error
	if req.Range, err = queryRange(r); err != nil {
		h.respondError(w, err)
		return
	}
	if req.Skip, err = queryInt(r, "skip", 0); err != nil {
		h.respondError(w, err)
		return
	}
	if req.Limit, err = queryInt(r, "limit", services.DefaultSearchLimit); err != nil {
		h.respondError(w, err)
		return
	}

	results, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, results)
}
