package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type UploadHandler struct {
	base
	service     services.UploadService
	maxFileSize int64
}

func NewUploadHandler(service services.UploadService, maxFileSize int64, logger *utils.Logger) *UploadHandler {
	return &UploadHandler{base: base{logger: logger}, service: service, maxFileSize: maxFileSize}
}

func (h *UploadHandler) UploadChat(w http.ResponseWriter, r *http.Request) {
	req, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.UploadChat(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *UploadHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	req, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.UploadPDF(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, resp)
}

func (h *UploadHandler) UploadStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.UploadStatus(r.Context(), mux.Vars(r)["filename"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, status)
}

// readUpload reads the multipart "file" field, enforcing the size limit.
func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) (*models.UploadRequest, error) {
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %d bytes limit", h.maxFileSize))

	if r.ContentLength > h.maxFileSize+1<<20 {
		return nil, tooLarge
	}

	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, tooLarge
		}
		return nil, utils.NewBadRequestError("Invalid form data")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, utils.NewBadRequestError("No file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, utils.NewInternalError("Failed to read file")
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, tooLarge
	}

	h.logger.Info("File upload attempt", "filename", header.Filename, "size", len(data))
	return &models.UploadRequest{File: data, Filename: header.Filename}, nil
}
