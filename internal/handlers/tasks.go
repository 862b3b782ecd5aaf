package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/robertobuso/legal-evidence-organizer/internal/services"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type TaskHandler struct {
	base
	service services.TaskService
}

func NewTaskHandler(service services.TaskService, logger *utils.Logger) *TaskHandler {
	return &TaskHandler{base: base{logger: logger}, service: service}
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, task)
}
