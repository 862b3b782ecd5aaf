package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const dateLayout = "2006-01-02"

// base carries the response helpers shared by every handler.
type base struct {
	logger *utils.Logger
}

func (h *base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *base) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err)
	} else {
		h.logger.Warn("Request rejected", "status", status, "error", message)
	}

	h.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return utils.NewBadRequestError("Invalid JSON body")
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewBadRequestError(fmt.Sprintf("Invalid ID '%s'", raw))
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD value. End dates cover the whole day.
func parseDate(value, name string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Invalid %s format. Use YYYY-MM-DD", name))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseRange(start, end string) (models.DateRange, error) {
	var (
		r   models.DateRange
		err error
	)
	if r.Start, err = parseDate(start, "start_date", false); err != nil {
		return r, err
	}
	if r.End, err = parseDate(end, "end_date", true); err != nil {
		return r, err
	}
	return r, nil
}

func queryRange(r *http.Request) (models.DateRange, error) {
	q := r.URL.Query()
	return parseRange(q.Get("start_date"), q.Get("end_date"))
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, utils.NewBadRequestError(fmt.Sprintf("Invalid %s '%s'", name, raw))
	}
	return n, nil
}
