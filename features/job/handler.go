package job

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit accepts a channel + email pair and queues the pipeline.
// Responds 202 on acceptance; the outcome arrives by email.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string `json:"channel"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "VALIDATION_ERROR", "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Channel == "" || req.Email == "" {
		h.writeError(w, "VALIDATION_ERROR", "Missing channel name or email", http.StatusBadRequest)
		return
	}
	if !emailPattern.MatchString(req.Email) {
		h.writeError(w, "VALIDATION_ERROR", "Invalid email format", http.StatusBadRequest)
		return
	}

	j, err := h.service.Submit(r.Context(), req.Channel, req.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "submit failed", "error", err, "channel", req.Channel)
		h.writeError(w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	resp := map[string]interface{}{
		"success": true,
		"jobId":   j.ID,
		"message": "Your request has been queued. You will get an email soon with improved suggestions for your YouTube videos",
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Get returns the current job snapshot for status polling.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	j, err := h.service.Get(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "job lookup failed", "error", err, "job_id", id)
		h.writeError(w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if j.ID == "" {
		h.writeError(w, "NOT_FOUND", "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": j}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
