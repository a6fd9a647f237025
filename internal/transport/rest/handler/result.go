package handler

import (
	"chatlens/internal/service"
	"chatlens/internal/transport/rest/middleware"
	"net/http"
	"strconv"
)

// ResultHandler exposes the session's stored result and upload history
type ResultHandler struct {
	uploadSvc *service.UploadService
}

// NewResultHandler creates a new result handler
func NewResultHandler(uploadSvc *service.UploadService) *ResultHandler {
	return &ResultHandler{uploadSvc: uploadSvc}
}

// Latest handles GET /v1/results/latest
func (h *ResultHandler) Latest(w http.ResponseWriter, r *http.Request) {
	stored, err := h.uploadSvc.Latest(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "no result for this session")
		return
	}
	writeRaw(w, http.StatusOK, stored.Payload)
}

// Uploads handles GET /v1/uploads
func (h *ResultHandler) Uploads(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.uploadSvc.History(r.Context(), middleware.GetSessionID(r.Context()), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}
