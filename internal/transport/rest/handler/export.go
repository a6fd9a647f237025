package handler

import (
	"chatlens/internal/export"
	"chatlens/internal/model"
	"chatlens/internal/service"
	"chatlens/internal/transport/rest/middleware"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ExportHandler serves downloads of the stored payload. It never calls the
// analytics backend.
type ExportHandler struct {
	uploadSvc *service.UploadService
}

// NewExportHandler creates a new export handler
func NewExportHandler(uploadSvc *service.UploadService) *ExportHandler {
	return &ExportHandler{uploadSvc: uploadSvc}
}

// JSON handles GET /export/json
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.latest(w, r)
	if !ok {
		return
	}

	var payload []byte
	if stored != nil {
		payload = stored.Payload
	}
	body, err := export.JSON(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to format JSON export")
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}
	writeAttachment(w, "application/json", export.JSONFileName, body)
}

// CSV handles GET /export/csv
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.latest(w, r)
	if !ok {
		return
	}

	var analysis *model.AnalysisResult
	if stored != nil {
		a, err := stored.Analysis()
		if err != nil {
			log.Error().Err(err).Msg("Stored payload is not an object")
		} else {
			analysis = a
		}
	}
	writeAttachment(w, "text/csv; charset=utf-8", export.CSVFileName, export.CSV(analysis))
}

func (h *ExportHandler) latest(w http.ResponseWriter, r *http.Request) (*model.StoredResult, bool) {
	sessionID := middleware.GetSessionID(r.Context())
	stored, err := h.uploadSvc.Latest(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load stored result")
		writeError(w, http.StatusInternalServerError, "failed to load result")
		return nil, false
	}
	return stored, true
}
