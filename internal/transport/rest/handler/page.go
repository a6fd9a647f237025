package handler

import (
	"bytes"
	"chatlens/internal/chart"
	"chatlens/internal/model"
	"chatlens/internal/service"
	"chatlens/internal/transport/rest/middleware"
	"chatlens/internal/view"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	noticeNoFile   = "Please select a file first."
	noticeFailed   = "Something went wrong. Check the server logs for details."
	noticeTooLarge = "The file is too large."

	statusURL = "/v1/ws/status"
)

// PageHandler serves the upload page and its results
type PageHandler struct {
	uploadSvc *service.UploadService
	renderer  *view.Renderer
	projector *chart.Projector
	maxUpload int64
}

// NewPageHandler creates a new page handler
func NewPageHandler(uploadSvc *service.UploadService, renderer *view.Renderer, projector *chart.Projector, maxUpload int64) *PageHandler {
	return &PageHandler{
		uploadSvc: uploadSvc,
		renderer:  renderer,
		projector: projector,
		maxUpload: maxUpload,
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	latest, err := h.uploadSvc.Latest(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load stored result")
	}
	h.render(w, http.StatusOK, nil, latest)
}

// Analyze handles POST /analyze
func (h *PageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	upload, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, sessionID, http.StatusRequestEntityTooLarge, noticeTooLarge)
			return
		}
		log.Debug().Err(err).Msg("No usable file in upload")
		upload = nil
	}
	if upload != nil {
		defer closeUpload(upload)
	}

	result, err := h.uploadSvc.Analyze(r.Context(), sessionID, upload)
	if err != nil {
		if errors.Is(err, service.ErrNoFile) {
			h.fail(w, r, sessionID, http.StatusBadRequest, noticeNoFile)
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("Chat analysis failed")
		h.fail(w, r, sessionID, http.StatusBadGateway, noticeFailed)
		return
	}

	if wantsJSON(r) {
		writeRaw(w, http.StatusOK, result.Payload)
		return
	}
	h.render(w, http.StatusOK, &view.Notice{Kind: "success", Text: "Analysis complete."}, result)
}

// readUpload pulls the "chat" part out of the multipart body. A missing
// part yields a nil upload.
func readUpload(r *http.Request) (*service.Upload, error) {
	file, hdr, err := r.FormFile("chat")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return &service.Upload{FileName: hdr.Filename, Size: hdr.Size, Content: file}, nil
}

// closeUpload releases the multipart file, which may be backed by a temp file.
func closeUpload(u *service.Upload) {
	if c, ok := u.Content.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Debug().Err(err).Str("file", u.FileName).Msg("Failed to close upload")
		}
	}
}

// fail answers with a notice and keeps the previous result on screen.
func (h *PageHandler) fail(w http.ResponseWriter, r *http.Request, sessionID string, status int, notice string) {
	if wantsJSON(r) {
		writeError(w, status, notice)
		return
	}
	latest, err := h.uploadSvc.Latest(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load stored result")
	}
	h.render(w, status, &view.Notice{Kind: "error", Text: notice}, latest)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, notice *view.Notice, stored *model.StoredResult) {
	page := &view.Page{
		ShowForm:  true,
		Notice:    notice,
		StatusURL: statusURL,
	}

	if stored != nil {
		analysis, err := stored.Analysis()
		if err != nil {
			log.Error().Err(err).Str("upload_id", stored.UploadID).Msg("Stored payload is not an object")
		} else {
			v := view.Build(analysis)
			h.projector.Attach(v, analysis)
			page.View = v
			page.FileName = stored.FileName
			page.ReceivedAt = stored.ReceivedAt
		}
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
