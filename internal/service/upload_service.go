package service

import (
	"chatlens/internal/cache"
	"chatlens/internal/logger"
	"chatlens/internal/model"
	"chatlens/internal/repository"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Upload is one submitted chat export
type Upload struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// UploadService forwards chat exports to the analyzer and keeps the latest
// result of each viewing session
type UploadService struct {
	client      AnalyzerClient
	store       cache.ResultStore
	uploads     repository.UploadRepo
	broadcaster Broadcaster
	log         zerolog.Logger
}

// NewUploadService creates an upload service
func NewUploadService(client AnalyzerClient, store cache.ResultStore, uploads repository.UploadRepo) *UploadService {
	return &UploadService{
		client:      client,
		store:       store,
		uploads:     uploads,
		broadcaster: noopBroadcaster{},
		log:         logger.Component("upload"),
	}
}

// SetBroadcaster sets the broadcaster for upload status events
func (s *UploadService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	s.broadcaster = b
}

// Analyze sends the file to the backend and stores the payload for the
// session. On any failure the stored payload is left as it was. When a newer
// upload of the same session finished first, the newer result is kept and
// returned.
func (s *UploadService) Analyze(ctx context.Context, sessionID string, file *Upload) (*model.StoredResult, error) {
	start := time.Now()
	uploadID := uuid.New().String()
	log := s.log.With().Str("session_id", sessionID).Str("upload_id", uploadID).Logger()

	record := &model.UploadRecord{
		UploadID:  uploadID,
		SessionID: sessionID,
		CreatedAt: start.UTC(),
	}

	if file == nil || file.Content == nil {
		record.Status = model.UploadRejected
		record.Error = ErrNoFile.Error()
		s.audit(ctx, record, start)
		return nil, ErrNoFile
	}
	record.FileName = file.FileName
	record.SizeBytes = file.Size

	seq, err := s.store.NextSeq(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate upload sequence: %w", err)
	}

	s.publish(sessionID, model.EventUploadStarted, uploadID, file.FileName, "")
	log.Info().Str("file", file.FileName).Int64("size", file.Size).Int64("seq", seq).Msg("Forwarding chat to analyzer")

	body, status, err := s.client.Analyze(ctx, file.FileName, file.Content)
	record.BackendStatus = status
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("Analyzer request failed")
		return nil, s.fail(ctx, record, start, fmt.Errorf("%w: %v", ErrBackend, err))
	}

	analysis, err := model.ParseAnalysis(body)
	if err != nil {
		log.Error().Err(err).Msg("Analyzer returned a non-object payload")
		return nil, s.fail(ctx, record, start, fmt.Errorf("%w: %w", ErrBackend, ErrInvalidPayload))
	}
	for _, skipped := range analysis.Skipped {
		log.Warn().Err(skipped.Err).Str("section", skipped.Section).Msg("Dropping malformed section")
	}

	result := &model.StoredResult{
		SessionID:  sessionID,
		UploadID:   uploadID,
		Seq:        seq,
		FileName:   file.FileName,
		ReceivedAt: time.Now().UTC(),
		Payload:    body,
	}

	accepted, err := s.store.Put(ctx, result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store result")
		return nil, s.fail(ctx, record, start, fmt.Errorf("failed to store result: %w", err))
	}

	record.Status = model.UploadOK
	s.audit(ctx, record, start)
	s.publish(sessionID, model.EventUploadCompleted, uploadID, file.FileName, "")

	if !accepted {
		log.Info().Int64("seq", seq).Msg("Newer upload already stored, keeping it")
		latest, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			return latest, nil
		}
	}
	return result, nil
}

// Latest returns the session's stored result, or nil when there is none.
func (s *UploadService) Latest(ctx context.Context, sessionID string) (*model.StoredResult, error) {
	return s.store.Get(ctx, sessionID)
}

// History lists the session's recent submissions, newest first.
func (s *UploadService) History(ctx context.Context, sessionID string, limit int) ([]*model.UploadRecord, error) {
	return s.uploads.ListBySession(ctx, sessionID, limit)
}

func (s *UploadService) fail(ctx context.Context, record *model.UploadRecord, start time.Time, err error) error {
	record.Status = model.UploadFailed
	record.Error = err.Error()
	s.audit(ctx, record, start)

	msg := "analysis failed"
	if errors.Is(err, ErrInvalidPayload) {
		msg = "analysis returned an unexpected response"
	}
	s.publish(record.SessionID, model.EventUploadFailed, record.UploadID, record.FileName, msg)
	return err
}

// audit writes the record; failures are logged and never reach the user.
func (s *UploadService) audit(ctx context.Context, record *model.UploadRecord, start time.Time) {
	record.DurationMS = time.Since(start).Milliseconds()
	if err := s.uploads.Insert(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("upload_id", record.UploadID).Msg("Failed to write upload audit record")
	}
}

func (s *UploadService) publish(sessionID string, t model.StatusEventType, uploadID, fileName, msg string) {
	s.broadcaster.Publish(sessionID, &model.StatusEvent{
		Type:     t,
		UploadID: uploadID,
		FileName: fileName,
		Message:  msg,
		At:       time.Now().UTC(),
	})
}
