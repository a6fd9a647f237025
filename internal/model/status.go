package model

import "time"

// StatusEventType is the kind of upload lifecycle event pushed to the page
type StatusEventType string

const (
	EventUploadStarted   StatusEventType = "upload_started"
	EventUploadCompleted StatusEventType = "upload_completed"
	EventUploadFailed    StatusEventType = "upload_failed"
)

// StatusEvent is the websocket message body
type StatusEvent struct {
	Type     StatusEventType `json:"type"`
	UploadID string          `json:"uploadId"`
	FileName string          `json:"fileName,omitempty"`
	Message  string          `json:"message,omitempty"`
	At       time.Time       `json:"at"`
}
