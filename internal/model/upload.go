package model

import "time"

type UploadStatus string

const (
	UploadOK       UploadStatus = "ok"
	UploadRejected UploadStatus = "rejected"
	UploadFailed   UploadStatus = "failed"
)

// UploadRecord is the audit entry for one submission. It never carries the payload.
type UploadRecord struct {
	UploadID      string       `json:"uploadId" bson:"uploadId"`
	SessionID     string       `json:"sessionId" bson:"sessionId"`
	FileName      string       `json:"fileName" bson:"fileName"`
	SizeBytes     int64        `json:"sizeBytes" bson:"sizeBytes"`
	Status        UploadStatus `json:"status" bson:"status"`
	BackendStatus int          `json:"backendStatus,omitempty" bson:"backendStatus,omitempty"` // HTTP status from the analyzer
	Error         string       `json:"error,omitempty" bson:"error,omitempty"`
	DurationMS    int64        `json:"durationMs" bson:"durationMs"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
}
