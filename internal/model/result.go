package model

import "time"

// StoredResult is the latest payload held for a viewing session
type StoredResult struct {
	SessionID  string    `json:"sessionId"`
	UploadID   string    `json:"uploadId"`
	Seq        int64     `json:"seq"` // upload order within the session
	FileName   string    `json:"fileName"`
	ReceivedAt time.Time `json:"receivedAt"`
	Payload    []byte    `json:"payload"` // backend body, byte-for-byte
}

// Analysis decodes the stored payload.
func (s *StoredResult) Analysis() (*AnalysisResult, error) {
	return ParseAnalysis(s.Payload)
}

// ExportRow is one flattened CSV record
type ExportRow struct {
	Category string
	Name     string
	Metric   string
	Value    string
}
