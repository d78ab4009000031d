package domain

import "time"

// DocumentStatus enumerates the states a stored document moves through.
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "UPLOADED"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusProcessed  DocumentStatus = "PROCESSED"
	DocumentStatusError      DocumentStatus = "ERROR"
)

// DocumentMeta is the slice of document state the ingestion core needs.
// Documents themselves are owned by the document service; jobs only
// reference them.
type DocumentMeta struct {
	ID        string
	Title     string
	FilePath  string
	MimeType  string
	FileSize  int64
	Status    DocumentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
