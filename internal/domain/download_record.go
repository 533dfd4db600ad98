package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus represents the lifecycle of a served download
type RecordStatus string

const (
	RecordProcessing RecordStatus = "processing"
	RecordCompleted  RecordStatus = "completed"
	RecordFailed     RecordStatus = "failed"
	RecordServed     RecordStatus = "served"  // file delivered and removed
	RecordExpired    RecordStatus = "expired" // removed by the janitor
)

// DownloadRecord is the history entry kept by the HTTP server for each download
type DownloadRecord struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	URL          string       `json:"url" gorm:"not null"`
	Resolution   string       `json:"resolution"`
	Format       string       `json:"format"`
	Status       RecordStatus `json:"status" gorm:"not null;index"`
	FileName     string       `json:"file_name,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (DownloadRecord) TableName() string {
	return "downloads"
}

// NewDownloadRecord creates a processing record with a fresh ID
func NewDownloadRecord(url, resolution, format string) *DownloadRecord {
	now := time.Now()
	return &DownloadRecord{
		ID:         uuid.New().String(),
		URL:        url,
		Resolution: resolution,
		Format:     format,
		Status:     RecordProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MarkCompleted marks the record as completed with the discovered file
func (r *DownloadRecord) MarkCompleted(fileName string) {
	r.Status = RecordCompleted
	r.FileName = fileName
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkFailed marks the record as failed
func (r *DownloadRecord) MarkFailed(err error) {
	r.Status = RecordFailed
	r.ErrorMessage = err.Error()
	r.UpdatedAt = time.Now()
}

// MarkServed marks the record as delivered to the client
func (r *DownloadRecord) MarkServed() {
	r.Status = RecordServed
	r.UpdatedAt = time.Now()
}

// MarkExpired marks the record as cleaned up before delivery
func (r *DownloadRecord) MarkExpired() {
	r.Status = RecordExpired
	r.UpdatedAt = time.Now()
}

// IsDeliverable reports whether the file can still be fetched
func (r *DownloadRecord) IsDeliverable() bool {
	return r.Status == RecordCompleted
}
