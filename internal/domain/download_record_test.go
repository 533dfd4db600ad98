package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDownloadRecord(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", "720", "mp4")

	_, err := uuid.Parse(record.ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc", record.URL)
	assert.Equal(t, "720", record.Resolution)
	assert.Equal(t, "mp4", record.Format)
	assert.Equal(t, RecordProcessing, record.Status)
	assert.False(t, record.IsDeliverable())
}

func TestDownloadRecord_MarkCompleted(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", "720", "mp4")

	record.MarkCompleted("download-x.mp4")

	assert.Equal(t, RecordCompleted, record.Status)
	assert.Equal(t, "download-x.mp4", record.FileName)
	assert.NotNil(t, record.CompletedAt)
	assert.True(t, record.IsDeliverable())
}

func TestDownloadRecord_MarkFailed(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", "720", "mp4")

	record.MarkFailed(errors.New("ERROR: Video unavailable"))

	assert.Equal(t, RecordFailed, record.Status)
	assert.Equal(t, "ERROR: Video unavailable", record.ErrorMessage)
	assert.False(t, record.IsDeliverable())
}

func TestDownloadRecord_ServedAndExpired(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", "1080", "mp3")
	record.MarkCompleted("download-x.mp3")

	record.MarkServed()
	assert.Equal(t, RecordServed, record.Status)
	assert.False(t, record.IsDeliverable())

	record.MarkExpired()
	assert.Equal(t, RecordExpired, record.Status)
}
