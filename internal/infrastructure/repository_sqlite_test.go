package infrastructure

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/vidfetch-go/internal/domain"
)

func setupTestRepo(t *testing.T) *SQLiteDownloadRepository {
	t.Helper()
	repo, err := NewSQLiteDownloadRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := setupTestRepo(t)

	record := domain.NewDownloadRecord("https://youtu.be/abc", "720", "mp4")
	require.NoError(t, repo.Create(record))

	found, err := repo.FindByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.URL, found.URL)
	assert.Equal(t, domain.RecordProcessing, found.Status)
}

func TestRepository_FindByID_Missing(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindByID("does-not-exist")
	assert.Error(t, err)
}

func TestRepository_Update(t *testing.T) {
	repo := setupTestRepo(t)

	record := domain.NewDownloadRecord("https://youtu.be/abc", "720", "mp4")
	require.NoError(t, repo.Create(record))

	record.MarkCompleted("download-abc.mp4")
	require.NoError(t, repo.Update(record))

	found, err := repo.FindByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordCompleted, found.Status)
	assert.Equal(t, "download-abc.mp4", found.FileName)
	assert.NotNil(t, found.CompletedAt)
}

func TestRepository_FindAll(t *testing.T) {
	repo := setupTestRepo(t)

	older := domain.NewDownloadRecord("https://youtu.be/old", "720", "mp4")
	older.CreatedAt = time.Now().Add(-time.Hour)
	older.MarkFailed(assert.AnError)
	require.NoError(t, repo.Create(older))

	newer := domain.NewDownloadRecord("https://youtu.be/new", "1080", "mp3")
	newer.MarkCompleted("download-new.mp3")
	require.NoError(t, repo.Create(newer))

	all, err := repo.FindAll("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)

	failed, err := repo.FindAll(domain.RecordFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, older.ID, failed[0].ID)
}

func TestRepository_GetStats(t *testing.T) {
	repo := setupTestRepo(t)

	for i := 0; i < 2; i++ {
		r := domain.NewDownloadRecord("https://youtu.be/c", "720", "mp4")
		r.MarkCompleted("f")
		require.NoError(t, repo.Create(r))
	}
	failed := domain.NewDownloadRecord("https://youtu.be/f", "720", "mp4")
	failed.MarkFailed(assert.AnError)
	require.NoError(t, repo.Create(failed))
	require.NoError(t, repo.Create(domain.NewDownloadRecord("https://youtu.be/p", "720", "mp4")))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Zero(t, stats.Served)
}
