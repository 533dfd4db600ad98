package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/vidfetch-go/api/handlers"
	"github.com/yourusername/vidfetch-go/internal/app"
	"github.com/yourusername/vidfetch-go/internal/domain"
	"github.com/yourusername/vidfetch-go/internal/infrastructure"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEngine implements domain.Engine for router tests
type stubEngine struct {
	info        *domain.RawInfo
	err         error
	downloadErr error
}

func (s *stubEngine) ExtractInfo(ctx context.Context, url string, opts domain.InfoOptions) (*domain.RawInfo, error) {
	return s.info, s.err
}

func (s *stubEngine) Download(ctx context.Context, opts *domain.DownloadOptions, urls []string) error {
	if s.downloadErr != nil {
		return s.downloadErr
	}
	ext := ".mp4"
	if opts.Mode == domain.ModeAudio {
		ext = ".mp3"
	}
	return os.WriteFile(opts.OutputTemplate+ext, []byte("media-bytes"), 0644)
}

type testServer struct {
	router *gin.Engine
	repo   *infrastructure.SQLiteDownloadRepository
	dir    string
}

func setupTestServer(t *testing.T, engine *stubEngine) *testServer {
	t.Helper()

	tmp := t.TempDir()
	repo, err := infrastructure.NewSQLiteDownloadRepository(filepath.Join(tmp, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	config := domain.DefaultConfig().Server
	config.DownloadsDir = filepath.Join(tmp, "downloads")

	logger := zap.NewNop()
	service := app.NewDownloadService(repo,
		app.NewMetadataFetcher(engine, logger),
		app.NewDownloadOrchestrator(engine, nil, logger),
		&config, logger)

	return &testServer{
		router: SetupRouter(service, logger),
		repo:   repo,
		dir:    config.DownloadsDir,
	}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, &stubEngine{})

	w := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestVideoInfo(t *testing.T) {
	size := int64(2048)
	height := 720
	title, uploader := "Clip", "Someone"
	s := setupTestServer(t, &stubEngine{info: &domain.RawInfo{
		Title:    &title,
		Uploader: &uploader,
		Formats: []domain.RawFormat{
			{FormatID: "22", Height: &height, Ext: "mp4", Filesize: &size, VCodec: "avc1", ACodec: "mp4a"},
			{FormatID: "18", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
		},
	}})

	w := s.do(http.MethodPost, "/api/v1/video-info", gin.H{"url": "https://youtu.be/abc"})
	require.Equal(t, http.StatusOK, w.Code)

	var info domain.VideoInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Clip", *info.Title)
	assert.Equal(t, "Someone", *info.Author)
	require.Len(t, info.Formats, 1)
	assert.Equal(t, "22", info.Formats[0].ID)
}

func TestVideoInfo_Errors(t *testing.T) {
	s := setupTestServer(t, &stubEngine{err: domain.NewEngineError("ERROR: Video unavailable", errors.New("exit status 1"))})

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"missing url", gin.H{}, ""},
		{"disallowed host", gin.H{"url": "https://example.com/v"}, domain.ErrHostNotAllowed.Error()},
		{"engine failure", gin.H{"url": "https://youtu.be/abc"}, "ERROR: Video unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/video-info", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.want != "" {
				assert.Equal(t, tt.want, resp["error"])
			} else {
				assert.NotEmpty(t, resp["error"])
			}
		})
	}
}

func TestDownloadAndDeliver(t *testing.T) {
	s := setupTestServer(t, &stubEngine{})

	w := s.do(http.MethodPost, "/api/v1/download", gin.H{"url": "https://youtu.be/abc", "quality": "480p-mp4"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.DownloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "download-"+resp.ID+".mp4", resp.File)
	assert.Equal(t, "/api/v1/download-file/"+resp.ID+"/"+resp.File, resp.DownloadURL)

	record, err := s.repo.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordCompleted, record.Status)
	assert.Equal(t, "480", record.Resolution)

	w = s.do(http.MethodGet, resp.DownloadURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "media-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), resp.File)

	assert.NoDirExists(t, filepath.Join(s.dir, resp.ID))
	record, err = s.repo.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordServed, record.Status)

	// one-shot delivery
	w = s.do(http.MethodGet, resp.DownloadURL, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload_Failures(t *testing.T) {
	s := setupTestServer(t, &stubEngine{downloadErr: domain.NewEngineError("ERROR: Postprocessing: Conversion failed!", errors.New("exit status 1"))})

	w := s.do(http.MethodPost, "/api/v1/download", gin.H{"url": "https://youtu.be/abc", "quality": "720p-mp3"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "ERROR: Postprocessing: Conversion failed!"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/download", gin.H{"url": "https://example.com/v", "quality": "720p-mp4"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/download", gin.H{"url": "https://youtu.be/abc", "quality": "best-mp4"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stats, err := s.repo.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, 1, stats.Failed)
}

func TestDownloadFile_NotFound(t *testing.T) {
	s := setupTestServer(t, &stubEngine{})

	for _, path := range []string{
		"/api/v1/download-file/not-a-uuid/file.mp4",
		"/api/v1/download-file/6f1c1a52-4b0e-4a43-9d4f-2f3c8a6c1b11/file.mp4",
		"/api/v1/download-file/6f1c1a52-4b0e-4a43-9d4f-2f3c8a6c1b11/..",
	} {
		w := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestListAndStats(t *testing.T) {
	s := setupTestServer(t, &stubEngine{})

	w := s.do(http.MethodGet, "/api/v1/downloads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, quality := range []string{"720p-mp4", "360p-mp3"} {
		w = s.do(http.MethodPost, "/api/v1/download", gin.H{"url": "https://youtu.be/abc", "quality": quality})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(http.MethodGet, "/api/v1/downloads?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []domain.DownloadRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 2)

	w = s.do(http.MethodGet, "/api/v1/downloads?status=served", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/downloads/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.DownloadStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 2, stats.Completed)
}

func TestNoRoute(t *testing.T) {
	s := setupTestServer(t, &stubEngine{})

	w := s.do(http.MethodGet, "/api/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadFile_KeptWhenNotFullyDelivered(t *testing.T) {
	s := setupTestServer(t, &stubEngine{})

	w := s.do(http.MethodPost, "/api/v1/download", gin.H{"url": "https://youtu.be/abc", "quality": "720p-mp4"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.DownloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// client gone before the transfer finished
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil).WithContext(ctx)
	s.router.ServeHTTP(httptest.NewRecorder(), req)
	assert.FileExists(t, filepath.Join(s.dir, resp.ID, resp.File))

	// range request
	req = httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil)
	req.Header.Set("Range", "bytes=0-3")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "medi", w.Body.String())
	assert.FileExists(t, filepath.Join(s.dir, resp.ID, resp.File))

	record, err := s.repo.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordCompleted, record.Status)

	// a full transfer still releases it
	w = s.do(http.MethodGet, resp.DownloadURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "media-bytes", w.Body.String())
	assert.NoDirExists(t, filepath.Join(s.dir, resp.ID))
}
