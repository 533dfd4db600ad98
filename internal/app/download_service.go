package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yourusername/vidfetch-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadService runs HTTP-initiated downloads in per-request folders and
// keeps their history
type DownloadService struct {
	repo         domain.DownloadRepository
	fetcher      *MetadataFetcher
	orchestrator *DownloadOrchestrator
	downloadsDir string
	allowedHosts map[string]struct{}
	semaphore    chan struct{}
	logger       *zap.Logger
}

// NewDownloadService creates a new download service
func NewDownloadService(
	repo domain.DownloadRepository,
	fetcher *MetadataFetcher,
	orchestrator *DownloadOrchestrator,
	config *domain.ServerConfig,
	logger *zap.Logger,
) *DownloadService {
	if logger == nil {
		logger = zap.NewNop()
	}

	hosts := make(map[string]struct{}, len(config.AllowedHosts))
	for _, host := range config.AllowedHosts {
		hosts[strings.ToLower(host)] = struct{}{}
	}

	limit := config.ConcurrentLimit
	if limit < 1 {
		limit = 1
	}

	return &DownloadService{
		repo:         repo,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		downloadsDir: config.DownloadsDir,
		allowedHosts: hosts,
		semaphore:    make(chan struct{}, limit),
		logger:       logger,
	}
}

// ValidateURL checks that rawURL is an http(s) URL on an allowed host
func (s *DownloadService) ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return domain.ErrHostNotAllowed
	}
	if len(s.allowedHosts) == 0 {
		return nil
	}
	if _, ok := s.allowedHosts[strings.ToLower(u.Hostname())]; !ok {
		return domain.ErrHostNotAllowed
	}
	return nil
}

// VideoInfo fetches metadata for an allowed URL
func (s *DownloadService) VideoInfo(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	if err := s.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return s.fetcher.Fetch(ctx, rawURL)
}

// Download runs one download into a fresh folder under the downloads
// directory. The returned record is non-nil whenever a record was created,
// including on failure.
func (s *DownloadService) Download(ctx context.Context, rawURL, quality string) (*domain.DownloadRecord, error) {
	if err := s.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	resolution, format, err := ParseQuality(quality)
	if err != nil {
		return nil, err
	}

	record := domain.NewDownloadRecord(rawURL, resolution, format)
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create download record: %w", err)
	}

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		s.fail(record, ctx.Err())
		return record, ctx.Err()
	}

	folder := filepath.Join(s.downloadsDir, record.ID)
	file, err := s.orchestrator.Download(ctx, DownloadRequest{
		URL:        rawURL,
		OutputDir:  folder,
		Resolution: resolution,
		FormatType: format,
	})
	if err != nil {
		s.fail(record, err)
		if rmErr := os.RemoveAll(folder); rmErr != nil {
			s.logger.Warn("Failed to remove download folder", zap.String("id", record.ID), zap.Error(rmErr))
		}
		return record, err
	}

	record.MarkCompleted(file)
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("Failed to update download record", zap.String("id", record.ID), zap.Error(err))
	}

	return record, nil
}

func (s *DownloadService) fail(record *domain.DownloadRecord, cause error) {
	record.MarkFailed(cause)
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("Failed to update download record", zap.String("id", record.ID), zap.Error(err))
	}
}

// FilePath resolves a deliverable file. id must be the uuid of a completed
// download and name the bare file name it produced.
func (s *DownloadService) FilePath(id, name string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrDeliveryNotFound
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", domain.ErrDeliveryNotFound
	}

	record, err := s.repo.FindByID(id)
	if err != nil || !record.IsDeliverable() || record.FileName != name {
		return "", domain.ErrDeliveryNotFound
	}

	path := filepath.Join(s.downloadsDir, id, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", domain.ErrDeliveryNotFound
	}
	return path, nil
}

// Release removes a delivered download's folder and marks its record served
func (s *DownloadService) Release(id string) error {
	if err := os.RemoveAll(filepath.Join(s.downloadsDir, id)); err != nil {
		return fmt.Errorf("failed to remove download folder: %w", err)
	}

	s.logger.Info("Download delivered and removed", zap.String("id", id))

	record, err := s.repo.FindByID(id)
	if err != nil {
		return nil
	}
	record.MarkServed()
	if err := s.repo.Update(record); err != nil {
		return fmt.Errorf("failed to update download record: %w", err)
	}
	return nil
}

// ExpireFolder marks the record of a folder removed by the janitor as expired
func (s *DownloadService) ExpireFolder(name string) {
	record, err := s.repo.FindByID(name)
	if err != nil {
		return
	}
	if record.Status == domain.RecordServed || record.Status == domain.RecordFailed {
		return
	}

	record.MarkExpired()
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("Failed to expire download record", zap.String("id", name), zap.Error(err))
	}
}

// List returns the download history, newest first
func (s *DownloadService) List(status domain.RecordStatus) ([]*domain.DownloadRecord, error) {
	return s.repo.FindAll(status)
}

// Stats returns counts per status
func (s *DownloadService) Stats() (*domain.DownloadStats, error) {
	return s.repo.GetStats()
}

// DownloadsDir returns the directory holding per-download folders
func (s *DownloadService) DownloadsDir() string {
	return s.downloadsDir
}

// DownloadURL returns the path a client fetches a completed record's file from
func DownloadURL(record *domain.DownloadRecord) string {
	return fmt.Sprintf("/api/v1/download-file/%s/%s", record.ID, url.PathEscape(record.FileName))
}

// ParseQuality splits a quality such as "720p-mp4" or "1080p-mp3" into its
// resolution and format. Empty parts take the defaults.
func ParseQuality(quality string) (string, string, error) {
	resolution, format, _ := strings.Cut(strings.TrimSpace(quality), "-")
	resolution = strings.TrimSuffix(resolution, "p")

	if resolution == "" {
		resolution = domain.DefaultResolution
	}
	if format == "" {
		format = domain.DefaultFormatType
	}

	if _, err := ParseResolution(resolution); err != nil {
		return "", "", fmt.Errorf("%w %q: %v", domain.ErrInvalidQuality, quality, err)
	}
	if strings.ContainsAny(format, `/\ `) {
		return "", "", fmt.Errorf("%w %q: bad format", domain.ErrInvalidQuality, quality)
	}

	return resolution, format, nil
}

// IsClientError reports whether err was caused by the request itself
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrHostNotAllowed) || errors.Is(err, domain.ErrInvalidQuality)
}
