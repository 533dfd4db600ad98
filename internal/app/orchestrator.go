package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/vidfetch-go/internal/domain"
	"github.com/yourusername/vidfetch-go/internal/infrastructure"
	"go.uber.org/zap"
)

// OutputPrefix starts every output file name
const OutputPrefix = "download-"

// DownloadRequest describes one download
type DownloadRequest struct {
	URL        string
	OutputDir  string
	Resolution string // max height, "720" when empty
	FormatType string // "mp3" for audio only, "mp4" when empty
}

// withDefaults fills the optional fields
func (r DownloadRequest) withDefaults() DownloadRequest {
	if r.Resolution == "" {
		r.Resolution = domain.DefaultResolution
	}
	if r.FormatType == "" {
		r.FormatType = domain.DefaultFormatType
	}
	return r
}

// IsAudioOnly reports whether the request asks for audio extraction
func (r DownloadRequest) IsAudioOnly() bool {
	return r.FormatType == domain.AudioFormatMP3
}

// DownloadOrchestrator runs downloads and discovers the file they produce
type DownloadOrchestrator struct {
	engine domain.Engine
	relay  domain.EngineLogger
	logger *zap.Logger
}

// NewDownloadOrchestrator creates a new orchestrator. relay receives the
// engine's progress output.
func NewDownloadOrchestrator(engine domain.Engine, relay domain.EngineLogger, logger *zap.Logger) *DownloadOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadOrchestrator{
		engine: engine,
		relay:  relay,
		logger: logger,
	}
}

// Download fetches req.URL into req.OutputDir and returns the name of the
// produced file
func (o *DownloadOrchestrator) Download(ctx context.Context, req DownloadRequest) (string, error) {
	req = req.withDefaults()

	outtmpl, base := OutputTemplate(req.OutputDir)
	opts, err := o.buildOptions(req, outtmpl)
	if err != nil {
		return "", err
	}

	o.logger.Info("Starting download",
		zap.String("url", req.URL),
		zap.String("output_dir", req.OutputDir),
		zap.String("mode", string(opts.Mode)),
		zap.String("resolution", req.Resolution))

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := o.engine.Download(ctx, opts, []string{req.URL}); err != nil {
		o.logger.Warn("Download failed", zap.String("url", req.URL), zap.Error(err))
		return "", err
	}

	file, err := infrastructure.FindByPrefix(req.OutputDir, base)
	if err != nil {
		return "", err
	}
	if file == "" {
		o.logger.Warn("Downloaded file not found",
			zap.String("output_dir", req.OutputDir),
			zap.String("prefix", base))
		return "", domain.ErrFileNotFound
	}

	o.logger.Info("Download completed", zap.String("url", req.URL), zap.String("file", file))
	return file, nil
}

// DownloadVideo is Download rendered as a DownloadResult. It never fails.
func (o *DownloadOrchestrator) DownloadVideo(ctx context.Context, req DownloadRequest) domain.DownloadResult {
	file, err := o.Download(ctx, req)
	if err != nil {
		return domain.DownloadResult{Error: err.Error()}
	}
	return domain.DownloadResult{Success: true, File: file}
}

func (o *DownloadOrchestrator) buildOptions(req DownloadRequest, outtmpl string) (*domain.DownloadOptions, error) {
	if req.IsAudioOnly() {
		return domain.NewAudioOptions(outtmpl, o.relay), nil
	}

	height, err := ParseResolution(req.Resolution)
	if err != nil {
		return nil, err
	}
	return domain.NewVideoOptions(outtmpl, height, o.relay), nil
}

// OutputTemplate returns the extensionless output path for outputDir and its
// base name, "download-<basename(outputDir)>"
func OutputTemplate(outputDir string) (string, string) {
	base := OutputPrefix + filepath.Base(filepath.Clean(outputDir))
	return filepath.Join(outputDir, base), base
}

// ParseResolution parses a height such as "720" or "720p"
func ParseResolution(resolution string) (int, error) {
	height, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(resolution), "p"))
	if err != nil || height <= 0 {
		return 0, fmt.Errorf("invalid resolution: %q", resolution)
	}
	return height, nil
}
