package app

import (
	"context"

	"github.com/yourusername/vidfetch-go/internal/domain"
	"go.uber.org/zap"
)

// MetadataFetcher resolves media URLs into VideoInfo without downloading
type MetadataFetcher struct {
	engine domain.Engine
	logger *zap.Logger
}

// NewMetadataFetcher creates a new metadata fetcher
func NewMetadataFetcher(engine domain.Engine, logger *zap.Logger) *MetadataFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataFetcher{
		engine: engine,
		logger: logger,
	}
}

// Fetch asks the engine for metadata only and maps it onto VideoInfo
func (f *MetadataFetcher) Fetch(ctx context.Context, url string) (*domain.VideoInfo, error) {
	f.logger.Info("Fetching video info", zap.String("url", url))

	raw, err := f.engine.ExtractInfo(ctx, url, domain.DefaultInfoOptions())
	if err != nil {
		f.logger.Warn("Video info extraction failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	info := domain.NewVideoInfo(url, raw)
	f.logger.Info("Video info fetched",
		zap.String("url", url),
		zap.Stringp("title", info.Title),
		zap.Int("raw_formats", len(raw.Formats)),
		zap.Int("formats", len(info.Formats)))

	return info, nil
}

// FetchInfo is Fetch rendered as its printable result: the VideoInfo or an
// ErrorResult. It never fails.
func (f *MetadataFetcher) FetchInfo(ctx context.Context, url string) interface{} {
	info, err := f.Fetch(ctx, url)
	if err != nil {
		return domain.ErrorResult{Error: err.Error()}
	}
	return info
}
