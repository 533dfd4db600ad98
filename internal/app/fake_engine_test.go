package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/yourusername/vidfetch-go/internal/domain"
)

// fakeEngine implements domain.Engine for testing
type fakeEngine struct {
	info     *domain.RawInfo
	infoErr  error
	infoOpts domain.InfoOptions

	downloadErr  error
	writeExt     string // extension appended to the output template on success
	downloadOpts *domain.DownloadOptions
	downloadURLs []string
	infoCalls    int
}

func (f *fakeEngine) ExtractInfo(ctx context.Context, url string, opts domain.InfoOptions) (*domain.RawInfo, error) {
	f.infoCalls++
	f.infoOpts = opts
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeEngine) Download(ctx context.Context, opts *domain.DownloadOptions, urls []string) error {
	f.downloadOpts = opts
	f.downloadURLs = urls
	if err := opts.Validate(); err != nil {
		return err
	}
	if f.downloadErr != nil {
		return f.downloadErr
	}
	if opts.Logger != nil {
		opts.Logger.Debug("[download] 100% of 1.00MiB")
	}
	if f.writeExt != "" {
		path := opts.OutputTemplate + f.writeExt
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte("media"), 0644)
	}
	return nil
}
