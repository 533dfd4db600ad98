package domain

// NoCodec is the codec value the engine reports for a stream that is absent
// from a format (e.g. the audio side of a video-only format).
const NoCodec = "none"

// RawInfo is the subset of the engine's metadata document that vidfetch reads
type RawInfo struct {
	ID        string      `json:"id"`
	Title     *string     `json:"title"`
	Thumbnail *string     `json:"thumbnail"`
	Duration  *float64    `json:"duration"`
	Uploader  *string     `json:"uploader"`
	Formats   []RawFormat `json:"formats"`
}

// RawFormat is one entry of the engine's format list
type RawFormat struct {
	FormatID string `json:"format_id"`
	Height   *int   `json:"height"`
	Ext      string `json:"ext"`
	Filesize *int64 `json:"filesize"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
}

// VideoInfo is the info result printed for a media URL. Metadata the engine
// does not report is null.
type VideoInfo struct {
	URL       string            `json:"url"`
	Title     *string           `json:"title"`
	Thumbnail *string           `json:"thumbnail"`
	Duration  *float64          `json:"duration"`
	Author    *string           `json:"author"`
	Formats   []EncodingVariant `json:"formats"`
}

// EncodingVariant is one downloadable resolution/codec/container combination
type EncodingVariant struct {
	ID            string `json:"id"`
	HeightQuality *int   `json:"heightQuality"`
	ContainerExt  string `json:"containerExt"`
	SizeBytes     int64  `json:"sizeBytes"`
	HasVideo      bool   `json:"hasVideo"`
	HasAudio      bool   `json:"hasAudio"`
	Container     string `json:"container"`
}

// NewVideoInfo maps the engine's raw metadata onto the info result.
// Formats without a known size are dropped; engine order is kept.
func NewVideoInfo(url string, raw *RawInfo) *VideoInfo {
	info := &VideoInfo{
		URL:       url,
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		Duration:  raw.Duration,
		Author:    raw.Uploader,
		Formats:   make([]EncodingVariant, 0, len(raw.Formats)),
	}

	for _, f := range raw.Formats {
		if f.Filesize == nil {
			continue
		}
		info.Formats = append(info.Formats, EncodingVariant{
			ID:            f.FormatID,
			HeightQuality: f.Height,
			ContainerExt:  f.Ext,
			SizeBytes:     *f.Filesize,
			HasVideo:      f.VCodec != NoCodec,
			HasAudio:      f.ACodec != NoCodec,
			Container:     f.Ext,
		})
	}

	return info
}

// DownloadResult is the download result printed for a finished download
type DownloadResult struct {
	Success bool   `json:"success,omitempty"`
	File    string `json:"file,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResult is the in-band failure shape shared by every command
type ErrorResult struct {
	Error string `json:"error"`
}
