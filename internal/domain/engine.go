package domain

import (
	"context"
	"fmt"
	"strconv"
)

// Engine is the extraction engine vidfetch delegates to
type Engine interface {
	// ExtractInfo resolves a media URL into metadata without downloading it
	ExtractInfo(ctx context.Context, url string, opts InfoOptions) (*RawInfo, error)

	// Download fetches (and post-processes) every URL according to opts
	Download(ctx context.Context, opts *DownloadOptions, urls []string) error
}

// EngineLogger receives the engine's log lines by level
type EngineLogger interface {
	Debug(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// InfoOptions configures a metadata-only extraction
type InfoOptions struct {
	Quiet        bool
	NoWarnings   bool
	SkipDownload bool
}

// DefaultInfoOptions returns the quiet, no-download configuration used by info
func DefaultInfoOptions() InfoOptions {
	return InfoOptions{
		Quiet:        true,
		NoWarnings:   true,
		SkipDownload: true,
	}
}

// DownloadMode selects which variant of DownloadOptions is populated
type DownloadMode string

const (
	ModeAudio DownloadMode = "audio" // audio-only extraction
	ModeVideo DownloadMode = "video" // muxed video+audio
)

// Fixed transcoding parameters
const (
	AudioFormatMP3    = "mp3"
	ContainerMP4      = "mp4"
	AudioBitrateKbps  = 192
	VideoAudioCodec   = "aac"
	DefaultResolution = "720"
	DefaultFormatType = "mp4"
)

// AudioExtraction is the audio-only configuration
type AudioExtraction struct {
	Format           string // stream selector
	PreferredCodec   string
	PreferredQuality string // kbps
}

// VideoExtraction is the combined video+audio configuration
type VideoExtraction struct {
	MaxHeight         int
	Format            string // stream selector
	MergeOutputFormat string
	ConvertTo         string
	PostprocessorArgs []string
}

// DownloadOptions is the typed replacement for the engine's option dictionary.
// Exactly one of Audio and Video is set, matching Mode.
type DownloadOptions struct {
	Mode           DownloadMode
	OutputTemplate string
	Logger         EngineLogger
	Audio          *AudioExtraction
	Video          *VideoExtraction
}

// NewAudioOptions builds an audio-only configuration writing to outtmpl
func NewAudioOptions(outtmpl string, logger EngineLogger) *DownloadOptions {
	return &DownloadOptions{
		Mode:           ModeAudio,
		OutputTemplate: outtmpl,
		Logger:         logger,
		Audio: &AudioExtraction{
			Format:           "bestaudio/best",
			PreferredCodec:   AudioFormatMP3,
			PreferredQuality: strconv.Itoa(AudioBitrateKbps),
		},
	}
}

// NewVideoOptions builds a muxed configuration capped at maxHeight.
// The video stream is copied and only the audio is re-encoded.
func NewVideoOptions(outtmpl string, maxHeight int, logger EngineLogger) *DownloadOptions {
	return &DownloadOptions{
		Mode:           ModeVideo,
		OutputTemplate: outtmpl,
		Logger:         logger,
		Video: &VideoExtraction{
			MaxHeight:         maxHeight,
			Format:            VideoFormatSelector(maxHeight),
			MergeOutputFormat: ContainerMP4,
			ConvertTo:         ContainerMP4,
			PostprocessorArgs: []string{
				"-c:v", "copy",
				"-c:a", VideoAudioCodec,
				"-b:a", fmt.Sprintf("%dk", AudioBitrateKbps),
			},
		},
	}
}

// VideoFormatSelector returns the stream selector for a height cap: best
// video under the cap plus best audio, falling back to a single muxed stream.
func VideoFormatSelector(maxHeight int) string {
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", maxHeight, maxHeight)
}

// Validate checks that the populated variant matches the mode
func (o *DownloadOptions) Validate() error {
	if o.OutputTemplate == "" {
		return fmt.Errorf("%w: output template is empty", ErrInvalidOptions)
	}

	switch o.Mode {
	case ModeAudio:
		if o.Audio == nil || o.Video != nil {
			return fmt.Errorf("%w: audio mode requires only audio settings", ErrInvalidOptions)
		}
		if o.Audio.Format == "" || o.Audio.PreferredCodec == "" {
			return fmt.Errorf("%w: audio format and codec are required", ErrInvalidOptions)
		}
	case ModeVideo:
		if o.Video == nil || o.Audio != nil {
			return fmt.Errorf("%w: video mode requires only video settings", ErrInvalidOptions)
		}
		if o.Video.MaxHeight <= 0 {
			return fmt.Errorf("%w: max height must be positive, got %d", ErrInvalidOptions, o.Video.MaxHeight)
		}
		if o.Video.Format == "" {
			return fmt.Errorf("%w: video format is required", ErrInvalidOptions)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, o.Mode)
	}

	return nil
}
