package infrastructure

import (
	"strings"

	"github.com/yourusername/vidfetch-go/internal/domain"
)

// buildInfoArgs builds the yt-dlp argument vector for a metadata-only run.
// Note: exec.Command passes args directly to the process, no shell quoting needed
func buildInfoArgs(config *domain.EngineConfig, url string, opts domain.InfoOptions) []string {
	args := []string{"--dump-single-json", "--no-playlist"}

	if opts.Quiet {
		args = append(args, "--quiet")
	}
	if opts.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if opts.SkipDownload {
		args = append(args, "--skip-download")
	}

	args = append(args, commonArgs(config)...)
	return append(args, url)
}

// buildDownloadArgs builds the yt-dlp argument vector for a download run
func buildDownloadArgs(config *domain.EngineConfig, opts *domain.DownloadOptions, urls []string) []string {
	args := []string{
		"--newline",
		"--no-playlist",
		"-o", opts.OutputTemplate,
	}

	switch opts.Mode {
	case domain.ModeAudio:
		a := opts.Audio
		args = append(args,
			"-f", a.Format,
			"--extract-audio",
			"--audio-format", a.PreferredCodec,
			"--audio-quality", a.PreferredQuality+"K",
		)
	case domain.ModeVideo:
		v := opts.Video
		args = append(args,
			"-f", v.Format,
			"--merge-output-format", v.MergeOutputFormat,
			"--recode-video", v.ConvertTo,
		)
		if len(v.PostprocessorArgs) > 0 {
			args = append(args, "--postprocessor-args", strings.Join(v.PostprocessorArgs, " "))
		}
	}

	args = append(args, commonArgs(config)...)
	return append(args, urls...)
}

// commonArgs returns the flags derived from engine configuration
func commonArgs(config *domain.EngineConfig) []string {
	var args []string

	if config.FFmpegLocation != "" {
		args = append(args, "--ffmpeg-location", config.FFmpegLocation)
	}

	// Add cookie file if configured
	if config.CookieFile != "" && fileExists(config.CookieFile) {
		args = append(args, "--cookies", config.CookieFile)
	}

	return args
}
