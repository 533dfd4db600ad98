package domain

import "time"

// Config represents the application configuration
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig contains yt-dlp related configuration
type EngineConfig struct {
	YTDLPBinary    string        `mapstructure:"ytdlp_binary"`
	FFmpegLocation string        `mapstructure:"ffmpeg_location"` // empty: let yt-dlp search PATH
	CookieFile     string        `mapstructure:"cookie_file"`
	Timeout        time.Duration `mapstructure:"timeout"` // 0 disables the limit
}

// ServerConfig contains configuration for the serve command
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DownloadsDir    string        `mapstructure:"downloads_dir"`
	DatabasePath    string        `mapstructure:"database_path"`
	AllowedHosts    []string      `mapstructure:"allowed_hosts"` // empty allows any host
	ConcurrentLimit int           `mapstructure:"concurrent_limit"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			YTDLPBinary: "yt-dlp",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            5000,
			DownloadsDir:    "$HOME/.vidfetch/downloads",
			DatabasePath:    "$HOME/.vidfetch/history.db",
			AllowedHosts:    []string{"youtube.com", "www.youtube.com", "m.youtube.com", "youtu.be"},
			ConcurrentLimit: 2,
			Retention:       2 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
