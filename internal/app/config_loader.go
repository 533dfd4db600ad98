package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yourusername/vidfetch-go/internal/domain"
)

// LoadConfig loads configuration from file and environment. A missing
// config file is not an error; defaults apply.
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.vidfetch")
		v.AddConfigPath("/etc/vidfetch")
	}

	v.SetEnvPrefix("VIDFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv loads variables from ./.env when present. Variables already set
// in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// bindEnvKeys registers every key so AutomaticEnv also applies to Unmarshal
// when no config file mentions the key
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"engine.ytdlp_binary", "engine.ffmpeg_location", "engine.cookie_file", "engine.timeout",
		"server.host", "server.port", "server.downloads_dir", "server.database_path",
		"server.allowed_hosts", "server.concurrent_limit", "server.retention", "server.cleanup_interval",
		"logging.level", "logging.format", "logging.output_path",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Engine.YTDLPBinary = expandPath(config.Engine.YTDLPBinary)
	config.Engine.FFmpegLocation = expandPath(config.Engine.FFmpegLocation)
	config.Engine.CookieFile = expandPath(config.Engine.CookieFile)
	config.Server.DownloadsDir = expandPath(config.Server.DownloadsDir)
	config.Server.DatabasePath = expandPath(config.Server.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// validateConfig validates the sections every command uses. The server
// section is checked by ValidateServerConfig when serving.
func validateConfig(config *domain.Config) error {
	if config.Engine.YTDLPBinary == "" {
		return fmt.Errorf("yt-dlp binary not configured")
	}

	if config.Engine.Timeout < 0 {
		return fmt.Errorf("engine timeout cannot be negative")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// ValidateServerConfig validates the configuration of the serve command
func ValidateServerConfig(config *domain.ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Port)
	}

	if config.DownloadsDir == "" {
		return fmt.Errorf("downloads directory not configured")
	}

	if config.ConcurrentLimit < 1 {
		return fmt.Errorf("concurrent limit must be at least 1")
	}

	if config.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}

	if config.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}

	return nil
}
