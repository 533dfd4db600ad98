package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "yt-dlp", config.Engine.YTDLPBinary)
	assert.Zero(t, config.Engine.Timeout)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 5000, config.Server.Port)
	assert.Equal(t, 2, config.Server.ConcurrentLimit)
	assert.Equal(t, 2*time.Hour, config.Server.Retention)
	assert.Equal(t, time.Hour, config.Server.CleanupInterval)
	assert.Contains(t, config.Server.AllowedHosts, "youtu.be")
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "stderr", config.Logging.OutputPath)
}
