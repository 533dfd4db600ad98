package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/yourusername/vidfetch-go/internal/domain"
	"go.uber.org/zap"
)

// YTDLPEngine implements domain.Engine by running the yt-dlp executable
type YTDLPEngine struct {
	config *domain.EngineConfig
	logger *zap.Logger
}

// NewYTDLPEngine creates a new yt-dlp backed engine
func NewYTDLPEngine(config *domain.EngineConfig, logger *zap.Logger) *YTDLPEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPEngine{
		config: config,
		logger: logger,
	}
}

// ExtractInfo runs yt-dlp in dump-json mode and decodes its metadata document
func (e *YTDLPEngine) ExtractInfo(ctx context.Context, url string, opts domain.InfoOptions) (*domain.RawInfo, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	args := buildInfoArgs(e.config, url, opts)
	e.logger.Debug("Running yt-dlp", zap.String("cmd", ShellEscapeCommand(e.config.YTDLPBinary, args...)))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, e.engineError(ctx, lastErrorLine(stderr.String()), err)
	}

	var raw domain.RawInfo
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	return &raw, nil
}

// Download runs yt-dlp for urls, relaying its output through opts.Logger
func (e *YTDLPEngine) Download(ctx context.Context, opts *domain.DownloadOptions, urls []string) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	args := buildDownloadArgs(e.config, opts, urls)
	e.logger.Debug("Running yt-dlp", zap.String("cmd", ShellEscapeCommand(e.config.YTDLPBinary, args...)))

	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open yt-dlp stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open yt-dlp stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	var (
		wg      sync.WaitGroup
		lastErr string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		relayLines(stdout, false, opts.Logger)
	}()
	go func() {
		defer wg.Done()
		lastErr = relayLines(stderr, true, opts.Logger)
	}()

	// Pipes must be drained before Wait closes them
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return e.engineError(ctx, lastErr, err)
	}

	return nil
}

// withTimeout applies the configured engine timeout, if any
func (e *YTDLPEngine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.Timeout > 0 {
		return context.WithTimeout(ctx, e.config.Timeout)
	}
	return context.WithCancel(ctx)
}

func (e *YTDLPEngine) engineError(ctx context.Context, message string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && message == "" {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	engineErr := domain.NewEngineError(message, err)
	e.logger.Debug("yt-dlp failed",
		zap.String("kind", string(engineErr.Kind)),
		zap.String("message", engineErr.Error()))
	return engineErr
}

// relayLines dispatches every line of r to logger at its classified level and
// returns the last error line seen
func relayLines(r io.Reader, fromStderr bool, logger domain.EngineLogger) string {
	var lastErr string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		level := classifyLine(line, fromStderr)
		if level == levelError {
			lastErr = line
		}
		if logger == nil {
			continue
		}

		switch level {
		case levelDebug:
			logger.Debug(line)
		case levelInfo:
			logger.Info(line)
		case levelWarning:
			logger.Warning(line)
		case levelError:
			logger.Error(line)
		}
	}

	// Keep the child from blocking on a full pipe after an oversized line
	io.Copy(io.Discard, r)

	return lastErr
}

// lastErrorLine returns the last "ERROR:" line of captured stderr output
func lastErrorLine(output string) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, errorPrefix) {
			return line
		}
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
