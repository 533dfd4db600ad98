package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yourusername/vidfetch-go/internal/domain"
	"github.com/yourusername/vidfetch-go/internal/infrastructure"
)

// environment carries the process surfaces commands write to, so they can be
// swapped in tests
type environment struct {
	stdout    io.Writer
	stderr    io.Writer
	newEngine func(config *domain.EngineConfig, log *zap.Logger) domain.Engine
}

func defaultEnvironment() *environment {
	return &environment{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newEngine: func(config *domain.EngineConfig, log *zap.Logger) domain.Engine {
			return infrastructure.NewYTDLPEngine(config, log)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], defaultEnvironment())
	stop()
	os.Exit(code)
}
