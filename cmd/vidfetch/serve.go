package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/vidfetch-go/api"
	"github.com/yourusername/vidfetch-go/internal/app"
	"github.com/yourusername/vidfetch-go/internal/domain"
	"github.com/yourusername/vidfetch-go/internal/infrastructure"
	"github.com/yourusername/vidfetch-go/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(env *environment, opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve video info and downloads over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runServer(cmd.Context(), env, opts, addr); err != nil {
				return &startupError{err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.host and server.port")

	return cmd
}

func runServer(ctx context.Context, env *environment, opts *globalOptions, addr string) error {
	config, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := app.ValidateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if opts.logLevel != "" {
		config.Logging.Level = opts.logLevel
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	if addr == "" {
		addr = fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	}

	log.Info("Starting vidfetch server",
		zap.String("addr", addr),
		zap.String("downloads_dir", config.Server.DownloadsDir),
		zap.String("ytdlp", config.Engine.YTDLPBinary))

	if err := createDirectories(config); err != nil {
		return err
	}

	repo, err := infrastructure.NewSQLiteDownloadRepository(config.Server.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	engine := env.newEngine(&config.Engine, log)
	service := app.NewDownloadService(repo,
		app.NewMetadataFetcher(engine, log),
		app.NewDownloadOrchestrator(engine, infrastructure.NewRelayLogger(env.stderr), log),
		&config.Server,
		log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	janitor := infrastructure.NewJanitor(
		config.Server.DownloadsDir,
		config.Server.Retention,
		config.Server.CleanupInterval,
		service.ExpireFolder,
		log)
	go janitor.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:    addr,
		Handler: api.SetupRouter(service, log),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	}

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

func createDirectories(config *domain.Config) error {
	dirs := []string{
		config.Server.DownloadsDir,
		filepath.Dir(config.Server.DatabasePath),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
