package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/vidfetch-go/internal/app"
	"github.com/yourusername/vidfetch-go/internal/domain"
	"github.com/yourusername/vidfetch-go/internal/infrastructure"
)

func invalidCommand(env *environment) {
	printJSON(env.stdout, domain.ErrorResult{Error: domain.ErrInvalidCommand.Error()})
}

func newInfoCmd(env *environment, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <url>",
		Short: "Print metadata and available formats of a video",
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				invalidCommand(env)
				return
			}

			safeRun(env.stdout, func() (interface{}, error) {
				config, log, err := loadCLI(env, opts)
				if err != nil {
					return nil, err
				}
				defer log.Sync()

				fetcher := app.NewMetadataFetcher(env.newEngine(&config.Engine, log), log)
				return fetcher.FetchInfo(cmd.Context(), args[0]), nil
			})
		},
	}
}

func newDownloadCmd(env *environment, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <url> <outputDir> [resolution] [formatType]",
		Short: "Download a video (or its audio as mp3) into outputDir",
		Long: `Download a video into outputDir, capped at resolution (default 720).
formatType mp3 extracts audio only; anything else produces mp4 (default).`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 || len(args) > 4 {
				invalidCommand(env)
				return
			}

			req := app.DownloadRequest{URL: args[0], OutputDir: args[1]}
			if len(args) > 2 {
				req.Resolution = args[2]
			}
			if len(args) > 3 {
				req.FormatType = args[3]
			}

			safeRun(env.stdout, func() (interface{}, error) {
				config, log, err := loadCLI(env, opts)
				if err != nil {
					return nil, err
				}
				defer log.Sync()

				orchestrator := app.NewDownloadOrchestrator(
					env.newEngine(&config.Engine, log),
					infrastructure.NewRelayLogger(env.stderr),
					log,
				)
				return orchestrator.DownloadVideo(cmd.Context(), req), nil
			})
		},
	}
}
