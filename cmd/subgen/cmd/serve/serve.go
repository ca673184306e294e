package serve

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subgen/internal/api/server"
	"subgen/internal/config"
)

var (
	host string
	port string
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "bind address, overrides HOST")
	Cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the subtitle generation HTTP API server",
	Long: `Run the subtitle generation HTTP API server

Exposes transcription, translation and subtitle export endpoints under
/api/v1, plus /health and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		if host != "" {
			settings.Host = host
		}
		if port != "" {
			settings.Port = port
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		srv, err := server.NewServer(server.DefaultConfig(settings), settings, logger)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
