package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/medalpine/medrag/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	srv := httpapi.NewServer(a.cfg.Server.ListenAddr, a.queries, a.indexer, a.feed)
	return srv.Run(ctx)
}
