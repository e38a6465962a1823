package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/beaconscan/pkg/serve"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run Beaconscan as a long-lived server that accepts coverage, count and
find_gap requests via stdin and writes responses to stdout using NDJSON.

Sensor reports are loaded once at startup. The process runs until stdin
closes, a close request arrives, or SIGTERM is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	analyzer, err := loadAnalyzer()
	if err != nil {
		return err
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(analyzer, cmd.InOrStdin(), cmd.OutOrStdout())
	srv.SetLogger(logger)
	return srv.Run(ctx)
}
