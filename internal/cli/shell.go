package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/image"
)

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().String("name", "", "container name (default from config)")
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive shell in the deployed container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = cfg.Container.Name
		}

		client, err := image.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create Docker client: %w", err)
		}
		defer client.Close()

		return client.Shell(ctx, name)
	},
}
