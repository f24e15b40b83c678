package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/image"
	"github.com/johnbrannstrom/zipatoctl/internal/registry"
)

func init() {
	rootCmd.AddCommand(downCmd)

	downCmd.Flags().String("name", "", "container name (default from config)")
	downCmd.Flags().Bool("forget", false, "also remove the registry record")
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the zipatoserver container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = cfg.Container.Name
		}

		client, err := image.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create Docker client: %w", err)
		}
		defer client.Close()

		if err := client.Stop(ctx, name); err != nil {
			return err
		}

		if reg, err := registry.New(); err == nil {
			defer reg.Close()
			forget, _ := cmd.Flags().GetBool("forget")
			if forget {
				_ = reg.Remove(name)
			} else {
				_ = reg.UpdateStatus(name, config.StatusStopped, "")
			}
		}

		fmt.Printf("Stopped %s\n", name)
		return nil
	},
}
