package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/registry"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded builds and deployments",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.New()
		if err != nil {
			return err
		}
		defer reg.Close()

		deployments, err := reg.List()
		if err != nil {
			return err
		}

		if len(deployments) == 0 {
			fmt.Println("No deployments recorded. Run 'zipatoctl build' first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tIMAGE\tAPP PORT\tSSH PORT\tSTATUS\tUPDATED")
		for _, d := range deployments {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
				d.Name, d.ImageTag, d.HostAppPort, d.HostSSHPort,
				statusColored(d.Status), d.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

func statusColored(status string) string {
	switch status {
	case config.StatusRunning:
		return color.GreenString(status)
	case config.StatusVerified:
		return color.CyanString(status)
	case config.StatusStopped:
		return color.YellowString(status)
	default:
		return status
	}
}
