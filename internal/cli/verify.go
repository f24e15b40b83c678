package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/registry"
	"github.com/johnbrannstrom/zipatoctl/internal/sshprobe"
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("name", "", "deployment name (default from config)")
	verifyCmd.Flags().String("host", "127.0.0.1", "host the container ports are mapped on")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a deployed container against the image contract",
	Long: `Connect to the deployed container over SSH (root, fixed password) and
check the image contract: executable application files, the conf
template, locale, timezone, host mount points, and that cron and sshd
are running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = cfg.Container.Name
		}
		host, _ := cmd.Flags().GetString("host")

		reg, err := registry.New()
		if err != nil {
			return err
		}
		defer reg.Close()

		d, err := reg.Get(name)
		if err != nil {
			return err
		}
		if d.Status != config.StatusRunning && d.Status != config.StatusVerified {
			return fmt.Errorf("deployment %s is %s; run 'zipatoctl deploy' first", name, d.Status)
		}

		probe, err := sshprobe.Dial(host, d.HostSSHPort, cfg.Build.RootPassword)
		if err != nil {
			return fmt.Errorf("ssh probe failed: %w", err)
		}
		defer probe.Close()

		checks := sshprobe.ContractChecks(cfg.Build.Locale, cfg.Build.Timezone)
		failed := 0
		for _, check := range checks {
			if err := probe.RunCheck(check); err != nil {
				fmt.Printf("%s %s: %v\n", color.RedString("FAIL"), check.Name, err)
				failed++
				continue
			}
			fmt.Printf("%s %s\n", color.GreenString("ok"), check.Name)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(checks))
		}

		_ = reg.UpdateStatus(name, config.StatusVerified, "")
		fmt.Printf("All checks passed for %s\n", name)
		return nil
	},
}
