package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/image"
	"github.com/johnbrannstrom/zipatoctl/internal/registry"
	"github.com/johnbrannstrom/zipatoctl/internal/source"
)

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().String("image", "", "image to deploy (default: zipatoserver:latest)")
	deployCmd.Flags().String("name", "", "container name (default from config)")
	deployCmd.Flags().Int("ssh-port", 0, "host port mapped to the in-container sshd (default from config)")
	deployCmd.Flags().Int("app-port", 0, "host port mapped to the application port (default: same as build port)")
	deployCmd.Flags().String("log-dir", "", "host directory bind-mounted on /mnt/host/var/log")
	deployCmd.Flags().String("etc-dir", "", "host directory bind-mounted on /mnt/host/etc")
}

// collectMounts resolves the optional host bind mounts for the mount
// points the image pre-creates.
func collectMounts(cmd *cobra.Command) ([]image.Mount, error) {
	var mounts []image.Mount
	for flag, target := range map[string]string{
		"log-dir": config.HostLogMount,
		"etc-dir": config.HostEtcMount,
	} {
		dir, _ := cmd.Flags().GetString(flag)
		if dir == "" {
			continue
		}
		expanded, err := source.ExpandPath(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid %s path %q: %w", flag, dir, err)
		}
		mounts = append(mounts, image.Mount{Source: expanded, Target: target})
	}
	return mounts, nil
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Start a zipatoserver container and its services",
	Long: `Create and start a container from the built image, then run the
generated start scripts: start_services.sh (cron and sshd) followed by
start_main.sh (the zipatoserver application).

Examples:
  zipatoctl deploy
  zipatoctl deploy --ssh-port 2222 --app-port 8081`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		imageTag, _ := cmd.Flags().GetString("image")
		if imageTag == "" {
			imageTag = cfg.Image.Name
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = cfg.Container.Name
		}
		sshPort, _ := cmd.Flags().GetInt("ssh-port")
		if sshPort == 0 {
			sshPort = cfg.Container.HostSSHPort
		}
		appPort, _ := cmd.Flags().GetInt("app-port")
		if appPort == 0 {
			appPort = hostAppPort(cfg, cfg.Build.Port)
		}

		mounts, err := collectMounts(cmd)
		if err != nil {
			return err
		}

		client, err := image.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create Docker client: %w", err)
		}
		defer client.Close()

		exists, err := client.ImageExists(ctx, imageTag)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("image %q not found; run 'zipatoctl build' first", imageTag)
		}

		fmt.Printf("Deploying %s as %s (ssh :%d, app :%d)...\n", imageTag, name, sshPort, appPort)
		containerID, err := client.Deploy(ctx, image.DeployOptions{
			Image:       imageTag,
			Name:        name,
			AppPort:     cfg.Build.Port,
			HostAppPort: appPort,
			HostSSHPort: sshPort,
			Mounts:      mounts,
			MemoryLimit: cfg.Container.MemoryLimit,
			Network:     cfg.Container.Network,
		})
		if err != nil {
			return fmt.Errorf("deploy failed: %w", err)
		}

		if reg, err := registry.New(); err == nil {
			defer reg.Close()
			_ = reg.Record(registry.Deployment{
				Name:        name,
				ImageTag:    imageTag,
				AppPort:     cfg.Build.Port,
				HostAppPort: appPort,
				HostSSHPort: sshPort,
				ContainerID: containerID,
				Status:      config.StatusRunning,
			})
		}

		fmt.Printf("Deployed %s: cron and sshd running, zipatoserver on port %d\n", name, cfg.Build.Port)
		return nil
	},
}
