package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/image"
	"github.com/johnbrannstrom/zipatoctl/internal/recipe"
	"github.com/johnbrannstrom/zipatoctl/internal/registry"
	"github.com/johnbrannstrom/zipatoctl/internal/source"
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().IntP("port", "p", 0, "zipatoserver listening port baked into start_main.sh (default from config)")
	buildCmd.Flags().StringP("tag", "t", "", "display tag inserted into the shell prompt (default from config)")
	buildCmd.Flags().String("image", "", "image name (default: zipatoserver:latest)")
	buildCmd.Flags().StringP("source", "s", "", "directory with zipatoserver.py, ping.py and the conf template")
	buildCmd.Flags().String("git", "", "git repository to fetch the application files from")
	buildCmd.Flags().Bool("no-cache", false, "do not use cache when building")
	buildCmd.Flags().String("platform", "", "target platform (e.g., linux/amd64)")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the zipatoserver Docker image",
	Long: `Build the zipatoserver Docker image from the generated recipe.

The PORT and TAG build arguments are substituted into the generated
start scripts and the shell prompt at build time. Application files come
from a local directory or a git repository.

Examples:
  zipatoctl build -p 8080 -t dev -s ./zipatoserver
  zipatoctl build --git https://github.com/johnbrannstrom/zipatoserver
  zipatoctl build --no-cache`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// Flags override config
		src := cfg.Source
		if dir, _ := cmd.Flags().GetString("source"); dir != "" {
			src.Dir = dir
			src.GitURL = ""
		}
		if url, _ := cmd.Flags().GetString("git"); url != "" {
			src.GitURL = url
			src.Dir = ""
		}

		params := recipe.ParamsFromConfig(cfg)
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			params.Port = port
		}
		if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
			params.Tag = tag
		}

		imageTag, _ := cmd.Flags().GetString("image")
		if imageTag == "" {
			imageTag = cfg.Image.Name
		}

		r, err := recipe.Render(params)
		if err != nil {
			return err
		}

		app, err := source.Collect(ctx, src)
		if err != nil {
			return err
		}

		client, err := image.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create Docker client: %w", err)
		}
		defer client.Close()

		noCache, _ := cmd.Flags().GetBool("no-cache")
		platform, _ := cmd.Flags().GetString("platform")

		fmt.Printf("Building image %s (port %d, tag %s)...\n", imageTag, params.Port, params.Tag)
		err = client.Build(ctx, image.BuildOptions{
			ImageTag: imageTag,
			Recipe:   r,
			App:      app,
			Port:     params.Port,
			Tag:      params.Tag,
			NoCache:  noCache,
			Platform: platform,
		})
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}

		if reg, err := registry.New(); err == nil {
			defer reg.Close()
			_ = reg.Record(registry.Deployment{
				Name:        cfg.Container.Name,
				ImageTag:    imageTag,
				AppPort:     params.Port,
				HostAppPort: hostAppPort(cfg, params.Port),
				HostSSHPort: cfg.Container.HostSSHPort,
				Status:      config.StatusBuilt,
			})
		}

		fmt.Printf("Successfully built %s\n", imageTag)
		return nil
	},
}

// hostAppPort resolves the host-side application port; 0 means "same as
// the build port".
func hostAppPort(cfg *config.Config, buildPort int) int {
	if cfg.Container.HostAppPort != 0 {
		return cfg.Container.HostAppPort
	}
	return buildPort
}
