package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/recipe"
	"github.com/johnbrannstrom/zipatoctl/internal/settings"
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "build", "output directory for the rendered recipe")
	renderCmd.Flags().IntP("port", "p", 0, "zipatoserver listening port (default from config)")
	renderCmd.Flags().StringP("tag", "t", "", "display tag for the shell prompt (default from config)")
	renderCmd.Flags().Bool("with-conf", false, "also write the built-in zipatoserver_template.conf")
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the generated build recipe to a directory",
	Long: `Render the Dockerfile and the generated start scripts to a directory
without building. The directory can be used as a standalone Docker build
context after adding zipatoserver.py and ping.py.

Examples:
  zipatoctl render -o ./build
  zipatoctl render -p 8080 -t dev --with-conf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := recipe.ParamsFromConfig(cfg)
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			params.Port = port
		}
		if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
			params.Tag = tag
		}

		r, err := recipe.Render(params)
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("output")
		if err := r.WriteTo(dir); err != nil {
			return err
		}

		if withConf, _ := cmd.Flags().GetBool("with-conf"); withConf {
			confPath := filepath.Join(dir, config.ConfTemplate)
			if err := os.WriteFile(confPath, settings.DefaultTemplate(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", config.ConfTemplate, err)
			}
		}

		fmt.Printf("Rendered recipe for port %d, tag %s into %s\n", params.Port, params.Tag, dir)
		return nil
	},
}
