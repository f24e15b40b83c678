package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for zipatoctl configuration",
	Long: `Interactive setup wizard that guides you through configuring zipatoctl.

This command will:
- Locate the zipatoserver application sources
- Configure the listening port and prompt tag baked into the image
- Configure host port mappings for the deployed container
- Create or update your configuration file

Run this command when first installing zipatoctl or to reconfigure settings.`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🔧 Zipatoctl Setup Wizard")
	fmt.Println("=========================")

	fmt.Println("\nStep 1: Application Sources")
	fmt.Println("---------------------------")
	sourceDir := configureSourceDir(reader)

	fmt.Println("\nStep 2: Build Arguments")
	fmt.Println("-----------------------")
	port := configurePort(reader, "zipatoserver listening port", 8080)
	tag := configureTag(reader)

	fmt.Println("\nStep 3: Container Ports")
	fmt.Println("-----------------------")
	sshPort := configurePort(reader, "host port for SSH (container port 23)", 2323)
	network := configureNetwork(reader)

	fmt.Println("\nStep 4: Creating Configuration")
	fmt.Println("------------------------------")
	configPath := getConfigPath()

	configExists := false
	if _, err := os.Stat(configPath); err == nil {
		configExists = true
		fmt.Printf("⚠️  Configuration file already exists at: %s\n", configPath)
		if !confirm(reader, "Do you want to overwrite it?") {
			fmt.Println("\n❌ Setup cancelled. No changes were made.")
			return nil
		}
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configContent := generateConfig(sourceDir, port, tag, sshPort, network)

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if configExists {
		fmt.Printf("\n✅ Configuration updated at: %s\n", configPath)
	} else {
		fmt.Printf("\n✅ Configuration created at: %s\n", configPath)
	}

	fmt.Println("\n✨ Setup complete!")
	fmt.Println("   Run 'zipatoctl build' to build the image.")
	fmt.Println("   Then 'zipatoctl deploy' to start a container.")

	return nil
}

// configureSourceDir prompts for the zipatoserver source directory
func configureSourceDir(reader *bufio.Reader) string {
	fmt.Println("Directory containing zipatoserver.py and ping.py.")
	fmt.Println("Leave empty to configure a git URL later with 'zipatoctl config set source.git_url <url>'.")

	for {
		fmt.Printf("Source directory (default: none): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\nError reading input: %v\n", err)
			return ""
		}
		input = strings.TrimSpace(input)

		if input == "" {
			return ""
		}

		if info, err := os.Stat(input); err != nil || !info.IsDir() {
			fmt.Println("⚠️  Directory not found. You can still use it if you create it later.")
		}
		return input
	}
}

// configurePort prompts for a port number
func configurePort(reader *bufio.Reader, what string, defaultPort int) int {
	for {
		fmt.Printf("%s (default: %d): ", what, defaultPort)
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\nError reading input: %v\n", err)
			return defaultPort
		}
		input = strings.TrimSpace(input)

		if input == "" {
			return defaultPort
		}

		port, err := strconv.Atoi(input)
		if err != nil || port < 1 || port > 65535 {
			fmt.Println("❌ Invalid port. Enter a number between 1 and 65535.")
			continue
		}
		return port
	}
}

// configureTag prompts for the shell prompt tag
func configureTag(reader *bufio.Reader) string {
	fmt.Println("\nThe tag is shown in the container's shell prompt (e.g. 'dev', 'prod').")

	for {
		fmt.Printf("Prompt tag (default: zipato): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\nError reading input: %v\n", err)
			return "zipato"
		}
		input = strings.TrimSpace(input)

		if input == "" {
			return "zipato"
		}
		if strings.ContainsAny(input, "\"'") {
			fmt.Println("❌ Tag must not contain quotes.")
			continue
		}
		return input
	}
}

// configureNetwork prompts for network mode
func configureNetwork(reader *bufio.Reader) string {
	fmt.Println("\nContainer network mode:")
	fmt.Println("  1) bridge - Standard Docker bridge network (recommended)")
	fmt.Println("  2) host   - Use host network (less isolated)")
	fmt.Println("  3) none   - No network access")

	for {
		fmt.Printf("\nChoice [1-3] (default: bridge): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\nError reading input: %v\n", err)
			return config.NetworkBridge
		}
		input = strings.TrimSpace(input)

		if input == "" {
			return config.NetworkBridge
		}

		switch input {
		case "1":
			return config.NetworkBridge
		case "2":
			return config.NetworkHost
		case "3":
			return config.NetworkNone
		default:
			fmt.Println("❌ Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

// confirm prompts for yes/no confirmation
func confirm(reader *bufio.Reader, prompt string) bool {
	for {
		fmt.Printf("%s [y/N]: ", prompt)
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\nError reading input: %v\n", err)
			return false
		}
		input = strings.ToLower(strings.TrimSpace(input))

		if input == "" || input == "n" || input == "no" {
			return false
		}
		if input == "y" || input == "yes" {
			return true
		}

		fmt.Println("❌ Please enter 'y' or 'n'.")
	}
}

// generateConfig creates the configuration file content
func generateConfig(sourceDir string, port int, tag string, sshPort int, network string) string {
	return fmt.Sprintf(`# Zipatoctl configuration
# Generated by 'zipatoctl setup'

# Image settings
image:
  name: zipatoserver:latest
  base: debian:bookworm-slim

# Build arguments baked into the image
build:
  port: %d
  tag: %s
  timezone: Europe/Stockholm
  locale: en_US.UTF-8
  root_password: zipato

# Application sources
source:
  dir: %q
  git_url: ""

# Deployed container settings
container:
  name: zipatoserver
  host_ssh_port: %d
  host_app_port: 0          # 0 = same as build.port
  memory_limit: 512m
  network: %s
`, port, tag, sourceDir, sshPort, network)
}
