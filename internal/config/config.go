package config

import (
	"github.com/spf13/viper"
)

// Config represents the full configuration structure
type Config struct {
	Image     ImageConfig     `mapstructure:"image"`
	Build     BuildConfig     `mapstructure:"build"`
	Source    SourceConfig    `mapstructure:"source"`
	Container ContainerConfig `mapstructure:"container"`
}

// ImageConfig configures the produced Docker image
type ImageConfig struct {
	Name string `mapstructure:"name"`
	Base string `mapstructure:"base"`
}

// BuildConfig configures the build arguments baked into the image
type BuildConfig struct {
	Port         int    `mapstructure:"port"`          // zipatoserver listening port, passed as -p
	Tag          string `mapstructure:"tag"`           // display label inserted into the shell prompt
	Timezone     string `mapstructure:"timezone"`      // timezone symlink target
	Locale       string `mapstructure:"locale"`        // generated locale
	RootPassword string `mapstructure:"root_password"` // fixed root password baked into the image
	NoCache      bool   `mapstructure:"no_cache"`
	Platform     string `mapstructure:"platform"`
}

// SourceConfig configures where the zipatoserver application files come from
type SourceConfig struct {
	Dir    string `mapstructure:"dir"`    // local directory with zipatoserver.py, ping.py, conf template
	GitURL string `mapstructure:"git_url"` // clone this instead when dir is empty
}

// ContainerConfig configures deployed container runtime settings
type ContainerConfig struct {
	Name        string `mapstructure:"name"`          // container name prefix
	HostSSHPort int    `mapstructure:"host_ssh_port"` // host port mapped to in-container sshd (23)
	HostAppPort int    `mapstructure:"host_app_port"` // host port mapped to the app port; 0 = same as build.port
	MemoryLimit string `mapstructure:"memory_limit"`  // e.g., "512m"
	Network     string `mapstructure:"network"`       // bridge, none, host
}

// LoadConfig loads configuration from viper with defaults
func LoadConfig() *Config {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		// Return defaults on error
		return defaultConfig()
	}

	return cfg
}

func setDefaults() {
	// Image defaults
	viper.SetDefault("image.name", "zipatoserver:latest")
	viper.SetDefault("image.base", "debian:bookworm-slim")

	// Build defaults
	viper.SetDefault("build.port", 8080)
	viper.SetDefault("build.tag", "zipato")
	viper.SetDefault("build.timezone", "Europe/Stockholm")
	viper.SetDefault("build.locale", "en_US.UTF-8")
	viper.SetDefault("build.root_password", "zipato")
	viper.SetDefault("build.no_cache", false)
	viper.SetDefault("build.platform", "")

	// Source defaults
	viper.SetDefault("source.dir", "")
	viper.SetDefault("source.git_url", "")

	// Container defaults
	viper.SetDefault("container.name", "zipatoserver")
	viper.SetDefault("container.host_ssh_port", 2323)
	viper.SetDefault("container.host_app_port", 0)
	viper.SetDefault("container.memory_limit", "512m")
	viper.SetDefault("container.network", "bridge")
}

func defaultConfig() *Config {
	return &Config{
		Image: ImageConfig{
			Name: "zipatoserver:latest",
			Base: "debian:bookworm-slim",
		},
		Build: BuildConfig{
			Port:         8080,
			Tag:          "zipato",
			Timezone:     "Europe/Stockholm",
			Locale:       "en_US.UTF-8",
			RootPassword: "zipato",
		},
		Source: SourceConfig{},
		Container: ContainerConfig{
			Name:        "zipatoserver",
			HostSSHPort: 2323,
			HostAppPort: 0,
			MemoryLimit: "512m",
			Network:     "bridge",
		},
	}
}
