package image

import (
	"github.com/johnbrannstrom/zipatoctl/internal/recipe"
	"github.com/johnbrannstrom/zipatoctl/internal/source"
)

// BuildOptions configures an image build
type BuildOptions struct {
	ImageTag string         // tag for the produced image
	Recipe   *recipe.Recipe // rendered Dockerfile and start scripts
	App      *source.Files  // zipatoserver.py, ping.py, conf template
	Port     int            // build arg PORT
	Tag      string         // build arg TAG
	NoCache  bool
	Platform string
}

// Mount represents a bind mount configuration
type Mount struct {
	Source   string // Host path
	Target   string // Container path
	ReadOnly bool
}

// DeployOptions configures a deployed container
type DeployOptions struct {
	Image       string
	Name        string
	AppPort     int // container-side application port
	HostAppPort int // host port mapped to AppPort
	HostSSHPort int // host port mapped to the in-container sshd
	Mounts      []Mount
	MemoryLimit string
	Network     string
}

// ExecResult is the outcome of a command executed inside a container
type ExecResult struct {
	ExitCode int
	Output   string
}
