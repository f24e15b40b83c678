package config

// Fixed paths inside the image. These are part of the image contract and
// are not configurable.
const (
	// AppDir is the application directory inside the image.
	AppDir = "/usr/local/bin/zipatoserver"

	// MainScript is the zipatoserver entry point inside AppDir.
	MainScript = "zipatoserver.py"

	// PingScript is the ping helper inside AppDir.
	PingScript = "ping.py"

	// ConfTemplate is the configuration template copied verbatim into AppDir.
	ConfTemplate = "zipatoserver_template.conf"

	// StartServicesScript starts cron and sshd inside the container.
	StartServicesScript = "/tmp/start_services.sh"

	// StartMainScript launches zipatoserver inside the container.
	StartMainScript = "/tmp/start_main.sh"

	// SSHPort is the port the in-container sshd listens on.
	SSHPort = 23

	// Host bind-mount points pre-created in the image.
	HostLogMount = "/mnt/host/var/log"
	HostEtcMount = "/mnt/host/etc"
)

// Network modes
const (
	NetworkBridge = "bridge"
	NetworkHost   = "host"
	NetworkNone   = "none"
)

// Deployment status values recorded in the registry.
const (
	StatusBuilt    = "built"
	StatusRunning  = "running"
	StatusStopped  = "stopped"
	StatusVerified = "verified"
)
