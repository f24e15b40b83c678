package registry

import "time"

// Deployment represents a recorded image build or running container
type Deployment struct {
	ID          int
	Name        string // container name
	ImageTag    string
	AppPort     int    // port baked into start_main.sh
	HostAppPort int    // host port mapped to AppPort
	HostSSHPort int    // host port mapped to the in-container sshd
	ContainerID string // empty until deployed
	Status      string // "built", "running", "stopped", "verified"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
