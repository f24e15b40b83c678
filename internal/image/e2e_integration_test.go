// Integration tests for the image builder. These build a real image and
// need a Docker engine plus network access for package installation, so
// they only run when ZIPATOCTL_E2E is set.
package image

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"

	"github.com/johnbrannstrom/zipatoctl/internal/recipe"
	"github.com/johnbrannstrom/zipatoctl/internal/settings"
	"github.com/johnbrannstrom/zipatoctl/internal/source"
)

// checkTestcontainersAvailable safely checks if a container provider can
// be used. Returns true if containers are available, false otherwise.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

func TestImageBuild_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("ZIPATOCTL_E2E") == "" {
		t.Skip("skipping image build integration test: ZIPATOCTL_E2E not set")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping image build integration test: no container provider available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := NewClient()
	if err != nil {
		t.Skipf("skipping: Docker engine not reachable: %v", err)
	}
	defer client.Close()

	r, err := recipe.Render(recipe.Params{
		Port:         8080,
		Tag:          "e2e",
		BaseImage:    "debian:bookworm-slim",
		Timezone:     "Europe/Stockholm",
		Locale:       "en_US.UTF-8",
		RootPassword: "zipato",
		SSHPort:      23,
	})
	if err != nil {
		t.Fatalf("recipe.Render() error: %v", err)
	}

	app := &source.Files{
		Main:         []byte("#!/usr/bin/env python3\nimport time\ntime.sleep(3600)\n"),
		Ping:         []byte("#!/usr/bin/env python3\n"),
		ConfTemplate: settings.DefaultTemplate(),
	}

	tag := fmt.Sprintf("zipatoserver:e2e-%d", time.Now().Unix())

	err = client.Build(ctx, BuildOptions{
		ImageTag: tag,
		Recipe:   r,
		App:      app,
		Port:     8080,
		Tag:      "e2e",
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	exists, err := client.ImageExists(ctx, tag)
	if err != nil {
		t.Fatalf("ImageExists() error: %v", err)
	}
	if !exists {
		t.Fatalf("image %s not found after build", tag)
	}
}
