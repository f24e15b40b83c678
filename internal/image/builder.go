// Package image builds the zipatoserver image and manages containers
// deployed from it through the Docker engine API.
package image

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	imagetypes "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/recipe"
)

// Client wraps the Docker engine client
type Client struct {
	docker *client.Client
}

// NewClient creates a Docker client and verifies the engine is reachable.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	if _, err := cli.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Docker: %w", err)
	}

	return &Client{docker: cli}, nil
}

// Close closes the Docker client
func (c *Client) Close() error {
	return c.docker.Close()
}

// Build assembles the build context in memory and builds the image. Any
// failing step aborts the build; there is no partial image fallback.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	if opts.Recipe == nil {
		return fmt.Errorf("no rendered recipe supplied")
	}
	if opts.App == nil {
		return fmt.Errorf("no application files supplied")
	}

	buildContext, err := buildContextTar(opts)
	if err != nil {
		return err
	}

	buildArgs := map[string]*string{
		"PORT": ptr(strconv.Itoa(opts.Port)),
		"TAG":  ptr(opts.Tag),
	}

	buildOptions := types.ImageBuildOptions{
		Dockerfile: recipe.DockerfileName,
		Tags:       []string{opts.ImageTag},
		BuildArgs:  buildArgs,
		NoCache:    opts.NoCache,
		Remove:     true,
	}
	if opts.Platform != "" {
		buildOptions.Platform = opts.Platform
	}

	log.Debug("starting image build", "tag", opts.ImageTag, "port", opts.Port)

	resp, err := c.docker.ImageBuild(ctx, buildContext, buildOptions)
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// The engine streams step output as JSON messages; a failing build
	// step arrives as an error message inside a 200 response, so the
	// stream has to be decoded to surface it.
	termFd, isTerm := term.GetFdInfo(os.Stdout)
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, os.Stdout, termFd, isTerm, nil); err != nil {
		var jsonErr *jsonmessage.JSONError
		if errors.As(err, &jsonErr) {
			return fmt.Errorf("build step failed: %s", jsonErr.Message)
		}
		return fmt.Errorf("error reading build output: %w", err)
	}

	log.Debug("image build finished", "tag", opts.ImageTag)
	return nil
}

// ImageExists checks if an image with the given tag exists locally
func (c *Client) ImageExists(ctx context.Context, tag string) (bool, error) {
	images, err := c.docker.ImageList(ctx, imagetypes.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", tag)),
	})
	if err != nil {
		return false, fmt.Errorf("failed to list images: %w", err)
	}
	return len(images) > 0, nil
}

// buildContextTar writes the rendered recipe and the application files
// into an in-memory tar archive. Scripts carry the executable bit so the
// image inherits it.
func buildContextTar(opts BuildOptions) (io.Reader, error) {
	buf := new(bytes.Buffer)
	tw := tar.NewWriter(buf)

	entries := []struct {
		name    string
		mode    int64
		content []byte
	}{
		{recipe.DockerfileName, 0644, opts.Recipe.Dockerfile},
		{recipe.StartServicesName, 0755, opts.Recipe.StartServices},
		{recipe.StartMainName, 0755, opts.Recipe.StartMain},
		{config.MainScript, 0755, opts.App.Main},
		{config.PingScript, 0755, opts.App.Ping},
		{config.ConfTemplate, 0644, opts.App.ConfTemplate},
	}

	for _, e := range entries {
		if len(e.content) == 0 {
			return nil, fmt.Errorf("build context file %s is empty", e.name)
		}
		header := &tar.Header{
			Name: e.name,
			Mode: e.mode,
			Size: int64(len(e.content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("failed to write %s header: %w", e.name, err)
		}
		if _, err := tw.Write(e.content); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", e.name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close build context: %w", err)
	}

	return buf, nil
}

func ptr(s string) *string {
	return &s
}

// shortID trims a container id for display
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return strings.TrimSpace(id)
}
