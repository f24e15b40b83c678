package image

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"github.com/docker/go-units"
	"github.com/moby/term"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
)

// Deploy creates and starts a container from the image, then runs the
// generated start scripts in order: start_services.sh first, then
// start_main.sh. Returns the container id.
func (c *Client) Deploy(ctx context.Context, opts DeployOptions) (string, error) {
	sshPort := nat.Port(fmt.Sprintf("%d/tcp", config.SSHPort))
	appPort := nat.Port(fmt.Sprintf("%d/tcp", opts.AppPort))

	containerConfig := &containertypes.Config{
		Image: opts.Image,
		// Default entry is an interactive shell; keep stdin open so the
		// container stays up after start.
		Tty:       true,
		OpenStdin: true,
		ExposedPorts: nat.PortSet{
			sshPort: struct{}{},
			appPort: struct{}{},
		},
	}

	var memoryLimit int64
	if opts.MemoryLimit != "" {
		limit, err := units.RAMInBytes(opts.MemoryLimit)
		if err != nil {
			return "", fmt.Errorf("invalid memory limit %q: %w", opts.MemoryLimit, err)
		}
		memoryLimit = limit
	}

	var mounts []mount.Mount
	for _, m := range opts.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	hostConfig := &containertypes.HostConfig{
		Mounts:      mounts,
		NetworkMode: containertypes.NetworkMode(opts.Network),
		PortBindings: nat.PortMap{
			sshPort: []nat.PortBinding{{HostPort: fmt.Sprintf("%d", opts.HostSSHPort)}},
			appPort: []nat.PortBinding{{HostPort: fmt.Sprintf("%d", opts.HostAppPort)}},
		},
		Resources: containertypes.Resources{
			Memory: memoryLimit,
		},
	}

	resp, err := c.docker.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, opts.Name)
	if err != nil {
		if strings.Contains(err.Error(), "No such image") {
			return "", fmt.Errorf("image %q not found; run 'zipatoctl build' first", opts.Image)
		}
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	containerID := resp.ID

	if err := c.docker.ContainerStart(ctx, containerID, containertypes.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	log.Debug("container started", "id", shortID(containerID), "name", opts.Name)

	// Services before main, per the script ordering the image defines.
	res, err := c.Exec(ctx, containerID, []string{config.StartServicesScript})
	if err != nil {
		return containerID, fmt.Errorf("failed to run start_services.sh: %w", err)
	}
	if res.ExitCode != 0 {
		return containerID, fmt.Errorf("start_services.sh exited with code %d: %s", res.ExitCode, res.Output)
	}

	if err := c.ExecDetached(ctx, containerID, []string{config.StartMainScript}); err != nil {
		return containerID, fmt.Errorf("failed to run start_main.sh: %w", err)
	}

	log.Debug("start scripts executed", "id", shortID(containerID))

	return containerID, nil
}

// Exec runs a command inside a running container and captures its output
// and exit code.
func (c *Client) Exec(ctx context.Context, containerID string, cmd []string) (ExecResult, error) {
	execResp, err := c.docker.ContainerExecCreate(ctx, containerID, containertypes.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to create exec: %w", err)
	}

	attach, err := c.docker.ContainerExecAttach(ctx, execResp.ID, containertypes.ExecAttachOptions{})
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attach.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, attach.Reader); err != nil {
		return ExecResult{}, fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := c.docker.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to inspect exec: %w", err)
	}

	return ExecResult{ExitCode: inspect.ExitCode, Output: buf.String()}, nil
}

// ExecDetached starts a command inside a running container without
// waiting for it.
func (c *Client) ExecDetached(ctx context.Context, containerID string, cmd []string) error {
	execResp, err := c.docker.ContainerExecCreate(ctx, containerID, containertypes.ExecOptions{
		Cmd:    cmd,
		Detach: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create exec: %w", err)
	}

	if err := c.docker.ContainerExecStart(ctx, execResp.ID, containertypes.ExecStartOptions{Detach: true}); err != nil {
		return fmt.Errorf("failed to start exec: %w", err)
	}
	return nil
}

// Stop stops and removes the named container
func (c *Client) Stop(ctx context.Context, name string) error {
	timeout := 5
	if err := c.docker.ContainerStop(ctx, name, containertypes.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	if err := c.docker.ContainerRemove(ctx, name, containertypes.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// Shell attaches an interactive shell to a running container.
func (c *Client) Shell(ctx context.Context, containerID string) error {
	isTTY := term.IsTerminal(os.Stdin.Fd())

	execResp, err := c.docker.ContainerExecCreate(ctx, containerID, containertypes.ExecOptions{
		Cmd:          []string{"/bin/bash"},
		Tty:          isTTY,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create exec: %w", err)
	}

	attach, err := c.docker.ContainerExecAttach(ctx, execResp.ID, containertypes.ExecAttachOptions{Tty: isTTY})
	if err != nil {
		return fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attach.Close()

	outputDone := make(chan error, 1)

	if isTTY {
		oldState, err := term.SetRawTerminal(os.Stdin.Fd())
		if err != nil {
			return fmt.Errorf("failed to set raw terminal: %w", err)
		}
		defer term.RestoreTerminal(os.Stdin.Fd(), oldState)

		c.resizeExecTty(ctx, execResp.ID)
		go c.monitorExecTtySize(ctx, execResp.ID)

		go func() {
			buf := make([]byte, 32*1024)
			for {
				n, err := attach.Reader.Read(buf)
				if n > 0 {
					os.Stdout.Write(buf[:n])
				}
				if err != nil {
					outputDone <- err
					return
				}
			}
		}()
	} else {
		go func() {
			_, err := stdcopy.StdCopy(os.Stdout, os.Stderr, attach.Reader)
			outputDone <- err
		}()
	}

	go func() {
		buf := make([]byte, 32*1024)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				break
			}
			if _, err := attach.Conn.Write(buf[:n]); err != nil {
				break
			}
		}
		attach.CloseWrite()
	}()

	select {
	case <-outputDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	inspect, err := c.docker.ContainerExecInspect(context.Background(), execResp.ID)
	if err != nil {
		return fmt.Errorf("failed to inspect exec: %w", err)
	}
	if inspect.ExitCode != 0 {
		return fmt.Errorf("shell exited with code %d", inspect.ExitCode)
	}
	return nil
}

// resizeExecTty resizes the exec TTY to match the current terminal size
func (c *Client) resizeExecTty(ctx context.Context, execID string) {
	winsize, err := term.GetWinsize(os.Stdout.Fd())
	if err != nil {
		return
	}
	c.docker.ContainerExecResize(ctx, execID, containertypes.ResizeOptions{
		Height: uint(winsize.Height),
		Width:  uint(winsize.Width),
	})
}

// monitorExecTtySize resizes the exec TTY on terminal size changes
func (c *Client) monitorExecTtySize(ctx context.Context, execID string) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			c.resizeExecTty(ctx, execID)
		case <-ctx.Done():
			return
		}
	}
}
