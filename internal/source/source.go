// Package source supplies the zipatoserver application files for the
// image build, either from a local directory or from a git clone.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
	"github.com/johnbrannstrom/zipatoctl/internal/settings"
)

// Files holds the application payload copied into the image. The scripts
// are opaque; only the conf template is inspected.
type Files struct {
	Main         []byte // zipatoserver.py
	Ping         []byte // ping.py
	ConfTemplate []byte // zipatoserver_template.conf
}

// Collect gathers the application files per the source configuration.
// A local directory takes precedence over a git URL.
func Collect(ctx context.Context, src config.SourceConfig) (*Files, error) {
	if src.Dir != "" {
		dir, err := ExpandPath(src.Dir)
		if err != nil {
			return nil, fmt.Errorf("invalid source directory: %w", err)
		}
		return FromDir(dir)
	}

	if src.GitURL != "" {
		return fromGit(ctx, src.GitURL)
	}

	return nil, fmt.Errorf("no application source configured; set source.dir or source.git_url")
}

// FromDir reads the application files from a directory. The two scripts
// are required; a missing conf template falls back to the built-in one.
func FromDir(dir string) (*Files, error) {
	main, err := os.ReadFile(filepath.Join(dir, config.MainScript))
	if err != nil {
		return nil, fmt.Errorf("missing %s in %s: %w", config.MainScript, dir, err)
	}

	ping, err := os.ReadFile(filepath.Join(dir, config.PingScript))
	if err != nil {
		return nil, fmt.Errorf("missing %s in %s: %w", config.PingScript, dir, err)
	}

	conf, err := os.ReadFile(filepath.Join(dir, config.ConfTemplate))
	if os.IsNotExist(err) {
		conf = settings.DefaultTemplate()
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.ConfTemplate, err)
	} else {
		s, err := settings.Parse(conf)
		if err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	return &Files{Main: main, Ping: ping, ConfTemplate: conf}, nil
}

// fromGit shallow-clones the repository into a temp dir and reads the
// application files from its root.
func fromGit(ctx context.Context, url string) (*Files, error) {
	tmpDir, err := os.MkdirTemp("", "zipatoctl-src-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}

	return FromDir(tmpDir)
}

// ExpandPath expands ~ to the user's home directory and cleans the path.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = home
	}

	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	return path, nil
}
