// Package recipe renders the zipatoserver image build recipe: the
// Dockerfile and the two generated start scripts. All parameters are
// substituted at render time, so the produced scripts carry literal
// values and need no templating inside the container.
package recipe

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"github.com/johnbrannstrom/zipatoctl/internal/config"
)

//go:embed templates/Dockerfile.tmpl
var dockerfileTemplate string

//go:embed templates/start_services.sh.tmpl
var startServicesTemplate string

//go:embed templates/start_main.sh.tmpl
var startMainTemplate string

// File names inside the build context.
const (
	DockerfileName    = "Dockerfile"
	StartServicesName = "start_services.sh"
	StartMainName     = "start_main.sh"
)

// Params parameterize a render. Port and Tag are the two build arguments;
// the rest have fixed defaults matching the image contract.
type Params struct {
	Port         int
	Tag          string
	BaseImage    string
	Timezone     string
	Locale       string
	RootPassword string
	SSHPort      int
}

// ParamsFromConfig builds render parameters from the loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Port:         cfg.Build.Port,
		Tag:          cfg.Build.Tag,
		BaseImage:    cfg.Image.Base,
		Timezone:     cfg.Build.Timezone,
		Locale:       cfg.Build.Locale,
		RootPassword: cfg.Build.RootPassword,
		SSHPort:      config.SSHPort,
	}
}

// Validate checks the parameters before rendering.
func (p Params) Validate() error {
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", p.Port)
	}
	if p.Tag == "" {
		return fmt.Errorf("tag must not be empty")
	}
	// The tag lands inside the double-quoted PS1 string, where backtick
	// and $ still expand.
	if strings.ContainsAny(p.Tag, "\"'`$\n") {
		return fmt.Errorf("tag %q contains shell-unsafe characters", p.Tag)
	}
	if p.BaseImage == "" {
		return fmt.Errorf("base image must not be empty")
	}
	if p.RootPassword == "" {
		return fmt.Errorf("root password must not be empty")
	}
	return nil
}

// Recipe holds the rendered build recipe files.
type Recipe struct {
	Dockerfile    []byte
	StartServices []byte
	StartMain     []byte
}

// Render renders the recipe from the embedded templates and validates the
// generated scripts.
func Render(p Params) (*Recipe, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe parameters: %w", err)
	}

	dockerfile, err := renderTemplate(DockerfileName, dockerfileTemplate, p)
	if err != nil {
		return nil, err
	}
	services, err := renderTemplate(StartServicesName, startServicesTemplate, p)
	if err != nil {
		return nil, err
	}
	main, err := renderTemplate(StartMainName, startMainTemplate, p)
	if err != nil {
		return nil, err
	}

	r := &Recipe{
		Dockerfile:    dockerfile,
		StartServices: services,
		StartMain:     main,
	}

	if err := r.checkScripts(); err != nil {
		return nil, err
	}

	return r, nil
}

func renderTemplate(name, text string, p Params) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// checkScripts parses the generated shell scripts so a bad render fails
// the build instead of producing a broken image.
func (r *Recipe) checkScripts() error {
	parser := syntax.NewParser()
	for name, content := range map[string][]byte{
		StartServicesName: r.StartServices,
		StartMainName:     r.StartMain,
	} {
		if _, err := parser.Parse(bytes.NewReader(content), name); err != nil {
			return fmt.Errorf("generated script %s has a syntax error: %w", name, err)
		}
	}
	return nil
}

// Files returns the rendered files keyed by build context name.
func (r *Recipe) Files() map[string][]byte {
	return map[string][]byte{
		DockerfileName:    r.Dockerfile,
		StartServicesName: r.StartServices,
		StartMainName:     r.StartMain,
	}
}

// WriteTo writes the rendered recipe into dir, creating it if needed.
// Scripts are written executable.
func (r *Recipe) WriteTo(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for name, content := range r.Files() {
		mode := os.FileMode(0644)
		if strings.HasSuffix(name, ".sh") {
			mode = 0755
		}
		if err := os.WriteFile(filepath.Join(dir, name), content, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
