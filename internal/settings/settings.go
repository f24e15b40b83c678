// Package settings handles the zipatoserver configuration template that is
// baked into the image. The template is YAML; path parameters follow the
// server's trailing-slash convention.
package settings

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathWithSlashParams always end with a slash.
var PathWithSlashParams = []string{
	"WEB_API_PATH",
	"WEB_GUI_PATH",
	"WAKEONLAN_PATH",
	"PING_PATH",
	"SSH_PATH",
}

// PathWithoutSlashParams never end with a slash.
var PathWithoutSlashParams = []string{
	"MESSAGE_LOG",
	"ERROR_LOG",
	"SSH_KEY_FILE",
}

// Settings is the parsed configuration template.
type Settings map[string]string

// Parse decodes a configuration template and normalizes its path
// parameters.
func Parse(data []byte) (Settings, error) {
	s := Settings{}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse configuration template: %w", err)
	}
	s.normalize()
	return s, nil
}

// Validate checks that all path parameters are present.
func (s Settings) Validate() error {
	var missing []string
	for _, key := range append(append([]string{}, PathWithSlashParams...), PathWithoutSlashParams...) {
		if _, ok := s[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("configuration template missing keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// normalize applies the trailing-slash convention to path parameters.
func (s Settings) normalize() {
	for _, key := range PathWithSlashParams {
		if v, ok := s[key]; ok && v != "" && !strings.HasSuffix(v, "/") {
			s[key] = v + "/"
		}
	}
	for _, key := range PathWithoutSlashParams {
		if v, ok := s[key]; ok {
			// Strip a single trailing slash; repeated slashes are the
			// caller's to keep.
			s[key] = strings.TrimSuffix(v, "/")
		}
	}
}

// Marshal serializes the settings back to YAML with sorted keys.
func (s Settings) Marshal() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		line, err := yaml.Marshal(map[string]string{k: s[k]})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", k, err)
		}
		b.Write(line)
	}
	return []byte(b.String()), nil
}

// DefaultTemplate returns a configuration template used when the source
// directory does not provide one.
func DefaultTemplate() []byte {
	s := Settings{
		"WEB_API_PATH":   "/usr/local/bin/zipatoserver/api/",
		"WEB_GUI_PATH":   "/usr/local/bin/zipatoserver/gui/",
		"WAKEONLAN_PATH": "/usr/bin/",
		"PING_PATH":      "/usr/local/bin/zipatoserver/",
		"SSH_PATH":       "/usr/bin/",
		"MESSAGE_LOG":    "/mnt/host/var/log/zipatoserver.log",
		"ERROR_LOG":      "/mnt/host/var/log/zipatoserver_error.log",
		"SSH_KEY_FILE":   "/mnt/host/etc/zipatoserver_ssh_key",
	}
	out, _ := s.Marshal()
	return out
}
