package cli

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGenerateConfig(t *testing.T) {
	content := generateConfig("/home/user/src/zipatoserver", 8080, "dev", 2323, "bridge")

	for _, want := range []string{
		"port: 8080",
		"tag: dev",
		"host_ssh_port: 2323",
		"network: bridge",
		`dir: "/home/user/src/zipatoserver"`,
		"timezone: Europe/Stockholm",
		"locale: en_US.UTF-8",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("generated config missing %q", want)
		}
	}
}

func TestGenerateConfigIsValidYAML(t *testing.T) {
	content := generateConfig("", 9090, "prod", 2222, "host")

	var parsed map[string]interface{}
	if err := yaml.Unmarshal([]byte(content), &parsed); err != nil {
		t.Fatalf("generated config is not valid YAML: %v", err)
	}

	build, ok := parsed["build"].(map[string]interface{})
	if !ok {
		t.Fatal("generated config missing build section")
	}
	if build["port"] != 9090 {
		t.Errorf("build.port = %v, want 9090", build["port"])
	}
	if build["tag"] != "prod" {
		t.Errorf("build.tag = %v, want prod", build["tag"])
	}
}

func TestValidateConfigKey(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"build.port", "8080", false},
		{"build.port", "0", true},
		{"build.port", "99999", true},
		{"build.port", "abc", true},
		{"container.host_app_port", "0", false},
		{"container.network", "bridge", false},
		{"container.network", "overlay", true},
		{"build.tag", "anything", false}, // unknown keys pass through
	}

	for _, tt := range tests {
		err := validateConfigKey(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateConfigKey(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}
}
