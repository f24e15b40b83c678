package settings

import (
	"strings"
	"testing"
)

func TestParseNormalizesSlashes(t *testing.T) {
	data := []byte(`
WEB_API_PATH: /opt/api
WEB_GUI_PATH: /opt/gui/
WAKEONLAN_PATH: /usr/bin
PING_PATH: /opt/ping
SSH_PATH: /usr/bin/
MESSAGE_LOG: /var/log/zipato.log/
ERROR_LOG: /var/log/zipato_error.log
SSH_KEY_FILE: /etc/zipato_key/
`)

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if s["WEB_API_PATH"] != "/opt/api/" {
		t.Errorf("WEB_API_PATH = %q, want trailing slash added", s["WEB_API_PATH"])
	}
	if s["WEB_GUI_PATH"] != "/opt/gui/" {
		t.Errorf("WEB_GUI_PATH = %q, want unchanged", s["WEB_GUI_PATH"])
	}
	if s["MESSAGE_LOG"] != "/var/log/zipato.log" {
		t.Errorf("MESSAGE_LOG = %q, want trailing slash stripped", s["MESSAGE_LOG"])
	}
	if s["SSH_KEY_FILE"] != "/etc/zipato_key" {
		t.Errorf("SSH_KEY_FILE = %q, want trailing slash stripped", s["SSH_KEY_FILE"])
	}
}

func TestNormalizeStripsOneTrailingSlash(t *testing.T) {
	s, err := Parse([]byte("MESSAGE_LOG: /var/log/zipato.log//\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if s["MESSAGE_LOG"] != "/var/log/zipato.log/" {
		t.Errorf("MESSAGE_LOG = %q, want exactly one trailing slash stripped", s["MESSAGE_LOG"])
	}
}

func TestValidateMissingKeys(t *testing.T) {
	s, err := Parse([]byte("WEB_API_PATH: /opt/api/\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	err = s.Validate()
	if err == nil {
		t.Fatal("Validate() accepted incomplete template")
	}
	if !strings.Contains(err.Error(), "ERROR_LOG") {
		t.Errorf("Validate() error %q does not name missing key ERROR_LOG", err)
	}
}

func TestDefaultTemplateIsValid(t *testing.T) {
	s, err := Parse(DefaultTemplate())
	if err != nil {
		t.Fatalf("Parse(DefaultTemplate()) error: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("DefaultTemplate() invalid: %v", err)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	if _, err := Parse([]byte("WEB_API_PATH: [unterminated\n")); err == nil {
		t.Error("Parse() accepted malformed YAML")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s, err := Parse(DefaultTemplate())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	out, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error: %v", err)
	}
	if len(again) != len(s) {
		t.Errorf("round trip lost keys: %d != %d", len(again), len(s))
	}
}
