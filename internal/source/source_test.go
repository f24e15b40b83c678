package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johnbrannstrom/zipatoctl/internal/settings"
)

func writeSourceDir(t *testing.T, withConf bool) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"zipatoserver.py": "#!/usr/bin/env python3\n",
		"ping.py":         "#!/usr/bin/env python3\n",
	}
	if withConf {
		files["zipatoserver_template.conf"] = string(settings.DefaultTemplate())
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFromDir(t *testing.T) {
	dir := writeSourceDir(t, true)

	f, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir() error: %v", err)
	}

	if len(f.Main) == 0 || len(f.Ping) == 0 || len(f.ConfTemplate) == 0 {
		t.Error("FromDir() returned empty file contents")
	}
}

func TestFromDirDefaultConfTemplate(t *testing.T) {
	dir := writeSourceDir(t, false)

	f, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir() error: %v", err)
	}

	s, err := settings.Parse(f.ConfTemplate)
	if err != nil {
		t.Fatalf("fallback template does not parse: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("fallback template invalid: %v", err)
	}
}

func TestFromDirMissingMainScript(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ping.py"), []byte("#!/usr/bin/env python3\n"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := FromDir(dir)
	if err == nil {
		t.Fatal("FromDir() accepted directory without zipatoserver.py")
	}
	if !strings.Contains(err.Error(), "zipatoserver.py") {
		t.Errorf("error %q does not name the missing file", err)
	}
}

func TestFromDirRejectsBadConfTemplate(t *testing.T) {
	dir := writeSourceDir(t, false)
	if err := os.WriteFile(filepath.Join(dir, "zipatoserver_template.conf"), []byte("WEB_API_PATH: /only/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := FromDir(dir); err == nil {
		t.Error("FromDir() accepted incomplete conf template")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/src")
	if err != nil {
		t.Fatalf("ExpandPath() error: %v", err)
	}
	if got != filepath.Join(home, "src") {
		t.Errorf("ExpandPath(~/src) = %q", got)
	}

	if _, err := ExpandPath(""); err == nil {
		t.Error("ExpandPath() accepted empty path")
	}
}
