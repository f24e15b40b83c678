package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testParams() Params {
	return Params{
		Port:         8080,
		Tag:          "dev",
		BaseImage:    "debian:bookworm-slim",
		Timezone:     "Europe/Stockholm",
		Locale:       "en_US.UTF-8",
		RootPassword: "zipato",
		SSHPort:      23,
	}
}

func TestRenderStartMainExact(t *testing.T) {
	r, err := Render(testParams())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := "#!/bin/bash\n/usr/local/bin/zipatoserver/zipatoserver.py -p 8080 -n\n"
	if got := string(r.StartMain); got != want {
		t.Errorf("start_main.sh = %q, want %q", got, want)
	}
}

func TestRenderStartMainPortSubstitution(t *testing.T) {
	for _, port := range []int{80, 1234, 65535} {
		p := testParams()
		p.Port = port
		r, err := Render(p)
		if err != nil {
			t.Fatalf("Render() error for port %d: %v", port, err)
		}
		if !strings.Contains(string(r.StartMain), "/usr/local/bin/zipatoserver/zipatoserver.py -p ") {
			t.Errorf("start_main.sh missing invocation for port %d: %q", port, r.StartMain)
		}
		if !strings.Contains(string(r.StartMain), " -n") {
			t.Errorf("start_main.sh missing -n flag for port %d", port)
		}
	}
}

func TestRenderStartServices(t *testing.T) {
	r, err := Render(testParams())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	s := string(r.StartServices)
	cronIdx := strings.Index(s, "cron")
	sshdIdx := strings.Index(s, "/usr/sbin/sshd -p 23")
	if cronIdx < 0 {
		t.Fatal("start_services.sh does not start cron")
	}
	if sshdIdx < 0 {
		t.Fatal("start_services.sh does not start sshd on port 23")
	}
	if cronIdx > sshdIdx {
		t.Error("start_services.sh starts sshd before cron")
	}
}

func TestRenderDockerfilePrompt(t *testing.T) {
	for _, tag := range []string{"dev", "v1.2.3", "prod-eu"} {
		p := testParams()
		p.Tag = tag
		r, err := Render(p)
		if err != nil {
			t.Fatalf("Render() error for tag %q: %v", tag, err)
		}
		// Prompt line: tag followed by # after the username escape.
		if !strings.Contains(string(r.Dockerfile), `\u `+tag+`# `) {
			t.Errorf("Dockerfile prompt line missing %q marker for tag %q", tag+"#", tag)
		}
	}
}

func TestRenderDockerfileContract(t *testing.T) {
	r, err := Render(testParams())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	df := string(r.Dockerfile)
	for _, want := range []string{
		"FROM debian:bookworm-slim",
		"ARG PORT=8080",
		"ARG TAG=dev",
		"locale-gen en_US.UTF-8",
		"ln -sf /usr/share/zoneinfo/Europe/Stockholm /etc/localtime",
		"root:zipato",
		"PermitRootLogin yes",
		"mkdir -p /usr/local/bin/zipatoserver /mnt/host/var/log /mnt/host/etc",
		"COPY zipatoserver.py ping.py zipatoserver_template.conf /usr/local/bin/zipatoserver/",
		"chmod 755 /usr/local/bin/zipatoserver/zipatoserver.py /usr/local/bin/zipatoserver/ping.py",
		"COPY start_services.sh start_main.sh /tmp/",
		"chmod 755 /tmp/start_services.sh /tmp/start_main.sh",
		"EXPOSE 23 8080",
	} {
		if !strings.Contains(df, want) {
			t.Errorf("Dockerfile missing %q", want)
		}
	}
}

func TestValidateRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero port", func(p *Params) { p.Port = 0 }},
		{"port too large", func(p *Params) { p.Port = 70000 }},
		{"empty tag", func(p *Params) { p.Tag = "" }},
		{"tag with quote", func(p *Params) { p.Tag = `d"ev` }},
		{"tag with newline", func(p *Params) { p.Tag = "dev\nRUN rm -rf /" }},
		{"tag with backtick", func(p *Params) { p.Tag = "dev`id`" }},
		{"tag with dollar", func(p *Params) { p.Tag = "dev$(id)" }},
		{"empty base image", func(p *Params) { p.BaseImage = "" }},
		{"empty root password", func(p *Params) { p.RootPassword = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			if _, err := Render(p); err == nil {
				t.Errorf("Render() accepted invalid params (%s)", tt.name)
			}
		})
	}
}

func TestWriteTo(t *testing.T) {
	dir := t.TempDir()

	r, err := Render(testParams())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if err := r.WriteTo(dir); err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}

	for name, wantExec := range map[string]bool{
		DockerfileName:    false,
		StartServicesName: true,
		StartMainName:     true,
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		isExec := info.Mode().Perm()&0111 != 0
		if isExec != wantExec {
			t.Errorf("%s executable = %v, want %v", name, isExec, wantExec)
		}
	}
}
