// Package sshprobe verifies a deployed zipatoserver container over SSH,
// using the fixed root password baked into the image.
package sshprobe

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Probe is an SSH connection to a deployed container's sshd
type Probe struct {
	client *ssh.Client
}

// Dial connects to the container's mapped sshd port as root. The host key
// is not checked: the target is a locally deployed container with a
// generated key.
func Dial(host string, port int, password string) (*Probe, error) {
	config := &ssh.ClientConfig{
		User: "root",
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", host, port), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", host, port, err)
	}

	return &Probe{client: client}, nil
}

// Close closes the SSH connection
func (p *Probe) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Run executes a command and returns its output
func (p *Probe) Run(command string) (string, error) {
	session, err := p.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout bytes.Buffer
	session.Stdout = &stdout

	if err := session.Run(command); err != nil {
		return "", fmt.Errorf("command %q failed: %w", command, err)
	}

	return stdout.String(), nil
}

// Check is a single verification of the deployed artifact
type Check struct {
	Name    string
	Command string
	Want    string // substring expected in the output; empty means exit 0 suffices
}

// ContractChecks are the verifications of the image contract: executable
// application files, locale, timezone, and the two service processes.
func ContractChecks(locale, timezone string) []Check {
	return []Check{
		{
			Name:    "zipatoserver.py executable",
			Command: "test -x /usr/local/bin/zipatoserver/zipatoserver.py && echo ok",
			Want:    "ok",
		},
		{
			Name:    "ping.py executable",
			Command: "test -x /usr/local/bin/zipatoserver/ping.py && echo ok",
			Want:    "ok",
		},
		{
			Name:    "conf template present",
			Command: "test -f /usr/local/bin/zipatoserver/zipatoserver_template.conf && echo ok",
			Want:    "ok",
		},
		{
			Name:    "locale",
			Command: "locale | grep '^LANG='",
			Want:    locale,
		},
		{
			Name:    "timezone link",
			Command: "readlink /etc/localtime",
			Want:    timezone,
		},
		{
			Name:    "host mount points",
			Command: "test -d /mnt/host/var/log && test -d /mnt/host/etc && echo ok",
			Want:    "ok",
		},
		{
			Name:    "cron running",
			Command: "pgrep -x cron > /dev/null && echo ok",
			Want:    "ok",
		},
		{
			Name:    "sshd running",
			Command: "pgrep -x sshd > /dev/null && echo ok",
			Want:    "ok",
		},
	}
}

// RunCheck executes a check and reports failure with the output included.
func (p *Probe) RunCheck(c Check) error {
	out, err := p.Run(c.Command)
	if err != nil {
		return err
	}
	if c.Want != "" && !strings.Contains(out, c.Want) {
		return fmt.Errorf("%s: output %q does not contain %q", c.Name, strings.TrimSpace(out), c.Want)
	}
	return nil
}
