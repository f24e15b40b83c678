package sshprobe

import (
	"strings"
	"testing"
)

func TestContractChecksSubstitution(t *testing.T) {
	checks := ContractChecks("en_US.UTF-8", "Europe/Stockholm")

	var localeCheck, tzCheck *Check
	for i := range checks {
		switch checks[i].Name {
		case "locale":
			localeCheck = &checks[i]
		case "timezone link":
			tzCheck = &checks[i]
		}
	}

	if localeCheck == nil || localeCheck.Want != "en_US.UTF-8" {
		t.Errorf("locale check = %+v", localeCheck)
	}
	if tzCheck == nil || tzCheck.Want != "Europe/Stockholm" {
		t.Errorf("timezone check = %+v", tzCheck)
	}
}

func TestContractChecksCoverAppFiles(t *testing.T) {
	checks := ContractChecks("en_US.UTF-8", "Europe/Stockholm")

	for _, path := range []string{
		"/usr/local/bin/zipatoserver/zipatoserver.py",
		"/usr/local/bin/zipatoserver/ping.py",
		"/usr/local/bin/zipatoserver/zipatoserver_template.conf",
		"/mnt/host/var/log",
		"/mnt/host/etc",
	} {
		found := false
		for _, c := range checks {
			if strings.Contains(c.Command, path) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no check covers %s", path)
		}
	}
}
