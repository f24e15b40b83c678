package registry

import (
	"path/filepath"
	"testing"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRecordAndGet(t *testing.T) {
	r := openTestRegistry(t)

	d := Deployment{
		Name:        "zipatoserver",
		ImageTag:    "zipatoserver:latest",
		AppPort:     8080,
		HostAppPort: 8080,
		HostSSHPort: 2323,
		Status:      "built",
	}
	if err := r.Record(d); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	got, err := r.Get("zipatoserver")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ImageTag != "zipatoserver:latest" || got.AppPort != 8080 || got.Status != "built" {
		t.Errorf("Get() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Get() returned zero CreatedAt")
	}
}

func TestRecordReplacesByName(t *testing.T) {
	r := openTestRegistry(t)

	if err := r.Record(Deployment{Name: "zipatoserver", ImageTag: "zipatoserver:v1", AppPort: 8080, HostAppPort: 8080, HostSSHPort: 2323, Status: "built"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Record(Deployment{Name: "zipatoserver", ImageTag: "zipatoserver:v2", AppPort: 9090, HostAppPort: 9090, HostSSHPort: 2323, Status: "built"}); err != nil {
		t.Fatalf("Record() replace error: %v", err)
	}

	got, err := r.Get("zipatoserver")
	if err != nil {
		t.Fatal(err)
	}
	if got.ImageTag != "zipatoserver:v2" || got.AppPort != 9090 {
		t.Errorf("Record() did not replace: %+v", got)
	}

	list, err := r.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("List() = %d records, want 1", len(list))
	}
}

func TestUpdateStatus(t *testing.T) {
	r := openTestRegistry(t)

	if err := r.Record(Deployment{Name: "zipatoserver", ImageTag: "zipatoserver:latest", AppPort: 8080, HostAppPort: 8080, HostSSHPort: 2323, Status: "built"}); err != nil {
		t.Fatal(err)
	}

	if err := r.UpdateStatus("zipatoserver", "running", "abc123"); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	got, err := r.Get("zipatoserver")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "running" || got.ContainerID != "abc123" {
		t.Errorf("UpdateStatus() not applied: %+v", got)
	}

	// Empty container id keeps the previous one
	if err := r.UpdateStatus("zipatoserver", "stopped", ""); err != nil {
		t.Fatal(err)
	}
	got, _ = r.Get("zipatoserver")
	if got.Status != "stopped" || got.ContainerID != "abc123" {
		t.Errorf("UpdateStatus() with empty id: %+v", got)
	}
}

func TestRemove(t *testing.T) {
	r := openTestRegistry(t)

	if err := r.Record(Deployment{Name: "zipatoserver", ImageTag: "zipatoserver:latest", AppPort: 8080, HostAppPort: 8080, HostSSHPort: 2323, Status: "built"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Remove("zipatoserver"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := r.Get("zipatoserver"); err == nil {
		t.Error("Get() found removed deployment")
	}
}
