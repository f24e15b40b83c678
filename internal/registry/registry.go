// Package registry keeps a local ledger of built images and deployed
// containers in a sqlite database under ~/.zipatoctl.
package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Registry manages deployment records
type Registry struct {
	db *sql.DB
}

// New creates or opens the registry database in the default location.
func New() (*Registry, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".zipatoctl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .zipatoctl directory: %w", err)
	}

	return Open(filepath.Join(dir, "registry.db"))
}

// Open creates or opens a registry database at the given path.
func Open(dbPath string) (*Registry, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	r := &Registry{db: db}

	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return r, nil
}

// Close closes the database connection
func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deployments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		image_tag TEXT NOT NULL,
		app_port INTEGER NOT NULL,
		host_app_port INTEGER NOT NULL,
		host_ssh_port INTEGER NOT NULL,
		container_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deployments_status ON deployments(status);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Record inserts a deployment record, or replaces the existing record
// with the same name.
func (r *Registry) Record(d Deployment) error {
	now := time.Now().UTC().Format(time.RFC3339)

	created := now
	if existing, err := r.Get(d.Name); err == nil {
		created = existing.CreatedAt.UTC().Format(time.RFC3339)
	}

	_, err := r.db.Exec(`
		INSERT INTO deployments (name, image_tag, app_port, host_app_port, host_ssh_port, container_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			image_tag = excluded.image_tag,
			app_port = excluded.app_port,
			host_app_port = excluded.host_app_port,
			host_ssh_port = excluded.host_ssh_port,
			container_id = excluded.container_id,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, d.Name, d.ImageTag, d.AppPort, d.HostAppPort, d.HostSSHPort, d.ContainerID, d.Status, created, now)

	if err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}

	return nil
}

// UpdateStatus updates the status (and container id, when non-empty) of a
// deployment.
func (r *Registry) UpdateStatus(name, status, containerID string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	var err error
	if containerID != "" {
		_, err = r.db.Exec(
			"UPDATE deployments SET status = ?, container_id = ?, updated_at = ? WHERE name = ?",
			status, containerID, now, name,
		)
	} else {
		_, err = r.db.Exec(
			"UPDATE deployments SET status = ?, updated_at = ? WHERE name = ?",
			status, now, name,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// Get returns the deployment with the given name.
func (r *Registry) Get(name string) (*Deployment, error) {
	var d Deployment
	var createdAt, updatedAt string

	err := r.db.QueryRow(`
		SELECT id, name, image_tag, app_port, host_app_port, host_ssh_port, container_id, status, created_at, updated_at
		FROM deployments
		WHERE name = ?
	`, name).Scan(
		&d.ID, &d.Name, &d.ImageTag, &d.AppPort, &d.HostAppPort,
		&d.HostSSHPort, &d.ContainerID, &d.Status, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no deployment found for %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &d, nil
}

// List returns all deployments, newest first.
func (r *Registry) List() ([]Deployment, error) {
	rows, err := r.db.Query(`
		SELECT id, name, image_tag, app_port, host_app_port, host_ssh_port, container_id, status, created_at, updated_at
		FROM deployments
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query deployments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deployments []Deployment
	for rows.Next() {
		var d Deployment
		var createdAt, updatedAt string

		err := rows.Scan(
			&d.ID, &d.Name, &d.ImageTag, &d.AppPort, &d.HostAppPort,
			&d.HostSSHPort, &d.ContainerID, &d.Status, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}

		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		deployments = append(deployments, d)
	}

	return deployments, nil
}

// Remove deletes a deployment record.
func (r *Registry) Remove(name string) error {
	_, err := r.db.Exec("DELETE FROM deployments WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to remove deployment: %w", err)
	}
	return nil
}
