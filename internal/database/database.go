package database

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Camera is one row of portal camera metadata. The portal publishes Thai
// names for every camera and English names for most.
type Camera struct {
	ID     string  `json:"id"`
	NameEN string  `json:"name_en"`
	NameTH string  `json:"name_th"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// DisplayName prefers the English name and falls back to the Thai one.
func (c Camera) DisplayName() string {
	if c.NameEN != "" {
		return c.NameEN
	}
	return c.NameTH
}

// Database holds the camera metadata in SQLite. Serving reads it only; the
// importer in cmd/migrate writes it.
type Database struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates and initializes the camera metadata database.
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	database := &Database{db: db}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// migrate creates the necessary tables if they don't exist.
func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cameras (
		id TEXT PRIMARY KEY,
		name_en TEXT NOT NULL DEFAULT '',
		name_th TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_cameras_name_en ON cameras(name_en);
	`

	_, err := d.db.Exec(schema)
	return err
}

// ListCameras returns all cameras ordered by id.
func (d *Database) ListCameras() ([]Camera, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`
		SELECT id, name_en, name_th, lat, lng
		FROM cameras
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	var cameras []Camera
	for rows.Next() {
		var c Camera
		if err := rows.Scan(&c.ID, &c.NameEN, &c.NameTH, &c.Lat, &c.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		cameras = append(cameras, c)
	}

	return cameras, rows.Err()
}

// GetCamera returns the camera with the given id, or nil when absent.
func (d *Database) GetCamera(id string) (*Camera, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var c Camera
	err := d.db.QueryRow(`
		SELECT id, name_en, name_th, lat, lng
		FROM cameras WHERE id = ?
	`, id).Scan(&c.ID, &c.NameEN, &c.NameTH, &c.Lat, &c.Lng)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query camera: %w", err)
	}

	return &c, nil
}

// CountCameras returns the number of known cameras.
func (d *Database) CountCameras() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM cameras`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cameras: %w", err)
	}
	return count, nil
}

// UpsertCameras inserts or updates camera rows in a single transaction.
func (d *Database) UpsertCameras(cameras []Camera) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cameras (id, name_en, name_th, lat, lng, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name_en = excluded.name_en,
			name_th = excluded.name_th,
			lat = excluded.lat,
			lng = excluded.lng,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cameras {
		if _, err := stmt.Exec(c.ID, c.NameEN, c.NameTH, c.Lat, c.Lng); err != nil {
			return fmt.Errorf("failed to upsert camera %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}
