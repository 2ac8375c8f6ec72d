// Package sqlite provides a SQLite implementation of the snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/obokit/relreg/internal/storage"
	"github.com/obokit/relreg/pkg/types"
)

// Schema defines the snapshot tables. All statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_relationships (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	aliases TEXT NOT NULL DEFAULT '[]',
	symmetry TEXT NOT NULL,
	transitivity TEXT NOT NULL,
	reflexivity TEXT NOT NULL,
	complement TEXT NOT NULL DEFAULT '',
	prefix TEXT NOT NULL DEFAULT '',
	direction TEXT NOT NULL DEFAULT '',
	comment TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_relationships_name
	ON snapshot_relationships(name);
`

// SnapshotStore implements storage.SnapshotStore using SQLite.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens a SQLite snapshot store at the given DSN.
func NewSnapshotStore(dsn string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single open connection
	// serialises writes and avoids SQLITE_BUSY errors under concurrent load.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode lets readers proceed without blocking the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL mode: %w", err)
	}

	// Wait instead of failing immediately when the connection is busy.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// SaveSnapshot persists a snapshot and its definitions in one transaction.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	if snap == nil || snap.ID == "" {
		return fmt.Errorf("%w: snapshot ID is required", storage.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (id, created_at) VALUES (?, ?)",
		snap.ID, snap.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_relationships
			(snapshot_id, position, name, aliases, symmetry, transitivity,
			 reflexivity, complement, prefix, direction, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, def := range snap.Definitions {
		aliases, err := json.Marshal(def.Aliases)
		if err != nil {
			return fmt.Errorf("sqlite: failed to encode aliases for %s: %w", def.Name, err)
		}
		_, err = stmt.ExecContext(ctx,
			snap.ID, i, def.Name, string(aliases),
			string(def.Symmetry), string(def.Transitivity), string(def.Reflexivity),
			def.Complement, def.Prefix, string(def.Direction), def.Comment)
		if err != nil {
			return fmt.Errorf("sqlite: failed to insert definition %s: %w", def.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently created snapshot.
func (s *SnapshotStore) LatestSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	var (
		id        string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, created_at FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1").
		Scan(&id, &createdAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query latest snapshot: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: invalid snapshot timestamp %q: %w", createdAt, err)
	}

	defs, err := s.loadDefinitions(ctx, id)
	if err != nil {
		return nil, err
	}

	return &storage.Snapshot{ID: id, CreatedAt: ts, Definitions: defs}, nil
}

// ListSnapshots returns summaries of all stored snapshots, newest first.
func (s *SnapshotStore) ListSnapshots(ctx context.Context) ([]storage.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.created_at, COUNT(r.snapshot_id)
		FROM snapshots s
		LEFT JOIN snapshot_relationships r ON r.snapshot_id = s.id
		GROUP BY s.id, s.created_at
		ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []storage.SnapshotInfo
	for rows.Next() {
		var (
			info      storage.SnapshotInfo
			createdAt string
		)
		if err := rows.Scan(&info.ID, &createdAt, &info.Count); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan snapshot row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: invalid snapshot timestamp %q: %w", createdAt, err)
		}
		info.CreatedAt = ts
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to read snapshot rows: %w", err)
	}
	return infos, nil
}

// Close releases the database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) loadDefinitions(ctx context.Context, snapshotID string) ([]types.Relationship, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, aliases, symmetry, transitivity, reflexivity,
		       complement, prefix, direction, comment
		FROM snapshot_relationships
		WHERE snapshot_id = ?
		ORDER BY position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query definitions: %w", err)
	}
	defer rows.Close()

	var defs []types.Relationship
	for rows.Next() {
		var (
			def        types.Relationship
			aliases    string
			symmetry   string
			transitive string
			reflexive  string
			direction  string
		)
		err := rows.Scan(&def.Name, &aliases, &symmetry, &transitive, &reflexive,
			&def.Complement, &def.Prefix, &direction, &def.Comment)
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan definition row: %w", err)
		}
		if err := json.Unmarshal([]byte(aliases), &def.Aliases); err != nil {
			return nil, fmt.Errorf("sqlite: failed to decode aliases for %s: %w", def.Name, err)
		}
		def.Symmetry = types.Tristate(symmetry)
		def.Transitivity = types.Tristate(transitive)
		def.Reflexivity = types.Tristate(reflexive)
		def.Direction = types.Direction(direction)
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to read definition rows: %w", err)
	}
	return defs, nil
}
