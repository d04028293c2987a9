// Package store persists workspaces: the roster, team, result and alias
// tables plus the card config as JSON documents in SQLite, and uploaded card
// templates and fonts as files next to the database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Table names a persisted document of a workspace.
type Table string

const (
	Players    Table = "players"
	Teams      Table = "teams"
	Results    Table = "results"
	Aliases    Table = "aliases"
	CardConfig Table = "card_config"
)

// Tables lists every persisted table.
var Tables = []Table{Players, Teams, Results, Aliases, CardConfig}

// AssetKind separates uploaded files of a workspace.
type AssetKind string

const (
	CardTemplate AssetKind = "card_template"
	CardFont     AssetKind = "card_font"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrWorkspace    = errors.New("invalid workspace name")
	ErrUnknownTable = errors.New("unknown table")
)

var workspaceName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidWorkspace reports whether name can be used as a workspace.
func ValidWorkspace(name string) bool {
	return workspaceName.MatchString(name)
}

func checkTable(t Table) error {
	for _, known := range Tables {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownTable, t)
}

// Store is a SQLite-backed workspace store.
type Store struct {
	db       *sql.DB
	assetDir string
}

// Open opens (creating if needed) the database at path and the asset
// directory under dataDir.
func Open(path, dataDir string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	assetDir := filepath.Join(dataDir, "assets")
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, assetDir: assetDir}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores v as the workspace's table, replacing what was there.
func (s *Store) Save(ctx context.Context, workspace string, table Table, v any) error {
	if !ValidWorkspace(workspace) {
		return fmt.Errorf("%w %q", ErrWorkspace, workspace)
	}
	if err := checkTable(table); err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (workspace, name, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(workspace, name) DO UPDATE SET
		    payload = excluded.payload,
		    updated_at = excluded.updated_at`,
		workspace, string(table), string(payload), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}

// Load decodes the workspace's table into v. It returns ErrNotFound when
// nothing was saved.
func (s *Store) Load(ctx context.Context, workspace string, table Table, v any) error {
	if !ValidWorkspace(workspace) {
		return fmt.Errorf("%w %q", ErrWorkspace, workspace)
	}
	if err := checkTable(table); err != nil {
		return err
	}
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM documents WHERE workspace = ? AND name = ?`,
		workspace, string(table),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s of %s: %w", table, workspace, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

// Delete removes the workspace's table. Deleting a missing table is not an error.
func (s *Store) Delete(ctx context.Context, workspace string, table Table) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE workspace = ? AND name = ?`,
		workspace, string(table),
	); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// Workspaces lists workspaces holding at least one table or asset.
func (s *Store) Workspaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT workspace FROM documents UNION SELECT workspace FROM assets ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []string
	for rows.Next() {
		var ws string
		if err := rows.Scan(&ws); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}
	return out, nil
}

// Asset is an uploaded file.
type Asset struct {
	ID        string
	Workspace string
	Kind      AssetKind
	Filename  string
	Ext       string
	CreatedAt time.Time
}

// SaveAsset copies r to a new file and records it as the workspace's
// latest asset of kind. The original file name is kept for display only.
func (s *Store) SaveAsset(ctx context.Context, workspace string, kind AssetKind, filename string, r io.Reader) (Asset, error) {
	if !ValidWorkspace(workspace) {
		return Asset{}, fmt.Errorf("%w %q", ErrWorkspace, workspace)
	}
	a := Asset{
		ID:        uuid.NewString(),
		Workspace: workspace,
		Kind:      kind,
		Filename:  filepath.Base(filename),
		Ext:       strings.ToLower(filepath.Ext(filename)),
		CreatedAt: time.Now().UTC(),
	}

	f, err := os.Create(s.AssetPath(a))
	if err != nil {
		return Asset{}, fmt.Errorf("create asset: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(s.AssetPath(a))
		return Asset{}, fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		return Asset{}, fmt.Errorf("close asset: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (id, workspace, kind, filename, ext, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Workspace, string(a.Kind), a.Filename, a.Ext, a.CreatedAt.UnixMilli(),
	); err != nil {
		_ = os.Remove(s.AssetPath(a))
		return Asset{}, fmt.Errorf("record asset: %w", err)
	}
	return a, nil
}

// LatestAsset returns the most recently saved asset of kind.
func (s *Store) LatestAsset(ctx context.Context, workspace string, kind AssetKind) (Asset, error) {
	var (
		a       Asset
		kindStr string
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, workspace, kind, filename, ext, created_at FROM assets
		 WHERE workspace = ? AND kind = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		workspace, string(kind),
	).Scan(&a.ID, &a.Workspace, &kindStr, &a.Filename, &a.Ext, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, fmt.Errorf("%s of %s: %w", kind, workspace, ErrNotFound)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("load asset: %w", err)
	}
	a.Kind = AssetKind(kindStr)
	a.CreatedAt = time.UnixMilli(created).UTC()
	return a, nil
}

// AssetPath is where the asset's bytes live on disk.
func (s *Store) AssetPath(a Asset) string {
	return filepath.Join(s.assetDir, a.ID+a.Ext)
}

// OpenAsset opens the latest asset of kind for reading.
func (s *Store) OpenAsset(ctx context.Context, workspace string, kind AssetKind) (io.ReadCloser, Asset, error) {
	a, err := s.LatestAsset(ctx, workspace, kind)
	if err != nil {
		return nil, Asset{}, err
	}
	f, err := os.Open(s.AssetPath(a))
	if err != nil {
		return nil, Asset{}, fmt.Errorf("open asset: %w", err)
	}
	return f, a, nil
}
