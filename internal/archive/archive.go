// Package archive exports the dataset to an object store as parquet
// snapshots and restores it back. Each snapshot is one parquet file per
// table plus a JSON manifest that records the expected row counts.
package archive

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/windforest/windforest/internal/observability"
	"github.com/windforest/windforest/internal/schema"
	"github.com/windforest/windforest/internal/storage"
)

type TableSnapshot struct {
	Name      string `json:"name"`
	Rows      int64  `json:"rows"`
	SizeBytes int64  `json:"size_bytes"`
	Key       string `json:"key"`
}

type Manifest struct {
	SnapshotID string          `json:"snapshot_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Tables     []TableSnapshot `json:"tables"`
}

type Service struct {
	db     *sql.DB
	store  storage.ObjectStore
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, store storage.ObjectStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, store: store, logger: logger, now: time.Now}
}

// Run exports every table to parquet, verifies the file row counts against
// the database, uploads the files, and finishes with the manifest. The
// manifest upload is last so a snapshot with a manifest is always complete.
func (s *Service) Run(ctx context.Context) (Manifest, error) {
	manifest, err := s.run(ctx)
	observability.ObserveArchiveRun(err == nil)
	return manifest, err
}

func (s *Service) run(ctx context.Context) (Manifest, error) {
	snapshotID := s.now().UTC().Format("20060102T150405Z")
	workDir, err := os.MkdirTemp("", "windforest-archive-")
	if err != nil {
		return Manifest{}, fmt.Errorf("create archive temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	manifest := Manifest{SnapshotID: snapshotID, CreatedAt: s.now().UTC()}
	for _, table := range schema.Tables() {
		snapshot, err := s.exportTable(ctx, snapshotID, table, workDir)
		if err != nil {
			return Manifest{}, err
		}
		manifest.Tables = append(manifest.Tables, snapshot)
	}

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Manifest{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestKey, err := storage.SnapshotManifestPath(snapshotID)
	if err != nil {
		return Manifest{}, err
	}
	if _, err := s.store.Put(ctx, manifestKey, bytes.NewReader(body), int64(len(body)), storage.PutOptions{ContentType: "application/json"}); err != nil {
		return Manifest{}, fmt.Errorf("upload manifest: %w", err)
	}

	s.logger.InfoContext(ctx, "archive snapshot complete",
		slog.String("snapshot_id", snapshotID),
		slog.Int("tables", len(manifest.Tables)))
	return manifest, nil
}

func (s *Service) exportTable(ctx context.Context, snapshotID, table, workDir string) (TableSnapshot, error) {
	localPath := filepath.Join(workDir, table+".parquet")
	copySQL := fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET)", quoteIdent(table), quoteString(localPath))
	if _, err := s.db.ExecContext(ctx, copySQL); err != nil {
		return TableSnapshot{}, fmt.Errorf("export table %q: %w", table, err)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("read exported table %q: %w", table, err)
	}

	fileRows, err := ParquetRowCount(data)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("inspect export of table %q: %w", table, err)
	}
	var dbRows int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&dbRows); err != nil {
		return TableSnapshot{}, fmt.Errorf("count table %q: %w", table, err)
	}
	if fileRows != dbRows {
		return TableSnapshot{}, fmt.Errorf("table %q export has %d rows, database has %d", table, fileRows, dbRows)
	}

	key, err := storage.SnapshotTablePath(snapshotID, table)
	if err != nil {
		return TableSnapshot{}, err
	}
	if _, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{ContentType: "application/vnd.apache.parquet"}); err != nil {
		return TableSnapshot{}, fmt.Errorf("upload table %q: %w", table, err)
	}

	return TableSnapshot{Name: table, Rows: fileRows, SizeBytes: int64(len(data)), Key: key}, nil
}

// Restore replaces every table's contents with the snapshot's parquet
// files. All files are staged and checked against the manifest first, then
// tables are cleared child-first and reloaded parent-first so foreign keys
// hold throughout.
func (s *Service) Restore(ctx context.Context, snapshotID string) (Manifest, error) {
	manifest, err := s.LoadManifest(ctx, snapshotID)
	if err != nil {
		return Manifest{}, err
	}

	workDir, err := os.MkdirTemp("", "windforest-restore-")
	if err != nil {
		return Manifest{}, fmt.Errorf("create restore temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	localPaths := make(map[string]string, len(manifest.Tables))
	for _, table := range manifest.Tables {
		reader, err := s.store.Get(ctx, table.Key)
		if err != nil {
			return Manifest{}, fmt.Errorf("fetch snapshot file %q: %w", table.Key, err)
		}
		data, err := io.ReadAll(reader)
		_ = reader.Close()
		if err != nil {
			return Manifest{}, fmt.Errorf("read snapshot file %q: %w", table.Key, err)
		}

		fileRows, err := ParquetRowCount(data)
		if err != nil {
			return Manifest{}, fmt.Errorf("inspect snapshot file %q: %w", table.Key, err)
		}
		if fileRows != table.Rows {
			return Manifest{}, fmt.Errorf("snapshot file %q has %d rows, manifest says %d", table.Key, fileRows, table.Rows)
		}

		localPath := filepath.Join(workDir, table.Name+".parquet")
		if err := os.WriteFile(localPath, data, 0o644); err != nil {
			return Manifest{}, fmt.Errorf("stage snapshot file %q: %w", table.Key, err)
		}
		localPaths[table.Name] = localPath
	}

	for i := len(manifest.Tables) - 1; i >= 0; i-- {
		name := manifest.Tables[i].Name
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+quoteIdent(name)); err != nil {
			return Manifest{}, fmt.Errorf("clear table %q: %w", name, err)
		}
	}
	for _, table := range manifest.Tables {
		loadSQL := fmt.Sprintf("INSERT INTO %s SELECT * FROM read_parquet(%s)",
			quoteIdent(table.Name), quoteString(localPaths[table.Name]))
		if _, err := s.db.ExecContext(ctx, loadSQL); err != nil {
			return Manifest{}, fmt.Errorf("restore table %q: %w", table.Name, err)
		}
	}

	s.logger.InfoContext(ctx, "archive snapshot restored",
		slog.String("snapshot_id", snapshotID),
		slog.Int("tables", len(manifest.Tables)))
	return manifest, nil
}

func (s *Service) LoadManifest(ctx context.Context, snapshotID string) (Manifest, error) {
	key, err := storage.SnapshotManifestPath(snapshotID)
	if err != nil {
		return Manifest{}, err
	}
	reader, err := s.store.Get(ctx, key)
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch manifest %q: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	var manifest Manifest
	if err := json.NewDecoder(reader).Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest %q: %w", key, err)
	}
	return manifest, nil
}

// ParquetRowCount reads the row count from parquet footer metadata without
// decoding row groups.
func ParquetRowCount(data []byte) (int64, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open parquet: %w", err)
	}
	return file.NumRows(), nil
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func quoteString(value string) string {
	return `'` + strings.ReplaceAll(value, `'`, `''`) + `'`
}
