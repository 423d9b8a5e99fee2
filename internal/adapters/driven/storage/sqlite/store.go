// Package sqlite provides a SQLite-backed template store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/templar-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TemplateStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.TemplateStore.
// Embeddings are stored as little-endian float32 blobs alongside the
// record metadata.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.templar/data/templates.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".templar", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "templates.db")

	// WAL mode for better concurrency between serve and ingest.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts a record or fully replaces an existing one with the
// same ID. UploadedAt is stamped here: it is assigned at write time,
// not by the record builder.
func (s *Store) Upsert(ctx context.Context, record *domain.TemplateRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	record.UploadedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO templates (
			id, name, description, type, storage_url, embedding,
			file_name, text_length, embedding_dimensions, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			type = excluded.type,
			storage_url = excluded.storage_url,
			embedding = excluded.embedding,
			file_name = excluded.file_name,
			text_length = excluded.text_length,
			embedding_dimensions = excluded.embedding_dimensions,
			uploaded_at = excluded.uploaded_at
	`, record.ID, record.Name, record.Description, string(record.Type),
		record.StorageURL, float32SliceToBytes(record.Embedding),
		record.FileName, record.TextLength, record.EmbeddingDimensions,
		record.UploadedAt)
	if err != nil {
		return fmt.Errorf("upserting template %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.TemplateRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, type, storage_url, embedding,
			file_name, text_length, embedding_dimensions, uploaded_at
		FROM templates WHERE id = ?
	`, id)

	record, err := scanTemplate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying template %s: %w", id, err)
	}
	return record, nil
}

// ScanAll returns every stored record, ordered by upload time then ID
// so repeated scans yield the same corpus order.
func (s *Store) ScanAll(ctx context.Context) ([]domain.TemplateRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, storage_url, embedding,
			file_name, text_length, embedding_dimensions, uploaded_at
		FROM templates ORDER BY uploaded_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var records []domain.TemplateRecord
	for rows.Next() {
		record, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM templates")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting templates: %w", err)
	}
	return count, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_templates.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// scanTemplate scans a single template row via the given scan func.
func scanTemplate(scan func(...any) error) (*domain.TemplateRecord, error) {
	var record domain.TemplateRecord
	var recordType string
	var embeddingBlob []byte

	if err := scan(&record.ID, &record.Name, &record.Description, &recordType,
		&record.StorageURL, &embeddingBlob, &record.FileName,
		&record.TextLength, &record.EmbeddingDimensions, &record.UploadedAt); err != nil {
		return nil, err
	}

	record.Type = domain.TemplateType(recordType)
	record.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &record, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
