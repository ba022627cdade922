package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/harborlight/docq/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// metaKeyEmbedder is the index_meta key holding the embedder identity
// the index was built with.
const metaKeyEmbedder = "embedder"

// Store is the SQLite-backed vector index.
type Store struct {
	db         *sql.DB
	path       string
	embedderID string
}

// NewStore opens (or creates) the index database for a collection.
// If dataDir is empty, defaults to ~/.docq/data. The embedderID is the
// identity of the embedder configuration; an index built with a
// different embedder fails to open with domain.ErrIndexCorruption so
// that mixed-dimension vectors can never be compared.
func NewStore(dataDir, collection, embedderID string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docq", "data")
	}
	if collection == "" {
		collection = "technical_docs"
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, collection+".db")
	_, statErr := os.Stat(dbPath)
	existing := statErr == nil

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		embedderID: embedderID,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		if existing {
			// An unreadable existing index must not be papered over by
			// silently starting empty; the caller decides how to recover.
			return nil, fmt.Errorf("%w: %v", domain.ErrIndexCorruption, err)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.checkEmbedder(context.Background()); err != nil {
		db.Close()
		return nil, err
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
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

// checkEmbedder verifies the stored embedder identity matches the
// configured one, recording it on first use.
func (s *Store) checkEmbedder(ctx context.Context) error {
	if s.embedderID == "" {
		return nil
	}

	var stored string
	row := s.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaKeyEmbedder)
	err := row.Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO index_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, metaKeyEmbedder, s.embedderID)
		if err != nil {
			return fmt.Errorf("recording embedder identity: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: reading embedder identity: %v", domain.ErrIndexCorruption, err)
	}

	if stored == s.embedderID {
		return nil
	}

	// An empty index carries no vectors, so switching embedders is safe;
	// take over the marker instead of failing.
	var count int
	row = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("%w: counting chunks: %v", domain.ErrIndexCorruption, err)
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, "UPDATE index_meta SET value = ? WHERE key = ?",
			s.embedderID, metaKeyEmbedder); err != nil {
			return fmt.Errorf("recording embedder identity: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: index was built with embedder %q but %q is configured; clear the index before switching models",
		domain.ErrIndexCorruption, stored, s.embedderID)
}

// UpsertDocument atomically replaces the stored chunk set for a
// document. The delete and inserts share one transaction, so a reader
// observes either the old chunk set or the new one, never a mix.
func (s *Store) UpsertDocument(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if documentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidConfiguration)
	}
	for i := range chunks {
		if chunks[i].DocumentID != documentID {
			return fmt.Errorf("%w: chunk %s does not belong to document %s",
				domain.ErrInvalidConfiguration, chunks[i].ID, documentID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("removing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, document_type, source, position, content, token_count, section, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			document_type = excluded.document_type,
			source = excluded.source,
			position = excluded.position,
			content = excluded.content,
			token_count = excluded.token_count,
			section = excluded.section,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.DocumentType,
			chunk.Source, chunk.Position, chunk.Content, chunk.TokenCount, chunk.Section,
			embeddingBlob, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns the topK nearest chunks by cosine similarity, ties
// broken by insertion order.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, filter domain.Query) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidConfiguration, topK)
	}

	query := `
		SELECT rowid, id, document_id, document_type, source, position, content, token_count, section, embedding, metadata
		FROM chunks
	`
	var conditions []string
	var args []any
	if filter.DocumentType != "" {
		conditions = append(conditions, "document_type = ?")
		args = append(args, filter.DocumentType)
	}
	if filter.DocumentID != "" {
		conditions = append(conditions, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	type scored struct {
		hit   driven.VectorHit
		rowid int64
	}
	var candidates []scored

	for rows.Next() {
		var rowid int64
		chunk, err := scanChunk(rows, &rowid)
		if err != nil {
			return nil, err
		}

		similarity, err := domain.CosineSimilarity(embedding, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring chunk %s: %w", chunk.ID, err)
		}

		candidates = append(candidates, scored{
			hit:   driven.VectorHit{Chunk: *chunk, Similarity: similarity},
			rowid: rowid,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Descending similarity, stable tie-break by insertion order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hit.Similarity != candidates[j].hit.Similarity {
			return candidates[i].hit.Similarity > candidates[j].hit.Similarity
		}
		return candidates[i].rowid < candidates[j].rowid
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	hits := make([]driven.VectorHit, len(candidates))
	for i, c := range candidates {
		hits[i] = c.hit
	}
	return hits, nil
}

// DeleteByDocument removes all chunks owned by the document.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return 0, fmt.Errorf("deleting document chunks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted chunks: %w", err)
	}
	return int(n), nil
}

// Clear removes all entries. The embedder identity marker is removed
// too, so a cleared index can be rebuilt with a different model.
func (s *Store) Clear(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM chunks")
	if err != nil {
		return 0, fmt.Errorf("clearing chunks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared chunks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta WHERE key = ?", metaKeyEmbedder); err != nil {
		return 0, fmt.Errorf("clearing embedder identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	// Re-record the configured embedder for subsequent upserts.
	if err := s.checkEmbedder(ctx); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListDocuments aggregates stored chunks by owning document.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, document_type, source, COUNT(*)
		FROM chunks
		GROUP BY document_id
		ORDER BY MIN(rowid)
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.DocumentInfo
		if err := rows.Scan(&info.DocumentID, &info.Type, &info.Source, &info.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning document info: %w", err)
		}
		docs = append(docs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ChunksByDocument returns the stored chunks for a document in
// position order.
func (s *Store) ChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, id, document_id, document_type, source, position, content, token_count, section, embedding, metadata
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rowid int64
		chunk, err := scanChunk(rows, &rowid)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// scanChunk scans one chunk row including its rowid.
func scanChunk(rows *sql.Rows, rowid *int64) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := rows.Scan(rowid, &chunk.ID, &chunk.DocumentID, &chunk.DocumentType,
		&chunk.Source, &chunk.Position, &chunk.Content, &chunk.TokenCount,
		&chunk.Section, &embeddingBlob, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
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
