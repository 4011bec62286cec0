package retriever

import (
	"database/sql"
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/llm-ls/llm-ls/internal/errkind"
	"github.com/llm-ls/llm-ls/internal/errors"
)

func init() {
	// Registers the vec0 virtual table module globally, once per process.
	sqlite_vec.Auto()
}

// Store is the single serialized file spec.md §4.4 describes: a SQLite
// database holding one `collections` meta row per named collection plus,
// per collection, a content table and a vec0 virtual table for its
// embeddings. Opening a missing path creates an empty store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store file at path, creating parent
// directories as needed and ensuring the collection-metadata table exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errkind.Wrap(errkind.IO, err, "create store directory")
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errkind.Wrap(errkind.IO, err, "open store file")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, errkind.Wrap(errkind.IO, err, "enable WAL journal mode")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		dimension INTEGER NOT NULL,
		distance_metric TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errkind.Wrap(errkind.IO, err, "create collections table")
	}

	return &Store{db: db}, nil
}

// Close persists the store and releases its file handle. Per spec.md §4.4
// the store is only guaranteed to be durable after a clean shutdown; a
// full WAL checkpoint forces that before closing.
func (s *Store) Close() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(FULL)"); err != nil {
		s.db.Close()
		return errkind.Wrap(errkind.IO, err, "checkpoint store before close")
	}
	if err := s.db.Close(); err != nil {
		return errkind.Wrap(errkind.IO, err, "close store")
	}
	return nil
}

func contentTable(name string) string { return "rows_" + name }
func vecTable(name string) string     { return "vec_" + name }

// CreateCollection registers a named collection and its backing tables if
// they don't already exist. Dimension and distance metric are fixed for
// the collection's lifetime.
func (s *Store) CreateCollection(meta CollectionMeta) error {
	existing, err := s.Collection(meta.Name)
	if err == nil {
		if existing.Dimension != meta.Dimension {
			return errkind.Newf(errkind.CollectionDimensionMismatch,
				"collection %q already exists with dimension %d, cannot recreate with %d",
				meta.Name, existing.Dimension, meta.Dimension)
		}
		return nil
	}
	if !errkind.Is(err, errkind.CollectionNotFound) {
		return err
	}

	if _, err := s.db.Exec(
		"INSERT INTO collections(name, dimension, distance_metric) VALUES (?, ?, ?)",
		meta.Name, meta.Dimension, string(meta.DistanceMetric),
	); err != nil {
		return errkind.Wrap(errkind.IO, err, "insert collection metadata")
	}

	rowsDDL := `CREATE TABLE IF NOT EXISTS ` + contentTable(meta.Name) + ` (
		id TEXT PRIMARY KEY,
		file_url TEXT NOT NULL,
		start_line INTEGER NOT NULL,
		end_line INTEGER NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT NOT NULL,
		UNIQUE(file_url, start_line, end_line)
	)`
	if _, err := s.db.Exec(rowsDDL); err != nil {
		return errkind.Wrap(errkind.IO, err, "create collection content table")
	}

	vecDDL := "CREATE VIRTUAL TABLE IF NOT EXISTS " + vecTable(meta.Name) +
		" USING vec0(row_id TEXT PRIMARY KEY, embedding float[" + itoa(meta.Dimension) + "])"
	if _, err := s.db.Exec(vecDDL); err != nil {
		return errkind.Wrap(errkind.IO, err, "create collection vector table")
	}
	return nil
}

// Collection fetches a collection's recorded metadata.
func (s *Store) Collection(name string) (CollectionMeta, error) {
	var meta CollectionMeta
	meta.Name = name
	var metric string
	err := s.db.QueryRow(
		"SELECT dimension, distance_metric FROM collections WHERE name = ?", name,
	).Scan(&meta.Dimension, &metric)
	if errors.Is(err, sql.ErrNoRows) {
		return CollectionMeta{}, errkind.Newf(errkind.CollectionNotFound, "collection %q not found", name)
	}
	if err != nil {
		return CollectionMeta{}, errkind.Wrap(errkind.IO, err, "query collection metadata")
	}
	meta.DistanceMetric = DistanceMetric(metric)
	return meta, nil
}

// AppendRow inserts one embedded window into collection. Rows are deduped
// on (file_url, start_line, end_line): an existing window at the same
// coordinates is rejected rather than silently overwritten, matching
// spec.md §4.4's "skip windows already indexed" step.
func (s *Store) AppendRow(collection string, row Row) error {
	meta, err := s.Collection(collection)
	if err != nil {
		return err
	}
	if err := validateDimension(meta, row.Vector); err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(row.Metadata)
	if err != nil {
		return errkind.Wrap(errkind.SerdeJSON, err, "marshal row metadata")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errkind.Wrap(errkind.IO, err, "begin append transaction")
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT OR IGNORE INTO "+contentTable(collection)+
			"(id, file_url, start_line, end_line, content, metadata) VALUES (?, ?, ?, ?, ?, ?)",
		row.ID, row.FileURL, row.StartLine, row.EndLine, row.Content, string(metadataJSON),
	)
	if err != nil {
		return errkind.Wrap(errkind.IO, err, "insert row content")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errkind.Wrap(errkind.IO, err, "check insert result")
	}
	if affected == 0 {
		return errkind.Newf(errkind.CollectionUniqueViolation,
			"window %s:%d-%d already indexed", row.FileURL, row.StartLine, row.EndLine)
	}

	packed := serializeVector(row.Vector)
	if _, err := tx.Exec(
		"INSERT INTO "+vecTable(collection)+"(row_id, embedding) VALUES (?, ?)",
		row.ID, packed,
	); err != nil {
		return errkind.Wrap(errkind.IO, err, "insert row embedding")
	}

	if err := tx.Commit(); err != nil {
		return errkind.Wrap(errkind.IO, err, "commit append transaction")
	}
	return nil
}

// AllRows returns every row in collection, vector and metadata included,
// for Query to filter and score in-process.
func (s *Store) AllRows(collection string) ([]Row, error) {
	if _, err := s.Collection(collection); err != nil {
		return nil, err
	}

	query := `SELECT r.id, r.file_url, r.start_line, r.end_line, r.content, r.metadata, v.embedding
		FROM ` + contentTable(collection) + ` r
		JOIN ` + vecTable(collection) + ` v ON v.row_id = r.id`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errkind.Wrap(errkind.IO, err, "scan collection rows")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var metadataJSON string
		var packed []byte
		if err := rows.Scan(&r.ID, &r.FileURL, &r.StartLine, &r.EndLine, &r.Content, &metadataJSON, &packed); err != nil {
			return nil, errkind.Wrap(errkind.IO, err, "scan row")
		}
		if err := json.Unmarshal([]byte(metadataJSON), &r.Metadata); err != nil {
			return nil, errkind.Wrap(errkind.SerdeJSON, err, "unmarshal row metadata")
		}
		vector, err := deserializeVector(packed)
		if err != nil {
			return nil, errkind.Wrap(errkind.IO, err, "deserialize embedding vector")
		}
		r.Vector = vector
		out = append(out, r)
	}
	return out, rows.Err()
}

// HasWindow reports whether collection already has a row at exactly
// (fileURL, startLine, endLine), letting the indexer skip re-embedding
// unchanged windows without relying on AppendRow's error path.
func (s *Store) HasWindow(collection, fileURL string, startLine, endLine int) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM "+contentTable(collection)+" WHERE file_url = ? AND start_line = ? AND end_line = ?",
		fileURL, startLine, endLine,
	).Scan(&count)
	if err != nil {
		return false, errkind.Wrap(errkind.IO, err, "check existing window")
	}
	return count > 0, nil
}

// serializeVector packs a float32 vector into the little-endian byte blob
// sqlite-vec's vec0 module expects, matching the manual packing the
// teacher's embedding service uses (no SerializeFloat32 helper is
// exercised anywhere in the pack).
func serializeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		bits := math.Float32bits(v)
		buf[i*4] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}

func deserializeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, errkind.Newf(errkind.IO, "invalid embedding blob length: %d", len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		bits := uint32(data[i*4]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
