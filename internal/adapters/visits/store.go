package visits

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	visitor_hash TEXT NOT NULL,
	path TEXT NOT NULL,
	visited_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_visitor ON visits(visitor_hash);
CREATE INDEX IF NOT EXISTS idx_visits_time ON visits(visited_at);`

// Store is the SQLite-backed visitor counter for the public site
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the visits database at path.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create visits directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open visits database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create visits table: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record implements ports.VisitStore
func (s *Store) Record(ctx context.Context, visitorHash, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (visitor_hash, path, visited_at) VALUES (?, ?, ?)`,
		visitorHash, path, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// Summary implements ports.VisitStore
func (s *Store) Summary(ctx context.Context) (views, visitors int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT visitor_hash) FROM visits`)
	if err := row.Scan(&views, &visitors); err != nil {
		return 0, 0, fmt.Errorf("failed to read visit summary: %w", err)
	}
	return views, visitors, nil
}

// PathCount is the number of views of one path
type PathCount struct {
	Path  string
	Views int
}

// TopPaths returns the most viewed paths, busiest first
func (s *Store) TopPaths(ctx context.Context, limit int) ([]PathCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views FROM visits GROUP BY path ORDER BY views DESC, path ASC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read top paths: %w", err)
	}
	defer rows.Close()

	var out []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, fmt.Errorf("failed to read top paths: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// Prune deletes visits older than maxAge and reports how many went
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-maxAge)
	res, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE visited_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune visits: %w", err)
	}
	return res.RowsAffected()
}

// HashVisitor derives the stored visitor key; raw addresses are never written
func HashVisitor(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}
