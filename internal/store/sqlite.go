package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

// SQLiteStore persists pattern libraries in SQLite.
type SQLiteStore struct {
	db *sql.DB

	upsertStmt *sql.Stmt
	deleteStmt *sql.Stmt
	listStmt   *sql.Stmt
	getStmt    *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			template TEXT NOT NULL,
			category TEXT NOT NULL,
			model TEXT NOT NULL,
			tags TEXT,
			usage_count INTEGER NOT NULL DEFAULT 0,
			success_rate REAL NOT NULL DEFAULT 0,
			last_used INTEGER,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_category ON patterns(category)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_model ON patterns(model)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.upsertStmt,
			query: `
				INSERT INTO patterns (
					id, name, description, template, category, model, tags, usage_count, success_rate, last_used, position
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
					COALESCE((SELECT position FROM patterns WHERE id = ?),
						(SELECT COALESCE(MAX(position), -1) + 1 FROM patterns)))
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					template = excluded.template,
					category = excluded.category,
					model = excluded.model,
					tags = excluded.tags,
					usage_count = excluded.usage_count,
					success_rate = excluded.success_rate,
					last_used = excluded.last_used
			`,
			errFmt: "store: prepare upsert pattern: %w",
		},
		{
			dst:    &s.deleteStmt,
			query:  `DELETE FROM patterns WHERE id = ?`,
			errFmt: "store: prepare delete pattern: %w",
		},
		{
			dst: &s.listStmt,
			query: `
				SELECT id, name, description, template, category, model, tags, usage_count, success_rate, last_used
				FROM patterns
				ORDER BY position ASC
			`,
			errFmt: "store: prepare list patterns: %w",
		},
		{
			dst: &s.getStmt,
			query: `
				SELECT id, name, description, template, category, model, tags, usage_count, success_rate, last_used
				FROM patterns WHERE id = ?
			`,
			errFmt: "store: prepare get pattern: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	for _, stmt := range []*sql.Stmt{s.upsertStmt, s.deleteStmt, s.listStmt, s.getStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePattern inserts or updates one pattern.
func (s *SQLiteStore) SavePattern(ctx context.Context, p *pattern.PromptPattern) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if p == nil {
		return errors.New("store: nil pattern")
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return errors.New("store: empty pattern id")
	}

	tagsJSON := []byte("null")
	if p.Tags != nil {
		var err error
		tagsJSON, err = json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("store: marshal tags: %w", err)
		}
	}

	var lastUsed any
	if !p.LastUsed.IsZero() {
		lastUsed = p.LastUsed.UTC().UnixMilli()
	}

	_, err := s.upsertStmt.ExecContext(ctx,
		id, p.Name, p.Description, p.Template, p.Category, p.Model,
		string(tagsJSON), p.UsageCount, p.SuccessRate, lastUsed, id,
	)
	if err != nil {
		return fmt.Errorf("store: upsert pattern: %w", err)
	}
	return nil
}

// DeletePattern removes a pattern by id. Unknown ids are not an error.
func (s *SQLiteStore) DeletePattern(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if _, err := s.deleteStmt.ExecContext(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("store: delete pattern: %w", err)
	}
	return nil
}

// LoadPatterns returns every stored pattern in insertion order.
func (s *SQLiteStore) LoadPatterns(ctx context.Context) ([]*pattern.PromptPattern, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list patterns: %w", err)
	}
	defer rows.Close()

	var out []*pattern.PromptPattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate patterns: %w", err)
	}
	return out, nil
}

// GetPattern returns one pattern, or sql.ErrNoRows when absent.
func (s *SQLiteStore) GetPattern(ctx context.Context, id string) (*pattern.PromptPattern, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	row := s.getStmt.QueryRowContext(ctx, strings.TrimSpace(id))
	return scanPattern(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row rowScanner) (*pattern.PromptPattern, error) {
	var (
		p        pattern.PromptPattern
		tagsJSON sql.NullString
		lastUsed sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Template, &p.Category, &p.Model,
		&tagsJSON, &p.UsageCount, &p.SuccessRate, &lastUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: scan pattern: %w", err)
	}

	if tagsJSON.Valid && tagsJSON.String != "" && tagsJSON.String != "null" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &p.Tags); err != nil {
			return nil, fmt.Errorf("store: decode tags: %w", err)
		}
	}
	if lastUsed.Valid {
		p.LastUsed = time.UnixMilli(lastUsed.Int64).UTC()
	}
	return &p, nil
}
