// Package storage persists extracted declaration facts and the symbol index
// in a local SQLite database, so scans are incremental and the linker can run
// without re-crawling the tree.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"cdoc/internal/analyzer"
	"cdoc/internal/linker"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// NewStore creates or opens a SQLite database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS declarations (
			filepath TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			initializer TEXT NOT NULL DEFAULT '',
			line INTEGER NOT NULL,
			is_static INTEGER NOT NULL DEFAULT 0,
			is_const INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_declarations_file ON declarations(filepath);`,
		`CREATE TABLE IF NOT EXISTS symbols (
			name TEXT PRIMARY KEY,
			filepath TEXT NOT NULL,
			line INTEGER NOT NULL
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveDeclarations replaces the stored facts for one file. Declarations have
// no natural key, so incremental updates are delete-then-insert per file.
func (s *Store) SaveDeclarations(ctx context.Context, file string, decls []analyzer.Declaration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM declarations WHERE filepath = ?`, file); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO declarations (filepath, name, type, initializer, line, is_static, is_const)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range decls {
		if _, err := stmt.Exec(file, d.Name, d.Type, d.Initializer, d.Line, d.IsStatic, d.IsConst); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindDeclarationsByFile returns the stored facts for one file in insertion
// order.
func (s *Store) FindDeclarationsByFile(ctx context.Context, file string) ([]analyzer.Declaration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, initializer, line, is_static, is_const
		FROM declarations WHERE filepath = ? ORDER BY rowid
	`, file)
	if err != nil {
		return nil, fmt.Errorf("failed to query declarations: %w", err)
	}
	defer rows.Close()

	var decls []analyzer.Declaration
	for rows.Next() {
		var d analyzer.Declaration
		if err := rows.Scan(&d.Name, &d.Type, &d.Initializer, &d.Line, &d.IsStatic, &d.IsConst); err != nil {
			return nil, fmt.Errorf("failed to scan declaration: %w", err)
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// CountDeclarations returns the total number of stored facts.
func (s *Store) CountDeclarations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM declarations`).Scan(&n)
	return n, err
}

// DeleteFile removes every fact and symbol recorded for one file, used when
// a watched or diffed file disappears.
func (s *Store) DeleteFile(ctx context.Context, file string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM declarations WHERE filepath = ?`, file); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE filepath = ?`, file); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSymbols upserts the symbol index.
func (s *Store) SaveSymbols(ctx context.Context, idx linker.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbols (name, filepath, line) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET filepath=excluded.filepath, line=excluded.line
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sym := range idx {
		if _, err := stmt.Exec(sym.Name, sym.Path, sym.Line); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSymbols returns the full stored symbol index.
func (s *Store) LoadSymbols(ctx context.Context) (linker.Index, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, filepath, line FROM symbols`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	idx := make(linker.Index)
	for rows.Next() {
		var sym linker.Symbol
		if err := rows.Scan(&sym.Name, &sym.Path, &sym.Line); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		idx[sym.Name] = sym
	}
	return idx, rows.Err()
}
