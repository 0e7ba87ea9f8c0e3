package database

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrMigrationChanged reports that a migration recorded as applied no longer
// matches the embedded script of the same version.
var ErrMigrationChanged = errors.New("applied migration was modified")

// OpenAndMigrate opens the sqlite database at dbPath and applies any
// migrations that have not run yet. ":memory:" is supported for tests.
func OpenAndMigrate(dbPath string) (*sql.DB, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, migrationsFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("DATABASE_PATH is required")
	}
	inMemory := dbPath == ":memory:"
	if !inMemory && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dbPath = "file:" + dbPath + "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if inMemory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	// Decks cascade with their owner.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

type migration struct {
	version  string
	script   string
	checksum string
}

func loadMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", dir, err)
	}
	var out []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		sum := sha256.Sum256(body)
		out = append(out, migration{version: e.Name(), script: string(body), checksum: hex.EncodeToString(sum[:])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// migrate applies the scripts under dir in version order. A version already
// recorded must still carry the checksum it was applied with.
func migrate(db *sql.DB, fsys fs.FS, dir string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		checksum TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedChecksums(db)
	if err != nil {
		return err
	}
	migs, err := loadMigrations(fsys, dir)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if sum, ok := applied[m.version]; ok {
			if sum != m.checksum {
				return fmt.Errorf("migration %s: %w", m.version, ErrMigrationChanged)
			}
			continue
		}
		if err := apply(db, m); err != nil {
			return err
		}
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := execSQLScript(tx, m.script); err != nil {
		return fmt.Errorf("apply migration %s: %w", m.version, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations(version, checksum) VALUES (?, ?)`, m.version, m.checksum); err != nil {
		return fmt.Errorf("record migration %s: %w", m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.version, err)
	}
	return nil
}

func appliedChecksums(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var version, sum string
		if err := rows.Scan(&version, &sum); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		out[version] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migrations: %w", err)
	}
	return out, nil
}

type sqlExecer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// execSQLScript runs each ';' separated statement of script after dropping
// "--" line comments that are outside quotes.
func execSQLScript(exec sqlExecer, script string) error {
	for _, p := range strings.Split(stripLineComments(script), ";") {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		if _, err := exec.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func stripLineComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			b.WriteByte(ch)
			if ch == quote {
				// A doubled quote is an escaped quote, stay inside.
				if i+1 < len(s) && s[i+1] == quote {
					b.WriteByte(ch)
					i++
					continue
				}
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			b.WriteByte(ch)
		case ch == '-' && i+1 < len(s) && s[i+1] == '-':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
