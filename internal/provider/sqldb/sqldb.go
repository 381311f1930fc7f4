// Package sqldb serves a corpus from a relational database using the
// kjv / book_info schema:
//
//	book_info("order" INTEGER PRIMARY KEY, title_short TEXT)
//	kjv(id INTEGER PRIMARY KEY, book INTEGER, chapter INTEGER, verse INTEGER, text TEXT, len INTEGER)
//
// kjv.book references book_info."order" and kjv.id gives reading order.
// SQLite (modernc or mattn, see core/sqlite) and PostgreSQL (pgx) are supported.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/errors"
	"github.com/FocuswithJustin/versedistance/core/sqlite"
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name string

	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder func(n int) string
}

// SQLite uses "?" placeholders.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
}

// Postgres uses "$n" placeholders.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

// placeholders returns n comma-separated placeholders.
func (d Dialect) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

const (
	versesQuery = `SELECT bi.title_short, k.chapter, k.verse, k.text, k.len
  FROM kjv AS k
  JOIN book_info AS bi ON bi."order" = k.book
 ORDER BY k.id`

	bookOrderQuery = `SELECT title_short FROM book_info ORDER BY "order"`
)

// Provider reads the corpus from db. It implements corpus.Provider.
type Provider struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database.
func New(db *sql.DB, dialect Dialect) *Provider {
	return &Provider{db: db, dialect: dialect}
}

// OpenSQLite opens the SQLite database at path read-only.
func OpenSQLite(ctx context.Context, path string) (*Provider, error) {
	db, err := sqlite.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, err
	}
	return New(db, SQLite), nil
}

// OpenPostgres connects to PostgreSQL through pgx and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*Provider, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.NewIO("connect", "postgres", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewIO("connect", "postgres", err)
	}
	return New(db, Postgres), nil
}

// DB returns the underlying database handle.
func (p *Provider) DB() *sql.DB {
	return p.db
}

// Dialect returns the provider's SQL dialect.
func (p *Provider) Dialect() Dialect {
	return p.dialect
}

// Close closes the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

// AllVerses implements corpus.Provider. Rows with a NULL len get the length of
// their text.
func (p *Provider) AllVerses(ctx context.Context) ([]corpus.Verse, error) {
	rows, err := p.db.QueryContext(ctx, versesQuery)
	if err != nil {
		return nil, errors.NewIO("query", "kjv", err)
	}
	defer rows.Close()

	var verses []corpus.Verse
	for rows.Next() {
		var (
			v      corpus.Verse
			text   sql.NullString
			length sql.NullInt64
		)
		if err := rows.Scan(&v.Book, &v.Chapter, &v.Verse, &text, &length); err != nil {
			return nil, errors.NewIO("scan", "kjv", err)
		}
		v.Text = text.String
		if length.Valid {
			v.Length = int(length.Int64)
		} else {
			v.Length = corpus.TextLength(v.Text)
		}
		verses = append(verses, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", "kjv", err)
	}
	return verses, nil
}

// BookOrder implements corpus.Provider.
func (p *Provider) BookOrder(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, bookOrderQuery)
	if err != nil {
		return nil, errors.NewIO("query", "book_info", err)
	}
	defer rows.Close()

	var books []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, errors.NewIO("scan", "book_info", err)
		}
		books = append(books, title)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", "book_info", err)
	}
	return books, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS book_info (
		"order" INTEGER PRIMARY KEY,
		title_short TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS kjv (
		id INTEGER PRIMARY KEY,
		book INTEGER NOT NULL REFERENCES book_info("order"),
		chapter INTEGER NOT NULL,
		verse INTEGER NOT NULL,
		text TEXT NOT NULL,
		len INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kjv_ref ON kjv(book, chapter, verse)`,
}

// Store writes books and verses into db in a single transaction, creating the
// schema if needed. Existing rows are replaced. Verses whose book is not in
// books are rejected.
func Store(ctx context.Context, db *sql.DB, d Dialect, books []string, verses []corpus.Verse) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin", d.Name, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.NewIO("create schema", d.Name, err)
		}
	}
	for _, stmt := range []string{`DELETE FROM kjv`, `DELETE FROM book_info`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.NewIO("clear", d.Name, err)
		}
	}

	order := make(map[string]int, len(books))
	insertBook := `INSERT INTO book_info ("order", title_short) VALUES (` + d.placeholders(2) + `)`
	for i, title := range books {
		order[title] = i + 1
		if _, err := tx.ExecContext(ctx, insertBook, i+1, title); err != nil {
			return errors.NewIO("insert", "book_info", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO kjv (id, book, chapter, verse, text, len) VALUES (`+d.placeholders(6)+`)`)
	if err != nil {
		return errors.NewIO("prepare", "kjv", err)
	}
	defer stmt.Close()

	for i, v := range verses {
		book, ok := order[v.Book]
		if !ok {
			return errors.NewCorpusIntegrity("book order", fmt.Sprintf("%s has no book_info row", v.Reference))
		}
		if _, err := stmt.ExecContext(ctx, i+1, book, v.Chapter, v.Verse, v.Text, v.Length); err != nil {
			return errors.NewIO("insert", "kjv", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewIO("commit", d.Name, err)
	}
	return nil
}
