package shelf

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection. It is the
// sole source of truth across sessions; the in-memory caches in Collection
// are mirrors of it.
type Database struct {
	db *sql.DB

	addAccountStmt *sql.Stmt
	addBookStmt    *sql.Stmt
	addReadStmt    *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	for _, stmt := range []*sql.Stmt{d.addAccountStmt, d.addBookStmt, d.addReadStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		// The PRIMARY KEY enforces username uniqueness atomically, so a
		// check-then-insert race cannot create two accounts.
		`CREATE TABLE IF NOT EXISTS accounts (
            username TEXT PRIMARY KEY,
            password TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            favorite_genre TEXT NOT NULL DEFAULT ''
        );`,
		// Owned books and read-this-year rows are structurally identical but
		// live in separate tables. The rowid surrogate key makes removal
		// unambiguous when titles collide.
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL DEFAULT '',
            author TEXT NOT NULL DEFAULT '',
            genre TEXT NOT NULL DEFAULT '',
            year TEXT NOT NULL DEFAULT '',
            username TEXT NOT NULL REFERENCES accounts(username)
        );`,
		`CREATE TABLE IF NOT EXISTS books_read_this_year (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL DEFAULT '',
            author TEXT NOT NULL DEFAULT '',
            genre TEXT NOT NULL DEFAULT '',
            year TEXT NOT NULL DEFAULT '',
            username TEXT NOT NULL REFERENCES accounts(username)
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addAccountStmt, err = d.db.Prepare(`INSERT INTO accounts(username,password,name,email,favorite_genre) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO books(title,author,genre,year,username) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addReadStmt, err = d.db.Prepare(`INSERT INTO books_read_this_year(title,author,genre,year,username) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

// CreateAccount inserts a new account. A username collision yields
// ErrDuplicateKey; the existing row is left untouched.
func (d *Database) CreateAccount(a *Account) error {
	_, err := d.addAccountStmt.Exec(a.Username, a.Password, a.Name, a.Email, a.FavoriteGenre)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("account %q: %w", a.Username, ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetAccount fetches a single account by username.
func (d *Database) GetAccount(username string) (*Account, error) {
	var a Account
	err := d.db.QueryRow(`SELECT username,password,name,email,favorite_genre FROM accounts WHERE username=?`, username).
		Scan(&a.Username, &a.Password, &a.Name, &a.Email, &a.FavoriteGenre)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// AddBook inserts a book for the given account and returns its id. With
// readThisYear it goes to the books_read_this_year table instead of the
// owned-books table. Field contents are not validated.
func (d *Database) AddBook(b *Book, username string, readThisYear bool) (int64, error) {
	stmt := d.addBookStmt
	if readThisYear {
		stmt = d.addReadStmt
	}
	res, err := stmt.Exec(b.Title, b.Author, b.Genre, b.Year, username)
	if err != nil {
		return 0, fmt.Errorf("add book: %w", err)
	}
	return res.LastInsertId()
}

// GetBooks returns the account's owned books in insertion order.
func (d *Database) GetBooks(username string) ([]*Book, error) {
	return d.queryBooks(`SELECT id,title,author,genre,year FROM books WHERE username=? ORDER BY id`, username)
}

// GetBooksRead returns the account's read-this-year entries in insertion order.
func (d *Database) GetBooksRead(username string) ([]*Book, error) {
	return d.queryBooks(`SELECT id,title,author,genre,year FROM books_read_this_year WHERE username=? ORDER BY id`, username)
}

func (d *Database) queryBooks(query, username string) ([]*Book, error) {
	rows, err := d.db.Query(query, username)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// RemoveBook deletes exactly one owned-book row by id, scoped to the owning
// account. Read-this-year rows are never deletable.
func (d *Database) RemoveBook(id int64, username string) error {
	res, err := d.db.Exec(`DELETE FROM books WHERE id=? AND username=?`, id, username)
	if err != nil {
		return fmt.Errorf("remove book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}
