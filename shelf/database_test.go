package shelf

import (
	"errors"
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateAccount(t *testing.T, db *Database, username, password string) {
	t.Helper()
	err := db.CreateAccount(&Account{
		Username: username,
		Password: password,
		Name:     "Test User",
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatalf("create account %s: %v", username, err)
	}
}

func TestCreateAccountDuplicate(t *testing.T) {
	db := tempDB(t)

	original := &Account{
		Username:      "alice",
		Password:      "pw",
		Name:          "Alice",
		Email:         "a@x.com",
		FavoriteGenre: "Sci-Fi",
	}
	if err := db.CreateAccount(original); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := db.CreateAccount(&Account{Username: "alice", Password: "other", Name: "Imposter"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("want ErrDuplicateKey, got %v", err)
	}

	// Original row must be untouched by the failed insert.
	got, err := db.GetAccount("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *original {
		t.Fatalf("account changed after duplicate insert: %+v", got)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	db := tempDB(t)
	_, err := db.GetAccount("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAddAndListBooksInsertionOrder(t *testing.T) {
	db := tempDB(t)
	mustCreateAccount(t, db, "alice", "pw")

	titles := []string{"Dune", "1984", "Emma", "Dune"}
	for _, title := range titles {
		if _, err := db.AddBook(&Book{Title: title}, "alice", false); err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}

	books, err := db.GetBooks("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != len(titles) {
		t.Fatalf("want %d books, got %d", len(titles), len(books))
	}
	for i, title := range titles {
		if books[i].Title != title {
			t.Fatalf("position %d: want %q, got %q", i, title, books[i].Title)
		}
	}
}

func TestBooksScopedToAccount(t *testing.T) {
	db := tempDB(t)
	mustCreateAccount(t, db, "alice", "pw")
	mustCreateAccount(t, db, "bob", "pw")

	if _, err := db.AddBook(&Book{Title: "Dune"}, "alice", false); err != nil {
		t.Fatalf("add: %v", err)
	}

	books, err := db.GetBooks("bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("bob should have no books, got %d", len(books))
	}
}

func TestRemoveBookByID(t *testing.T) {
	db := tempDB(t)
	mustCreateAccount(t, db, "alice", "pw")

	id1, _ := db.AddBook(&Book{Title: "Dune"}, "alice", false)
	id2, _ := db.AddBook(&Book{Title: "Dune"}, "alice", false)

	if err := db.RemoveBook(id1, "alice"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Only the identified row is gone; the same-titled sibling survives.
	books, _ := db.GetBooks("alice")
	if len(books) != 1 || books[0].ID != id2 {
		t.Fatalf("want only book %d left, got %+v", id2, books)
	}

	// Removing again reports not found.
	if err := db.RemoveBook(id1, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRemoveBookWrongAccount(t *testing.T) {
	db := tempDB(t)
	mustCreateAccount(t, db, "alice", "pw")
	mustCreateAccount(t, db, "bob", "pw")

	id, _ := db.AddBook(&Book{Title: "Dune"}, "alice", false)

	if err := db.RemoveBook(id, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for foreign account, got %v", err)
	}
	books, _ := db.GetBooks("alice")
	if len(books) != 1 {
		t.Fatalf("alice's book should survive, got %d books", len(books))
	}
}

func TestReadThisYearSeparateTable(t *testing.T) {
	db := tempDB(t)
	mustCreateAccount(t, db, "alice", "pw")

	if _, err := db.AddBook(&Book{Title: "Dune"}, "alice", false); err != nil {
		t.Fatalf("add owned: %v", err)
	}
	if _, err := db.AddBook(&Book{Title: "Emma"}, "alice", true); err != nil {
		t.Fatalf("add read: %v", err)
	}

	owned, _ := db.GetBooks("alice")
	read, _ := db.GetBooksRead("alice")
	if len(owned) != 1 || owned[0].Title != "Dune" {
		t.Fatalf("owned table wrong: %+v", owned)
	}
	if len(read) != 1 || read[0].Title != "Emma" {
		t.Fatalf("read table wrong: %+v", read)
	}
}

func TestSchemaIdempotentReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	mustCreateAccount(t, db, "alice", "pw")
	if _, err := db.AddBook(&Book{Title: "Dune"}, "alice", false); err != nil {
		t.Fatalf("add: %v", err)
	}
	db.Close()

	// Second open must not recreate tables or lose rows.
	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	books, err := db.GetBooks("alice")
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("want 1 book after reopen, got %d", len(books))
	}
}
