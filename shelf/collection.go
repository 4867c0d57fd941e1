package shelf

import "fmt"

// ReadingGoal is the ceiling of the reading-progress counter. Read entries
// keep accumulating past it; only the counter is clamped.
const ReadingGoal = 50

// Collection is the live, per-session view of one account's books: an
// in-memory mirror of the store, mutated together with it on every action.
type Collection struct {
	db       *Database
	username string

	books    []*Book
	read     []*Book
	progress int
}

// OpenCollection loads the account's owned books and read-this-year entries
// from the store. Read entries from earlier sessions count toward the
// progress counter.
func OpenCollection(db *Database, username string) (*Collection, error) {
	books, err := db.GetBooks(username)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	read, err := db.GetBooksRead(username)
	if err != nil {
		return nil, fmt.Errorf("load reading list: %w", err)
	}

	progress := len(read)
	if progress > ReadingGoal {
		progress = ReadingGoal
	}

	return &Collection{
		db:       db,
		username: username,
		books:    books,
		read:     read,
		progress: progress,
	}, nil
}

// Username returns the owning identity.
func (c *Collection) Username() string { return c.username }

// AddBook persists a new book and appends it to the cached list. No field is
// required to be non-empty.
func (c *Collection) AddBook(title, author, genre, year string) (*Book, error) {
	b := &Book{Title: title, Author: author, Genre: genre, Year: year}
	id, err := c.db.AddBook(b, c.username, false)
	if err != nil {
		return nil, err
	}
	b.ID = id
	c.books = append(c.books, b)
	return b, nil
}

// RemoveBook deletes the first book whose title matches. The match is
// resolved to its id before deleting, so exactly the same row leaves the
// store and the cache even when titles collide.
func (c *Collection) RemoveBook(title string) (*Book, error) {
	for i, b := range c.books {
		if b.Title != title {
			continue
		}
		if err := c.db.RemoveBook(b.ID, c.username); err != nil {
			return nil, err
		}
		c.books = append(c.books[:i], c.books[i+1:]...)
		return b, nil
	}
	return nil, fmt.Errorf("book %q: %w", title, ErrNotFound)
}

// SearchBook returns the first cached book with an exactly matching title.
func (c *Collection) SearchBook(title string) (*Book, error) {
	for _, b := range c.books {
		if b.Title == title {
			return b, nil
		}
	}
	return nil, fmt.Errorf("book %q: %w", title, ErrNotFound)
}

// Books returns the cached owned-book list in insertion order. An empty
// collection yields an empty slice.
func (c *Collection) Books() []*Book { return c.books }

// BooksRead returns the cached read-this-year list in insertion order.
func (c *Collection) BooksRead() []*Book { return c.read }

// LogReadThisYear records a title-only entry in the read-this-year table and
// advances the progress counter by one, clamped at ReadingGoal.
func (c *Collection) LogReadThisYear(title string) (*Book, error) {
	if title == "" {
		return nil, fmt.Errorf("title: %w", ErrMissingField)
	}

	b := &Book{Title: title}
	id, err := c.db.AddBook(b, c.username, true)
	if err != nil {
		return nil, err
	}
	b.ID = id
	c.read = append(c.read, b)
	if c.progress < ReadingGoal {
		c.progress++
	}
	return b, nil
}

// Progress reports the clamped counter and its ceiling.
func (c *Collection) Progress() (current, goal int) {
	return c.progress, ReadingGoal
}

// Close discards the cached state. The store keeps everything.
func (c *Collection) Close() {
	c.books = nil
	c.read = nil
	c.progress = 0
}
