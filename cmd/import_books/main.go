package main

import (
	"fmt"
	"os"
	"strings"

	"shelf-app/shelf"
)

// Seeds a fresh shelf.db with a demo account and a starter catalog so the
// app has something to show on first run. Login: demo / demo.
func main() {
	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	dbFiles := []string{"shelf.db", "shelf.db-shm", "shelf.db-wal"}
	for _, file := range dbFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	db, err := shelf.NewDatabase("shelf.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	demo := &shelf.Account{
		Username:      "demo",
		Password:      "demo",
		Name:          "Demo Reader",
		Email:         "demo@shelf.app",
		FavoriteGenre: "Science Fiction",
	}
	if err := db.CreateAccount(demo); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating demo account: %v\n", err)
		os.Exit(1)
	}

	catalog := []shelf.Book{
		{Title: "1984", Author: "George Orwell", Genre: "Dystopian", Year: "1949"},
		{Title: "Animal Farm", Author: "George Orwell", Genre: "Satire", Year: "1945"},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Year: "1965"},
		{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Genre: "Fantasy", Year: "1954"},
		{Title: "The Two Towers", Author: "J.R.R. Tolkien", Genre: "Fantasy", Year: "1954"},
		{Title: "The Return of the King", Author: "J.R.R. Tolkien", Genre: "Fantasy", Year: "1955"},
		{Title: "The Art of War", Author: "Sun Tzu", Genre: "Philosophy", Year: "-500"},
		{Title: "Romeo and Juliet", Author: "William Shakespeare", Genre: "Tragedy", Year: "1597"},
		{Title: "The Three Musketeers", Author: "Alexandre Dumas", Genre: "Adventure", Year: "1844"},
		{Title: "The Diary of a Young Girl", Author: "Anne Frank", Genre: "Memoir", Year: "1947"},
	}

	fmt.Printf("Seeding catalog for account '%s'...\n", demo.Username)

	successCount := 0
	errorCount := 0

	for i := range catalog {
		book := &catalog[i]
		fmt.Printf("Adding: %s by %s... ", book.Title, book.Author)

		id, err := db.AddBook(book, demo.Username, false)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}

		fmt.Printf("SUCCESS (ID: %d)\n", id)
		successCount++
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Successfully added: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	// Display summary of the seeded shelf
	if successCount > 0 {
		fmt.Println("\nSeeded books:")
		books, err := db.GetBooks(demo.Username)
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
		} else {
			fmt.Printf("%-3s %-40s %-25s %-15s %s\n", "ID", "Title", "Author", "Genre", "Year")
			fmt.Println(strings.Repeat("-", 95))
			for _, book := range books {
				fmt.Printf("%-3d %-40s %-25s %-15s %s\n", book.ID, truncateString(book.Title, 40), truncateString(book.Author, 25), truncateString(book.Genre, 15), book.Year)
			}
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
