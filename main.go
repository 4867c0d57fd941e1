package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"shelf-app/shelf"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	defaultDBFile = "shelf.db"
	version       = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:     "shelf",
	Short:   "Personal book collection manager",
	Long:    `Shelf tracks your personal book collection: add, remove and search books, log the books you read this year, and follow your progress toward the annual reading goal.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func runShell() error {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	dbPath := os.Getenv("SHELF_DB")
	if dbPath == "" {
		dbPath = defaultDBFile
	}

	db, err := shelf.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	session := shelf.NewSession(db)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to Shelf!")
	fmt.Println("Available commands: login, signup, exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return nil
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "login":
			if handleLogin(scanner, session) {
				sessionShell(scanner, db, session)
			}
		case "signup":
			handleSignup(scanner, session)
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		case "":
		default:
			fmt.Println("Unknown command. Type 'login', 'signup' or 'exit'.")
		}
	}
}

func handleLogin(sc *bufio.Scanner, session *shelf.Session) bool {
	fmt.Print("Username: ")
	if !sc.Scan() {
		return false
	}
	username := strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}

	if err := session.Authenticate(username, password); err != nil {
		switch {
		case errors.Is(err, shelf.ErrNotFound):
			fmt.Println("Login failed: user not found.")
		case errors.Is(err, shelf.ErrBadCredential):
			fmt.Println("Login failed: invalid username or password.")
		default:
			fmt.Printf("Login failed: %v\n", err)
		}
		return false
	}

	fmt.Printf("Welcome back, %s!\n", session.Identity())
	return true
}

func handleSignup(sc *bufio.Scanner, session *shelf.Session) {
	fmt.Print("Name: ")
	if !sc.Scan() {
		return
	}
	name := strings.TrimSpace(sc.Text())

	fmt.Print("Email: ")
	if !sc.Scan() {
		return
	}
	email := strings.TrimSpace(sc.Text())

	fmt.Print("Username: ")
	if !sc.Scan() {
		return
	}
	username := strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	fmt.Print("Favorite genre (optional): ")
	if !sc.Scan() {
		return
	}
	genre := strings.TrimSpace(sc.Text())

	if err := session.Register(name, email, username, password, genre); err != nil {
		switch {
		case errors.Is(err, shelf.ErrMissingField):
			fmt.Println("Sign up failed: please fill in all the fields.")
		case errors.Is(err, shelf.ErrDuplicateKey):
			fmt.Println("Sign up failed: username already exists. Please choose a different one.")
		default:
			fmt.Printf("Sign up failed: %v\n", err)
		}
		return
	}

	fmt.Println("You have successfully signed up! Use 'login' to start a session.")
}

// sessionShell runs the authenticated command loop until logout.
func sessionShell(sc *bufio.Scanner, db *shelf.Database, session *shelf.Session) {
	col, err := shelf.OpenCollection(db, session.Identity())
	if err != nil {
		fmt.Printf("Error loading your collection: %v\n", err)
		session.Logout()
		return
	}

	fmt.Println("Available commands:")
	fmt.Println("  Books: add book, remove book, search book, list books")
	fmt.Println("  Reading: log read, reading list, progress")
	fmt.Println("  System: logout")

	for {
		fmt.Printf("\n%s> ", session.Identity())
		if !sc.Scan() {
			break
		}
		cmd := strings.TrimSpace(sc.Text())

		switch cmd {
		case "add book":
			handleAddBook(sc, col)
		case "remove book":
			handleRemoveBook(sc, col)
		case "search book":
			handleSearchBook(sc, col)
		case "list books":
			handleListBooks(col)
		case "log read":
			handleLogRead(sc, col)
		case "reading list":
			handleReadingList(col)
		case "progress":
			handleProgress(col)
		case "logout":
			col.Close()
			session.Logout()
			fmt.Println("Logged out.")
			return
		case "":
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}

	// Input ended mid-session; discard the cached state anyway.
	col.Close()
	session.Logout()
}

func handleAddBook(sc *bufio.Scanner, col *shelf.Collection) {
	fmt.Print("Title: ")
	if !sc.Scan() {
		return
	}
	title := strings.TrimSpace(sc.Text())

	fmt.Print("Author: ")
	if !sc.Scan() {
		return
	}
	author := strings.TrimSpace(sc.Text())

	fmt.Print("Genre: ")
	if !sc.Scan() {
		return
	}
	genre := strings.TrimSpace(sc.Text())

	fmt.Print("Year: ")
	if !sc.Scan() {
		return
	}
	year := strings.TrimSpace(sc.Text())

	if _, err := col.AddBook(title, author, genre, year); err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Println("Book added successfully!")
}

func handleRemoveBook(sc *bufio.Scanner, col *shelf.Collection) {
	fmt.Print("Title: ")
	if !sc.Scan() {
		return
	}
	title := strings.TrimSpace(sc.Text())

	book, err := col.RemoveBook(title)
	if err != nil {
		if errors.Is(err, shelf.ErrNotFound) {
			fmt.Println("Book not found in the collection.")
		} else {
			fmt.Printf("Error removing book: %v\n", err)
		}
		return
	}
	fmt.Printf("Removed '%s'.\n", book.Title)
}

func handleSearchBook(sc *bufio.Scanner, col *shelf.Collection) {
	fmt.Print("Title: ")
	if !sc.Scan() {
		return
	}
	title := strings.TrimSpace(sc.Text())

	book, err := col.SearchBook(title)
	if err != nil {
		fmt.Println("Book not found in the collection.")
		return
	}
	fmt.Printf("Title: %s, Author: %s, Genre: %s, Year: %s\n", book.Title, book.Author, book.Genre, book.Year)
}

func handleListBooks(col *shelf.Collection) {
	books := col.Books()
	if len(books) == 0 {
		fmt.Println("No books in the collection.")
		return
	}

	fmt.Printf("%-30s %-25s %-15s %-6s\n", "Title", "Author", "Genre", "Year")
	fmt.Println(strings.Repeat("-", 80))
	for _, b := range books {
		fmt.Printf("%-30s %-25s %-15s %-6s\n",
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			truncateString(b.Genre, 15),
			b.Year)
	}
}

func handleLogRead(sc *bufio.Scanner, col *shelf.Collection) {
	fmt.Print("Title: ")
	if !sc.Scan() {
		return
	}
	title := strings.TrimSpace(sc.Text())

	if _, err := col.LogReadThisYear(title); err != nil {
		if errors.Is(err, shelf.ErrMissingField) {
			fmt.Println("Please enter a title.")
		} else {
			fmt.Printf("Error logging book: %v\n", err)
		}
		return
	}
	handleProgress(col)
}

func handleReadingList(col *shelf.Collection) {
	read := col.BooksRead()
	if len(read) == 0 {
		fmt.Println("No books read this year yet.")
		return
	}
	fmt.Println("Books read this year:")
	for _, b := range read {
		fmt.Printf("  %s\n", b.Title)
	}
}

func handleProgress(col *shelf.Collection) {
	current, goal := col.Progress()
	const width = 25
	filled := current * width / goal
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	fmt.Printf("Reading goal: [%s] %d/%d books\n", bar, current, goal)
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
