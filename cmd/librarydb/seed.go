package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"librarydb/library"
)

// Sample catalogue for a fresh database. IDs are assigned by the engine; the
// seeder wires the relationships up as it goes.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a small sample dataset into an initialized database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()
		return seed(db)
	},
}

func seed(db *library.Database) error {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}

	acme, err := db.AddPublisher("Acme Publishing", "1 Main St, Springfield")
	if err != nil {
		return fmt.Errorf("seed publishers: %w", err)
	}
	penguin, err := db.AddPublisher("Penguin Classics", "80 Strand, London")
	if err != nil {
		return fmt.Errorf("seed publishers: %w", err)
	}

	type bookSeed struct {
		title     string
		isbn      string
		published string
		publisher int64
		author    [2]string
		category  string
	}
	books := []bookSeed{
		{"1984", "9780451524935", "1949-06-08", penguin, [2]string{"George", "Orwell"}, "Fiction"},
		{"Animal Farm", "9780452284241", "1945-08-17", penguin, [2]string{"George", "Orwell"}, "Fiction"},
		{"The Art of War", "9781590302255", "2005-01-11", acme, [2]string{"Sun", "Tzu"}, "History"},
		{"Romeo and Juliet", "9780743477116", "2004-07-01", acme, [2]string{"William", "Shakespeare"}, "Drama"},
	}

	authorIDs := map[[2]string]int64{}
	categoryIDs := map[string]int64{}
	seeded := 0
	for _, b := range books {
		published := day(b.published)
		bookID, err := db.AddBook(b.title, b.isbn, &published, &b.publisher)
		if err != nil {
			return fmt.Errorf("seed book %q: %w", b.title, err)
		}

		authorID, ok := authorIDs[b.author]
		if !ok {
			if authorID, err = db.AddAuthor(b.author[0], b.author[1]); err != nil {
				return fmt.Errorf("seed author: %w", err)
			}
			authorIDs[b.author] = authorID
		}
		if err := db.LinkBookAuthor(bookID, authorID); err != nil {
			return fmt.Errorf("link author: %w", err)
		}

		categoryID, ok := categoryIDs[b.category]
		if !ok {
			if categoryID, err = db.AddCategory(b.category); err != nil {
				return fmt.Errorf("seed category: %w", err)
			}
			categoryIDs[b.category] = categoryID
		}
		if err := db.LinkBookCategory(bookID, categoryID); err != nil {
			return fmt.Errorf("link category: %w", err)
		}
		seeded++
	}

	if _, err := db.AddMember("Alice", "Reader", "alice@example.com", "555-0100", "12 Oak Ave", day("2024-01-15")); err != nil {
		return fmt.Errorf("seed member: %w", err)
	}
	staffID, err := db.AddStaff("Bob", "Librarian", "bob@library.example", "555-0101", "Head Librarian", day("2020-03-01"))
	if err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}
	roleID, err := db.AddStaffRole("Administrator")
	if err != nil {
		return fmt.Errorf("seed role: %w", err)
	}
	if err := db.AssignStaffRole(staffID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	settings, err := db.Settings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Set("loan_period_days", "14", "Default loan length in days"); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	fmt.Printf("Seeded %d books, %d authors, %d categories, 1 member, 1 staff.\n",
		seeded, len(authorIDs), len(categoryIDs))
	return nil
}
