package library

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"librarydb/schema"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := Bootstrap(schema.SQLite, filepath.Join(dir, "library.db"))
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// isConstraintErr reports whether err looks like an engine integrity error.
// The exact text differs per engine; for the SQLite tests the driver prefixes
// every violation with "constraint".
func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}

func TestBootstrapCreatesAllTables(t *testing.T) {
	db := tempDB(t)

	for _, table := range schema.Tables() {
		var n int
		err := db.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		if err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if n != 1 {
			t.Errorf("table %s missing after bootstrap", table)
		}
	}
}

// Bootstrap is drop-then-create: rerunning it against the same path must
// discard every existing row.
func TestBootstrapDestroysExistingData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.db")

	db, err := Bootstrap(schema.SQLite, path)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := db.AddPublisher("Acme", ""); err != nil {
		t.Fatalf("add publisher: %v", err)
	}
	db.Close()

	db, err = Bootstrap(schema.SQLite, path)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	defer db.Close()

	publishers, err := db.ListPublishers()
	if err != nil {
		t.Fatalf("list publishers: %v", err)
	}
	if len(publishers) != 0 {
		t.Fatalf("want empty database after bootstrap, got %d publishers", len(publishers))
	}
}

func TestDuplicateISBNRejected(t *testing.T) {
	db := tempDB(t)

	if _, err := db.AddBook("Dune", "9780441172719", nil, nil); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.AddBook("Dune (reprint)", "9780441172719", nil, nil)
	if !isConstraintErr(err) {
		t.Fatalf("want uniqueness violation for duplicate isbn, got %v", err)
	}
	if _, err := db.AddBook("Dune Messiah", "9780441172696", nil, nil); err != nil {
		t.Fatalf("distinct isbn should succeed: %v", err)
	}
}

func TestDeleteReferencedPublisherRejected(t *testing.T) {
	db := tempDB(t)

	pubID, err := db.AddPublisher("Chilton Books", "Radnor, PA")
	if err != nil {
		t.Fatalf("add publisher: %v", err)
	}
	if _, err := db.AddBook("Dune", "9780441172719", nil, &pubID); err != nil {
		t.Fatalf("add book: %v", err)
	}

	if err := db.DeletePublisher(pubID); !isConstraintErr(err) {
		t.Fatalf("want FK violation deleting referenced publisher, got %v", err)
	}

	// An unreferenced publisher deletes cleanly.
	otherID, _ := db.AddPublisher("Idle Press", "")
	if err := db.DeletePublisher(otherID); err != nil {
		t.Fatalf("delete unreferenced publisher: %v", err)
	}
	if err := db.DeletePublisher(otherID); err == nil {
		t.Fatal("want error deleting publisher twice")
	}
}

// The end-to-end scenario from the data model: create a publisher, a book
// referencing it, then fail a second book on the same ISBN.
func TestPublisherBookScenario(t *testing.T) {
	db := tempDB(t)

	pubID, err := db.AddPublisher("Acme", "")
	if err != nil {
		t.Fatalf("add publisher: %v", err)
	}
	if pubID != 1 {
		t.Fatalf("first publisher id: want 1, got %d", pubID)
	}

	bookID, err := db.AddBook("X", "123", nil, &pubID)
	if err != nil {
		t.Fatalf("add book: %v", err)
	}

	book, err := db.GetBook(bookID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if book.PublisherID == nil || *book.PublisherID != pubID {
		t.Fatalf("book should reference publisher %d, got %v", pubID, book.PublisherID)
	}

	if _, err := db.AddBook("Y", "123", nil, &pubID); !isConstraintErr(err) {
		t.Fatalf("want uniqueness violation for duplicate isbn, got %v", err)
	}
}

func TestBookByISBNAndNullableColumns(t *testing.T) {
	db := tempDB(t)

	published := date(t, "1965-08-01")
	pubID, _ := db.AddPublisher("Chilton Books", "")
	if _, err := db.AddBook("Dune", "9780441172719", &published, &pubID); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if _, err := db.AddBook("Anonymous Pamphlet", "000-unknown", nil, nil); err != nil {
		t.Fatalf("book without publisher or date must be valid: %v", err)
	}

	dune, err := db.GetBookByISBN("9780441172719")
	if err != nil {
		t.Fatalf("get by isbn: %v", err)
	}
	if dune.PublishedDate == nil || !dune.PublishedDate.Equal(published) {
		t.Fatalf("published date roundtrip: got %v", dune.PublishedDate)
	}

	pamphlet, err := db.GetBookByISBN("000-unknown")
	if err != nil {
		t.Fatalf("get pamphlet: %v", err)
	}
	if pamphlet.PublisherID != nil || pamphlet.PublishedDate != nil {
		t.Fatalf("want nil publisher and date, got %v %v", pamphlet.PublisherID, pamphlet.PublishedDate)
	}
}
