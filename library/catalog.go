package library

import (
	"database/sql"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Publishers
// ---------------------------------------------------------------------------

func (d *Database) AddPublisher(name, address string) (int64, error) {
	return d.insertID(`INSERT INTO publishers (name, address) VALUES (?, ?)`, "publisher_id", name, address)
}

func (d *Database) GetPublisher(id int64) (*Publisher, error) {
	var p Publisher
	err := d.db.QueryRow(d.q(`SELECT publisher_id, name, COALESCE(address, '') FROM publishers WHERE publisher_id = ?`), id).
		Scan(&p.ID, &p.Name, &p.Address)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Database) ListPublishers() ([]*Publisher, error) {
	rows, err := d.db.Query(`SELECT publisher_id, name, COALESCE(address, '') FROM publishers ORDER BY publisher_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishers []*Publisher
	for rows.Next() {
		var p Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Address); err != nil {
			return nil, err
		}
		publishers = append(publishers, &p)
	}
	return publishers, rows.Err()
}

// DeletePublisher removes a publisher row. With books still referencing it
// the engine rejects the delete; the constraint error is returned as is.
func (d *Database) DeletePublisher(id int64) error {
	res, err := d.db.Exec(d.q(`DELETE FROM publishers WHERE publisher_id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("publisher %d does not exist", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Authors
// ---------------------------------------------------------------------------

func (d *Database) AddAuthor(firstName, lastName string) (int64, error) {
	return d.insertID(`INSERT INTO authors (first_name, last_name) VALUES (?, ?)`, "author_id", firstName, lastName)
}

func (d *Database) ListAuthors() ([]*Author, error) {
	rows, err := d.db.Query(`SELECT author_id, first_name, last_name FROM authors ORDER BY author_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		authors = append(authors, &a)
	}
	return authors, rows.Err()
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// AddBook inserts a book. ISBN must be globally unique; a duplicate surfaces
// as the engine's uniqueness error. published and publisherID may be nil.
func (d *Database) AddBook(title, isbn string, published *time.Time, publisherID *int64) (int64, error) {
	var pid any
	if publisherID != nil {
		pid = *publisherID
	}
	return d.stmtInsertID(d.addBookStmt, title, isbn, nullableTime(published), pid)
}

func (d *Database) GetBook(id int64) (*Book, error) {
	return d.scanBook(d.db.QueryRow(
		d.q(`SELECT book_id, title, isbn, published_date, publisher_id FROM books WHERE book_id = ?`), id))
}

func (d *Database) GetBookByISBN(isbn string) (*Book, error) {
	return d.scanBook(d.db.QueryRow(
		d.q(`SELECT book_id, title, isbn, published_date, publisher_id FROM books WHERE isbn = ?`), isbn))
}

func (d *Database) scanBook(row *sql.Row) (*Book, error) {
	var (
		b         Book
		published sql.NullTime
		publisher sql.NullInt64
	)
	if err := row.Scan(&b.ID, &b.Title, &b.ISBN, &published, &publisher); err != nil {
		return nil, err
	}
	b.PublishedDate = timePtr(published)
	b.PublisherID = int64Ptr(publisher)
	return &b, nil
}

func (d *Database) ListBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT book_id, title, isbn, published_date, publisher_id FROM books ORDER BY book_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var (
			b         Book
			published sql.NullTime
			publisher sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.ISBN, &published, &publisher); err != nil {
			return nil, err
		}
		b.PublishedDate = timePtr(published)
		b.PublisherID = int64Ptr(publisher)
		books = append(books, &b)
	}
	return books, rows.Err()
}

// ---------------------------------------------------------------------------
// Book/author and book/category junctions
// ---------------------------------------------------------------------------

// LinkBookAuthor records authorship. The composite primary key rejects a
// duplicate pairing and the foreign keys reject unknown ids.
func (d *Database) LinkBookAuthor(bookID, authorID int64) error {
	_, err := d.db.Exec(d.q(`INSERT INTO book_authors (book_id, author_id) VALUES (?, ?)`), bookID, authorID)
	return err
}

func (d *Database) AuthorsOfBook(bookID int64) ([]*Author, error) {
	rows, err := d.db.Query(d.q(`
        SELECT a.author_id, a.first_name, a.last_name
        FROM book_authors ba
        JOIN authors a ON a.author_id = ba.author_id
        WHERE ba.book_id = ?
        ORDER BY a.author_id`), bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		authors = append(authors, &a)
	}
	return authors, rows.Err()
}

func (d *Database) AddCategory(name string) (int64, error) {
	return d.insertID(`INSERT INTO categories (name) VALUES (?)`, "category_id", name)
}

func (d *Database) ListCategories() ([]*Category, error) {
	rows, err := d.db.Query(`SELECT category_id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (d *Database) LinkBookCategory(bookID, categoryID int64) error {
	_, err := d.db.Exec(d.q(`INSERT INTO book_categories (book_id, category_id) VALUES (?, ?)`), bookID, categoryID)
	return err
}

func (d *Database) CategoriesOfBook(bookID int64) ([]*Category, error) {
	rows, err := d.db.Query(d.q(`
        SELECT c.category_id, c.name
        FROM book_categories bc
        JOIN categories c ON c.category_id = bc.category_id
        WHERE bc.book_id = ?
        ORDER BY c.name`), bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
