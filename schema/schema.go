// Package schema renders the library management data model as DDL for the
// supported database engines.
//
// The model is seventeen tables: books, authors, publishers, members, the
// circulation tables (loans, fines, book_reservations), categorisation and
// review tables, staff and role tables, a system_settings key/value table and
// a notifications table. Three junction tables (book_authors, book_categories,
// library_staff_roles) carry composite primary keys.
//
// One quirk is reproduced deliberately: books.publisher_id gains its foreign
// key via a trailing ALTER TABLE after every table exists, so table creation
// order stays independent of constraint declaration order. SQLite cannot add
// a foreign key through ALTER TABLE, so there the constraint is declared
// inline and publishers is created before books, which is equivalent.
//
// notifications.recipient_id is a polymorphic reference discriminated by
// recipient_type and carries no foreign key at all; the schema does not
// enforce that a recipient row exists. Callers that care must check.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL engine the DDL is rendered for.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	default:
		return "sqlite"
	}
}

// ParseDialect maps a user-supplied name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return SQLite, fmt.Errorf("unknown dialect %q (want sqlite, mysql or postgres)", name)
}

// serial renders an auto-incrementing integer primary key column type.
func serial(d Dialect) string {
	switch d {
	case MySQL:
		return "INT AUTO_INCREMENT PRIMARY KEY"
	case Postgres:
		return "INT GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	default:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// enum renders a column type restricted to a fixed value set. MySQL has a
// native ENUM type; the other engines get VARCHAR plus a CHECK over the same
// values.
func enum(d Dialect, col string, values ...string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	list := strings.Join(quoted, ", ")
	if d == MySQL {
		return fmt.Sprintf("ENUM(%s)", list)
	}
	return fmt.Sprintf("VARCHAR(20) CHECK (%s IN (%s))", col, list)
}

// Tables returns the canonical table names in server-engine creation order.
func Tables() []string {
	return []string{
		"books",
		"authors",
		"book_authors",
		"publishers",
		"members",
		"loans",
		"fines",
		"book_reservations",
		"categories",
		"book_categories",
		"reviews",
		"library_staff",
		"staff_roles",
		"library_staff_roles",
		"system_settings",
		"notifications",
	}
}

// Statements returns the complete DDL for dialect d, in an order that is
// valid to execute against an empty database.
func Statements(d Dialect) []string {
	// books carries no inline publisher constraint on server engines; the
	// trailing ALTER TABLE adds it once publishers exists.
	publisherRef := ""
	if d == SQLite {
		publisherRef = " REFERENCES publishers (publisher_id)"
	}

	books := fmt.Sprintf(`CREATE TABLE books (
    book_id %s,
    title VARCHAR(255) NOT NULL,
    isbn VARCHAR(20) NOT NULL UNIQUE,
    published_date DATE,
    publisher_id INT%s
)`, serial(d), publisherRef)

	authors := fmt.Sprintf(`CREATE TABLE authors (
    author_id %s,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL
)`, serial(d))

	bookAuthors := `CREATE TABLE book_authors (
    book_id INT,
    author_id INT,
    PRIMARY KEY (book_id, author_id),
    FOREIGN KEY (book_id) REFERENCES books (book_id),
    FOREIGN KEY (author_id) REFERENCES authors (author_id)
)`

	publishers := fmt.Sprintf(`CREATE TABLE publishers (
    publisher_id %s,
    name VARCHAR(255) NOT NULL,
    address VARCHAR(255)
)`, serial(d))

	members := fmt.Sprintf(`CREATE TABLE members (
    member_id %s,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    phone_number VARCHAR(20),
    address VARCHAR(255),
    membership_start_date DATE NOT NULL
)`, serial(d))

	loans := fmt.Sprintf(`CREATE TABLE loans (
    loan_id %s,
    book_id INT,
    member_id INT,
    loan_date DATE NOT NULL,
    return_date DATE,
    due_date DATE NOT NULL,
    FOREIGN KEY (book_id) REFERENCES books (book_id),
    FOREIGN KEY (member_id) REFERENCES members (member_id)
)`, serial(d))

	fines := fmt.Sprintf(`CREATE TABLE fines (
    fine_id %s,
    loan_id INT,
    amount DECIMAL(10, 2) NOT NULL,
    payment_date DATE,
    FOREIGN KEY (loan_id) REFERENCES loans (loan_id)
)`, serial(d))

	reservations := fmt.Sprintf(`CREATE TABLE book_reservations (
    reservation_id %s,
    book_id INT,
    member_id INT,
    reservation_date DATE NOT NULL,
    status %s NOT NULL DEFAULT 'Pending',
    FOREIGN KEY (book_id) REFERENCES books (book_id),
    FOREIGN KEY (member_id) REFERENCES members (member_id)
)`, serial(d), enum(d, "status", "Pending", "Active", "Cancelled", "Completed"))

	categories := fmt.Sprintf(`CREATE TABLE categories (
    category_id %s,
    name VARCHAR(100) NOT NULL UNIQUE
)`, serial(d))

	bookCategories := `CREATE TABLE book_categories (
    book_id INT,
    category_id INT,
    PRIMARY KEY (book_id, category_id),
    FOREIGN KEY (book_id) REFERENCES books (book_id),
    FOREIGN KEY (category_id) REFERENCES categories (category_id)
)`

	reviews := fmt.Sprintf(`CREATE TABLE reviews (
    review_id %s,
    book_id INT,
    member_id INT,
    rating INT NOT NULL CHECK (rating >= 1 AND rating <= 5),
    comment TEXT,
    review_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (book_id) REFERENCES books (book_id),
    FOREIGN KEY (member_id) REFERENCES members (member_id)
)`, serial(d))

	staff := fmt.Sprintf(`CREATE TABLE library_staff (
    staff_id %s,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    phone_number VARCHAR(20),
    job_title VARCHAR(100),
    hire_date DATE NOT NULL
)`, serial(d))

	staffRoles := fmt.Sprintf(`CREATE TABLE staff_roles (
    role_id %s,
    role_name VARCHAR(255) NOT NULL UNIQUE
)`, serial(d))

	staffRoleLinks := `CREATE TABLE library_staff_roles (
    staff_id INT,
    role_id INT,
    PRIMARY KEY (staff_id, role_id),
    FOREIGN KEY (staff_id) REFERENCES library_staff (staff_id),
    FOREIGN KEY (role_id) REFERENCES staff_roles (role_id)
)`

	settings := fmt.Sprintf(`CREATE TABLE system_settings (
    setting_id %s,
    setting_name VARCHAR(255) NOT NULL UNIQUE,
    setting_value VARCHAR(255),
    description TEXT
)`, serial(d))

	notifications := fmt.Sprintf(`CREATE TABLE notifications (
    notification_id %s,
    recipient_id INT,
    recipient_type %s NOT NULL,
    message TEXT NOT NULL,
    notification_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    status %s NOT NULL DEFAULT 'Sent'
)`, serial(d),
		enum(d, "recipient_type", "Member", "Staff"),
		enum(d, "status", "Sent", "Read", "Archived"))

	var stmts []string
	if d == SQLite {
		// publishers must exist before the inline books constraint.
		stmts = append(stmts, publishers, books, authors, bookAuthors)
	} else {
		stmts = append(stmts, books, authors, bookAuthors, publishers)
	}
	stmts = append(stmts,
		members,
		loans,
		fines,
		reservations,
		categories,
		bookCategories,
		reviews,
		staff,
		staffRoles,
		staffRoleLinks,
		settings,
		notifications,
	)
	stmts = append(stmts, indexStatements()...)
	if d != SQLite {
		stmts = append(stmts, "ALTER TABLE books ADD FOREIGN KEY (publisher_id) REFERENCES publishers (publisher_id)")
	}
	return stmts
}

// indexStatements covers every foreign key column plus the notification
// recipient columns, matching the secondary indexes the original system
// declared. Rendering is identical on all three engines.
func indexStatements() []string {
	idx := [][2]string{
		{"books", "publisher_id"},
		{"book_authors", "book_id"},
		{"book_authors", "author_id"},
		{"loans", "book_id"},
		{"loans", "member_id"},
		{"fines", "loan_id"},
		{"book_reservations", "book_id"},
		{"book_reservations", "member_id"},
		{"book_categories", "book_id"},
		{"book_categories", "category_id"},
		{"reviews", "book_id"},
		{"reviews", "member_id"},
		{"library_staff_roles", "staff_id"},
		{"library_staff_roles", "role_id"},
		{"notifications", "recipient_id"},
		{"notifications", "recipient_type"},
	}
	stmts := make([]string, 0, len(idx))
	for _, i := range idx {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s (%s)", i[0], i[1], i[0], i[1]))
	}
	return stmts
}

// Rebind rewrites ? placeholders to the $1, $2, ... form Postgres expects.
// Queries for the other engines pass through unchanged.
func Rebind(d Dialect, query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
