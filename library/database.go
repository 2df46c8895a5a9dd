package library

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"librarydb/schema"
)

// Database provides high-level helpers around a library database connection.
// It works against SQLite, MySQL or PostgreSQL; the schema is identical up to
// dialect rendering.
type Database struct {
	db      *sql.DB
	dialect schema.Dialect

	addBookStmt   *sql.Stmt
	addMemberStmt *sql.Stmt
}

// Open connects to an existing library database and prepares common
// statements. For SQLite the DSN is a file path; for the server engines it is
// the driver's connection string.
func Open(dialect schema.Dialect, dsn string) (*Database, error) {
	db, err := open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	database := &Database{db: db, dialect: dialect}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

func open(dialect schema.Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case schema.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		// DATE and TIMESTAMP columns scan as time.Time.
		cfg.ParseTime = true
		db, err := sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return db, nil

	case schema.Postgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		return stdlib.OpenDB(*cfg), nil

	default:
		// Ensure directory exists so first-run succeeds.
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		// Enable busy_timeout and foreign keys.
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	}
}

// Bootstrap drops the target database if it exists, creates it fresh, applies
// the full schema and returns an open connection. This mirrors the original
// system's drop-then-create bootstrap; it is destruction, not migration.
func Bootstrap(dialect schema.Dialect, dsn string) (*Database, error) {
	switch dialect {
	case schema.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		if cfg.DBName == "" {
			return nil, fmt.Errorf("mysql dsn must name a database")
		}
		name := cfg.DBName
		cfg.DBName = ""
		if err := recreateServerDB(schema.MySQL, "mysql", cfg.FormatDSN(), "`"+name+"`"); err != nil {
			return nil, err
		}

	case schema.Postgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		if cfg.Database == "" {
			return nil, fmt.Errorf("postgres dsn must name a database")
		}
		name := cfg.Database
		// Parse again rather than mutating cfg; the admin connection targets
		// the maintenance database.
		admin, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		admin.Database = "postgres"
		adminDB := stdlib.OpenDB(*admin)
		err = dropAndCreate(adminDB, `"`+name+`"`)
		adminDB.Close()
		if err != nil {
			return nil, err
		}

	default:
		// SQLite has no server to ask; destroying the files is the drop.
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(dsn + suffix); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("remove %s: %w", dsn+suffix, err)
			}
		}
	}

	d, err := Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := d.ApplySchema(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func recreateServerDB(dialect schema.Dialect, driver, adminDSN, quotedName string) error {
	adminDB, err := sql.Open(driver, adminDSN)
	if err != nil {
		return fmt.Errorf("open %s server: %w", dialect, err)
	}
	defer adminDB.Close()
	return dropAndCreate(adminDB, quotedName)
}

func dropAndCreate(db *sql.DB, quotedName string) error {
	if _, err := db.Exec("DROP DATABASE IF EXISTS " + quotedName); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	if _, err := db.Exec("CREATE DATABASE " + quotedName); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	return nil
}

// ApplySchema executes the full DDL against an empty database.
func (d *Database) ApplySchema() error {
	for _, stmt := range schema.Statements(d.dialect) {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addMemberStmt != nil {
		d.addMemberStmt.Close()
	}
	return d.db.Close()
}

// Dialect reports the engine this database was opened against.
func (d *Database) Dialect() schema.Dialect { return d.dialect }

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	insertBook := d.insertQuery(
		`INSERT INTO books (title, isbn, published_date, publisher_id) VALUES (?, ?, ?, ?)`, "book_id")
	if d.addBookStmt, err = d.db.Prepare(insertBook); err != nil {
		return err
	}
	insertMember := d.insertQuery(
		`INSERT INTO members (first_name, last_name, email, phone_number, address, membership_start_date) VALUES (?, ?, ?, ?, ?, ?)`, "member_id")
	if d.addMemberStmt, err = d.db.Prepare(insertMember); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Query helpers
// ---------------------------------------------------------------------------

// q rewrites placeholders for the active dialect.
func (d *Database) q(query string) string {
	return schema.Rebind(d.dialect, query)
}

// insertQuery rewrites placeholders and, on Postgres, appends a RETURNING
// clause, since the pgx driver has no LastInsertId.
func (d *Database) insertQuery(query, idCol string) string {
	if d.dialect == schema.Postgres {
		query += " RETURNING " + idCol
	}
	return schema.Rebind(d.dialect, query)
}

// insertID runs an insert built by insertQuery and returns the new row id.
func (d *Database) insertID(query, idCol string, args ...any) (int64, error) {
	if d.dialect == schema.Postgres {
		var id int64
		if err := d.db.QueryRow(d.insertQuery(query, idCol), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := d.db.Exec(d.q(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// stmtInsertID is insertID over an already-prepared statement.
func (d *Database) stmtInsertID(stmt *sql.Stmt, args ...any) (int64, error) {
	if d.dialect == schema.Postgres {
		var id int64
		if err := stmt.QueryRow(args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := stmt.Exec(args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// nullableTime converts an optional time for an insert parameter.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// centsToDecimal renders integer cents as the DECIMAL(10,2) literal the
// amount column stores.
func centsToDecimal(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// decimalToCents converts a scanned DECIMAL value back to integer cents.
func decimalToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
