// Command librarydb bootstraps and inspects a library management database.
//
// The target engine is chosen the same way on every subcommand: exactly one
// of --sqlite, --mysql-url or --db-url, with LIBRARYDB_SQLITE,
// LIBRARYDB_MYSQL_URL and LIBRARYDB_DB_URL (optionally from a .env file) as
// fallbacks.
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"librarydb/library"
	"librarydb/schema"
)

var (
	sqlitePath     string
	mysqlURL       string
	dbURL          string
	promptPassword bool
)

var rootCmd = &cobra.Command{
	Use:   "librarydb",
	Short: "Create and inspect the library management database",
	Long: `librarydb reproduces the library management schema (books, authors,
publishers, members, loans, fines, reservations, categories, reviews, staff,
roles, settings, notifications) on SQLite, MySQL or PostgreSQL.`,
	SilenceUsage: true,
}

func init() {
	// .env is optional; flags and real environment win over it.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	pf.StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	pf.StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	pf.BoolVar(&promptPassword, "password-prompt", false, "Prompt for the server password instead of embedding it in the DSN")

	rootCmd.AddCommand(initCmd, ddlCmd, seedCmd, settingsCmd)
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd)
}

// resolveTarget picks the engine and DSN from flags and environment.
func resolveTarget() (schema.Dialect, string, error) {
	sqlite := firstNonEmpty(sqlitePath, os.Getenv("LIBRARYDB_SQLITE"))
	my := firstNonEmpty(mysqlURL, os.Getenv("LIBRARYDB_MYSQL_URL"))
	pg := firstNonEmpty(dbURL, os.Getenv("LIBRARYDB_DB_URL"))

	count := 0
	for _, v := range []string{sqlite, my, pg} {
		if v != "" {
			count++
		}
	}
	if count == 0 {
		return 0, "", fmt.Errorf("one of --sqlite, --mysql-url, or --db-url must be specified")
	}
	if count > 1 {
		return 0, "", fmt.Errorf("only one of --sqlite, --mysql-url, or --db-url can be specified")
	}

	switch {
	case my != "":
		return schema.MySQL, my, nil
	case pg != "":
		return schema.Postgres, pg, nil
	default:
		return schema.SQLite, sqlite, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// connect resolves the target, optionally injects an interactively read
// password, and opens the database.
func connect() (*library.Database, error) {
	dialect, dsn, err := target()
	if err != nil {
		return nil, err
	}
	return library.Open(dialect, dsn)
}

func target() (schema.Dialect, string, error) {
	dialect, dsn, err := resolveTarget()
	if err != nil {
		return 0, "", err
	}
	if promptPassword {
		if dialect == schema.SQLite {
			return 0, "", fmt.Errorf("--password-prompt makes no sense for SQLite")
		}
		password, err := readPassword("Database password: ")
		if err != nil {
			return 0, "", fmt.Errorf("read password: %w", err)
		}
		if dsn, err = withPassword(dialect, dsn, password); err != nil {
			return 0, "", err
		}
	}
	return dialect, dsn, nil
}

// readPassword reads a password without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// withPassword injects a password into a server DSN.
func withPassword(dialect schema.Dialect, dsn, password string) (string, error) {
	if dialect == schema.MySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.Passwd = password
		return cfg.FormatDSN(), nil
	}
	// PostgreSQL: URL form gets the password in the userinfo, keyword form
	// gets a password parameter appended.
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		user := ""
		if u.User != nil {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, password)
		return u.String(), nil
	}
	return dsn + " password=" + password, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Drop the database if it exists and create it fresh with the full schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		dialect, dsn, err := target()
		if err != nil {
			return err
		}
		db, err := library.Bootstrap(dialect, dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Printf("Initialized %s database with %d tables:\n", dialect, len(schema.Tables()))
		for _, table := range schema.Tables() {
			fmt.Printf("  %s\n", table)
		}
		return nil
	},
}

var ddlCmd = &cobra.Command{
	Use:   "ddl [sqlite|mysql|postgres]",
	Short: "Print the schema DDL for a dialect without touching a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialect, err := schema.ParseDialect(args[0])
		if err != nil {
			return err
		}
		for _, stmt := range schema.Statements(dialect) {
			fmt.Printf("%s;\n\n", stmt)
		}
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Operate on the system_settings table",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		settings, err := db.Settings()
		if err != nil {
			return err
		}
		for _, s := range settings.All() {
			fmt.Printf("%-30s %-20s %s\n", s.Name, s.Value, s.Description)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print one setting's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		settings, err := db.Settings()
		if err != nil {
			return err
		}
		value, ok := settings.Get(args[0])
		if !ok {
			return fmt.Errorf("setting %q does not exist", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var settingDescription string

var settingsSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Create or update a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		settings, err := db.Settings()
		if err != nil {
			return err
		}
		return settings.Set(args[0], args[1], settingDescription)
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingDescription, "description", "", "Human-readable description of the setting")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
