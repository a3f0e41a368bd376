package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	errUniqueViolation     pq.ErrorCode = "23505"
	errForeignKeyViolation pq.ErrorCode = "23503"
)

// Dialect hides the differences between the SQL backends the catalog runs on.
type Dialect interface {
	Name() string
	DriverName() string
	// Rebind rewrites ? placeholders into the dialect's form.
	Rebind(query string) string
	Configure(db *sql.DB) error
	MigrationDriver(db *sql.DB) (database.Driver, error)
	// Classify maps driver constraint errors onto ErrExists and ErrNotFound.
	Classify(err error) error
}

func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	case "sqlite", "sqlite3", "":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", name)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) Rebind(query string) string {
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (postgresDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

func (postgresDialect) MigrationDriver(db *sql.DB) (database.Driver, error) {
	return migratepg.WithInstance(db, &migratepg.Config{})
}

func (postgresDialect) Classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case errUniqueViolation:
		return ErrExists
	case errForeignKeyViolation:
		return ErrNotFound
	}
	return err
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string              { return "sqlite3" }
func (sqliteDialect) DriverName() string        { return "sqlite3" }
func (sqliteDialect) Rebind(query string) string { return query }

// Configure expects pragmas to come from the DSN (see sqliteDSN) so they
// apply to every pooled connection.
func (sqliteDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

func sqliteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

func (sqliteDialect) MigrationDriver(db *sql.DB) (database.Driver, error) {
	return migratesqlite.WithInstance(db, &migratesqlite.Config{})
}

func (sqliteDialect) Classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrExists
	case sqlite3.ErrConstraintForeignKey:
		return ErrNotFound
	}
	return err
}
