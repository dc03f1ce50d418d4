package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dublin-energylink/internal/config"
	"github.com/dublin-energylink/internal/frame"
)

// Connection is the optional Postgres sink for resolved tables.
type Connection struct {
	DB *sql.DB
}

// Connect opens and pings the database configured by DB_HOST, DB_PORT,
// DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE.
func Connect() (*Connection, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.GetEnv("DB_HOST", "localhost"),
		config.GetEnv("DB_PORT", "5432"),
		config.GetEnv("DB_USER", "postgres"),
		config.GetEnv("DB_PASSWORD", ""),
		config.GetEnv("DB_NAME", "energylink"),
		config.GetEnv("DB_SSLMODE", "disable"),
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Connection{DB: db}, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}

// WriteDatabaseTable replaces the named database table with the given frame:
// numeric columns become double precision, everything else text. The load
// runs in one transaction so a failed write leaves no partial table.
func (c *Connection) WriteDatabaseTable(t *frame.Table, name string) error {
	columns := t.Columns()
	defs := make([]string, len(columns))
	numeric := make([]bool, len(columns))
	for i, col := range columns {
		numeric[i] = columnIsNumeric(t, col)
		if numeric[i] {
			defs[i] = fmt.Sprintf("%s double precision", pq.QuoteIdentifier(col))
		} else {
			defs[i] = fmt.Sprintf("%s text", pq.QuoteIdentifier(col))
		}
	}

	tx, err := c.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(name))); err != nil {
		return fmt.Errorf("failed to drop existing table: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(name), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	placeholders := make([]string, len(columns))
	quoted := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		quoted[i] = pq.QuoteIdentifier(col)
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		args := make([]any, len(columns))
		for j, col := range columns {
			v := t.At(i, col)
			switch {
			case v == nil:
				args[j] = nil
			case numeric[j]:
				args[j] = v
			default:
				args[j] = frame.FormatValue(v)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load of %s: %w", name, err)
	}
	return nil
}
