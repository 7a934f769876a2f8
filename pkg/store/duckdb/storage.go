package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const AnalysesTableSchema = `
	CREATE TABLE IF NOT EXISTS analyses (
		id VARCHAR PRIMARY KEY,
		source VARCHAR NOT NULL,
		mode VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		payload JSON NOT NULL
	);
`

var bootQueries = []string{
	AnalysesTableSchema,
}

type Settings struct {
	// DbPath is a DuckDB file path or ":memory:"
	DbPath string
}

// NewDB opens the analysis database and creates its schema on every new connection.
func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
	}

	db := sql.OpenDB(c)
	return db, nil
}
