// PlantDB is the remote record store: one day row per (user, date) with its
// feeder and turbine rows keyed by the generated day-row id. It holds only
// raw readings; every derived figure is recomputed from them so remote
// summaries can never disagree with local ones.
package plantdb

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/NotCoffee418/dbmigrator"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Store struct {
	db *sql.DB
}

// Open connects to the database at path and verifies the connection.
// Migrate must be called before first use on a fresh database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open plant db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping plant db: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate() {
	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		s.db,
		migrationFS,
		"migrations",
	)
}

func (s *Store) Close() error {
	return s.db.Close()
}
