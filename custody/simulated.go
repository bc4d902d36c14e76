package custody

import (
	"database/sql"

	logger "github.com/sirupsen/logrus"
)

// NewMemoryLedger builds a Ledger over an in-memory sqlite database.
// Test fixtures and the simulated environment use it.
func NewMemoryLedger() (*Ledger, *sql.DB) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal(err)
	}

	backend, err := NewLedgerSQLiteStorage(db)
	if err != nil {
		logger.Fatal(err)
	}

	return NewLedger(backend), db
}
