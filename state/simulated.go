package state

import (
	"database/sql"

	"github.com/crosslock-io/bridge-go/common"
	logger "github.com/sirupsen/logrus"
)

func RandProcessedEntry(dir Direction) *ProcessedEntry {
	return &ProcessedEntry{
		SourceTxHash: common.RandBytes32(),
		SourceChain:  common.RandBytes32(),
		Direction:    dir,
		Amount:       100,
		Height:       1,
	}
}

func getMemoryDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal(err)
	}
	return db
}
