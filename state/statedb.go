package state

import (
	"database/sql"

	"github.com/crosslock-io/bridge-go/common"
	"github.com/crosslock-io/bridge-go/database"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-sqlite3"
)

var KeyBridgeNonce = crypto.Keccak256Hash([]byte("KeyBridgeNonce"))

type StateDB struct {
	stmtCache *database.StmtCache
}

func NewStateDB(db *sql.DB) (*StateDB, error) {
	// 1. Create the tables.
	if _, err := db.Exec(kvTable + processedTable + eventTable); err != nil {
		return nil, err
	}

	// 2. A stmt cache + db.
	return &StateDB{
		stmtCache: database.NewStmtCache(db),
	}, nil
}

func (stdb *StateDB) Close() {
	stdb.stmtCache.Clear()
}

func (stdb *StateDB) GetKeyedValue(key ethcommon.Hash) (ethcommon.Hash, bool, error) {
	query := `SELECT value FROM kv WHERE key = ?`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return ethcommon.Hash{}, false, err
	}

	var value string
	keyHex := key.String()[2:]
	if err := stmt.QueryRow(keyHex).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return ethcommon.Hash{}, false, nil
		}
		return ethcommon.Hash{}, false, err
	}

	return common.HexStrToBytes32(value), true, nil
}

func (stdb *StateDB) SetKeyedValue(key, value ethcommon.Hash) error {
	query := `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return err
	}

	keyHex := key.String()[2:]
	valueHex := value.String()[2:]
	if _, err := stmt.Exec(keyHex, valueHex); err != nil {
		return err
	}

	return nil
}

// GetNonce reads the outbound counter. A missing row means the bridge has
// never produced an outbound operation, which reads as zero.
func (stdb *StateDB) GetNonce() (uint64, error) {
	v, ok, err := stdb.GetKeyedValue(KeyBridgeNonce)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return common.Bytes32ToUint64(v), nil
}

func (stdb *StateDB) SetNonce(nonce uint64) error {
	return stdb.SetKeyedValue(KeyBridgeNonce, common.Uint64ToBytes32(nonce))
}

// InsertProcessed records a consumed source tx. The primary key makes the
// check-and-insert a single atomic step inside sqlite; a duplicate comes
// back as ErrDuplicateSourceTx.
func (stdb *StateDB) InsertProcessed(p *ProcessedEntry) error {
	if p.SourceTxHash == (ethcommon.Hash{}) || p.Amount == 0 {
		return ErrInvalidEntry
	}

	query := `INSERT INTO processed (sourceTxHash, sourceChain, direction, amount, height) VALUES (?, ?, ?, ?, ?)`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return err
	}

	s := (&sqlProcessed{}).encode(p)
	_, err = stmt.Exec(s.SourceTxHash, s.SourceChain, s.Direction, s.Amount, s.Height)
	if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrDuplicateSourceTx
	}
	return err
}

func (stdb *StateDB) HasProcessed(sourceTxHash ethcommon.Hash) (bool, error) {
	_, ok, err := stdb.GetProcessed(sourceTxHash)
	return ok, err
}

func (stdb *StateDB) GetProcessed(sourceTxHash ethcommon.Hash) (*ProcessedEntry, bool, error) {
	query := `SELECT sourceTxHash, sourceChain, direction, amount, height FROM processed WHERE sourceTxHash = ?`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return nil, false, err
	}

	var s sqlProcessed
	id := sourceTxHash.String()[2:]
	err = stmt.QueryRow(id).Scan(&s.SourceTxHash, &s.SourceChain, &s.Direction, &s.Amount, &s.Height)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	return s.decode(), true, nil
}

func (stdb *StateDB) ProcessedCount() (uint64, error) {
	query := `SELECT COUNT(*) FROM processed`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return 0, err
	}

	var count uint64
	if err := stmt.QueryRow().Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// PruneProcessedBelow drops processed entries older than the given height.
// Operator tooling only; the controller never calls it.
func (stdb *StateDB) PruneProcessedBelow(height uint64) (int64, error) {
	query := `DELETE FROM processed WHERE height < ?`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return 0, err
	}

	res, err := stmt.Exec(height)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (stdb *StateDB) AppendEvent(kind string, payload []byte, height uint64) (int64, error) {
	query := `INSERT INTO events (kind, payload, height) VALUES (?, ?, ?)`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return 0, err
	}

	res, err := stmt.Exec(kind, payload, height)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Events returns up to limit journal entries with seq > afterSeq, in
// insertion order.
func (stdb *StateDB) Events(afterSeq int64, limit int) ([]*EventRecord, error) {
	query := `SELECT seq, kind, payload, height FROM events WHERE seq > ? ORDER BY seq ASC LIMIT ?`
	stmt, err := stdb.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(afterSeq, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*EventRecord{}
	for rows.Next() {
		var rec EventRecord
		if err := rows.Scan(&rec.Seq, &rec.Kind, &rec.Payload, &rec.Height); err != nil {
			return nil, err
		}
		events = append(events, &rec)
	}

	return events, rows.Err()
}
