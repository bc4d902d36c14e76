package custody

import (
	"database/sql"

	"github.com/crosslock-io/bridge-go/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// LedgerSQLiteStorage implements LedgerStorage for SQLite
type LedgerSQLiteStorage struct {
	db *sql.DB
}

// NewLedgerSQLiteStorage creates the account and mint tables if missing.
func NewLedgerSQLiteStorage(db *sql.DB) (*LedgerSQLiteStorage, error) {
	storage := &LedgerSQLiteStorage{db: db}
	if err := storage.init(); err != nil {
		return nil, err
	}
	return storage, nil
}

func (s *LedgerSQLiteStorage) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS custody_account (
		id CHAR(64) PRIMARY KEY NOT NULL,
		owner CHAR(64) NOT NULL,
		mint CHAR(64) NOT NULL,
		balance BIGINT UNSIGNED NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS custody_mint (
		id CHAR(64) PRIMARY KEY NOT NULL,
		authority CHAR(64) NOT NULL,
		supply BIGINT UNSIGNED NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *LedgerSQLiteStorage) InsertAccount(acct Account) error {
	query := `INSERT INTO custody_account (id, owner, mint, balance) VALUES (?, ?, ?, ?)`
	_, err := s.db.Exec(query,
		acct.ID.String()[2:],
		acct.Owner.String()[2:],
		acct.Mint.String()[2:],
		acct.Balance,
	)
	return err
}

func (s *LedgerSQLiteStorage) GetAccount(id ethcommon.Hash) (*Account, error) {
	query := `SELECT id, owner, mint, balance FROM custody_account WHERE id = ?`

	var idHex, ownerHex, mintHex string
	var balance uint64
	err := s.db.QueryRow(query, id.String()[2:]).Scan(&idHex, &ownerHex, &mintHex, &balance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:      common.HexStrToBytes32("0x" + idHex),
		Owner:   common.HexStrToBytes32("0x" + ownerHex),
		Mint:    common.HexStrToBytes32("0x" + mintHex),
		Balance: balance,
	}, nil
}

func (s *LedgerSQLiteStorage) SetBalance(id ethcommon.Hash, balance uint64) error {
	query := `UPDATE custody_account SET balance = ? WHERE id = ?`
	res, err := s.db.Exec(query, balance, id.String()[2:])
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownAccount
	}
	return nil
}

func (s *LedgerSQLiteStorage) InsertMint(mint AssetMint) error {
	query := `INSERT INTO custody_mint (id, authority, supply) VALUES (?, ?, ?)`
	_, err := s.db.Exec(query,
		mint.ID.String()[2:],
		mint.Authority.String()[2:],
		mint.Supply,
	)
	return err
}

func (s *LedgerSQLiteStorage) GetMint(id ethcommon.Hash) (*AssetMint, error) {
	query := `SELECT id, authority, supply FROM custody_mint WHERE id = ?`

	var idHex, authorityHex string
	var supply uint64
	err := s.db.QueryRow(query, id.String()[2:]).Scan(&idHex, &authorityHex, &supply)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &AssetMint{
		ID:        common.HexStrToBytes32("0x" + idHex),
		Authority: common.HexStrToBytes32("0x" + authorityHex),
		Supply:    supply,
	}, nil
}

func (s *LedgerSQLiteStorage) SetSupply(id ethcommon.Hash, supply uint64) error {
	query := `UPDATE custody_mint SET supply = ? WHERE id = ?`
	res, err := s.db.Exec(query, supply, id.String()[2:])
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownMint
	}
	return nil
}
