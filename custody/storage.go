package custody

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// LedgerStorage defines the database operations behind the Ledger. The
// Ledger serializes callers; implementations only need single-row reads and
// writes.
type LedgerStorage interface {
	// InsertAccount inserts a new account row
	InsertAccount(acct Account) error

	// GetAccount retrieves an account by id; nil without error if missing
	GetAccount(id ethcommon.Hash) (*Account, error)

	// SetBalance overwrites the balance of an existing account
	SetBalance(id ethcommon.Hash, balance uint64) error

	// InsertMint inserts a new mint row
	InsertMint(mint AssetMint) error

	// GetMint retrieves a mint by id; nil without error if missing
	GetMint(id ethcommon.Hash) (*AssetMint, error)

	// SetSupply overwrites the recorded supply of an existing mint
	SetSupply(id ethcommon.Hash, supply uint64) error
}
