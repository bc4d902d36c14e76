package custody

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Adapter is the asset-custody surface the bridge controller drives. Each
// call either applies in full or leaves the ledger untouched, and fails
// distinctly on missing accounts, bad authority and short balances.
type Adapter interface {
	// Transfer moves amount between two accounts of the same mint,
	// authorized by the owner of the from account.
	Transfer(from, to ethcommon.Hash, amount uint64, authority Authority) error

	// Mint creates amount of new supply directly into the to account,
	// authorized by the mint authority.
	Mint(mintID, to ethcommon.Hash, amount uint64, authority Authority) error

	// Burn destroys amount held by the from account, authorized by the
	// owner of that account.
	Burn(mintID, from ethcommon.Hash, amount uint64, authority Authority) error
}

// Registrar creates the controller-owned custody records (vault account,
// wrapped mints) at deployment or on first use. Idempotent.
type Registrar interface {
	EnsureAccount(id, owner, mintID ethcommon.Hash) error
	EnsureMint(id, authority ethcommon.Hash) error
}
