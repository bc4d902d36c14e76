package custody

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Account is one fungible-asset balance. ID, Owner and Mint are 32-byte
// identifiers in the host ledger's address space.
type Account struct {
	ID      ethcommon.Hash
	Owner   ethcommon.Hash
	Mint    ethcommon.Hash
	Balance uint64
}

func (a *Account) String() string {
	return fmt.Sprintf("%+v", *a)
}

// AssetMint is the issuing record of one fungible asset. Only the holder of
// Authority may create new supply.
type AssetMint struct {
	ID        ethcommon.Hash
	Authority ethcommon.Hash
	Supply    uint64
}

func (m *AssetMint) String() string {
	return fmt.Sprintf("%+v", *m)
}
