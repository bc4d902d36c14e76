package custody

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Authority is the typed proof presented with every balance-changing call.
// The ledger compares its holder against the registered owner of the debited
// account (Transfer, Burn) or the mint authority (Mint), so an Authority
// value is only useful to whoever controls what that identifier owns. The
// bridge controller keeps its derived authorities internal and never returns
// them to callers.
type Authority struct {
	holder ethcommon.Hash
}

// UserAuthority represents a caller-signed operation on the caller's own
// account. The host runtime has already authenticated the caller; signature
// checking is outside this ledger.
func UserAuthority(owner ethcommon.Hash) Authority {
	return Authority{holder: owner}
}

// AuthorityFor wraps an arbitrary holder identifier. Used by the controller
// for its seed-derived custody identities.
func AuthorityFor(holder ethcommon.Hash) Authority {
	return Authority{holder: holder}
}

func (a Authority) Holder() ethcommon.Hash {
	return a.holder
}
