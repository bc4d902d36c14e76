package bridge

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// MaxTargetAddrLen bounds the remote address carried in outbound events.
const MaxTargetAddrLen = 64

type Config struct {
	// ProgramID is the bridge's identity in the host ledger's address
	// space; vault and wrapped-mint ids are derived from it.
	ProgramID ethcommon.Hash

	// AssetID is the native asset custodied by the vault.
	AssetID ethcommon.Hash
}
