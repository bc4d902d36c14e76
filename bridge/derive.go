package bridge

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	vaultSeed       = []byte("vault")
	wrappedMintSeed = []byte("wrapped_mint")
)

// VaultAccountID derives the custody account for a native asset. The vault
// is its own authority: the account's registered owner is this id, and only
// the controller wraps it in a custody.Authority.
func VaultAccountID(program, asset ethcommon.Hash) ethcommon.Hash {
	return crypto.Keccak256Hash(vaultSeed, program.Bytes(), asset.Bytes())
}

// WrappedMintID derives the wrapped-asset mint for a remote chain. One mint
// per source chain; the mint is its own authority, so a compromised issuer
// for one chain cannot mint supply attributed to another.
func WrappedMintID(program, sourceChain ethcommon.Hash) ethcommon.Hash {
	return crypto.Keccak256Hash(wrappedMintSeed, program.Bytes(), sourceChain.Bytes())
}
