package bridge

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// SourceTxVerifier validates the evidence behind an inbound operation before
// the processed check runs. The core cannot observe remote-chain state, so
// deployments plug in a proof verifier here.
type SourceTxVerifier interface {
	VerifySourceTx(ctx context.Context, sourceTx, sourceChain ethcommon.Hash) error
}

// AcceptAllVerifier trusts every caller-supplied source tx. Only safe when
// submission is restricted to an authenticated relayer set upstream.
type AcceptAllVerifier struct{}

func (AcceptAllVerifier) VerifySourceTx(context.Context, ethcommon.Hash, ethcommon.Hash) error {
	return nil
}
