package state

import "errors"

var (
	ErrDuplicateSourceTx = errors.New("source tx already recorded in processed set")
	ErrNonceNotFound     = errors.New("bridge nonce missing from statedb")
	ErrPruningDisabled   = errors.New("processed-set pruning is disabled")
	ErrInvalidEntry      = errors.New("processed entry is invalid")
)
