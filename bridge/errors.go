package bridge

import "errors"

var (
	// ErrInvalidAmount rejects a non-positive amount on an outbound
	// operation before any state change.
	ErrInvalidAmount = errors.New("amount must be strictly positive")

	// ErrInvalidTargetAddress rejects a target address longer than
	// MaxTargetAddrLen before any state change.
	ErrInvalidTargetAddress = errors.New("target address exceeds length bound")

	// ErrAlreadyProcessed rejects an inbound operation whose source tx has
	// already been consumed.
	ErrAlreadyProcessed = errors.New("source tx already processed")

	// ErrAdapterFailure wraps a custody adapter rejection; the whole
	// operation aborts with no state change.
	ErrAdapterFailure = errors.New("custody adapter rejected the operation")

	// ErrSourceTxRejected wraps a proof-verification failure.
	ErrSourceTxRejected = errors.New("source tx failed proof verification")

	// ErrStateCorrupted reports a bridge-state write that failed after the
	// custody side already applied. The operation cannot be retried under
	// the same source tx; operators must intervene.
	ErrStateCorrupted = errors.New("bridge state write failed after custody mutation")
)
