package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/crosslock-io/bridge-go/custody"
	"github.com/crosslock-io/bridge-go/state"
	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"
)

// Controller owns the bridge state machine. Each operation is serialized by
// opMu so the read-check-write on the processed set is a single atomic unit;
// the custody call runs first and the processed record lands only after it
// succeeds, so an adapter failure leaves no partial mutation.
type Controller struct {
	cfg       *Config
	st        *state.State
	adapter   custody.Adapter
	emitter   Emitter
	verifier  SourceTxVerifier
	clock     LedgerClock
	registrar custody.Registrar

	vaultID ethcommon.Hash

	opMu sync.Mutex
}

// NewController wires the controller and registers the vault account with
// the custody registrar. The vault owns itself; its Authority is produced
// only inside this package.
func NewController(
	cfg *Config,
	st *state.State,
	adapter custody.Adapter,
	registrar custody.Registrar,
	emitter Emitter,
	verifier SourceTxVerifier,
	clock LedgerClock,
) (*Controller, error) {
	c := &Controller{
		cfg:       cfg,
		st:        st,
		adapter:   adapter,
		emitter:   emitter,
		verifier:  verifier,
		clock:     clock,
		registrar: registrar,
		vaultID:   VaultAccountID(cfg.ProgramID, cfg.AssetID),
	}

	if c.emitter == nil {
		c.emitter = NopEmitter{}
	}
	if c.verifier == nil {
		c.verifier = AcceptAllVerifier{}
	}
	if c.clock == nil {
		c.clock = WallClock{}
	}

	if registrar != nil {
		if err := registrar.EnsureAccount(c.vaultID, c.vaultID, cfg.AssetID); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// VaultAccount returns the derived custody account holding locked assets.
func (c *Controller) VaultAccount() ethcommon.Hash {
	return c.vaultID
}

// Lock moves amount of the native asset from the caller into the vault and
// bumps the outbound nonce. The nonce is an audit counter; replay protection
// for the mirrored inbound operation lives on the remote chain.
func (c *Controller) Lock(
	ctx context.Context,
	caller, callerAccount ethcommon.Hash,
	amount uint64,
	targetChain ethcommon.Hash,
	targetAddr []byte,
) (*Locked, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if len(targetAddr) > MaxTargetAddrLen {
		return nil, ErrInvalidTargetAddress
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	err := c.adapter.Transfer(callerAccount, c.vaultID, amount, custody.UserAuthority(caller))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterFailure, err)
	}

	nonce, err := c.st.IncrementNonce()
	if err != nil {
		logger.WithFields(logger.Fields{"caller": caller.String()}).Errorf("nonce write failed after vault deposit: err=%v", err)
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}

	ev := &Locked{
		Source:      caller,
		Asset:       c.cfg.AssetID,
		Amount:      amount,
		TargetChain: targetChain,
		TargetAddr:  append([]byte(nil), targetAddr...),
		Nonce:       nonce,
		Height:      c.clock.Height(),
	}
	if err := c.journalAndEmit(ev, ev.Height); err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"nonce":  nonce,
		"amount": amount,
	}).Debug("locked")
	return ev, nil
}

// Release returns previously locked assets to a recipient, authorized by
// evidence of a burn/lock on the counterpart chain. The source tx is
// consumed exactly once; a second call fails with ErrAlreadyProcessed.
func (c *Controller) Release(
	ctx context.Context,
	recipientAccount ethcommon.Hash,
	amount uint64,
	sourceTx ethcommon.Hash,
) (*Released, error) {
	if err := c.verifier.VerifySourceTx(ctx, sourceTx, ethcommon.Hash{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceTxRejected, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	processed, err := c.st.HasProcessed(sourceTx)
	if err != nil {
		return nil, err
	}
	if processed {
		return nil, ErrAlreadyProcessed
	}

	// vault signs for itself; the recipient never authorizes this transfer
	err = c.adapter.Transfer(c.vaultID, recipientAccount, amount, custody.AuthorityFor(c.vaultID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterFailure, err)
	}

	height := c.clock.Height()
	err = c.st.ConsumeSourceTx(&state.ProcessedEntry{
		SourceTxHash: sourceTx,
		Direction:    state.DirectionRelease,
		Amount:       amount,
		Height:       height,
	})
	if err != nil {
		// the vault transfer already happened and must not be retried
		// under the same source tx
		logger.WithFields(logger.Fields{"sourceTx": sourceTx.String()}).Errorf("processed record failed after vault release: err=%v", err)
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}

	ev := &Released{
		Recipient: recipientAccount,
		Amount:    amount,
		SourceTx:  sourceTx,
	}
	if err := c.journalAndEmit(ev, height); err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"sourceTx": sourceTx.String(),
		"amount":   amount,
	}).Debug("released")
	return ev, nil
}

// MintWrapped issues wrapped supply against a lock observed on sourceChain.
// The wrapped mint is derived from (program, sourceChain) and registered on
// first use; its issuing authority never leaves the controller.
func (c *Controller) MintWrapped(
	ctx context.Context,
	recipientAccount ethcommon.Hash,
	amount uint64,
	sourceTx, sourceChain ethcommon.Hash,
) (*WrappedMinted, error) {
	if err := c.verifier.VerifySourceTx(ctx, sourceTx, sourceChain); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceTxRejected, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	processed, err := c.st.HasProcessed(sourceTx)
	if err != nil {
		return nil, err
	}
	if processed {
		return nil, ErrAlreadyProcessed
	}

	// register the wrapped mint on first use; the mint is its own authority
	wrappedID := WrappedMintID(c.cfg.ProgramID, sourceChain)
	if c.registrar != nil {
		if err := c.registrar.EnsureMint(wrappedID, wrappedID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAdapterFailure, err)
		}
	}

	err = c.adapter.Mint(wrappedID, recipientAccount, amount, custody.AuthorityFor(wrappedID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterFailure, err)
	}

	height := c.clock.Height()
	err = c.st.ConsumeSourceTx(&state.ProcessedEntry{
		SourceTxHash: sourceTx,
		SourceChain:  sourceChain,
		Direction:    state.DirectionMint,
		Amount:       amount,
		Height:       height,
	})
	if err != nil {
		logger.WithFields(logger.Fields{"sourceTx": sourceTx.String()}).Errorf("processed record failed after wrapped mint: err=%v", err)
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}

	ev := &WrappedMinted{
		Recipient:    recipientAccount,
		WrappedAsset: wrappedID,
		Amount:       amount,
		SourceTx:     sourceTx,
		SourceChain:  sourceChain,
	}
	if err := c.journalAndEmit(ev, height); err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"sourceTx":    sourceTx.String(),
		"sourceChain": sourceChain.String(),
		"amount":      amount,
	}).Debug("wrapped minted")
	return ev, nil
}

// BurnWrapped destroys the caller's wrapped balance and bumps the outbound
// nonce. The emitted event is the evidence a relayer uses to trigger a
// release on the target chain.
func (c *Controller) BurnWrapped(
	ctx context.Context,
	caller, callerAccount ethcommon.Hash,
	amount uint64,
	sourceChain, targetChain ethcommon.Hash,
	targetAddr []byte,
) (*WrappedBurned, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if len(targetAddr) > MaxTargetAddrLen {
		return nil, ErrInvalidTargetAddress
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	wrappedID := WrappedMintID(c.cfg.ProgramID, sourceChain)
	err := c.adapter.Burn(wrappedID, callerAccount, amount, custody.UserAuthority(caller))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdapterFailure, err)
	}

	nonce, err := c.st.IncrementNonce()
	if err != nil {
		logger.WithFields(logger.Fields{"caller": caller.String()}).Errorf("nonce write failed after wrapped burn: err=%v", err)
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}

	ev := &WrappedBurned{
		Source:       caller,
		WrappedAsset: wrappedID,
		Amount:       amount,
		TargetChain:  targetChain,
		TargetAddr:   append([]byte(nil), targetAddr...),
		Nonce:        nonce,
	}
	if err := c.journalAndEmit(ev, c.clock.Height()); err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"nonce":  nonce,
		"amount": amount,
	}).Debug("wrapped burned")
	return ev, nil
}

func (c *Controller) journalAndEmit(ev Event, height uint64) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}
	if _, err := c.st.AppendEvent(ev.Kind(), payload, height); err != nil {
		logger.Errorf("event journal write failed: kind=%s err=%v", ev.Kind(), err)
		return fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}

	c.emitter.Emit(ev)
	return nil
}
