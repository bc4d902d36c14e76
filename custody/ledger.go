package custody

import (
	"math"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Ledger is the in-process fungible-asset program standing in for the host
// ledger's token runtime. Balance moves, mints and burns are serialized by
// updateMu so each call is all-or-nothing with respect to concurrent calls.
type Ledger struct {
	backend  LedgerStorage
	updateMu sync.Mutex // prevent concurrent updates
}

func NewLedger(backend LedgerStorage) *Ledger {
	return &Ledger{backend: backend}
}

// CreateAccount registers a new, empty account. It returns ErrAccountExists
// on a duplicate id and ErrUnknownMint if the mint was never registered.
func (l *Ledger) CreateAccount(id, owner, mintID ethcommon.Hash) error {
	l.updateMu.Lock()
	defer l.updateMu.Unlock()

	if existing, err := l.backend.GetAccount(id); err != nil {
		return err
	} else if existing != nil {
		return ErrAccountExists
	}

	if mint, err := l.backend.GetMint(mintID); err != nil {
		return err
	} else if mint == nil {
		return ErrUnknownMint
	}

	return l.backend.InsertAccount(Account{ID: id, Owner: owner, Mint: mintID})
}

// CreateMint registers a new asset mint controlled by authority.
func (l *Ledger) CreateMint(id, authority ethcommon.Hash) error {
	l.updateMu.Lock()
	defer l.updateMu.Unlock()

	if existing, err := l.backend.GetMint(id); err != nil {
		return err
	} else if existing != nil {
		return ErrMintExists
	}

	return l.backend.InsertMint(AssetMint{ID: id, Authority: authority})
}

// EnsureMint is CreateMint that tolerates the mint already existing, as long
// as the registered authority matches.
func (l *Ledger) EnsureMint(id, authority ethcommon.Hash) error {
	err := l.CreateMint(id, authority)
	if err == nil {
		return nil
	}
	if err != ErrMintExists {
		return err
	}

	mint, lookupErr := l.backend.GetMint(id)
	if lookupErr != nil {
		return lookupErr
	}
	if mint.Authority != authority {
		return ErrUnauthorized
	}
	return nil
}

// EnsureAccount is CreateAccount that tolerates the account already existing,
// as long as owner and mint match the registered row.
func (l *Ledger) EnsureAccount(id, owner, mintID ethcommon.Hash) error {
	err := l.CreateAccount(id, owner, mintID)
	if err == nil {
		return nil
	}
	if err != ErrAccountExists {
		return err
	}

	acct, lookupErr := l.backend.GetAccount(id)
	if lookupErr != nil {
		return lookupErr
	}
	if acct.Owner != owner || acct.Mint != mintID {
		return ErrUnauthorized
	}
	return nil
}

func (l *Ledger) BalanceOf(id ethcommon.Hash) (uint64, error) {
	acct, err := l.backend.GetAccount(id)
	if err != nil {
		return 0, err
	}
	if acct == nil {
		return 0, ErrUnknownAccount
	}
	return acct.Balance, nil
}

func (l *Ledger) SupplyOf(mintID ethcommon.Hash) (uint64, error) {
	mint, err := l.backend.GetMint(mintID)
	if err != nil {
		return 0, err
	}
	if mint == nil {
		return 0, ErrUnknownMint
	}
	return mint.Supply, nil
}

func (l *Ledger) Transfer(from, to ethcommon.Hash, amount uint64, authority Authority) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	l.updateMu.Lock()
	defer l.updateMu.Unlock()

	src, err := l.backend.GetAccount(from)
	if err != nil {
		return err
	}
	if src == nil {
		return ErrUnknownAccount
	}

	dst, err := l.backend.GetAccount(to)
	if err != nil {
		return err
	}
	if dst == nil {
		return ErrUnknownAccount
	}

	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if authority.Holder() != src.Owner {
		return ErrUnauthorized
	}
	if src.Balance < amount {
		return ErrInsufficientBalance
	}
	if dst.Balance > math.MaxUint64-amount {
		return ErrInsufficientBalance
	}

	// write the debit first so a failure between the two writes cannot
	// create balance out of nothing
	if err := l.backend.SetBalance(from, src.Balance-amount); err != nil {
		return err
	}
	if err := l.backend.SetBalance(to, dst.Balance+amount); err != nil {
		// restore the debit; same row, so this write is expected to succeed
		_ = l.backend.SetBalance(from, src.Balance)
		return err
	}

	return nil
}

func (l *Ledger) Mint(mintID, to ethcommon.Hash, amount uint64, authority Authority) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	l.updateMu.Lock()
	defer l.updateMu.Unlock()

	mint, err := l.backend.GetMint(mintID)
	if err != nil {
		return err
	}
	if mint == nil {
		return ErrUnknownMint
	}

	dst, err := l.backend.GetAccount(to)
	if err != nil {
		return err
	}
	if dst == nil {
		return ErrUnknownAccount
	}

	if dst.Mint != mintID {
		return ErrMintMismatch
	}
	if authority.Holder() != mint.Authority {
		return ErrUnauthorized
	}
	if mint.Supply > math.MaxUint64-amount || dst.Balance > math.MaxUint64-amount {
		return ErrInsufficientBalance
	}

	if err := l.backend.SetSupply(mintID, mint.Supply+amount); err != nil {
		return err
	}
	if err := l.backend.SetBalance(to, dst.Balance+amount); err != nil {
		_ = l.backend.SetSupply(mintID, mint.Supply)
		return err
	}

	return nil
}

func (l *Ledger) Burn(mintID, from ethcommon.Hash, amount uint64, authority Authority) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	l.updateMu.Lock()
	defer l.updateMu.Unlock()

	mint, err := l.backend.GetMint(mintID)
	if err != nil {
		return err
	}
	if mint == nil {
		return ErrUnknownMint
	}

	src, err := l.backend.GetAccount(from)
	if err != nil {
		return err
	}
	if src == nil {
		return ErrUnknownAccount
	}

	if src.Mint != mintID {
		return ErrMintMismatch
	}
	if authority.Holder() != src.Owner {
		return ErrUnauthorized
	}
	if src.Balance < amount {
		return ErrInsufficientBalance
	}
	if mint.Supply < amount {
		return ErrSupplyUnderflow
	}

	if err := l.backend.SetBalance(from, src.Balance-amount); err != nil {
		return err
	}
	if err := l.backend.SetSupply(mintID, mint.Supply-amount); err != nil {
		_ = l.backend.SetBalance(from, src.Balance)
		return err
	}

	return nil
}
