package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/crosslock-io/bridge-go/common"
	"github.com/crosslock-io/bridge-go/custody"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestLockInvalidAmount(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 0, common.RandBytes32(), []byte("addr"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// no state mutation
	assert.Equal(t, uint64(0), env.State.Nonce())
	assert.Equal(t, uint64(0), env.VaultBalance())
}

func TestLockInvalidTargetAddress(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()

	longAddr := common.RandBytes(65)
	_, err := env.Controller.Lock(context.Background(), env.User, env.UserAccount, 5, common.RandBytes32(), longAddr)
	assert.ErrorIs(t, err, ErrInvalidTargetAddress)
	assert.Equal(t, uint64(0), env.State.Nonce())

	// 64 bytes is within bound
	_, err = env.Controller.Lock(context.Background(), env.User, env.UserAccount, 5, common.RandBytes32(), common.RandBytes(64))
	assert.NoError(t, err)
}

func TestBurnWrappedInvalidAmount(t *testing.T) {
	env := NewSimEnv(0)
	defer env.Close()

	sourceChain := common.RandBytes32()
	acct := env.NewWrappedAccount(env.User, sourceChain)

	_, err := env.Controller.BurnWrapped(context.Background(), env.User, acct, 0, sourceChain, common.RandBytes32(), []byte("addr"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, uint64(0), env.State.Nonce())
}

func TestNonceCountsOutboundOnly(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	sourceChain := common.RandBytes32()
	wrappedAcct := env.NewWrappedAccount(env.User, sourceChain)

	// 3 locks
	for i := 0; i < 3; i++ {
		_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 10, common.RandBytes32(), []byte("addr"))
		assert.NoError(t, err)
	}

	// inbound ops never change the nonce
	_, err := env.Controller.Release(ctx, env.RecvAccount, 10, common.RandBytes32())
	assert.NoError(t, err)
	_, err = env.Controller.MintWrapped(ctx, wrappedAcct, 50, common.RandBytes32(), sourceChain)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), env.State.Nonce())

	// 2 burns
	for i := 0; i < 2; i++ {
		ev, err := env.Controller.BurnWrapped(ctx, env.User, wrappedAcct, 10, sourceChain, common.RandBytes32(), []byte("addr"))
		assert.NoError(t, err)
		assert.Equal(t, uint64(4+i), ev.Nonce)
	}
	assert.Equal(t, uint64(5), env.State.Nonce())
}

func TestReleaseExactlyOnce(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 100, common.RandBytes32(), []byte("addr"))
	assert.NoError(t, err)

	sourceTx := common.RandBytes32()
	ev, err := env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
	assert.NoError(t, err)
	assert.Equal(t, ethcommon.Hash(sourceTx), ev.SourceTx)

	_, err = env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// exactly one transfer happened
	balance, err := env.Ledger.BalanceOf(env.RecvAccount)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), balance)
}

func TestConcurrentReleaseSameSourceTx(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 500, common.RandBytes32(), []byte("addr"))
	assert.NoError(t, err)

	sourceTx := common.RandBytes32()

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
		}(i)
	}
	wg.Wait()

	successes, replays := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyProcessed):
			replays++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, replays)

	balance, _ := env.Ledger.BalanceOf(env.RecvAccount)
	assert.Equal(t, uint64(100), balance)
}

func TestMintWrappedExactlyOnce(t *testing.T) {
	env := NewSimEnv(0)
	defer env.Close()
	ctx := context.Background()

	sourceChain := common.RandBytes32()
	acct := env.NewWrappedAccount(env.Recipient, sourceChain)
	sourceTx := common.RandBytes32()

	ev, err := env.Controller.MintWrapped(ctx, acct, 50, sourceTx, sourceChain)
	assert.NoError(t, err)
	assert.Equal(t, WrappedMintID(env.ProgramID, sourceChain), ev.WrappedAsset)

	_, err = env.Controller.MintWrapped(ctx, acct, 50, sourceTx, sourceChain)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	supply, err := env.Ledger.SupplyOf(ev.WrappedAsset)
	assert.NoError(t, err)
	assert.Equal(t, uint64(50), supply)
}

func TestSourceTxSharedAcrossInboundOps(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 100, common.RandBytes32(), []byte("addr"))
	assert.NoError(t, err)

	sourceChain := common.RandBytes32()
	acct := env.NewWrappedAccount(env.Recipient, sourceChain)
	sourceTx := common.RandBytes32()

	// a source tx consumed by release cannot authorize a mint
	_, err = env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
	assert.NoError(t, err)
	_, err = env.Controller.MintWrapped(ctx, acct, 50, sourceTx, sourceChain)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestVaultBalanceInvariant(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	for _, amount := range []uint64{100, 200, 300} {
		_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, amount, common.RandBytes32(), []byte("addr"))
		assert.NoError(t, err)
	}
	assert.Equal(t, uint64(600), env.VaultBalance())

	_, err := env.Controller.Release(ctx, env.RecvAccount, 250, common.RandBytes32())
	assert.NoError(t, err)
	assert.Equal(t, uint64(350), env.VaultBalance())

	// a release exceeding the vault balance fails with no state change
	overTx := common.RandBytes32()
	_, err = env.Controller.Release(ctx, env.RecvAccount, 351, overTx)
	assert.ErrorIs(t, err, ErrAdapterFailure)
	assert.Equal(t, uint64(350), env.VaultBalance())

	processed, err := env.State.HasProcessed(overTx)
	assert.NoError(t, err)
	assert.False(t, processed)

	// the same source tx can be resubmitted with a valid amount
	_, err = env.Controller.Release(ctx, env.RecvAccount, 350, overTx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), env.VaultBalance())
}

func TestRoundTrip(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	targetChain := common.RandBytes32()
	locked, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 100, targetChain, []byte("addrX"))
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), locked.Amount)
	assert.Equal(t, uint64(1), locked.Nonce)
	assert.Equal(t, ethcommon.Hash(targetChain), locked.TargetChain)

	// chain B's mirror call observing the lock
	sourceTx := common.RandBytes32()
	released, err := env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), released.Amount)
	assert.Equal(t, ethcommon.Hash(sourceTx), released.SourceTx)

	_, err = env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestMintBurnNetZero(t *testing.T) {
	env := NewSimEnv(0)
	defer env.Close()
	ctx := context.Background()

	sourceChain := common.RandBytes32()
	acct := env.NewWrappedAccount(env.User, sourceChain)
	sourceTx := common.RandBytes32()

	minted, err := env.Controller.MintWrapped(ctx, acct, 50, sourceTx, sourceChain)
	assert.NoError(t, err)

	_, err = env.Controller.BurnWrapped(ctx, env.User, acct, 50, sourceChain, common.RandBytes32(), []byte("addrY"))
	assert.NoError(t, err)

	supply, err := env.Ledger.SupplyOf(minted.WrappedAsset)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), supply)

	// the consumed source tx stays consumed forever
	processed, err := env.State.HasProcessed(sourceTx)
	assert.NoError(t, err)
	assert.True(t, processed)
}

type rejectVerifier struct{}

func (rejectVerifier) VerifySourceTx(context.Context, ethcommon.Hash, ethcommon.Hash) error {
	return errors.New("no proof")
}

func TestVerifierRejection(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 100, common.RandBytes32(), []byte("addr"))
	assert.NoError(t, err)

	env.Controller.verifier = rejectVerifier{}
	sourceTx := common.RandBytes32()
	_, err = env.Controller.Release(ctx, env.RecvAccount, 100, sourceTx)
	assert.ErrorIs(t, err, ErrSourceTxRejected)

	processed, _ := env.State.HasProcessed(sourceTx)
	assert.False(t, processed)
	assert.Equal(t, uint64(100), env.VaultBalance())
}

func TestEventsJournaledAndEmitted(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	env.Clock.SetHeight(42)
	locked, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 100, common.RandBytes32(), []byte("addr"))
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), locked.Height)

	// in-process emission
	got := <-env.Emitter.C
	assert.Equal(t, EventKindLocked, got.Kind())
	assert.Equal(t, locked, got)

	// durable journal
	records, err := env.State.Events(0, 10)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, EventKindLocked, records[0].Kind)
	assert.Equal(t, uint64(42), records[0].Height)

	var decoded Locked
	assert.NoError(t, json.Unmarshal(records[0].Payload, &decoded))
	assert.Equal(t, locked.Amount, decoded.Amount)
	assert.Equal(t, locked.Nonce, decoded.Nonce)
}

func TestReleaseRequiresVaultAuthority(t *testing.T) {
	env := NewSimEnv(1000)
	defer env.Close()
	ctx := context.Background()

	_, err := env.Controller.Lock(ctx, env.User, env.UserAccount, 100, common.RandBytes32(), []byte("addr"))
	assert.NoError(t, err)

	// nothing outside the controller can move vault funds: a user-signed
	// transfer out of the vault fails the owner check
	err = env.Ledger.Transfer(env.Controller.VaultAccount(), env.RecvAccount, 100, custody.UserAuthority(env.User))
	assert.ErrorIs(t, err, custody.ErrUnauthorized)
	assert.Equal(t, uint64(100), env.VaultBalance())
}
