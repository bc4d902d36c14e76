package bridge

import (
	"database/sql"

	"github.com/crosslock-io/bridge-go/common"
	"github.com/crosslock-io/bridge-go/custody"
	"github.com/crosslock-io/bridge-go/state"
	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"
)

// SimEnv is a full in-memory bridge: sqlite-backed state and custody ledger,
// one funded user and one empty recipient on the native asset, and a manual
// clock. Used by tests and the demo daemon.
type SimEnv struct {
	Controller *Controller
	State      *state.State
	Ledger     *custody.Ledger
	Clock      *SimClock
	Emitter    *ChanEmitter

	ProgramID ethcommon.Hash
	AssetID   ethcommon.Hash

	User        ethcommon.Hash // caller identity
	UserAccount ethcommon.Hash // caller's native-asset account
	Recipient   ethcommon.Hash // recipient identity
	RecvAccount ethcommon.Hash // recipient's native-asset account

	dbs []*sql.DB
}

// NewSimEnv funds the user account with initialBalance of the native asset.
func NewSimEnv(initialBalance uint64) *SimEnv {
	env := &SimEnv{
		Clock:       &SimClock{},
		Emitter:     NewChanEmitter(64),
		ProgramID:   common.RandBytes32(),
		AssetID:     common.RandBytes32(),
		User:        common.RandBytes32(),
		UserAccount: common.RandBytes32(),
		Recipient:   common.RandBytes32(),
		RecvAccount: common.RandBytes32(),
	}
	env.Clock.SetHeight(1)

	ledger, custodyDB := custody.NewMemoryLedger()
	env.Ledger = ledger
	env.dbs = append(env.dbs, custodyDB)

	// the native asset pre-exists the bridge; a throwaway authority funds
	// the user account
	issuer := common.RandBytes32()
	mustNoErr(ledger.CreateMint(env.AssetID, issuer))
	mustNoErr(ledger.CreateAccount(env.UserAccount, env.User, env.AssetID))
	mustNoErr(ledger.CreateAccount(env.RecvAccount, env.Recipient, env.AssetID))
	if initialBalance > 0 {
		mustNoErr(ledger.Mint(env.AssetID, env.UserAccount, initialBalance, custody.AuthorityFor(issuer)))
	}

	stateSQL, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal(err)
	}
	env.dbs = append(env.dbs, stateSQL)

	statedb, err := state.NewStateDB(stateSQL)
	mustNoErr(err)
	env.State, err = state.New(statedb, &state.StateConfig{})
	mustNoErr(err)

	env.Controller, err = NewController(
		&Config{ProgramID: env.ProgramID, AssetID: env.AssetID},
		env.State,
		ledger,
		ledger,
		env.Emitter,
		AcceptAllVerifier{},
		env.Clock,
	)
	mustNoErr(err)

	return env
}

// NewWrappedAccount creates an account for the wrapped asset of sourceChain,
// owned by owner. The wrapped mint is registered on first use.
func (env *SimEnv) NewWrappedAccount(owner, sourceChain ethcommon.Hash) ethcommon.Hash {
	wrappedID := WrappedMintID(env.ProgramID, sourceChain)
	mustNoErr(env.Ledger.EnsureMint(wrappedID, wrappedID))

	id := common.RandBytes32()
	mustNoErr(env.Ledger.CreateAccount(id, owner, wrappedID))
	return id
}

func (env *SimEnv) VaultBalance() uint64 {
	balance, err := env.Ledger.BalanceOf(env.Controller.VaultAccount())
	mustNoErr(err)
	return balance
}

func (env *SimEnv) Close() {
	for _, db := range env.dbs {
		db.Close()
	}
}

func mustNoErr(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
