package state

import (
	"sync/atomic"

	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"
)

// State is the exclusively-owned handle to the bridge's shared record.
// The controller threads it through every operation; nothing else writes it.
type State struct {
	statedb *StateDB
	cfg     *StateConfig

	cache struct {
		nonce atomic.Uint64
	}
}

func New(statedb *StateDB, cfg *StateConfig) (*State, error) {
	st := &State{
		statedb: statedb,
		cfg:     cfg,
	}

	nonce, err := statedb.GetNonce()
	if err != nil {
		return nil, err
	}
	st.cache.nonce.Store(nonce)

	return st, nil
}

func (st *State) Nonce() uint64 {
	return st.cache.nonce.Load()
}

// IncrementNonce persists the bumped counter and returns the new value.
// Callers serialize; the cache is only advanced after the write lands.
func (st *State) IncrementNonce() (uint64, error) {
	next := st.cache.nonce.Load() + 1
	if err := st.statedb.SetNonce(next); err != nil {
		return 0, err
	}
	st.cache.nonce.Store(next)
	return next, nil
}

func (st *State) HasProcessed(sourceTxHash ethcommon.Hash) (bool, error) {
	return st.statedb.HasProcessed(sourceTxHash)
}

// ConsumeSourceTx moves a message from unprocessed to processed. The
// transition happens at most once per identifier; a second attempt fails
// with ErrDuplicateSourceTx.
func (st *State) ConsumeSourceTx(p *ProcessedEntry) error {
	return st.statedb.InsertProcessed(p)
}

func (st *State) ProcessedCount() (uint64, error) {
	return st.statedb.ProcessedCount()
}

func (st *State) AppendEvent(kind string, payload []byte, height uint64) (int64, error) {
	return st.statedb.AppendEvent(kind, payload, height)
}

func (st *State) Events(afterSeq int64, limit int) ([]*EventRecord, error) {
	return st.statedb.Events(afterSeq, limit)
}

// PruneProcessed drops entries below currentHeight - PruneHorizon. With a
// zero horizon (the default) the processed set only ever grows.
func (st *State) PruneProcessed(currentHeight uint64) (int64, error) {
	if st.cfg == nil || st.cfg.PruneHorizon == 0 {
		return 0, ErrPruningDisabled
	}
	if currentHeight <= st.cfg.PruneHorizon {
		return 0, nil
	}

	floor := currentHeight - st.cfg.PruneHorizon
	n, err := st.statedb.PruneProcessedBelow(floor)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.WithFields(logger.Fields{"floor": floor, "pruned": n}).Info("pruned processed entries")
	}
	return n, nil
}
