package state

type StateConfig struct {
	// PruneHorizon is the number of most recent ledger heights whose
	// processed entries are kept when pruning runs. Zero disables pruning.
	PruneHorizon uint64
}
