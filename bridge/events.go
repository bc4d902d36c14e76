package bridge

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	logger "github.com/sirupsen/logrus"
)

const (
	EventKindLocked        = "locked"
	EventKindReleased      = "released"
	EventKindWrappedMinted = "wrapped_minted"
	EventKindWrappedBurned = "wrapped_burned"
)

// Event is one bridge event as journaled for relayers.
type Event interface {
	Kind() string
}

type Locked struct {
	Source      ethcommon.Hash `json:"source"`
	Asset       ethcommon.Hash `json:"asset"`
	Amount      uint64         `json:"amount"`
	TargetChain ethcommon.Hash `json:"target_chain"`
	TargetAddr  hexutil.Bytes  `json:"target_addr"`
	Nonce       uint64         `json:"nonce"`
	Height      uint64         `json:"height"`
}

func (*Locked) Kind() string { return EventKindLocked }

type Released struct {
	Recipient ethcommon.Hash `json:"recipient"`
	Amount    uint64         `json:"amount"`
	SourceTx  ethcommon.Hash `json:"source_tx"`
}

func (*Released) Kind() string { return EventKindReleased }

type WrappedMinted struct {
	Recipient    ethcommon.Hash `json:"recipient"`
	WrappedAsset ethcommon.Hash `json:"wrapped_asset"`
	Amount       uint64         `json:"amount"`
	SourceTx     ethcommon.Hash `json:"source_tx"`
	SourceChain  ethcommon.Hash `json:"source_chain"`
}

func (*WrappedMinted) Kind() string { return EventKindWrappedMinted }

type WrappedBurned struct {
	Source       ethcommon.Hash `json:"source"`
	WrappedAsset ethcommon.Hash `json:"wrapped_asset"`
	Amount       uint64         `json:"amount"`
	TargetChain  ethcommon.Hash `json:"target_chain"`
	TargetAddr   hexutil.Bytes  `json:"target_addr"`
	Nonce        uint64         `json:"nonce"`
}

func (*WrappedBurned) Kind() string { return EventKindWrappedBurned }

// Emitter is the in-process event sink; fire-and-forget. Durable delivery
// to relayers goes through the journal, not through the Emitter.
type Emitter interface {
	Emit(ev Event)
}

type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}

// ChanEmitter forwards events on a buffered channel without blocking the
// controller; a full channel drops the event with a warning.
type ChanEmitter struct {
	C chan Event
}

func NewChanEmitter(size int) *ChanEmitter {
	return &ChanEmitter{C: make(chan Event, size)}
}

func (e *ChanEmitter) Emit(ev Event) {
	select {
	case e.C <- ev:
	default:
		logger.WithFields(logger.Fields{"kind": ev.Kind()}).Warn("event channel full, dropping")
	}
}
