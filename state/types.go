package state

import (
	"fmt"

	"github.com/crosslock-io/bridge-go/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Direction names the inbound operation that consumed a source tx.
type Direction string

const (
	DirectionRelease Direction = "release"
	DirectionMint    Direction = "mint"
)

// ProcessedEntry is one consumed cross-chain message. Once written it is
// never updated; the sourceTxHash primary key is the replay guard.
type ProcessedEntry struct {
	SourceTxHash ethcommon.Hash
	SourceChain  ethcommon.Hash
	Direction    Direction
	Amount       uint64
	Height       uint64
}

func (p *ProcessedEntry) String() string {
	return fmt.Sprintf("%+v", *p)
}

// EventRecord is one journaled bridge event. Payload is the JSON encoding
// of the event struct emitted by the controller.
type EventRecord struct {
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Payload []byte `json:"payload"`
	Height  uint64 `json:"height"`
}

type sqlProcessed struct {
	SourceTxHash string
	SourceChain  string
	Direction    string
	Amount       uint64
	Height       uint64
}

func (s *sqlProcessed) encode(p *ProcessedEntry) *sqlProcessed {
	s.SourceTxHash = p.SourceTxHash.String()[2:]
	s.SourceChain = p.SourceChain.String()[2:]
	s.Direction = string(p.Direction)
	s.Amount = p.Amount
	s.Height = p.Height
	return s
}

func (s *sqlProcessed) decode() *ProcessedEntry {
	return &ProcessedEntry{
		SourceTxHash: common.HexStrToBytes32("0x" + s.SourceTxHash),
		SourceChain:  common.HexStrToBytes32("0x" + s.SourceChain),
		Direction:    Direction(s.Direction),
		Amount:       s.Amount,
		Height:       s.Height,
	}
}
