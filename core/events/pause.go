package events

import (
	"math/big"

	"relaychain/core/types"
)

const (
	TypePaused           = "system.paused"
	TypeUnpaused         = "system.unpaused"
	TypeFundsDistributed = "system.fundsDistributed"
)

// Paused marks the ledger entering the halted state.
type Paused struct {
	By [20]byte
}

func (Paused) EventType() string { return TypePaused }

func (e Paused) Event() *types.Event {
	return &types.Event{
		Type:       TypePaused,
		Attributes: map[string]string{"by": addrString(e.By)},
	}
}

// Unpaused marks the ledger resuming normal operation. Emergency reports
// whether the emergency path was used.
type Unpaused struct {
	By        [20]byte
	Emergency bool
}

func (Unpaused) EventType() string { return TypeUnpaused }

func (e Unpaused) Event() *types.Event {
	attrs := map[string]string{"by": addrString(e.By)}
	if e.Emergency {
		attrs["emergency"] = "true"
	}
	return &types.Event{Type: TypeUnpaused, Attributes: attrs}
}

// FundsDistributed marks a forced payout performed while the ledger is
// paused, bypassing the claim window.
type FundsDistributed struct {
	Recipient [20]byte
	Amount    *big.Int
}

func (FundsDistributed) EventType() string { return TypeFundsDistributed }

func (e FundsDistributed) Event() *types.Event {
	return &types.Event{
		Type: TypeFundsDistributed,
		Attributes: map[string]string{
			"recipient": addrString(e.Recipient),
			"amount":    formatAmount(e.Amount),
		},
	}
}
