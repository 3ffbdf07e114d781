package events

import (
	"math/big"

	"relaychain/core/types"
)

const (
	TypeDelegationSet      = "delegation.set"
	TypeDelegationCleared  = "delegation.cleared"
	TypeDelegationRejected = "delegation.rejected"
)

// DelegationSet marks a delegator registering (or overwriting) a delegate.
type DelegationSet struct {
	Delegator [20]byte
	Delegate  [20]byte
	Fee       *big.Int
}

func (DelegationSet) EventType() string { return TypeDelegationSet }

func (e DelegationSet) Event() *types.Event {
	return &types.Event{
		Type: TypeDelegationSet,
		Attributes: map[string]string{
			"delegator": addrString(e.Delegator),
			"delegate":  addrString(e.Delegate),
			"fee":       formatAmount(e.Fee),
		},
	}
}

// DelegationCleared marks a delegator clearing its delegation by setting the
// delegate to the zero address. The clearing still pays the delegation fee.
type DelegationCleared struct {
	Delegator [20]byte
	Fee       *big.Int
}

func (DelegationCleared) EventType() string { return TypeDelegationCleared }

func (e DelegationCleared) Event() *types.Event {
	return &types.Event{
		Type: TypeDelegationCleared,
		Attributes: map[string]string{
			"delegator": addrString(e.Delegator),
			"fee":       formatAmount(e.Fee),
		},
	}
}

// DelegationRejected marks a delegate disowning a delegation pointed at it.
// Rejection is fee-free.
type DelegationRejected struct {
	Delegator [20]byte
	Delegate  [20]byte
}

func (DelegationRejected) EventType() string { return TypeDelegationRejected }

func (e DelegationRejected) Event() *types.Event {
	return &types.Event{
		Type: TypeDelegationRejected,
		Attributes: map[string]string{
			"delegator": addrString(e.Delegator),
			"delegate":  addrString(e.Delegate),
		},
	}
}
