package events

import "relaychain/core/types"

const (
	// TypeFeeUpdated marks an owner change to one of the configured fees.
	TypeFeeUpdated = "fees.updated"
	// TypeDiscountSet marks an owner change to a per-address discount.
	TypeDiscountSet = "fees.discountSet"
	// TypeOwnerRotated marks a transfer of the deployment owner role.
	TypeOwnerRotated = "fees.ownerRotated"
)

// FeeUpdated records a change to the base send fee or the delegation fee.
type FeeUpdated struct {
	Kind     string // "send" or "delegation"
	Previous uint64
	Current  uint64
}

// EventType satisfies the events.Event interface.
func (FeeUpdated) EventType() string { return TypeFeeUpdated }

// Event converts the structured payload into a broadcastable event.
func (e FeeUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeFeeUpdated,
		Attributes: map[string]string{
			"kind":     e.Kind,
			"previous": uintToString(e.Previous),
			"current":  uintToString(e.Current),
		},
	}
}

// DiscountSet records a per-address fee discount update.
type DiscountSet struct {
	Address [20]byte
	Percent uint8
}

func (DiscountSet) EventType() string { return TypeDiscountSet }

func (e DiscountSet) Event() *types.Event {
	return &types.Event{
		Type: TypeDiscountSet,
		Attributes: map[string]string{
			"address": addrString(e.Address),
			"percent": uintToString(uint64(e.Percent)),
		},
	}
}

// OwnerRotated records the deployment owner changing hands.
type OwnerRotated struct {
	Previous [20]byte
	Current  [20]byte
}

func (OwnerRotated) EventType() string { return TypeOwnerRotated }

func (e OwnerRotated) Event() *types.Event {
	return &types.Event{
		Type: TypeOwnerRotated,
		Attributes: map[string]string{
			"previous": addrString(e.Previous),
			"current":  addrString(e.Current),
		},
	}
}
