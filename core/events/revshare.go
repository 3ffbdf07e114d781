package events

import (
	"math/big"

	"relaychain/core/types"
)

const (
	TypeSharesRecorded       = "revshare.recorded"
	TypeRecipientClaimed     = "revshare.recipientClaimed"
	TypeOwnerClaimed         = "revshare.ownerClaimed"
	TypeExpiredSharesClaimed = "revshare.expiredClaimed"
)

// SharesRecorded captures a fee split between a recipient's claimable amount
// and the owner pool.
type SharesRecorded struct {
	Recipient      [20]byte
	RecipientShare *big.Int
	OwnerShare     *big.Int
	RecordedAt     int64
}

func (SharesRecorded) EventType() string { return TypeSharesRecorded }

func (e SharesRecorded) Event() *types.Event {
	return &types.Event{
		Type: TypeSharesRecorded,
		Attributes: map[string]string{
			"recipient":      addrString(e.Recipient),
			"recipientShare": formatAmount(e.RecipientShare),
			"ownerShare":     formatAmount(e.OwnerShare),
			"recordedAt":     intToString(e.RecordedAt),
		},
	}
}

// RecipientClaimed marks a successful claim of a recipient's pending share.
type RecipientClaimed struct {
	Recipient [20]byte
	Amount    *big.Int
}

func (RecipientClaimed) EventType() string { return TypeRecipientClaimed }

func (e RecipientClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeRecipientClaimed,
		Attributes: map[string]string{
			"recipient": addrString(e.Recipient),
			"amount":    formatAmount(e.Amount),
		},
	}
}

// OwnerClaimed marks a full drain of the owner claimable pool.
type OwnerClaimed struct {
	Owner  [20]byte
	Amount *big.Int
}

func (OwnerClaimed) EventType() string { return TypeOwnerClaimed }

func (e OwnerClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeOwnerClaimed,
		Attributes: map[string]string{
			"owner":  addrString(e.Owner),
			"amount": formatAmount(e.Amount),
		},
	}
}

// ExpiredSharesClaimed marks an expired recipient amount swept into the owner
// pool.
type ExpiredSharesClaimed struct {
	Recipient [20]byte
	Amount    *big.Int
}

func (ExpiredSharesClaimed) EventType() string { return TypeExpiredSharesClaimed }

func (e ExpiredSharesClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeExpiredSharesClaimed,
		Attributes: map[string]string{
			"recipient": addrString(e.Recipient),
			"amount":    formatAmount(e.Amount),
		},
	}
}
