package revshare

import "math/big"

// ClaimState describes the lifecycle of a recipient's claimable amount.
type ClaimState uint8

const (
	// ClaimStateEmpty means no claimable amount is recorded.
	ClaimStateEmpty ClaimState = iota
	// ClaimStatePending means the amount is claimable by the recipient.
	ClaimStatePending
	// ClaimStateExpired means the window elapsed and only the owner may
	// reclaim the amount.
	ClaimStateExpired
)

func (s ClaimState) String() string {
	switch s {
	case ClaimStateEmpty:
		return "empty"
	case ClaimStatePending:
		return "pending"
	case ClaimStateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ClaimWindowSeconds is the period during which a recorded share remains
// recipient-claimable. After it elapses the amount becomes owner-reclaimable.
const ClaimWindowSeconds int64 = 60 * 24 * 60 * 60

// ClaimableAmount is the single accumulating record kept per recipient. Every
// new priority contribution adds to Amount and resets RecordedAt, which
// restarts the claim window for the whole balance. The record is zeroed, never
// deleted, on claim or reclaim.
type ClaimableAmount struct {
	Recipient  [20]byte
	Amount     *big.Int
	RecordedAt int64
}

// StateAt reports the record's lifecycle state at the supplied timestamp.
func (c *ClaimableAmount) StateAt(now int64) ClaimState {
	if c == nil || c.Amount == nil || c.Amount.Sign() == 0 {
		return ClaimStateEmpty
	}
	if now-c.RecordedAt > ClaimWindowSeconds {
		return ClaimStateExpired
	}
	return ClaimStatePending
}

// Clone returns a deep copy of the record.
func (c *ClaimableAmount) Clone() *ClaimableAmount {
	if c == nil {
		return nil
	}
	out := *c
	if c.Amount != nil {
		out.Amount = new(big.Int).Set(c.Amount)
	} else {
		out.Amount = big.NewInt(0)
	}
	return &out
}
