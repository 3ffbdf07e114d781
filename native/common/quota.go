package common

import (
	"errors"
	"math"
)

var (
	ErrQuotaSendsExceeded     = errors.New("quota sends exceeded")
	ErrQuotaRecipientExceeded = errors.New("quota sends to recipient exceeded")
	ErrQuotaCounterOverflow   = errors.New("quota counter overflow")
)

// QuotaNow captures the current usage counters for a sender within one epoch.
type QuotaNow struct {
	SendCount      uint32
	RecipientCount uint32
	EpochID        uint64
}

// Quota defines the send limits enforced per address. Zero values disable the
// corresponding limit.
type Quota struct {
	MaxSendsPerEpoch     uint32
	MaxPerRecipientEpoch uint32
	EpochSeconds         uint32
}

// Enabled reports whether any limit is configured.
func (q Quota) Enabled() bool {
	return q.EpochSeconds > 0 && (q.MaxSendsPerEpoch > 0 || q.MaxPerRecipientEpoch > 0)
}

// CheckQuota verifies whether one additional send fits within the configured
// quota. The returned QuotaNow reflects the updated counters when the quota is
// not exceeded; on failure the previous counters are returned unchanged.
func CheckQuota(q Quota, nowEpoch uint64, prev QuotaNow, recipientPrev QuotaNow) (QuotaNow, QuotaNow, error) {
	next := prev
	nextRecipient := recipientPrev
	if prev.EpochID != nowEpoch {
		next = QuotaNow{EpochID: nowEpoch}
	}
	if recipientPrev.EpochID != nowEpoch {
		nextRecipient = QuotaNow{EpochID: nowEpoch}
	}

	if next.SendCount == math.MaxUint32 {
		return prev, recipientPrev, ErrQuotaCounterOverflow
	}
	next.SendCount++
	if q.MaxSendsPerEpoch > 0 && next.SendCount > q.MaxSendsPerEpoch {
		return prev, recipientPrev, ErrQuotaSendsExceeded
	}

	if nextRecipient.RecipientCount == math.MaxUint32 {
		return prev, recipientPrev, ErrQuotaCounterOverflow
	}
	nextRecipient.RecipientCount++
	if q.MaxPerRecipientEpoch > 0 && nextRecipient.RecipientCount > q.MaxPerRecipientEpoch {
		return prev, recipientPrev, ErrQuotaRecipientExceeded
	}

	return next, nextRecipient, nil
}
