package fees

import "math/big"

// Tier selects the fee schedule applied to a send.
type Tier uint8

const (
	// TierStandard is the reduced-fee schedule with no revenue share.
	TierStandard Tier = iota
	// TierPriority is the full-fee schedule that records a recipient share.
	TierPriority
)

func (t Tier) Valid() bool {
	switch t {
	case TierStandard, TierPriority:
		return true
	default:
		return false
	}
}

func (t Tier) String() string {
	switch t {
	case TierStandard:
		return "standard"
	case TierPriority:
		return "priority"
	default:
		return "unknown"
	}
}

// standardTierPercent is the fraction of the base send fee charged for
// standard-tier sends.
const standardTierPercent = 10

// MaxDiscountPercent bounds per-address discounts.
const MaxDiscountPercent = 100

// Config carries the owner-governed fee knobs. Per-address discounts are
// persisted separately in state and resolved by the caller before invoking
// Compute.
type Config struct {
	BaseSendFee   uint64
	DelegationFee uint64
}

// ComputeInput captures everything needed to evaluate the fee owed for a
// single send.
type ComputeInput struct {
	Tier            Tier
	BaseFee         uint64
	DiscountPercent uint8
}

// Compute evaluates the fee for the supplied tier and discount. The discount
// is applied after tier selection and the result is rounded down. A discount
// of 100 yields zero, which is a valid fee: the send still proceeds and a
// priority send still records a zero-value share. The intermediate products
// go through big.Int so the full uint64 base-fee range stays exact.
func Compute(input ComputeInput) uint64 {
	fee := new(big.Int).SetUint64(input.BaseFee)
	hundred := big.NewInt(100)
	if input.Tier == TierStandard {
		fee.Div(fee.Mul(fee, big.NewInt(standardTierPercent)), hundred)
	}
	discount := input.DiscountPercent
	if discount > MaxDiscountPercent {
		discount = MaxDiscountPercent
	}
	if discount > 0 {
		fee.Div(fee.Mul(fee, big.NewInt(int64(MaxDiscountPercent-discount))), hundred)
	}
	return fee.Uint64()
}
