package revshare

import (
	"errors"
	"math/big"
	"time"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
	"relaychain/native/ledger"
)

var (
	// ErrNoClaimableAmount is returned when nothing is claimable for the
	// caller. An expired recipient balance is deliberately indistinguishable
	// from no balance: only the owner may reclaim it.
	ErrNoClaimableAmount = errors.New("revshare: no claimable amount")
	// ErrClaimPeriodNotExpired is returned when the owner sweeps a recipient
	// amount that is still inside the claim window.
	ErrClaimPeriodNotExpired = errors.New("revshare: claim period not expired")

	errNilState   = errors.New("revshare: state not configured")
	errNilAdapter = errors.New("revshare: token adapter not configured")
)

// recipientSharePercent is the recipient's cut of every priority fee. The
// owner share is always the exact remainder so the split conserves value.
const recipientSharePercent = 90

type engineState interface {
	ClaimableGet(recipient [20]byte) (*ClaimableAmount, bool, error)
	ClaimablePut(record *ClaimableAmount) error
	ClaimantList() ([][20]byte, error)
	OwnerPool() (*big.Int, error)
	SetOwnerPool(amount *big.Int) error
	Owner() ([20]byte, error)
}

// Engine wires the revenue-share accounting with the token adapter and event
// emitter. All fee value already sits in the pool custody account by the time
// shares are recorded; claims move it out via the adapter.
type Engine struct {
	state   engineState
	adapter ledger.Adapter
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine creates a revenue-share engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAdapter configures the token custody adapter used for releases.
func (e *Engine) SetAdapter(adapter ledger.Adapter) { e.adapter = adapter }

// SetPauses configures the pause view gating claim operations.
func (e *Engine) SetPauses(pauses nativecommon.PauseView) { e.pauses = pauses }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.adapter == nil {
		return errNilAdapter
	}
	return nil
}

// SplitShares divides a fee into the recipient's cut and the owner's exact
// remainder. For every fee F the two always sum to F.
func SplitShares(fee *big.Int) (recipientShare, ownerShare *big.Int) {
	if fee == nil || fee.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	recipientShare = new(big.Int).Mul(fee, big.NewInt(recipientSharePercent))
	recipientShare.Div(recipientShare, big.NewInt(100))
	ownerShare = new(big.Int).Sub(fee, recipientShare)
	return recipientShare, ownerShare
}

// RecordShares splits the fee, accumulates the recipient's cut into its
// claimable record (resetting the claim window for the whole balance) and
// credits the owner pool with the remainder. A zero fee still resets the
// record's window and emits the shares event.
func (e *Engine) RecordShares(recipient [20]byte, fee *big.Int) (*big.Int, *big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, nil, err
	}
	recipientShare, ownerShare := SplitShares(fee)

	record, ok, err := e.state.ClaimableGet(recipient)
	if err != nil {
		return nil, nil, err
	}
	if !ok || record == nil {
		record = &ClaimableAmount{Recipient: recipient, Amount: big.NewInt(0)}
	}
	if record.Amount == nil {
		record.Amount = big.NewInt(0)
	}
	now := e.now()
	record.Amount = new(big.Int).Add(record.Amount, recipientShare)
	record.RecordedAt = now
	if err := e.state.ClaimablePut(record); err != nil {
		return nil, nil, err
	}
	if err := e.creditOwnerPool(ownerShare); err != nil {
		return nil, nil, err
	}
	e.emit(events.SharesRecorded{
		Recipient:      recipient,
		RecipientShare: recipientShare,
		OwnerShare:     ownerShare,
		RecordedAt:     now,
	})
	return recipientShare, ownerShare, nil
}

// CreditOwnerPool adds the full fee of a send with no on-ledger recipient to
// the owner claimable pool.
func (e *Engine) CreditOwnerPool(fee *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if fee == nil || fee.Sign() <= 0 {
		return nil
	}
	return e.creditOwnerPool(fee)
}

func (e *Engine) creditOwnerPool(amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	pool, err := e.state.OwnerPool()
	if err != nil {
		return err
	}
	if pool == nil {
		pool = big.NewInt(0)
	}
	return e.state.SetOwnerPool(new(big.Int).Add(pool, amount))
}

// ClaimRecipientShare pays out the caller's pending amount in full and zeroes
// the record. A balance outside the claim window is reported as nothing
// claimable; only the owner may reclaim it.
func (e *Engine) ClaimRecipientShare(caller [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return nil, err
	}
	record, ok, err := e.state.ClaimableGet(caller)
	if err != nil {
		return nil, err
	}
	if !ok || record.StateAt(e.now()) != ClaimStatePending {
		return nil, ErrNoClaimableAmount
	}
	amount := new(big.Int).Set(record.Amount)
	if err := e.adapter.Release(caller, amount); err != nil {
		return nil, err
	}
	record.Amount = big.NewInt(0)
	if err := e.state.ClaimablePut(record); err != nil {
		return nil, err
	}
	e.emit(events.RecipientClaimed{Recipient: caller, Amount: amount})
	return amount, nil
}

// ClaimOwnerShare pays out the owner pool in full to the deployment owner and
// zeroes it.
func (e *Engine) ClaimOwnerShare(caller [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return nil, err
	}
	owner, err := e.state.Owner()
	if err != nil {
		return nil, err
	}
	if caller != owner {
		return nil, nativecommon.ErrOnlyOwner
	}
	amount, err := e.DrainOwnerPool()
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, ErrNoClaimableAmount
	}
	return amount, nil
}

// DrainOwnerPool releases the owner pool to the owner wallet without any
// caller check. It is used by ClaimOwnerShare and by the pause-time flush. A
// zero pool is a successful no-op.
func (e *Engine) DrainOwnerPool() (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	pool, err := e.state.OwnerPool()
	if err != nil {
		return nil, err
	}
	if pool == nil || pool.Sign() == 0 {
		return big.NewInt(0), nil
	}
	owner, err := e.state.Owner()
	if err != nil {
		return nil, err
	}
	amount := new(big.Int).Set(pool)
	if err := e.adapter.Release(owner, amount); err != nil {
		return nil, err
	}
	if err := e.state.SetOwnerPool(big.NewInt(0)); err != nil {
		return nil, err
	}
	e.emit(events.OwnerClaimed{Owner: owner, Amount: amount})
	return amount, nil
}

// ClaimExpiredShares moves a recipient's expired amount into the owner pool.
// The value stays inside the pool custody account and becomes claimable via
// ClaimOwnerShare; nothing is paid out directly.
func (e *Engine) ClaimExpiredShares(caller, recipient [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return nil, err
	}
	owner, err := e.state.Owner()
	if err != nil {
		return nil, err
	}
	if caller != owner {
		return nil, nativecommon.ErrOnlyOwner
	}
	record, ok, err := e.state.ClaimableGet(recipient)
	if err != nil {
		return nil, err
	}
	if !ok || record.Amount == nil || record.Amount.Sign() == 0 {
		return nil, ErrNoClaimableAmount
	}
	if e.now()-record.RecordedAt <= ClaimWindowSeconds {
		return nil, ErrClaimPeriodNotExpired
	}
	amount := new(big.Int).Set(record.Amount)
	record.Amount = big.NewInt(0)
	if err := e.state.ClaimablePut(record); err != nil {
		return nil, err
	}
	if err := e.creditOwnerPool(amount); err != nil {
		return nil, err
	}
	e.emit(events.ExpiredSharesClaimed{Recipient: recipient, Amount: amount})
	return amount, nil
}

// DistributeRecipient force-pays a recipient's full recorded amount
// regardless of the claim window. It carries no pause guard: the pause
// controller invokes it precisely while the ledger is halted so value is
// never stranded.
func (e *Engine) DistributeRecipient(recipient [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	record, ok, err := e.state.ClaimableGet(recipient)
	if err != nil {
		return nil, err
	}
	if !ok || record.Amount == nil || record.Amount.Sign() == 0 {
		return nil, ErrNoClaimableAmount
	}
	amount := new(big.Int).Set(record.Amount)
	if err := e.adapter.Release(recipient, amount); err != nil {
		return nil, err
	}
	record.Amount = big.NewInt(0)
	if err := e.state.ClaimablePut(record); err != nil {
		return nil, err
	}
	e.emit(events.RecipientClaimed{Recipient: recipient, Amount: amount})
	return amount, nil
}

// PendingRecipients lists every recipient with a nonzero claimable amount.
func (e *Engine) PendingRecipients() ([][20]byte, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	claimants, err := e.state.ClaimantList()
	if err != nil {
		return nil, err
	}
	pending := make([][20]byte, 0, len(claimants))
	for _, claimant := range claimants {
		record, ok, err := e.state.ClaimableGet(claimant)
		if err != nil {
			return nil, err
		}
		if ok && record.Amount != nil && record.Amount.Sign() > 0 {
			pending = append(pending, claimant)
		}
	}
	return pending, nil
}

// Claimable returns a copy of the recipient's record, if any.
func (e *Engine) Claimable(recipient [20]byte) (*ClaimableAmount, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	record, ok, err := e.state.ClaimableGet(recipient)
	if err != nil || !ok {
		return nil, false, err
	}
	return record.Clone(), true, nil
}
