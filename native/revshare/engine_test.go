package revshare

import (
	"errors"
	"math/big"
	"testing"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
)

type mockState struct {
	claimables map[[20]byte]*ClaimableAmount
	claimants  [][20]byte
	ownerPool  *big.Int
	owner      [20]byte
}

func newMockState(owner [20]byte) *mockState {
	return &mockState{
		claimables: make(map[[20]byte]*ClaimableAmount),
		ownerPool:  big.NewInt(0),
		owner:      owner,
	}
}

func (m *mockState) ClaimableGet(recipient [20]byte) (*ClaimableAmount, bool, error) {
	record, ok := m.claimables[recipient]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) ClaimablePut(record *ClaimableAmount) error {
	if _, ok := m.claimables[record.Recipient]; !ok {
		m.claimants = append(m.claimants, record.Recipient)
	}
	m.claimables[record.Recipient] = record.Clone()
	return nil
}

func (m *mockState) ClaimantList() ([][20]byte, error) {
	return append([][20]byte(nil), m.claimants...), nil
}

func (m *mockState) OwnerPool() (*big.Int, error) {
	return new(big.Int).Set(m.ownerPool), nil
}

func (m *mockState) SetOwnerPool(amount *big.Int) error {
	m.ownerPool = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) Owner() ([20]byte, error) { return m.owner, nil }

// mockAdapter tracks pool funds and records releases without a full account
// store.
type mockAdapter struct {
	pool     [20]byte
	balance  *big.Int
	released map[[20]byte]*big.Int
}

func newMockAdapter(funded int64) *mockAdapter {
	return &mockAdapter{
		pool:     [20]byte{0xAA},
		balance:  big.NewInt(funded),
		released: make(map[[20]byte]*big.Int),
	}
}

func (a *mockAdapter) Collect(payer [20]byte, amount *big.Int) error {
	a.balance.Add(a.balance, amount)
	return nil
}

func (a *mockAdapter) Release(recipient [20]byte, amount *big.Int) error {
	if a.balance.Cmp(amount) < 0 {
		return errors.New("pool underfunded")
	}
	a.balance.Sub(a.balance, amount)
	current, ok := a.released[recipient]
	if !ok {
		current = big.NewInt(0)
	}
	a.released[recipient] = new(big.Int).Add(current, amount)
	return nil
}

func (a *mockAdapter) Pool() [20]byte { return a.pool }

type mockPauses struct{ paused bool }

func (p mockPauses) IsPaused() bool { return p.paused }

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) { c.events = append(c.events, evt) }

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

func newTestEngine(state *mockState, adapter *mockAdapter, now int64) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetAdapter(adapter)
	engine.SetNowFunc(func() int64 { return now })
	return engine
}

func TestSplitSharesConservesFee(t *testing.T) {
	for _, fee := range []int64{1, 9, 10, 99, 100, 100000, 123456789} {
		recipientShare, ownerShare := SplitShares(big.NewInt(fee))
		total := new(big.Int).Add(recipientShare, ownerShare)
		if total.Cmp(big.NewInt(fee)) != 0 {
			t.Fatalf("fee %d: shares %s + %s do not conserve the fee", fee, recipientShare, ownerShare)
		}
		expected := fee * 90 / 100
		if recipientShare.Cmp(big.NewInt(expected)) != 0 {
			t.Fatalf("fee %d: recipient share want %d got %s", fee, expected, recipientShare)
		}
	}
}

func TestRecordSharesAccumulatesAndResetsWindow(t *testing.T) {
	owner := addr(0xFF)
	state := newMockState(owner)
	adapter := newMockAdapter(0)
	recipient := addr(1)

	engine := newTestEngine(state, adapter, 1000)
	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	engine.SetNowFunc(func() int64 { return 5000 })
	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	record, ok, err := engine.Claimable(recipient)
	if err != nil || !ok {
		t.Fatalf("claimable: ok=%v err=%v", ok, err)
	}
	if record.Amount.Cmp(big.NewInt(180000)) != 0 {
		t.Fatalf("accumulated amount: want 180000 got %s", record.Amount)
	}
	if record.RecordedAt != 5000 {
		t.Fatalf("window must reset to the latest record time, got %d", record.RecordedAt)
	}
	if state.ownerPool.Cmp(big.NewInt(20000)) != 0 {
		t.Fatalf("owner pool: want 20000 got %s", state.ownerPool)
	}
}

func TestRecordSharesZeroFeeStillEmits(t *testing.T) {
	state := newMockState(addr(0xFF))
	emitter := &captureEmitter{}
	engine := newTestEngine(state, newMockAdapter(0), 1000)
	engine.SetEmitter(emitter)

	if _, _, err := engine.RecordShares(addr(1), big.NewInt(0)); err != nil {
		t.Fatalf("record shares: %v", err)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("zero fee must still emit the shares event, got %d events", len(emitter.events))
	}
	record, ok, _ := engine.Claimable(addr(1))
	if !ok || record.RecordedAt != 1000 {
		t.Fatalf("zero fee must still stamp the record, ok=%v record=%+v", ok, record)
	}
}

func TestClaimRecipientShareInsideWindow(t *testing.T) {
	state := newMockState(addr(0xFF))
	adapter := newMockAdapter(1000000)
	recipient := addr(1)

	engine := newTestEngine(state, adapter, 1000)
	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	// Exactly at the window boundary the claim still succeeds.
	engine.SetNowFunc(func() int64 { return 1000 + ClaimWindowSeconds })
	amount, err := engine.ClaimRecipientShare(recipient)
	if err != nil {
		t.Fatalf("claim at window boundary: %v", err)
	}
	if amount.Cmp(big.NewInt(90000)) != 0 {
		t.Fatalf("claimed amount: want 90000 got %s", amount)
	}
	if released := adapter.released[recipient]; released.Cmp(big.NewInt(90000)) != 0 {
		t.Fatalf("released amount: want 90000 got %s", released)
	}

	// A second claim finds nothing: the record is zeroed, not deleted.
	if _, err := engine.ClaimRecipientShare(recipient); !errors.Is(err, ErrNoClaimableAmount) {
		t.Fatalf("second claim: expected ErrNoClaimableAmount, got %v", err)
	}
	if _, ok, _ := engine.Claimable(recipient); !ok {
		t.Fatalf("zeroed record must remain in state")
	}
}

func TestClaimRecipientShareAfterWindow(t *testing.T) {
	state := newMockState(addr(0xFF))
	engine := newTestEngine(state, newMockAdapter(0), 1000)
	recipient := addr(1)
	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	engine.SetNowFunc(func() int64 { return 1000 + ClaimWindowSeconds + 1 })
	if _, err := engine.ClaimRecipientShare(recipient); !errors.Is(err, ErrNoClaimableAmount) {
		t.Fatalf("expired claim must look like nothing claimable, got %v", err)
	}
}

func TestClaimRecipientShareWhilePaused(t *testing.T) {
	state := newMockState(addr(0xFF))
	engine := newTestEngine(state, newMockAdapter(0), 1000)
	engine.SetPauses(mockPauses{paused: true})
	if _, err := engine.ClaimRecipientShare(addr(1)); !errors.Is(err, nativecommon.ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
}

func TestClaimOwnerShare(t *testing.T) {
	owner := addr(0xFF)
	state := newMockState(owner)
	adapter := newMockAdapter(1000000)
	engine := newTestEngine(state, adapter, 1000)

	if _, _, err := engine.RecordShares(addr(1), big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}
	if err := engine.CreditOwnerPool(big.NewInt(5000)); err != nil {
		t.Fatalf("credit owner pool: %v", err)
	}

	if _, err := engine.ClaimOwnerShare(addr(2)); !errors.Is(err, nativecommon.ErrOnlyOwner) {
		t.Fatalf("non-owner claim: expected ErrOnlyOwner, got %v", err)
	}

	amount, err := engine.ClaimOwnerShare(owner)
	if err != nil {
		t.Fatalf("owner claim: %v", err)
	}
	if amount.Cmp(big.NewInt(15000)) != 0 {
		t.Fatalf("owner claim: want 15000 got %s", amount)
	}
	if released := adapter.released[owner]; released.Cmp(big.NewInt(15000)) != 0 {
		t.Fatalf("released to owner: want 15000 got %s", released)
	}

	if _, err := engine.ClaimOwnerShare(owner); !errors.Is(err, ErrNoClaimableAmount) {
		t.Fatalf("drained pool claim: expected ErrNoClaimableAmount, got %v", err)
	}
}

func TestDrainOwnerPoolZeroIsNoop(t *testing.T) {
	state := newMockState(addr(0xFF))
	engine := newTestEngine(state, newMockAdapter(0), 1000)
	amount, err := engine.DrainOwnerPool()
	if err != nil {
		t.Fatalf("drain empty pool: %v", err)
	}
	if amount.Sign() != 0 {
		t.Fatalf("empty pool drain must report zero, got %s", amount)
	}
}

func TestClaimExpiredShares(t *testing.T) {
	owner := addr(0xFF)
	state := newMockState(owner)
	engine := newTestEngine(state, newMockAdapter(0), 1000)
	recipient := addr(1)

	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}
	poolBefore := new(big.Int).Set(state.ownerPool)

	// Still inside the window, including the exact boundary.
	engine.SetNowFunc(func() int64 { return 1000 + ClaimWindowSeconds })
	if _, err := engine.ClaimExpiredShares(owner, recipient); !errors.Is(err, ErrClaimPeriodNotExpired) {
		t.Fatalf("sweep inside window: expected ErrClaimPeriodNotExpired, got %v", err)
	}

	engine.SetNowFunc(func() int64 { return 1000 + ClaimWindowSeconds + 1 })
	if _, err := engine.ClaimExpiredShares(addr(2), recipient); !errors.Is(err, nativecommon.ErrOnlyOwner) {
		t.Fatalf("non-owner sweep: expected ErrOnlyOwner, got %v", err)
	}

	amount, err := engine.ClaimExpiredShares(owner, recipient)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if amount.Cmp(big.NewInt(90000)) != 0 {
		t.Fatalf("swept amount: want 90000 got %s", amount)
	}
	wantPool := new(big.Int).Add(poolBefore, big.NewInt(90000))
	if state.ownerPool.Cmp(wantPool) != 0 {
		t.Fatalf("swept value must land in the owner pool: want %s got %s", wantPool, state.ownerPool)
	}
	if _, err := engine.ClaimExpiredShares(owner, recipient); !errors.Is(err, ErrNoClaimableAmount) {
		t.Fatalf("second sweep: expected ErrNoClaimableAmount, got %v", err)
	}
}

func TestDistributeRecipientIgnoresWindow(t *testing.T) {
	state := newMockState(addr(0xFF))
	adapter := newMockAdapter(1000000)
	engine := newTestEngine(state, adapter, 1000)
	recipient := addr(1)

	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	engine.SetNowFunc(func() int64 { return 1000 + 10*ClaimWindowSeconds })
	engine.SetPauses(mockPauses{paused: true})
	amount, err := engine.DistributeRecipient(recipient)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if amount.Cmp(big.NewInt(90000)) != 0 {
		t.Fatalf("distributed amount: want 90000 got %s", amount)
	}
}

func TestPendingRecipients(t *testing.T) {
	state := newMockState(addr(0xFF))
	engine := newTestEngine(state, newMockAdapter(1000000), 1000)

	if _, _, err := engine.RecordShares(addr(1), big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}
	if _, _, err := engine.RecordShares(addr(2), big.NewInt(50000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}
	if _, err := engine.ClaimRecipientShare(addr(2)); err != nil {
		t.Fatalf("claim: %v", err)
	}

	pending, err := engine.PendingRecipients()
	if err != nil {
		t.Fatalf("pending recipients: %v", err)
	}
	if len(pending) != 1 || pending[0] != addr(1) {
		t.Fatalf("pending recipients: want [addr(1)] got %v", pending)
	}
}
