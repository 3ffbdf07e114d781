package system

import (
	"errors"
	"math/big"
	"testing"

	nativecommon "relaychain/native/common"
	"relaychain/native/revshare"
)

// mockState backs both the controller and the revenue-share engine.
type mockState struct {
	paused     bool
	owner      [20]byte
	claimables map[[20]byte]*revshare.ClaimableAmount
	claimants  [][20]byte
	ownerPool  *big.Int
}

func newMockState(owner [20]byte) *mockState {
	return &mockState{
		owner:      owner,
		claimables: make(map[[20]byte]*revshare.ClaimableAmount),
		ownerPool:  big.NewInt(0),
	}
}

func (m *mockState) Paused() (bool, error) { return m.paused, nil }

func (m *mockState) SetPaused(paused bool) error {
	m.paused = paused
	return nil
}

func (m *mockState) Owner() ([20]byte, error) { return m.owner, nil }

func (m *mockState) ClaimableGet(recipient [20]byte) (*revshare.ClaimableAmount, bool, error) {
	record, ok := m.claimables[recipient]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) ClaimablePut(record *revshare.ClaimableAmount) error {
	if _, ok := m.claimables[record.Recipient]; !ok {
		m.claimants = append(m.claimants, record.Recipient)
	}
	m.claimables[record.Recipient] = record.Clone()
	return nil
}

func (m *mockState) ClaimantList() ([][20]byte, error) {
	return append([][20]byte(nil), m.claimants...), nil
}

func (m *mockState) OwnerPool() (*big.Int, error) { return new(big.Int).Set(m.ownerPool), nil }

func (m *mockState) SetOwnerPool(amount *big.Int) error {
	m.ownerPool = new(big.Int).Set(amount)
	return nil
}

type mockAdapter struct {
	released map[[20]byte]*big.Int
}

func newMockAdapter() *mockAdapter { return &mockAdapter{released: make(map[[20]byte]*big.Int)} }

func (a *mockAdapter) Collect(payer [20]byte, amount *big.Int) error { return nil }

func (a *mockAdapter) Release(recipient [20]byte, amount *big.Int) error {
	current, ok := a.released[recipient]
	if !ok {
		current = big.NewInt(0)
	}
	a.released[recipient] = new(big.Int).Add(current, amount)
	return nil
}

func (a *mockAdapter) Pool() [20]byte { return [20]byte{0xAA} }

// failingAdapter refuses every release, simulating a custody backend outage.
type failingAdapter struct {
	mockAdapter
	err error
}

func (a *failingAdapter) Release(recipient [20]byte, amount *big.Int) error { return a.err }

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

func newTestController(state *mockState, adapter *mockAdapter) (*Controller, *revshare.Engine) {
	engine := revshare.NewEngine()
	engine.SetState(state)
	engine.SetAdapter(adapter)
	engine.SetNowFunc(func() int64 { return 1000 })

	controller := NewController()
	controller.SetState(state)
	controller.SetRevenueShare(engine)
	engine.SetPauses(controller)
	return controller, engine
}

func TestPauseOwnerOnly(t *testing.T) {
	owner := addr(0xFF)
	controller, _ := newTestController(newMockState(owner), newMockAdapter())
	if err := controller.Pause(addr(1)); !errors.Is(err, nativecommon.ErrOnlyOwner) {
		t.Fatalf("expected ErrOnlyOwner, got %v", err)
	}
	if err := controller.Pause(owner); err != nil {
		t.Fatalf("owner pause: %v", err)
	}
	if !controller.IsPaused() {
		t.Fatalf("ledger must report paused")
	}
	if err := controller.Pause(owner); !errors.Is(err, ErrAlreadyPaused) {
		t.Fatalf("double pause: expected ErrAlreadyPaused, got %v", err)
	}
}

func TestPauseFlushesPools(t *testing.T) {
	owner := addr(0xFF)
	state := newMockState(owner)
	adapter := newMockAdapter()
	controller, engine := newTestController(state, adapter)

	recipient := addr(1)
	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	if err := controller.Pause(owner); err != nil {
		t.Fatalf("pause: %v", err)
	}

	// Owner pool (10000) drained to the owner wallet, recipient share (90000)
	// force-paid despite the pause.
	if released := adapter.released[owner]; released == nil || released.Cmp(big.NewInt(10000)) != 0 {
		t.Fatalf("owner pool flush: want 10000 got %v", released)
	}
	if released := adapter.released[recipient]; released == nil || released.Cmp(big.NewInt(90000)) != 0 {
		t.Fatalf("recipient flush: want 90000 got %v", released)
	}
	if state.ownerPool.Sign() != 0 {
		t.Fatalf("owner pool must be empty after the flush, got %s", state.ownerPool)
	}
}

func TestPauseDrainFailureLeavesLedgerRunning(t *testing.T) {
	owner := addr(0xFF)
	state := newMockState(owner)
	adapter := &failingAdapter{err: errors.New("custody backend unavailable")}

	engine := revshare.NewEngine()
	engine.SetState(state)
	engine.SetAdapter(adapter)
	engine.SetNowFunc(func() int64 { return 1000 })

	controller := NewController()
	controller.SetState(state)
	controller.SetRevenueShare(engine)
	engine.SetPauses(controller)

	if _, _, err := engine.RecordShares(addr(1), big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	if err := controller.Pause(owner); err == nil {
		t.Fatalf("pause must surface the drain failure")
	}
	if controller.IsPaused() {
		t.Fatalf("failed pause must leave the ledger running")
	}
	if state.ownerPool.Cmp(big.NewInt(10000)) != 0 {
		t.Fatalf("owner pool must be untouched after a failed drain, got %s", state.ownerPool)
	}

	// Once the backend recovers the same pause succeeds and flushes in full.
	adapter.err = nil
	if err := controller.Pause(owner); err != nil {
		t.Fatalf("pause after recovery: %v", err)
	}
	if !controller.IsPaused() {
		t.Fatalf("ledger must report paused after recovery")
	}
}

func TestUnpauseRestoresOperation(t *testing.T) {
	owner := addr(0xFF)
	controller, _ := newTestController(newMockState(owner), newMockAdapter())
	if err := controller.Pause(owner); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := controller.Unpause(addr(1)); !errors.Is(err, nativecommon.ErrOnlyOwner) {
		t.Fatalf("stranger unpause: expected ErrOnlyOwner, got %v", err)
	}
	if err := controller.Unpause(owner); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if controller.IsPaused() {
		t.Fatalf("ledger must resume after unpause")
	}
}

func TestEmergencyUnpause(t *testing.T) {
	owner := addr(0xFF)
	controller, _ := newTestController(newMockState(owner), newMockAdapter())
	if err := controller.Pause(owner); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := controller.EmergencyUnpause(owner); err != nil {
		t.Fatalf("emergency unpause: %v", err)
	}
	if controller.IsPaused() {
		t.Fatalf("ledger must resume after emergency unpause")
	}
}

func TestDistributeClaimableFundsOnlyWhilePaused(t *testing.T) {
	owner := addr(0xFF)
	state := newMockState(owner)
	adapter := newMockAdapter()
	controller, engine := newTestController(state, adapter)

	recipient := addr(1)
	if _, _, err := engine.RecordShares(recipient, big.NewInt(100000)); err != nil {
		t.Fatalf("record shares: %v", err)
	}

	if _, err := controller.DistributeClaimableFunds(addr(2), recipient); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("running ledger: expected ErrNotPaused, got %v", err)
	}

	state.paused = true
	// The pause flush did not run here, so the record is still pending and
	// any caller may force the payout.
	amount, err := controller.DistributeClaimableFunds(addr(2), recipient)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if amount.Cmp(big.NewInt(90000)) != 0 {
		t.Fatalf("distributed amount: want 90000 got %s", amount)
	}
	if _, err := controller.DistributeClaimableFunds(addr(2), recipient); !errors.Is(err, revshare.ErrNoClaimableAmount) {
		t.Fatalf("second distribute: expected ErrNoClaimableAmount, got %v", err)
	}
}
