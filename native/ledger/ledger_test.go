package ledger

import (
	"errors"
	"math/big"
	"testing"

	"relaychain/core/types"
)

type mockState struct {
	accounts   map[[20]byte]*types.Account
	allowances map[[40]byte]*big.Int
}

func newMockState() *mockState {
	return &mockState{
		accounts:   make(map[[20]byte]*types.Account),
		allowances: make(map[[40]byte]*big.Int),
	}
}

func allowanceKey(owner, spender [20]byte) [40]byte {
	var key [40]byte
	copy(key[:20], owner[:])
	copy(key[20:], spender[:])
	return key
}

func (m *mockState) GetAccount(addr []byte) (*types.Account, error) {
	var key [20]byte
	copy(key[:], addr)
	if acc, ok := m.accounts[key]; ok {
		return acc.Clone(), nil
	}
	return &types.Account{Balance: big.NewInt(0)}, nil
}

func (m *mockState) PutAccount(addr []byte, account *types.Account) error {
	var key [20]byte
	copy(key[:], addr)
	m.accounts[key] = account.Clone()
	return nil
}

func (m *mockState) Allowance(owner, spender [20]byte) (*big.Int, error) {
	if v, ok := m.allowances[allowanceKey(owner, spender)]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (m *mockState) SetAllowance(owner, spender [20]byte, amount *big.Int) error {
	m.allowances[allowanceKey(owner, spender)] = new(big.Int).Set(amount)
	return nil
}

func (m *mockState) setBalance(addr [20]byte, amount int64) {
	m.accounts[addr] = &types.Account{Balance: big.NewInt(amount)}
}

func (m *mockState) balance(t *testing.T, addr [20]byte) *big.Int {
	t.Helper()
	acc, err := m.GetAccount(addr[:])
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return acc.Normalize().Balance
}

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

func TestPullCollectRequiresAllowance(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	payer := addr(1)
	state.setBalance(payer, 1000)

	adapter := NewPullAdapter(state, pool)
	err := adapter.Collect(payer, big.NewInt(100))
	if !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
	if got := state.balance(t, payer); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("failed collect must not touch the payer balance, got %s", got)
	}
}

func TestPullCollectChecksAllowanceBeforeBalance(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	payer := addr(1)
	// No balance and no allowance: the allowance failure must win so an
	// unauthorized pull never probes funding.
	adapter := NewPullAdapter(state, pool)
	if err := adapter.Collect(payer, big.NewInt(100)); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
}

func TestPullCollectDebitsAllowanceAndBalance(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	payer := addr(1)
	state.setBalance(payer, 1000)
	if err := state.SetAllowance(payer, pool, big.NewInt(300)); err != nil {
		t.Fatalf("set allowance: %v", err)
	}

	adapter := NewPullAdapter(state, pool)
	if err := adapter.Collect(payer, big.NewInt(100)); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := state.balance(t, payer); got.Cmp(big.NewInt(900)) != 0 {
		t.Fatalf("payer balance: want 900 got %s", got)
	}
	if got := state.balance(t, pool); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("pool balance: want 100 got %s", got)
	}
	remaining, err := state.Allowance(payer, pool)
	if err != nil {
		t.Fatalf("allowance: %v", err)
	}
	if remaining.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("allowance: want 200 got %s", remaining)
	}
}

func TestPullCollectInsufficientBalance(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	payer := addr(1)
	state.setBalance(payer, 50)
	if err := state.SetAllowance(payer, pool, big.NewInt(100)); err != nil {
		t.Fatalf("set allowance: %v", err)
	}

	adapter := NewPullAdapter(state, pool)
	if err := adapter.Collect(payer, big.NewInt(100)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	remaining, _ := state.Allowance(payer, pool)
	if remaining.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("failed collect must not burn allowance, got %s", remaining)
	}
}

func TestPullCollectZeroAmountIsNoop(t *testing.T) {
	state := newMockState()
	adapter := NewPullAdapter(state, addr(0xAA))
	if err := adapter.Collect(addr(1), big.NewInt(0)); err != nil {
		t.Fatalf("zero collect should succeed without allowance, got %v", err)
	}
}

func TestPushCollectRequiresProgramOwnership(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	payer := addr(1)
	state.setBalance(payer, 1000)

	adapter := NewPushAdapter(state, pool, []byte("relay-net-1"))
	if err := adapter.Collect(payer, big.NewInt(100)); !errors.Is(err, ErrNotProgramOwned) {
		t.Fatalf("expected ErrNotProgramOwned, got %v", err)
	}
}

func TestPushCollectDebitsOwnedAccount(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	payer := addr(1)

	adapter := NewPushAdapter(state, pool, []byte("relay-net-1"))
	authority := adapter.Authority()
	state.accounts[payer] = &types.Account{Balance: big.NewInt(1000), Owner: authority[:]}

	if err := adapter.Collect(payer, big.NewInt(100)); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := state.balance(t, payer); got.Cmp(big.NewInt(900)) != 0 {
		t.Fatalf("payer balance: want 900 got %s", got)
	}
	if got := state.balance(t, pool); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("pool balance: want 100 got %s", got)
	}
}

func TestDeriveAuthorityIsDeterministic(t *testing.T) {
	a := DeriveAuthority([]byte("seed-a"))
	b := DeriveAuthority([]byte("seed-a"))
	c := DeriveAuthority([]byte("seed-b"))
	if a != b {
		t.Fatalf("same seed must derive the same authority")
	}
	if a == c {
		t.Fatalf("different seeds must derive different authorities")
	}
	if a == ([20]byte{}) {
		t.Fatalf("authority must not be the zero address")
	}
}

func TestReleaseMovesPoolFunds(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	recipient := addr(2)
	state.setBalance(pool, 500)

	adapter := NewPullAdapter(state, pool)
	if err := adapter.Release(recipient, big.NewInt(200)); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := state.balance(t, pool); got.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("pool balance: want 300 got %s", got)
	}
	if got := state.balance(t, recipient); got.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("recipient balance: want 200 got %s", got)
	}
}

func TestReleaseInsufficientPool(t *testing.T) {
	state := newMockState()
	pool := addr(0xAA)
	state.setBalance(pool, 100)

	adapter := NewPushAdapter(state, pool, []byte("relay-net-1"))
	if err := adapter.Release(addr(2), big.NewInt(200)); !errors.Is(err, ErrInsufficientPoolBalance) {
		t.Fatalf("expected ErrInsufficientPoolBalance, got %v", err)
	}
}

func TestFeeUnpayable(t *testing.T) {
	for _, err := range []error{ErrInsufficientFunds, ErrInsufficientAllowance, ErrNotProgramOwned} {
		if !FeeUnpayable(err) {
			t.Fatalf("%v should be a soft-fail funding error", err)
		}
	}
	if FeeUnpayable(errors.New("boom")) {
		t.Fatalf("arbitrary errors must not soft-fail")
	}
}
