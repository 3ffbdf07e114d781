package ledger

import (
	"errors"
	"math/big"

	"relaychain/core/types"
)

var (
	// ErrInsufficientFunds is returned when the payer's balance cannot cover
	// the requested amount.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInsufficientAllowance is returned by the pull adapter when the payer
	// has not pre-authorized the pool for the requested amount.
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
	// ErrInsufficientPoolBalance is returned when a release exceeds the pool's
	// custody balance.
	ErrInsufficientPoolBalance = errors.New("ledger: insufficient pool balance")
	// ErrNotProgramOwned is returned by the push adapter when the debited
	// account is not owned by the ledger's program authority.
	ErrNotProgramOwned = errors.New("ledger: account not owned by program authority")

	errNilState      = errors.New("ledger: state not configured")
	errNegativeMove  = errors.New("ledger: negative transfer amount")
	errZeroRecipient = errors.New("ledger: recipient address cannot be zero")
)

// State is the narrow account store the adapters operate against.
type State interface {
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
	Allowance(owner, spender [20]byte) (*big.Int, error)
	SetAllowance(owner, spender [20]byte, amount *big.Int) error
}

// Adapter abstracts "move funds from payer to pool" and "move funds from pool
// to claimant" across the two custody models. Implementations never partially
// transfer: either the full amount moves or the call fails with no state
// change.
type Adapter interface {
	// Collect charges the payer and credits the pool custody account.
	Collect(payer [20]byte, amount *big.Int) error
	// Release moves funds out of the pool to a claimant.
	Release(recipient [20]byte, amount *big.Int) error
	// Pool returns the custody address the adapter is bound to.
	Pool() [20]byte
}

// FeeUnpayable reports whether the error is one of the payer-side funding
// failures that the message facade soft-fails on.
func FeeUnpayable(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrInsufficientAllowance) || errors.Is(err, ErrNotProgramOwned)
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func loadAccount(state State, addr [20]byte) (*types.Account, error) {
	acc, err := state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	return acc.Normalize(), nil
}

// releaseFromPool implements the shared pool-to-claimant leg of both custody
// models.
func releaseFromPool(state State, pool, recipient [20]byte, amount *big.Int) error {
	if state == nil {
		return errNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() < 0 {
		return errNegativeMove
	}
	if amt.Sign() == 0 {
		return nil
	}
	if recipient == ([20]byte{}) {
		return errZeroRecipient
	}
	poolAcc, err := loadAccount(state, pool)
	if err != nil {
		return err
	}
	if poolAcc.Balance.Cmp(amt) < 0 {
		return ErrInsufficientPoolBalance
	}
	recAcc, err := loadAccount(state, recipient)
	if err != nil {
		return err
	}
	poolAcc.Balance = new(big.Int).Sub(poolAcc.Balance, amt)
	recAcc.Balance = new(big.Int).Add(recAcc.Balance, amt)
	if err := state.PutAccount(pool[:], poolAcc); err != nil {
		return err
	}
	return state.PutAccount(recipient[:], recAcc)
}
