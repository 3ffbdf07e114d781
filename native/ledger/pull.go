package ledger

import "math/big"

// PullAdapter implements the allowance custody model: the payer pre-authorizes
// the pool's custody address and the adapter debits that allowance alongside
// the payer's balance.
type PullAdapter struct {
	state State
	pool  [20]byte
}

// NewPullAdapter builds a pull adapter bound to a pool custody address.
func NewPullAdapter(state State, pool [20]byte) *PullAdapter {
	return &PullAdapter{state: state, pool: pool}
}

// Pool returns the custody address the adapter charges into.
func (a *PullAdapter) Pool() [20]byte { return a.pool }

// Collect debits the payer's balance and allowance and credits the pool. The
// allowance is checked before the balance so an unauthorized pull never
// reports the payer's funding level.
func (a *PullAdapter) Collect(payer [20]byte, amount *big.Int) error {
	if a == nil || a.state == nil {
		return errNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() < 0 {
		return errNegativeMove
	}
	if amt.Sign() == 0 {
		return nil
	}
	allowance, err := a.state.Allowance(payer, a.pool)
	if err != nil {
		return err
	}
	if allowance == nil || allowance.Cmp(amt) < 0 {
		return ErrInsufficientAllowance
	}
	payerAcc, err := loadAccount(a.state, payer)
	if err != nil {
		return err
	}
	if payerAcc.Balance.Cmp(amt) < 0 {
		return ErrInsufficientFunds
	}
	poolAcc, err := loadAccount(a.state, a.pool)
	if err != nil {
		return err
	}
	payerAcc.Balance = new(big.Int).Sub(payerAcc.Balance, amt)
	poolAcc.Balance = new(big.Int).Add(poolAcc.Balance, amt)
	if err := a.state.SetAllowance(payer, a.pool, new(big.Int).Sub(allowance, amt)); err != nil {
		return err
	}
	if err := a.state.PutAccount(payer[:], payerAcc); err != nil {
		return err
	}
	return a.state.PutAccount(a.pool[:], poolAcc)
}

// Release moves funds out of the pool to a claimant.
func (a *PullAdapter) Release(recipient [20]byte, amount *big.Int) error {
	if a == nil {
		return errNilState
	}
	return releaseFromPool(a.state, a.pool, recipient, amount)
}
