package ledger

import (
	"bytes"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// authorityDomain separates program-authority derivation from other keccak
// uses in the codebase.
var authorityDomain = []byte("relay/program-authority/v1")

// DeriveAuthority computes the program authority address for the supplied
// seed. Accounts carrying this authority as their owner can be debited
// directly by the push adapter, mirroring a program signing for an account it
// owns.
func DeriveAuthority(seed []byte) [20]byte {
	digest := ethcrypto.Keccak256(authorityDomain, seed)
	var out [20]byte
	copy(out[:], digest[12:])
	return out
}

// PushAdapter implements the direct-ownership custody model: the ledger
// program itself signs transfers out of accounts it owns, so no external
// authorization step exists or is needed.
type PushAdapter struct {
	state     State
	pool      [20]byte
	authority [20]byte
}

// NewPushAdapter builds a push adapter bound to a pool custody address. The
// seed selects the program authority whose accounts the adapter may debit.
func NewPushAdapter(state State, pool [20]byte, authoritySeed []byte) *PushAdapter {
	return &PushAdapter{state: state, pool: pool, authority: DeriveAuthority(authoritySeed)}
}

// Pool returns the custody address the adapter charges into.
func (a *PushAdapter) Pool() [20]byte { return a.pool }

// Authority returns the derived program authority.
func (a *PushAdapter) Authority() [20]byte { return a.authority }

// Collect debits a program-owned account and credits the pool. The account
// must carry the adapter's authority as its owner; there is no allowance to
// consult.
func (a *PushAdapter) Collect(payer [20]byte, amount *big.Int) error {
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
	payerAcc, err := loadAccount(a.state, payer)
	if err != nil {
		return err
	}
	if !bytes.Equal(payerAcc.Owner, a.authority[:]) {
		return ErrNotProgramOwned
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
	if err := a.state.PutAccount(payer[:], payerAcc); err != nil {
		return err
	}
	return a.state.PutAccount(a.pool[:], poolAcc)
}

// Release moves funds out of the pool to a claimant.
func (a *PushAdapter) Release(recipient [20]byte, amount *big.Int) error {
	if a == nil {
		return errNilState
	}
	return releaseFromPool(a.state, a.pool, recipient, amount)
}
