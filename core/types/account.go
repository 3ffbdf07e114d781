package types

import "math/big"

// Account is the ledger-side record for a single address. The relay ledger
// only ever reads and moves balances; it never mints or burns.
//
// Owner is populated on push-model deployments and names the program
// authority that controls the account. Pull-model deployments leave it nil
// and gate spending through allowances instead.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
	Owner   []byte   `json:"owner,omitempty"`
}

// Normalize ensures the balance pointer is usable. Accounts decoded from
// storage may carry a nil balance.
func (a *Account) Normalize() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := &Account{Nonce: a.Nonce, Balance: big.NewInt(0)}
	if a.Balance != nil {
		out.Balance = new(big.Int).Set(a.Balance)
	}
	if len(a.Owner) > 0 {
		out.Owner = append([]byte(nil), a.Owner...)
	}
	return out
}
