package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"relaychain/core/types"
	"relaychain/storage"
)

// Manager provides the keyed state stores the native engines operate on. All
// values are RLP-encoded under keccak-hashed prefixed keys, and reads of
// absent keys return zero values rather than errors.
//
// Manager is not safe for concurrent use; the node serializes access.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) kvGet(key []byte, out interface{}) (bool, error) {
	ok, err := m.db.Has(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	data, err := m.db.Get(key)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %x: %w", key, err)
	}
	return true, nil
}

func (m *Manager) kvPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %x: %w", key, err)
	}
	return m.db.Put(key, encoded)
}

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
	Owner   []byte
}

// GetAccount loads the account for an address. Unknown addresses resolve to a
// fresh zero-balance account.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	var stored storedAccount
	ok, err := m.kvGet(accountKey(addr), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (&types.Account{}).Normalize(), nil
	}
	account := &types.Account{
		Nonce:   stored.Nonce,
		Balance: stored.Balance,
		Owner:   stored.Owner,
	}
	return account.Normalize(), nil
}

// PutAccount persists the account for an address.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	normalized := account.Normalize()
	stored := storedAccount{
		Nonce:   normalized.Nonce,
		Balance: normalized.Balance,
		Owner:   normalized.Owner,
	}
	return m.kvPut(accountKey(addr), &stored)
}

// Allowance resolves the amount the owner has pre-authorized the spender to
// pull. Absent allowances are zero.
func (m *Manager) Allowance(owner, spender [20]byte) (*big.Int, error) {
	amount := new(big.Int)
	ok, err := m.kvGet(allowanceKey(owner, spender), amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}

// SetAllowance persists a pull authorization.
func (m *Manager) SetAllowance(owner, spender [20]byte, amount *big.Int) error {
	if amount == nil {
		amount = big.NewInt(0)
	}
	return m.kvPut(allowanceKey(owner, spender), amount)
}
