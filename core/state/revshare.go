package state

import (
	"math/big"

	"relaychain/native/revshare"
)

type storedClaimable struct {
	Recipient  [20]byte
	Amount     *big.Int
	RecordedAt *big.Int
}

// ClaimableGet loads the claimable record for a recipient.
func (m *Manager) ClaimableGet(recipient [20]byte) (*revshare.ClaimableAmount, bool, error) {
	var stored storedClaimable
	ok, err := m.kvGet(claimableKey(recipient), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	record := &revshare.ClaimableAmount{
		Recipient: stored.Recipient,
		Amount:    big.NewInt(0),
	}
	if stored.Amount != nil {
		record.Amount = new(big.Int).Set(stored.Amount)
	}
	if stored.RecordedAt != nil {
		record.RecordedAt = stored.RecordedAt.Int64()
	}
	return record, true, nil
}

// ClaimablePut persists a claimable record and indexes first-time recipients.
// Records are zeroed, never deleted, so the index only ever grows.
func (m *Manager) ClaimablePut(record *revshare.ClaimableAmount) error {
	if record == nil {
		return nil
	}
	key := claimableKey(record.Recipient)
	known, err := m.db.Has(key)
	if err != nil {
		return err
	}
	amount := big.NewInt(0)
	if record.Amount != nil {
		amount = new(big.Int).Set(record.Amount)
	}
	stored := storedClaimable{
		Recipient:  record.Recipient,
		Amount:     amount,
		RecordedAt: big.NewInt(record.RecordedAt),
	}
	if err := m.kvPut(key, &stored); err != nil {
		return err
	}
	if !known {
		return m.appendClaimant(record.Recipient)
	}
	return nil
}

// ClaimantList returns every recipient that has ever held a claimable record.
func (m *Manager) ClaimantList() ([][20]byte, error) {
	var list [][20]byte
	if _, err := m.kvGet(claimantListKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *Manager) appendClaimant(recipient [20]byte) error {
	list, err := m.ClaimantList()
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing == recipient {
			return nil
		}
	}
	return m.kvPut(claimantListKey, append(list, recipient))
}

// OwnerPool loads the owner claimable pool balance.
func (m *Manager) OwnerPool() (*big.Int, error) {
	pool := new(big.Int)
	ok, err := m.kvGet(ownerPoolKey, pool)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return pool, nil
}

// SetOwnerPool persists the owner claimable pool balance.
func (m *Manager) SetOwnerPool(amount *big.Int) error {
	if amount == nil {
		amount = big.NewInt(0)
	}
	return m.kvPut(ownerPoolKey, amount)
}
