package state

import (
	"errors"

	nativecommon "relaychain/native/common"
	"relaychain/native/fees"
)

// ErrDiscountOutOfRange is returned when a per-address discount exceeds 100.
var ErrDiscountOutOfRange = errors.New("state: discount percent must be between 0 and 100")

type storedFeeConfig struct {
	BaseSendFee   uint64
	DelegationFee uint64
}

// FeeConfig loads the owner-governed fee configuration.
func (m *Manager) FeeConfig() (fees.Config, error) {
	var stored storedFeeConfig
	if _, err := m.kvGet(feeConfigKey, &stored); err != nil {
		return fees.Config{}, err
	}
	return fees.Config{BaseSendFee: stored.BaseSendFee, DelegationFee: stored.DelegationFee}, nil
}

// SetFeeConfig persists the fee configuration.
func (m *Manager) SetFeeConfig(cfg fees.Config) error {
	return m.kvPut(feeConfigKey, &storedFeeConfig{
		BaseSendFee:   cfg.BaseSendFee,
		DelegationFee: cfg.DelegationFee,
	})
}

// DiscountPercent resolves the per-address fee discount; unset means zero.
func (m *Manager) DiscountPercent(addr [20]byte) (uint8, error) {
	var pct uint8
	if _, err := m.kvGet(discountKey(addr), &pct); err != nil {
		return 0, err
	}
	return pct, nil
}

// SetDiscountPercent persists a per-address fee discount in [0, 100].
func (m *Manager) SetDiscountPercent(addr [20]byte, pct uint8) error {
	if pct > fees.MaxDiscountPercent {
		return ErrDiscountOutOfRange
	}
	return m.kvPut(discountKey(addr), pct)
}

// DelegationGet resolves the delegate registered for a delegator. The zero
// address and an absent key both mean "no delegation".
func (m *Manager) DelegationGet(delegator [20]byte) ([20]byte, bool, error) {
	var delegate [20]byte
	ok, err := m.kvGet(delegationKey(delegator), &delegate)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return delegate, true, nil
}

// DelegationPut persists a delegator's delegate. Storing the zero address
// clears the delegation while keeping the slot allocated.
func (m *Manager) DelegationPut(delegator, delegate [20]byte) error {
	return m.kvPut(delegationKey(delegator), delegate)
}

// PermissionGet resolves the sponsor registered for a contract.
func (m *Manager) PermissionGet(contract [20]byte) ([20]byte, bool, error) {
	var sponsor [20]byte
	ok, err := m.kvGet(permissionKey(contract), &sponsor)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return sponsor, true, nil
}

// PermissionPut persists a contract's sponsor wallet.
func (m *Manager) PermissionPut(contract, sponsor [20]byte) error {
	return m.kvPut(permissionKey(contract), sponsor)
}

// PermissionDelete removes a contract's sponsor mapping.
func (m *Manager) PermissionDelete(contract [20]byte) error {
	return m.db.Delete(permissionKey(contract))
}

// Paused loads the global halt switch.
func (m *Manager) Paused() (bool, error) {
	var paused bool
	if _, err := m.kvGet(pausedKey, &paused); err != nil {
		return false, err
	}
	return paused, nil
}

// SetPaused persists the global halt switch.
func (m *Manager) SetPaused(paused bool) error {
	return m.kvPut(pausedKey, paused)
}

// Owner loads the deployment owner address.
func (m *Manager) Owner() ([20]byte, error) {
	var owner [20]byte
	if _, err := m.kvGet(ownerKey, &owner); err != nil {
		return [20]byte{}, err
	}
	return owner, nil
}

// SetOwner persists the deployment owner address.
func (m *Manager) SetOwner(owner [20]byte) error {
	return m.kvPut(ownerKey, owner)
}

type storedQuota struct {
	SendCount      uint32
	RecipientCount uint32
	EpochID        uint64
}

// QuotaGet loads the send-quota counters stored under the supplied key.
func (m *Manager) QuotaGet(key []byte) (nativecommon.QuotaNow, error) {
	var stored storedQuota
	if _, err := m.kvGet(quotaKey(key), &stored); err != nil {
		return nativecommon.QuotaNow{}, err
	}
	return nativecommon.QuotaNow{
		SendCount:      stored.SendCount,
		RecipientCount: stored.RecipientCount,
		EpochID:        stored.EpochID,
	}, nil
}

// QuotaPut persists send-quota counters under the supplied key.
func (m *Manager) QuotaPut(key []byte, usage nativecommon.QuotaNow) error {
	return m.kvPut(quotaKey(key), &storedQuota{
		SendCount:      usage.SendCount,
		RecipientCount: usage.RecipientCount,
		EpochID:        usage.EpochID,
	})
}
