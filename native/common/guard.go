package common

import "errors"

var (
	// ErrPaused is returned by every fee-incurring or claim-altering
	// operation while the global halt switch is engaged.
	ErrPaused = errors.New("ledger paused")
	// ErrOnlyOwner is returned when a caller attempts an owner-gated
	// operation without being the deployment owner.
	ErrOnlyOwner = errors.New("caller is not the owner")
)

// PauseView exposes the global halt switch to the native engines.
type PauseView interface {
	IsPaused() bool
}

// Guard rejects the call when the ledger is paused. A nil view means the
// engine was wired without pause support and runs unguarded.
func Guard(p PauseView) error {
	if p == nil {
		return nil
	}
	if p.IsPaused() {
		return ErrPaused
	}
	return nil
}
