package system

import (
	"errors"
	"math/big"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
	"relaychain/native/revshare"
)

var (
	// ErrNotPaused is returned when a forced distribution is attempted while
	// the ledger is running normally.
	ErrNotPaused = errors.New("system: ledger is not paused")
	// ErrAlreadyPaused is returned when pausing an already-halted ledger.
	ErrAlreadyPaused = errors.New("system: ledger already paused")

	errNilState    = errors.New("system: state not configured")
	errNilRevshare = errors.New("system: revenue share engine not configured")
)

type controllerState interface {
	Paused() (bool, error)
	SetPaused(paused bool) error
	Owner() ([20]byte, error)
}

// Controller owns the global halt switch. Pausing does not freeze pooled
// funds: it force-flushes them toward their owners, and while paused anyone
// may trigger a per-recipient distribution so value is never stranded behind
// a halted facade.
type Controller struct {
	state    controllerState
	revshare *revshare.Engine
	emitter  events.Emitter
}

// NewController creates a pause controller with a no-op emitter.
func NewController() *Controller {
	return &Controller{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the controller.
func (c *Controller) SetState(state controllerState) { c.state = state }

// SetRevenueShare configures the revenue-share engine used for flushes and
// forced distributions.
func (c *Controller) SetRevenueShare(engine *revshare.Engine) { c.revshare = engine }

// SetEmitter configures the event emitter used by the controller. Passing nil
// resets the emitter to a no-op implementation.
func (c *Controller) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		c.emitter = events.NoopEmitter{}
		return
	}
	c.emitter = emitter
}

func (c *Controller) emit(evt events.Event) {
	if c == nil || c.emitter == nil || evt == nil {
		return
	}
	c.emitter.Emit(evt)
}

// IsPaused implements nativecommon.PauseView for the other engines. State
// read failures are treated as paused so a broken backend fails closed.
func (c *Controller) IsPaused() bool {
	if c == nil || c.state == nil {
		return false
	}
	paused, err := c.state.Paused()
	if err != nil {
		return true
	}
	return paused
}

func (c *Controller) requireOwner(caller [20]byte) error {
	owner, err := c.state.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return nativecommon.ErrOnlyOwner
	}
	return nil
}

// Pause engages the halt switch and force-flushes outstanding pool balances:
// the owner pool is drained to the owner wallet and every pending recipient
// record is paid out. Flush failures for individual recipients leave their
// records intact; those amounts stay reachable through
// DistributeClaimableFunds.
func (c *Controller) Pause(caller [20]byte) error {
	if c == nil || c.state == nil {
		return errNilState
	}
	if c.revshare == nil {
		return errNilRevshare
	}
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	paused, err := c.state.Paused()
	if err != nil {
		return err
	}
	if paused {
		return ErrAlreadyPaused
	}

	// Flush first: a failed drain must leave the ledger running rather than
	// halted with funds still pooled.
	if _, err := c.revshare.DrainOwnerPool(); err != nil && !errors.Is(err, revshare.ErrNoClaimableAmount) {
		return err
	}
	pending, err := c.revshare.PendingRecipients()
	if err != nil {
		return err
	}
	for _, recipient := range pending {
		amount, err := c.revshare.DistributeRecipient(recipient)
		if err != nil {
			continue
		}
		c.emit(events.FundsDistributed{Recipient: recipient, Amount: amount})
	}

	if err := c.state.SetPaused(true); err != nil {
		return err
	}
	c.emit(events.Paused{By: caller})
	return nil
}

// Unpause clears the halt switch.
func (c *Controller) Unpause(caller [20]byte) error {
	return c.unpause(caller, false)
}

// EmergencyUnpause clears the halt switch through the emergency path. The
// state transition is identical to Unpause; the emitted record is flagged so
// indexers can distinguish the two.
func (c *Controller) EmergencyUnpause(caller [20]byte) error {
	return c.unpause(caller, true)
}

func (c *Controller) unpause(caller [20]byte, emergency bool) error {
	if c == nil || c.state == nil {
		return errNilState
	}
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.state.SetPaused(false); err != nil {
		return err
	}
	c.emit(events.Unpaused{By: caller, Emergency: emergency})
	return nil
}

// DistributeClaimableFunds force-pays the recipient's recorded amount
// immediately, bypassing the claim window. It is callable by anyone but only
// while the ledger is paused.
func (c *Controller) DistributeClaimableFunds(caller, recipient [20]byte) (*big.Int, error) {
	if c == nil || c.state == nil {
		return nil, errNilState
	}
	if c.revshare == nil {
		return nil, errNilRevshare
	}
	paused, err := c.state.Paused()
	if err != nil {
		return nil, err
	}
	if !paused {
		return nil, ErrNotPaused
	}
	amount, err := c.revshare.DistributeRecipient(recipient)
	if err != nil {
		return nil, err
	}
	c.emit(events.FundsDistributed{Recipient: recipient, Amount: amount})
	return amount, nil
}
