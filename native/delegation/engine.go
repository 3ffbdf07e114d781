package delegation

import (
	"errors"
	"math/big"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
	"relaychain/native/fees"
	"relaychain/native/ledger"
)

var (
	// ErrNotDelegate is returned when a caller rejects a delegation that does
	// not currently point at it.
	ErrNotDelegate = errors.New("delegation: caller is not the registered delegate")

	errNilState   = errors.New("delegation: state not configured")
	errNilAdapter = errors.New("delegation: token adapter not configured")
)

type engineState interface {
	DelegationGet(delegator [20]byte) ([20]byte, bool, error)
	DelegationPut(delegator, delegate [20]byte) error
	FeeConfig() (fees.Config, error)
	OwnerPool() (*big.Int, error)
	SetOwnerPool(amount *big.Int) error
}

// Engine maintains delegator-to-delegate relationships. Setting a delegation
// is fee-gated, including the documented way of clearing it (delegate = zero
// address): clearing is itself a state-changing, spam-worthy action.
// Rejection by the delegate is free.
type Engine struct {
	state   engineState
	adapter ledger.Adapter
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine creates a delegation engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAdapter configures the token custody adapter used to charge the
// delegation fee.
func (e *Engine) SetAdapter(adapter ledger.Adapter) { e.adapter = adapter }

// SetPauses configures the pause view gating mutations.
func (e *Engine) SetPauses(pauses nativecommon.PauseView) { e.pauses = pauses }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

// DelegateTo charges the delegation fee from the caller and unconditionally
// overwrites the caller's delegation. The zero address clears the mapping and
// still pays the fee. The collected fee is credited to the owner pool.
func (e *Engine) DelegateTo(caller, delegate [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.adapter == nil {
		return errNilAdapter
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return err
	}
	cfg, err := e.state.FeeConfig()
	if err != nil {
		return err
	}
	fee := new(big.Int).SetUint64(cfg.DelegationFee)
	if err := e.adapter.Collect(caller, fee); err != nil {
		return err
	}
	if fee.Sign() > 0 {
		pool, err := e.state.OwnerPool()
		if err != nil {
			return err
		}
		if pool == nil {
			pool = big.NewInt(0)
		}
		if err := e.state.SetOwnerPool(new(big.Int).Add(pool, fee)); err != nil {
			return err
		}
	}
	if err := e.state.DelegationPut(caller, delegate); err != nil {
		return err
	}
	if delegate == ([20]byte{}) {
		e.emit(events.DelegationCleared{Delegator: caller, Fee: fee})
	} else {
		e.emit(events.DelegationSet{Delegator: caller, Delegate: delegate, Fee: fee})
	}
	return nil
}

// RejectDelegation clears a delegation pointed at the caller. It is fee-free
// and fails when the caller is not the currently-registered delegate.
func (e *Engine) RejectDelegation(caller, delegator [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses); err != nil {
		return err
	}
	current, ok, err := e.state.DelegationGet(delegator)
	if err != nil {
		return err
	}
	if !ok || current != caller {
		return ErrNotDelegate
	}
	if err := e.state.DelegationPut(delegator, [20]byte{}); err != nil {
		return err
	}
	e.emit(events.DelegationRejected{Delegator: delegator, Delegate: caller})
	return nil
}

// Delegate resolves the current delegate for a delegator. The second return
// is false when no delegation is registered.
func (e *Engine) Delegate(delegator [20]byte) ([20]byte, bool, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, false, errNilState
	}
	delegate, ok, err := e.state.DelegationGet(delegator)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	if delegate == ([20]byte{}) {
		return [20]byte{}, false, nil
	}
	return delegate, true, nil
}
