package permission

import (
	"errors"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
)

var (
	// ErrNotSponsor is returned when a caller clears a permission it does not
	// hold.
	ErrNotSponsor = errors.New("permission: caller is not the registered sponsor")

	errNilState = errors.New("permission: state not configured")
)

type registryState interface {
	PermissionGet(contract [20]byte) ([20]byte, bool, error)
	PermissionPut(contract, sponsor [20]byte) error
	PermissionDelete(contract [20]byte) error
}

// Registry maintains contract-to-sponsor relationships so a contract caller's
// fee is charged to a sponsoring wallet. It only exists on pull-model
// deployments: under the push model every payer account is already
// program-owned, so sponsorship is meaningless and the facade is built
// without a registry.
type Registry struct {
	state   registryState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewRegistry creates a permission registry with a no-op emitter.
func NewRegistry() *Registry {
	return &Registry{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state registryState) { r.state = state }

// SetPauses configures the pause view gating mutations.
func (r *Registry) SetPauses(pauses nativecommon.PauseView) { r.pauses = pauses }

// SetEmitter configures the event emitter used by the registry. Passing nil
// resets the emitter to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

func (r *Registry) emit(evt events.Event) {
	if r == nil || r.emitter == nil || evt == nil {
		return
	}
	r.emitter.Emit(evt)
}

// SetPermission registers the caller as the sponsor for the contract. A
// previously registered different sponsor is implicitly revoked first, with
// both records emitted; overwriting is not an error.
func (r *Registry) SetPermission(caller, contract [20]byte) error {
	if r == nil || r.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(r.pauses); err != nil {
		return err
	}
	existing, ok, err := r.state.PermissionGet(contract)
	if err != nil {
		return err
	}
	if ok && existing != ([20]byte{}) && existing != caller {
		r.emit(events.PermissionRevoked{Contract: contract, Sponsor: existing})
	}
	if err := r.state.PermissionPut(contract, caller); err != nil {
		return err
	}
	r.emit(events.PermissionGranted{Contract: contract, Sponsor: caller})
	return nil
}

// ClearPermission removes the caller's sponsorship of the contract. It fails
// when the caller is not the currently registered sponsor.
func (r *Registry) ClearPermission(caller, contract [20]byte) error {
	if r == nil || r.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(r.pauses); err != nil {
		return err
	}
	existing, ok, err := r.state.PermissionGet(contract)
	if err != nil {
		return err
	}
	if !ok || existing != caller {
		return ErrNotSponsor
	}
	if err := r.state.PermissionDelete(contract); err != nil {
		return err
	}
	r.emit(events.PermissionRevoked{Contract: contract, Sponsor: caller})
	return nil
}

// ResolvePayer returns the sponsor wallet for a sponsored contract caller, or
// the caller itself when no sponsorship is registered.
func (r *Registry) ResolvePayer(caller [20]byte) ([20]byte, error) {
	if r == nil || r.state == nil {
		return caller, nil
	}
	sponsor, ok, err := r.state.PermissionGet(caller)
	if err != nil {
		return [20]byte{}, err
	}
	if !ok || sponsor == ([20]byte{}) {
		return caller, nil
	}
	return sponsor, nil
}

// Sponsor resolves the registered sponsor for a contract, if any.
func (r *Registry) Sponsor(contract [20]byte) ([20]byte, bool, error) {
	if r == nil || r.state == nil {
		return [20]byte{}, false, errNilState
	}
	sponsor, ok, err := r.state.PermissionGet(contract)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	if sponsor == ([20]byte{}) {
		return [20]byte{}, false, nil
	}
	return sponsor, true, nil
}
