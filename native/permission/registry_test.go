package permission

import (
	"errors"
	"testing"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
)

type mockState struct {
	permissions map[[20]byte][20]byte
}

func newMockState() *mockState {
	return &mockState{permissions: make(map[[20]byte][20]byte)}
}

func (m *mockState) PermissionGet(contract [20]byte) ([20]byte, bool, error) {
	sponsor, ok := m.permissions[contract]
	return sponsor, ok, nil
}

func (m *mockState) PermissionPut(contract, sponsor [20]byte) error {
	m.permissions[contract] = sponsor
	return nil
}

func (m *mockState) PermissionDelete(contract [20]byte) error {
	delete(m.permissions, contract)
	return nil
}

type mockPauses struct{ paused bool }

func (p mockPauses) IsPaused() bool { return p.paused }

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) { c.events = append(c.events, evt) }

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

func TestSetAndResolvePermission(t *testing.T) {
	registry := NewRegistry()
	registry.SetState(newMockState())

	sponsor := addr(1)
	contract := addr(2)
	if err := registry.SetPermission(sponsor, contract); err != nil {
		t.Fatalf("set permission: %v", err)
	}

	payer, err := registry.ResolvePayer(contract)
	if err != nil {
		t.Fatalf("resolve payer: %v", err)
	}
	if payer != sponsor {
		t.Fatalf("sponsored contract must resolve to its sponsor")
	}

	// Non-sponsored callers pay for themselves.
	other := addr(9)
	payer, err = registry.ResolvePayer(other)
	if err != nil {
		t.Fatalf("resolve payer: %v", err)
	}
	if payer != other {
		t.Fatalf("unsponsored caller must pay for itself")
	}
}

func TestOverwriteEmitsRevokeThenGrant(t *testing.T) {
	registry := NewRegistry()
	registry.SetState(newMockState())
	emitter := &captureEmitter{}
	registry.SetEmitter(emitter)

	contract := addr(2)
	if err := registry.SetPermission(addr(1), contract); err != nil {
		t.Fatalf("set permission: %v", err)
	}
	if err := registry.SetPermission(addr(3), contract); err != nil {
		t.Fatalf("overwrite permission: %v", err)
	}

	if len(emitter.events) != 3 {
		t.Fatalf("want grant, revoke, grant; got %d events", len(emitter.events))
	}
	revoked, ok := emitter.events[1].(events.PermissionRevoked)
	if !ok || revoked.Sponsor != addr(1) {
		t.Fatalf("overwrite must revoke the previous sponsor first, got %#v", emitter.events[1])
	}
	granted, ok := emitter.events[2].(events.PermissionGranted)
	if !ok || granted.Sponsor != addr(3) {
		t.Fatalf("overwrite must grant the new sponsor, got %#v", emitter.events[2])
	}
}

func TestSetPermissionSameSponsorIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	registry.SetState(newMockState())
	emitter := &captureEmitter{}
	registry.SetEmitter(emitter)

	contract := addr(2)
	if err := registry.SetPermission(addr(1), contract); err != nil {
		t.Fatalf("set permission: %v", err)
	}
	if err := registry.SetPermission(addr(1), contract); err != nil {
		t.Fatalf("re-set permission: %v", err)
	}
	for _, evt := range emitter.events {
		if _, ok := evt.(events.PermissionRevoked); ok {
			t.Fatalf("re-granting the same sponsor must not emit a revoke")
		}
	}
}

func TestClearPermissionSponsorOnly(t *testing.T) {
	registry := NewRegistry()
	registry.SetState(newMockState())

	sponsor := addr(1)
	contract := addr(2)
	if err := registry.SetPermission(sponsor, contract); err != nil {
		t.Fatalf("set permission: %v", err)
	}

	if err := registry.ClearPermission(addr(3), contract); !errors.Is(err, ErrNotSponsor) {
		t.Fatalf("stranger clear: expected ErrNotSponsor, got %v", err)
	}
	if err := registry.ClearPermission(sponsor, contract); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := registry.Sponsor(contract); ok {
		t.Fatalf("cleared permission must not resolve")
	}
	if err := registry.ClearPermission(sponsor, contract); !errors.Is(err, ErrNotSponsor) {
		t.Fatalf("double clear: expected ErrNotSponsor, got %v", err)
	}
}

func TestMutationsBlockedWhilePaused(t *testing.T) {
	registry := NewRegistry()
	registry.SetState(newMockState())
	registry.SetPauses(mockPauses{paused: true})

	if err := registry.SetPermission(addr(1), addr(2)); !errors.Is(err, nativecommon.ErrPaused) {
		t.Fatalf("set while paused: expected ErrPaused, got %v", err)
	}
	if err := registry.ClearPermission(addr(1), addr(2)); !errors.Is(err, nativecommon.ErrPaused) {
		t.Fatalf("clear while paused: expected ErrPaused, got %v", err)
	}
}
