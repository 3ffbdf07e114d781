package events

import "relaychain/core/types"

const (
	TypePermissionGranted = "permission.granted"
	TypePermissionRevoked = "permission.revoked"
)

// PermissionGranted marks a wallet becoming the fee sponsor for a contract.
type PermissionGranted struct {
	Contract [20]byte
	Sponsor  [20]byte
}

func (PermissionGranted) EventType() string { return TypePermissionGranted }

func (e PermissionGranted) Event() *types.Event {
	return &types.Event{
		Type: TypePermissionGranted,
		Attributes: map[string]string{
			"contract": addrString(e.Contract),
			"sponsor":  addrString(e.Sponsor),
		},
	}
}

// PermissionRevoked marks a sponsor mapping being removed, either explicitly
// or implicitly when a new sponsor overwrites it.
type PermissionRevoked struct {
	Contract [20]byte
	Sponsor  [20]byte
}

func (PermissionRevoked) EventType() string { return TypePermissionRevoked }

func (e PermissionRevoked) Event() *types.Event {
	return &types.Event{
		Type: TypePermissionRevoked,
		Attributes: map[string]string{
			"contract": addrString(e.Contract),
			"sponsor":  addrString(e.Sponsor),
		},
	}
}
