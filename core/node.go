package core

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"relaychain/core/events"
	"relaychain/core/state"
	"relaychain/core/types"
	nativecommon "relaychain/native/common"
	"relaychain/native/delegation"
	"relaychain/native/fees"
	"relaychain/native/ledger"
	"relaychain/native/messaging"
	"relaychain/native/permission"
	"relaychain/native/revshare"
	"relaychain/native/system"
	"relaychain/storage"
)

// CustodyModel selects which token adapter variant a deployment runs on.
type CustodyModel string

const (
	// CustodyPull is the allowance model: payers pre-authorize the pool.
	CustodyPull CustodyModel = "pull"
	// CustodyPush is the direct-ownership model: the ledger program debits
	// accounts it owns.
	CustodyPush CustodyModel = "push"
)

// Valid reports whether the custody model is one of the two known variants.
func (c CustodyModel) Valid() bool {
	return c == CustodyPull || c == CustodyPush
}

// GenesisAccount seeds a balance on first start. ProgramOwned marks the
// account as controlled by the push-model program authority.
type GenesisAccount struct {
	Address      [20]byte
	Balance      *big.Int
	ProgramOwned bool
}

// NodeConfig carries everything needed to wire a node.
type NodeConfig struct {
	Custody       CustodyModel
	Pool          [20]byte
	AuthoritySeed []byte
	Owner         [20]byte
	Fees          fees.Config
	Quota         nativecommon.Quota
	EventTail     int
	Emitter       events.Emitter
	Alloc         []GenesisAccount
}

var (
	errInvalidCustody = errors.New("node: custody model must be pull or push")
	errZeroPool       = errors.New("node: pool custody address cannot be zero")
	errZeroOwner      = errors.New("node: owner address cannot be zero")
)

// Node owns the state manager and the native engines and exposes the public
// operation surface. A single mutex serializes every operation, giving the
// totally-ordered state machine the engines assume.
type Node struct {
	mu sync.Mutex

	db          storage.Database
	state       *state.Manager
	adapter     ledger.Adapter
	custody     CustodyModel
	facade      *messaging.Facade
	revshare    *revshare.Engine
	delegation  *delegation.Engine
	permissions *permission.Registry
	pause       *system.Controller
	tail        *events.Tail
	emitter     events.Emitter
	nowFn       func() int64
}

// NewNode wires a node over the supplied database, bootstrapping owner, fee
// configuration and genesis balances on first start.
func NewNode(db storage.Database, cfg NodeConfig) (*Node, error) {
	if !cfg.Custody.Valid() {
		return nil, errInvalidCustody
	}
	if cfg.Pool == ([20]byte{}) {
		return nil, errZeroPool
	}

	manager := state.NewManager(db)

	var adapter ledger.Adapter
	switch cfg.Custody {
	case CustodyPull:
		adapter = ledger.NewPullAdapter(manager, cfg.Pool)
	case CustodyPush:
		adapter = ledger.NewPushAdapter(manager, cfg.Pool, cfg.AuthoritySeed)
	}

	tail := events.NewTail(cfg.EventTail)
	emitter := events.Emitter(tail)
	if cfg.Emitter != nil {
		emitter = events.MultiEmitter{tail, cfg.Emitter}
	}

	node := &Node{
		db:      db,
		state:   manager,
		adapter: adapter,
		custody: cfg.Custody,
		tail:    tail,
		emitter: emitter,
		nowFn:   func() int64 { return time.Now().Unix() },
	}

	node.pause = system.NewController()
	node.pause.SetState(manager)
	node.pause.SetEmitter(emitter)

	node.revshare = revshare.NewEngine()
	node.revshare.SetState(manager)
	node.revshare.SetAdapter(adapter)
	node.revshare.SetPauses(node.pause)
	node.revshare.SetEmitter(emitter)
	node.pause.SetRevenueShare(node.revshare)

	node.delegation = delegation.NewEngine()
	node.delegation.SetState(manager)
	node.delegation.SetAdapter(adapter)
	node.delegation.SetPauses(node.pause)
	node.delegation.SetEmitter(emitter)

	node.facade = messaging.NewFacade()
	node.facade.SetState(manager)
	node.facade.SetAdapter(adapter)
	node.facade.SetRevenueShare(node.revshare)
	node.facade.SetPauses(node.pause)
	node.facade.SetQuota(cfg.Quota)
	node.facade.SetEmitter(emitter)

	if cfg.Custody == CustodyPull {
		node.permissions = permission.NewRegistry()
		node.permissions.SetState(manager)
		node.permissions.SetPauses(node.pause)
		node.permissions.SetEmitter(emitter)
		node.facade.SetPayerResolver(node.permissions)
	}

	if err := node.bootstrap(cfg); err != nil {
		return nil, err
	}
	return node, nil
}

func (n *Node) bootstrap(cfg NodeConfig) error {
	owner, err := n.state.Owner()
	if err != nil {
		return err
	}
	if owner != ([20]byte{}) {
		return nil
	}
	if cfg.Owner == ([20]byte{}) {
		return errZeroOwner
	}
	if err := n.state.SetOwner(cfg.Owner); err != nil {
		return err
	}
	if err := n.state.SetFeeConfig(cfg.Fees); err != nil {
		return err
	}
	var authority [20]byte
	if cfg.Custody == CustodyPush {
		authority = ledger.DeriveAuthority(cfg.AuthoritySeed)
	}
	for _, alloc := range cfg.Alloc {
		account, err := n.state.GetAccount(alloc.Address[:])
		if err != nil {
			return err
		}
		if alloc.Balance != nil {
			account.Balance = new(big.Int).Set(alloc.Balance)
		}
		if alloc.ProgramOwned {
			if cfg.Custody != CustodyPush {
				return fmt.Errorf("node: program-owned alloc %x on a pull deployment", alloc.Address)
			}
			account.Owner = authority[:]
		}
		if err := n.state.PutAccount(alloc.Address[:], account); err != nil {
			return err
		}
	}
	return nil
}

// Custody returns the deployment's custody model.
func (n *Node) Custody() CustodyModel { return n.custody }

// --- Messaging ---

func (n *Node) Send(caller, recipient [20]byte, subject, body string, tier fees.Tier) (*messaging.SendReceipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.facade.Send(caller, recipient, subject, body, tier)
}

func (n *Node) SendPrepared(caller, recipient [20]byte, subject, contentID string, tier fees.Tier) (*messaging.SendReceipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.facade.SendPrepared(caller, recipient, subject, contentID, tier)
}

func (n *Node) SendToEmailAddress(caller [20]byte, email, subject, body string, tier fees.Tier) (*messaging.SendReceipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.facade.SendToEmailAddress(caller, email, subject, body, tier)
}

func (n *Node) SendPreparedToEmailAddress(caller [20]byte, email, subject, contentID string, tier fees.Tier) (*messaging.SendReceipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.facade.SendPreparedToEmailAddress(caller, email, subject, contentID, tier)
}

func (n *Node) SendThroughWebhook(caller [20]byte, webhookURL, payload string, tier fees.Tier) (*messaging.SendReceipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.facade.SendThroughWebhook(caller, webhookURL, payload, tier)
}

// --- Revenue share ---

func (n *Node) ClaimRecipientShare(caller [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.revshare.ClaimRecipientShare(caller)
}

func (n *Node) ClaimOwnerShare(caller [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.revshare.ClaimOwnerShare(caller)
}

func (n *Node) ClaimExpiredShares(caller, recipient [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.revshare.ClaimExpiredShares(caller, recipient)
}

func (n *Node) Claimable(recipient [20]byte) (*revshare.ClaimableAmount, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.revshare.Claimable(recipient)
}

func (n *Node) OwnerPool() (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.OwnerPool()
}

// --- Delegation ---

func (n *Node) DelegateTo(caller, delegate [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.delegation.DelegateTo(caller, delegate)
}

func (n *Node) RejectDelegation(caller, delegator [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.delegation.RejectDelegation(caller, delegator)
}

func (n *Node) Delegation(delegator [20]byte) ([20]byte, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.delegation.Delegate(delegator)
}

// --- Permission (pull deployments only) ---

// ErrPermissionUnsupported is returned for permission operations on push
// deployments, where payer accounts are already program-owned and
// sponsorship is meaningless.
var ErrPermissionUnsupported = errors.New("node: permission registry unavailable on push deployments")

func (n *Node) SetPermission(caller, contract [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permissions == nil {
		return ErrPermissionUnsupported
	}
	return n.permissions.SetPermission(caller, contract)
}

func (n *Node) ClearPermission(caller, contract [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permissions == nil {
		return ErrPermissionUnsupported
	}
	return n.permissions.ClearPermission(caller, contract)
}

func (n *Node) Permission(contract [20]byte) ([20]byte, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permissions == nil {
		return [20]byte{}, false, ErrPermissionUnsupported
	}
	return n.permissions.Sponsor(contract)
}

// --- Fee configuration ---

func (n *Node) requireOwner(caller [20]byte) error {
	owner, err := n.state.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return nativecommon.ErrOnlyOwner
	}
	return nil
}

func (n *Node) SetFee(caller [20]byte, newFee uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.requireOwner(caller); err != nil {
		return err
	}
	cfg, err := n.state.FeeConfig()
	if err != nil {
		return err
	}
	previous := cfg.BaseSendFee
	cfg.BaseSendFee = newFee
	if err := n.state.SetFeeConfig(cfg); err != nil {
		return err
	}
	n.emit(events.FeeUpdated{Kind: "send", Previous: previous, Current: newFee})
	return nil
}

func (n *Node) SetDelegationFee(caller [20]byte, newFee uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.requireOwner(caller); err != nil {
		return err
	}
	cfg, err := n.state.FeeConfig()
	if err != nil {
		return err
	}
	previous := cfg.DelegationFee
	cfg.DelegationFee = newFee
	if err := n.state.SetFeeConfig(cfg); err != nil {
		return err
	}
	n.emit(events.FeeUpdated{Kind: "delegation", Previous: previous, Current: newFee})
	return nil
}

func (n *Node) SetCustomFeeDiscount(caller, addr [20]byte, pct uint8) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.requireOwner(caller); err != nil {
		return err
	}
	if err := n.state.SetDiscountPercent(addr, pct); err != nil {
		return err
	}
	n.emit(events.DiscountSet{Address: addr, Percent: pct})
	return nil
}

func (n *Node) SetOwner(caller, newOwner [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.requireOwner(caller); err != nil {
		return err
	}
	if newOwner == ([20]byte{}) {
		return errZeroOwner
	}
	previous, err := n.state.Owner()
	if err != nil {
		return err
	}
	if err := n.state.SetOwner(newOwner); err != nil {
		return err
	}
	n.emit(events.OwnerRotated{Previous: previous, Current: newOwner})
	return nil
}

func (n *Node) FeeConfig() (fees.Config, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.FeeConfig()
}

// --- Pause ---

func (n *Node) Pause(caller [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pause.Pause(caller)
}

func (n *Node) Unpause(caller [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pause.Unpause(caller)
}

func (n *Node) EmergencyUnpause(caller [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pause.EmergencyUnpause(caller)
}

func (n *Node) DistributeClaimableFunds(caller, recipient [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pause.DistributeClaimableFunds(caller, recipient)
}

func (n *Node) Paused() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Paused()
}

// --- Accounts ---

func (n *Node) Balance(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	account, err := n.state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// Approve records a pull authorization from the caller toward the pool
// custody address. Only meaningful on pull deployments; push deployments
// have no allowance step.
func (n *Node) Approve(caller [20]byte, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.SetAllowance(caller, n.adapter.Pool(), amount)
}

func (n *Node) Allowance(owner [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Allowance(owner, n.adapter.Pool())
}

// --- Events ---

func (n *Node) EventsLatest(limit int) []*types.Event {
	return n.tail.Latest(limit)
}

func (n *Node) emit(evt events.Event) {
	if n.emitter != nil {
		n.emitter.Emit(evt)
	}
}

// Now reports the ledger clock used to evaluate claim windows.
func (n *Node) Now() int64 {
	return n.nowFn()
}

// SetNowFunc overrides the ledger clock across the engines. Primarily for
// tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.nowFn = now
	n.facade.SetNowFunc(now)
	n.revshare.SetNowFunc(now)
}
