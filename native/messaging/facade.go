package messaging

import (
	"errors"
	"math/big"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"relaychain/core/events"
	nativecommon "relaychain/native/common"
	"relaychain/native/fees"
	"relaychain/native/ledger"
	"relaychain/native/revshare"
)

var (
	errNilState   = errors.New("messaging: state not configured")
	errNilAdapter = errors.New("messaging: token adapter not configured")
	errNilShares  = errors.New("messaging: revenue share engine not configured")

	// ErrInvalidTier is returned for a tier outside the known schedules.
	ErrInvalidTier = errors.New("messaging: invalid fee tier")
)

type facadeState interface {
	FeeConfig() (fees.Config, error)
	DiscountPercent(addr [20]byte) (uint8, error)
	QuotaGet(key []byte) (nativecommon.QuotaNow, error)
	QuotaPut(key []byte, usage nativecommon.QuotaNow) error
}

// PayerResolver maps a calling address to the wallet actually charged for the
// send. On pull deployments the permission registry implements this; push
// deployments leave it nil and every caller pays for itself.
type PayerResolver interface {
	ResolvePayer(caller [20]byte) ([20]byte, error)
}

// SendReceipt summarises the outcome of a send. FeePaid is false when the
// payer could not fund the fee: the send record is still emitted, flagged,
// and no shares are recorded.
type SendReceipt struct {
	ID             string
	Payer          [20]byte
	Fee            *big.Int
	FeePaid        bool
	RecipientShare *big.Int
	OwnerShare     *big.Int
}

// Facade exposes the five public send variants. Every variant funnels through
// the same pipeline: pause guard, validation, quota, payer resolution, fee
// computation, collection, share recording, send record.
//
// Insufficient funds soft-fail by policy: the message's existence is
// independently meaningful, so the record is emitted with feePaid=false
// rather than aborting the call. The policy is uniform across all five
// variants.
type Facade struct {
	state    facadeState
	adapter  ledger.Adapter
	shares   *revshare.Engine
	resolver PayerResolver
	pauses   nativecommon.PauseView
	emitter  events.Emitter
	quota    nativecommon.Quota
	nowFn    func() int64
	idFn     func() string
}

// NewFacade creates a message facade with a no-op emitter and quotas
// disabled.
func NewFacade() *Facade {
	return &Facade{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
		idFn:    func() string { return uuid.NewString() },
	}
}

// SetState configures the state backend used by the facade.
func (f *Facade) SetState(state facadeState) { f.state = state }

// SetAdapter configures the token custody adapter used to collect fees.
func (f *Facade) SetAdapter(adapter ledger.Adapter) { f.adapter = adapter }

// SetRevenueShare configures the engine that records fee splits.
func (f *Facade) SetRevenueShare(engine *revshare.Engine) { f.shares = engine }

// SetPayerResolver configures sponsored-fee resolution. A nil resolver means
// every caller pays for itself.
func (f *Facade) SetPayerResolver(resolver PayerResolver) { f.resolver = resolver }

// SetPauses configures the pause view gating sends.
func (f *Facade) SetPauses(pauses nativecommon.PauseView) { f.pauses = pauses }

// SetQuota configures per-address send limits. A zero quota disables them.
func (f *Facade) SetQuota(quota nativecommon.Quota) { f.quota = quota }

// SetNowFunc overrides the time source used by the facade.
func (f *Facade) SetNowFunc(now func() int64) {
	if now == nil {
		f.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	f.nowFn = now
}

// SetIDFunc overrides send-record ID generation. Primarily for tests.
func (f *Facade) SetIDFunc(id func() string) {
	if id == nil {
		f.idFn = func() string { return uuid.NewString() }
		return
	}
	f.idFn = id
}

// SetEmitter configures the event emitter used by the facade. Passing nil
// resets the emitter to a no-op implementation.
func (f *Facade) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		f.emitter = events.NoopEmitter{}
		return
	}
	f.emitter = emitter
}

func (f *Facade) emit(evt events.Event) {
	if f == nil || f.emitter == nil || evt == nil {
		return
	}
	f.emitter.Emit(evt)
}

func (f *Facade) now() int64 {
	if f == nil || f.nowFn == nil {
		return time.Now().Unix()
	}
	return f.nowFn()
}

// Send delivers a message to an on-ledger recipient.
func (f *Facade) Send(caller, recipient [20]byte, subject, body string, tier fees.Tier) (*SendReceipt, error) {
	if recipient == ([20]byte{}) {
		return nil, ErrZeroRecipient
	}
	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	return f.deliver(caller, recipient, "", subject, body, "", tier)
}

// SendPrepared delivers a message referencing pre-uploaded content by ID.
func (f *Facade) SendPrepared(caller, recipient [20]byte, subject, contentID string, tier fees.Tier) (*SendReceipt, error) {
	if recipient == ([20]byte{}) {
		return nil, ErrZeroRecipient
	}
	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if err := validateContentID(contentID); err != nil {
		return nil, err
	}
	return f.deliver(caller, recipient, "", subject, "", contentID, tier)
}

// SendToEmailAddress delivers a message to an external email target. The fee
// has no on-ledger recipient to share with, so a priority fee is credited to
// the owner pool in full.
func (f *Facade) SendToEmailAddress(caller [20]byte, email, subject, body string, tier fees.Tier) (*SendReceipt, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	return f.deliver(caller, [20]byte{}, normalized, subject, body, "", tier)
}

// SendPreparedToEmailAddress delivers prepared content to an email target.
func (f *Facade) SendPreparedToEmailAddress(caller [20]byte, email, subject, contentID string, tier fees.Tier) (*SendReceipt, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if err := validateContentID(contentID); err != nil {
		return nil, err
	}
	return f.deliver(caller, [20]byte{}, normalized, subject, "", contentID, tier)
}

// SendThroughWebhook delivers a payload to an https webhook target.
func (f *Facade) SendThroughWebhook(caller [20]byte, webhookURL, payload string, tier fees.Tier) (*SendReceipt, error) {
	normalized, err := NormalizeWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	if err := validateBody(payload); err != nil {
		return nil, err
	}
	return f.deliver(caller, [20]byte{}, normalized, "", payload, "", tier)
}

// quotaPairKey derives the per-recipient counter key. External targets are
// folded to a pseudo-address so per-target limits apply to them as well.
func quotaPairKey(sender [20]byte, recipient [20]byte, target string) []byte {
	if recipient != ([20]byte{}) {
		return append(append([]byte("pair:"), sender[:]...), recipient[:]...)
	}
	digest := ethcrypto.Keccak256([]byte(target))
	return append(append([]byte("pair:"), sender[:]...), digest[12:]...)
}

func quotaSenderKey(sender [20]byte) []byte {
	return append([]byte("sender:"), sender[:]...)
}

func (f *Facade) ready() error {
	if f == nil || f.state == nil {
		return errNilState
	}
	if f.adapter == nil {
		return errNilAdapter
	}
	if f.shares == nil {
		return errNilShares
	}
	return nil
}

func (f *Facade) checkQuota(sender, recipient [20]byte, target string, now int64) error {
	if !f.quota.Enabled() {
		return nil
	}
	epoch := uint64(now) / uint64(f.quota.EpochSeconds)
	senderKey := quotaSenderKey(sender)
	pairKey := quotaPairKey(sender, recipient, target)
	senderUsage, err := f.state.QuotaGet(senderKey)
	if err != nil {
		return err
	}
	pairUsage, err := f.state.QuotaGet(pairKey)
	if err != nil {
		return err
	}
	nextSender, nextPair, err := nativecommon.CheckQuota(f.quota, epoch, senderUsage, pairUsage)
	if err != nil {
		return err
	}
	if err := f.state.QuotaPut(senderKey, nextSender); err != nil {
		return err
	}
	return f.state.QuotaPut(pairKey, nextPair)
}

func (f *Facade) deliver(caller, recipient [20]byte, target, subject, body, contentID string, tier fees.Tier) (*SendReceipt, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(f.pauses); err != nil {
		return nil, err
	}
	if !tier.Valid() {
		return nil, ErrInvalidTier
	}
	now := f.now()
	if err := f.checkQuota(caller, recipient, target, now); err != nil {
		return nil, err
	}

	payer := caller
	if f.resolver != nil {
		resolved, err := f.resolver.ResolvePayer(caller)
		if err != nil {
			return nil, err
		}
		payer = resolved
	}

	cfg, err := f.state.FeeConfig()
	if err != nil {
		return nil, err
	}
	discount, err := f.state.DiscountPercent(payer)
	if err != nil {
		return nil, err
	}
	fee := new(big.Int).SetUint64(fees.Compute(fees.ComputeInput{
		Tier:            tier,
		BaseFee:         cfg.BaseSendFee,
		DiscountPercent: discount,
	}))

	receipt := &SendReceipt{
		ID:      f.idFn(),
		Payer:   payer,
		Fee:     fee,
		FeePaid: true,
	}
	if err := f.adapter.Collect(payer, fee); err != nil {
		if !ledger.FeeUnpayable(err) {
			return nil, err
		}
		receipt.FeePaid = false
	}
	if receipt.FeePaid {
		if tier == fees.TierPriority && recipient != ([20]byte{}) {
			recipientShare, ownerShare, err := f.shares.RecordShares(recipient, fee)
			if err != nil {
				return nil, err
			}
			receipt.RecipientShare = recipientShare
			receipt.OwnerShare = ownerShare
		} else if err := f.shares.CreditOwnerPool(fee); err != nil {
			return nil, err
		}
	}

	f.emit(events.MessageSent{
		ID:        receipt.ID,
		Sender:    caller,
		Recipient: recipient,
		Target:    target,
		Subject:   subject,
		Body:      body,
		ContentID: contentID,
		Priority:  tier == fees.TierPriority,
		Fee:       fee,
		FeePaid:   receipt.FeePaid,
		Timestamp: now,
	})
	return receipt, nil
}
