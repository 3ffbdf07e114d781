package events

import (
	"math/big"
	"strconv"
	"strings"

	"relaychain/core/types"
)

const (
	// TypeMessageSent marks a completed send through any of the facade
	// variants, whether or not the fee was actually collected.
	TypeMessageSent = "msg.sent"
)

// MessageSent captures the send record emitted by every facade variant. For
// address-directed sends Recipient is set; email and webhook sends carry the
// external target instead. ContentID is populated for the prepared variants
// in place of Body.
type MessageSent struct {
	ID        string
	Sender    [20]byte
	Recipient [20]byte
	Target    string
	Subject   string
	Body      string
	ContentID string
	Priority  bool
	Fee       *big.Int
	FeePaid   bool
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (MessageSent) EventType() string { return TypeMessageSent }

// Event renders the send payload.
func (e MessageSent) Event() *types.Event {
	attrs := map[string]string{
		"id":        e.ID,
		"sender":    addrString(e.Sender),
		"priority":  strconv.FormatBool(e.Priority),
		"fee":       formatAmount(e.Fee),
		"feePaid":   strconv.FormatBool(e.FeePaid),
		"timestamp": intToString(e.Timestamp),
	}
	if !zeroBytes(e.Recipient[:]) {
		attrs["recipient"] = addrString(e.Recipient)
	}
	if target := strings.TrimSpace(e.Target); target != "" {
		attrs["target"] = target
	}
	if e.Subject != "" {
		attrs["subject"] = e.Subject
	}
	if e.ContentID != "" {
		attrs["contentId"] = e.ContentID
	} else if e.Body != "" {
		attrs["body"] = e.Body
	}
	return &types.Event{Type: TypeMessageSent, Attributes: attrs}
}
