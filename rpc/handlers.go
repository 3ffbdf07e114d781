package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"relaychain/crypto"
	"relaychain/native/fees"
	"relaychain/native/messaging"
)

// All relay methods take a single JSON object parameter. Addresses are
// bech32 strings, amounts decimal strings.

func decodeObject(req *RPCRequest, out interface{}) error {
	if len(req.Params) == 0 {
		return errors.New("parameter object required")
	}
	return json.Unmarshal(req.Params[0], out)
}

func parseAddr(s string) ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(s)
	if err != nil {
		return out, err
	}
	copy(out[:], addr.Bytes())
	return out, nil
}

func encodeAddr(b [20]byte) string {
	return crypto.MustNewAddress(crypto.RelayPrefix, b[:]).String()
}

func parseTier(s string) (fees.Tier, error) {
	switch s {
	case "", "standard":
		return fees.TierStandard, nil
	case "priority":
		return fees.TierPriority, nil
	default:
		return fees.TierStandard, fmt.Errorf("unknown tier %q", s)
	}
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

type sendReceiptResult struct {
	ID             string `json:"id"`
	Payer          string `json:"payer"`
	Fee            string `json:"fee"`
	FeePaid        bool   `json:"feePaid"`
	RecipientShare string `json:"recipientShare,omitempty"`
	OwnerShare     string `json:"ownerShare,omitempty"`
}

func receiptResult(receipt *messaging.SendReceipt) sendReceiptResult {
	out := sendReceiptResult{
		ID:      receipt.ID,
		Payer:   encodeAddr(receipt.Payer),
		Fee:     amountString(receipt.Fee),
		FeePaid: receipt.FeePaid,
	}
	if receipt.RecipientShare != nil && receipt.RecipientShare.Sign() > 0 {
		out.RecipientShare = receipt.RecipientShare.String()
	}
	if receipt.OwnerShare != nil && receipt.OwnerShare.Sign() > 0 {
		out.OwnerShare = receipt.OwnerShare.String()
	}
	return out
}

type sendParams struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	ContentID string `json:"contentId"`
	Tier      string `json:"tier"`
}

type externalSendParams struct {
	Caller    string `json:"caller"`
	Email     string `json:"email"`
	URL       string `json:"url"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Payload   string `json:"payload"`
	ContentID string `json:"contentId"`
	Tier      string `json:"tier"`
}

func (s *Server) handleSend(w http.ResponseWriter, req *RPCRequest) {
	var params sendParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid send parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	recipient, err := parseAddr(params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	tier, err := parseTier(params.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tier", err.Error())
		return
	}
	receipt, err := s.node.Send(caller, recipient, params.Subject, params.Body, tier)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, receiptResult(receipt))
}

func (s *Server) handleSendPrepared(w http.ResponseWriter, req *RPCRequest) {
	var params sendParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid send parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	recipient, err := parseAddr(params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	tier, err := parseTier(params.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tier", err.Error())
		return
	}
	receipt, err := s.node.SendPrepared(caller, recipient, params.Subject, params.ContentID, tier)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, receiptResult(receipt))
}

func (s *Server) handleSendToEmail(w http.ResponseWriter, req *RPCRequest) {
	var params externalSendParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid send parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	tier, err := parseTier(params.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tier", err.Error())
		return
	}
	receipt, err := s.node.SendToEmailAddress(caller, params.Email, params.Subject, params.Body, tier)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, receiptResult(receipt))
}

func (s *Server) handleSendPreparedToEmail(w http.ResponseWriter, req *RPCRequest) {
	var params externalSendParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid send parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	tier, err := parseTier(params.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tier", err.Error())
		return
	}
	receipt, err := s.node.SendPreparedToEmailAddress(caller, params.Email, params.Subject, params.ContentID, tier)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, receiptResult(receipt))
}

func (s *Server) handleSendThroughWebhook(w http.ResponseWriter, req *RPCRequest) {
	var params externalSendParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid send parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	tier, err := parseTier(params.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tier", err.Error())
		return
	}
	receipt, err := s.node.SendThroughWebhook(caller, params.URL, params.Payload, tier)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, receiptResult(receipt))
}

type callerParams struct {
	Caller string `json:"caller"`
}

type claimResult struct {
	Amount string `json:"amount"`
}

func (s *Server) callerParam(w http.ResponseWriter, req *RPCRequest) ([20]byte, bool) {
	var params callerParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return [20]byte{}, false
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return [20]byte{}, false
	}
	return caller, true
}

func (s *Server) handleClaimRecipientShare(w http.ResponseWriter, req *RPCRequest) {
	caller, ok := s.callerParam(w, req)
	if !ok {
		return
	}
	amount, err := s.node.ClaimRecipientShare(caller)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(amount)})
}

func (s *Server) handleClaimOwnerShare(w http.ResponseWriter, req *RPCRequest) {
	caller, ok := s.callerParam(w, req)
	if !ok {
		return
	}
	amount, err := s.node.ClaimOwnerShare(caller)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(amount)})
}

type callerRecipientParams struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
}

func (s *Server) handleClaimExpiredShares(w http.ResponseWriter, req *RPCRequest) {
	var params callerRecipientParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	recipient, err := parseAddr(params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	amount, err := s.node.ClaimExpiredShares(caller, recipient)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(amount)})
}

type delegateParams struct {
	Caller    string `json:"caller"`
	Delegate  string `json:"delegate"`
	Delegator string `json:"delegator"`
}

func (s *Server) handleDelegateTo(w http.ResponseWriter, req *RPCRequest) {
	var params delegateParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	var delegate [20]byte
	if params.Delegate != "" {
		if delegate, err = parseAddr(params.Delegate); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid delegate address", err.Error())
			return
		}
	}
	if err := s.node.DelegateTo(caller, delegate); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleRejectDelegation(w http.ResponseWriter, req *RPCRequest) {
	var params delegateParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	delegator, err := parseAddr(params.Delegator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid delegator address", err.Error())
		return
	}
	if err := s.node.RejectDelegation(caller, delegator); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type permissionParams struct {
	Caller   string `json:"caller"`
	Contract string `json:"contract"`
}

func (s *Server) handleSetPermission(w http.ResponseWriter, req *RPCRequest) {
	var params permissionParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	contract, err := parseAddr(params.Contract)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid contract address", err.Error())
		return
	}
	if err := s.node.SetPermission(caller, contract); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleClearPermission(w http.ResponseWriter, req *RPCRequest) {
	var params permissionParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	contract, err := parseAddr(params.Contract)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid contract address", err.Error())
		return
	}
	if err := s.node.ClearPermission(caller, contract); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type approveParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

func (s *Server) handleApprove(w http.ResponseWriter, req *RPCRequest) {
	var params approveParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	amount, ok := new(big.Int).SetString(params.Amount, 10)
	if !ok || amount.Sign() < 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", params.Amount)
		return
	}
	if err := s.node.Approve(caller, amount); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type setFeeParams struct {
	Caller string `json:"caller"`
	Fee    uint64 `json:"fee"`
}

func (s *Server) handleSetFee(w http.ResponseWriter, req *RPCRequest) {
	var params setFeeParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.SetFee(caller, params.Fee); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleSetDelegationFee(w http.ResponseWriter, req *RPCRequest) {
	var params setFeeParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.SetDelegationFee(caller, params.Fee); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type discountParams struct {
	Caller  string `json:"caller"`
	Address string `json:"address"`
	Percent uint8  `json:"percent"`
}

func (s *Server) handleSetCustomFeeDiscount(w http.ResponseWriter, req *RPCRequest) {
	var params discountParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	addr, err := parseAddr(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid target address", err.Error())
		return
	}
	if err := s.node.SetCustomFeeDiscount(caller, addr, params.Percent); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type setOwnerParams struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"newOwner"`
}

func (s *Server) handleSetOwner(w http.ResponseWriter, req *RPCRequest) {
	var params setOwnerParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	newOwner, err := parseAddr(params.NewOwner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid new owner address", err.Error())
		return
	}
	if err := s.node.SetOwner(caller, newOwner); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handlePause(w http.ResponseWriter, req *RPCRequest) {
	caller, ok := s.callerParam(w, req)
	if !ok {
		return
	}
	if err := s.node.Pause(caller); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleUnpause(w http.ResponseWriter, req *RPCRequest) {
	caller, ok := s.callerParam(w, req)
	if !ok {
		return
	}
	if err := s.node.Unpause(caller); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleEmergencyUnpause(w http.ResponseWriter, req *RPCRequest) {
	caller, ok := s.callerParam(w, req)
	if !ok {
		return
	}
	if err := s.node.EmergencyUnpause(caller); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleDistributeClaimableFunds(w http.ResponseWriter, req *RPCRequest) {
	var params callerRecipientParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return
	}
	caller, err := parseAddr(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	recipient, err := parseAddr(params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	amount, err := s.node.DistributeClaimableFunds(caller, recipient)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(amount)})
}

type addressParams struct {
	Address string `json:"address"`
}

func (s *Server) addressParam(w http.ResponseWriter, req *RPCRequest) ([20]byte, bool) {
	var params addressParams
	if err := decodeObject(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
		return [20]byte{}, false
	}
	addr, err := parseAddr(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return [20]byte{}, false
	}
	return addr, true
}

type claimableResult struct {
	Recipient  string `json:"recipient"`
	Amount     string `json:"amount"`
	RecordedAt int64  `json:"recordedAt"`
	State      string `json:"state"`
}

func (s *Server) handleGetClaimable(w http.ResponseWriter, req *RPCRequest) {
	addr, ok := s.addressParam(w, req)
	if !ok {
		return
	}
	record, found, err := s.node.Claimable(addr)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !found {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, claimableResult{
		Recipient:  encodeAddr(record.Recipient),
		Amount:     amountString(record.Amount),
		RecordedAt: record.RecordedAt,
		State:      record.StateAt(s.node.Now()).String(),
	})
}

func (s *Server) handleGetDelegation(w http.ResponseWriter, req *RPCRequest) {
	addr, ok := s.addressParam(w, req)
	if !ok {
		return
	}
	delegate, found, err := s.node.Delegation(addr)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !found {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, map[string]string{"delegate": encodeAddr(delegate)})
}

func (s *Server) handleGetPermission(w http.ResponseWriter, req *RPCRequest) {
	addr, ok := s.addressParam(w, req)
	if !ok {
		return
	}
	sponsor, found, err := s.node.Permission(addr)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !found {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, map[string]string{"sponsor": encodeAddr(sponsor)})
}

type feeConfigResult struct {
	BaseSendFee   uint64 `json:"baseSendFee"`
	DelegationFee uint64 `json:"delegationFee"`
}

func (s *Server) handleGetFeeConfig(w http.ResponseWriter, req *RPCRequest) {
	cfg, err := s.node.FeeConfig()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, feeConfigResult{BaseSendFee: cfg.BaseSendFee, DelegationFee: cfg.DelegationFee})
}

func (s *Server) handleBalance(w http.ResponseWriter, req *RPCRequest) {
	addr, ok := s.addressParam(w, req)
	if !ok {
		return
	}
	balance, err := s.node.Balance(addr)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(balance)})
}

func (s *Server) handleAllowance(w http.ResponseWriter, req *RPCRequest) {
	addr, ok := s.addressParam(w, req)
	if !ok {
		return
	}
	allowance, err := s.node.Allowance(addr)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(allowance)})
}

func (s *Server) handleOwnerPool(w http.ResponseWriter, req *RPCRequest) {
	pool, err := s.node.OwnerPool()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, claimResult{Amount: amountString(pool)})
}

func (s *Server) handlePaused(w http.ResponseWriter, req *RPCRequest) {
	paused, err := s.node.Paused()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, paused)
}

type eventsParams struct {
	Limit int `json:"limit"`
}

func (s *Server) handleEventsLatest(w http.ResponseWriter, req *RPCRequest) {
	var params eventsParams
	if len(req.Params) > 0 {
		if err := decodeObject(req, &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameters", err.Error())
			return
		}
	}
	writeResult(w, req.ID, s.node.EventsLatest(params.Limit))
}
