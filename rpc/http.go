package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"relaychain/core"
	"relaychain/native/common"
	"relaychain/native/delegation"
	"relaychain/native/ledger"
	"relaychain/native/messaging"
	"relaychain/native/permission"
	"relaychain/native/revshare"
	"relaychain/native/system"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
	requestsPerSec  = 25
	requestBurst    = 50
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeForbidden      = -32002
	codeServerError    = -32000
	codeRateLimited    = -32020
	codePaused         = -32030
	codeLedgerError    = -32050
)

type Server struct {
	node *core.Node

	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	token    string
}

func NewServer(node *core.Node) *Server {
	return &Server{
		node:     node,
		visitors: make(map[string]*rate.Limiter),
		token:    strings.TrimSpace(os.Getenv("RELAY_RPC_TOKEN")),
	}
}

// Router builds the HTTP mux with the JSON-RPC endpoint plus health and
// metrics surfaces.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/", s.handle)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj})
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

// writeLedgerError maps domain sentinels onto JSON-RPC error codes so
// clients can branch without parsing messages.
func writeLedgerError(w http.ResponseWriter, id interface{}, err error) {
	code := codeLedgerError
	status := http.StatusOK
	switch {
	case errors.Is(err, common.ErrPaused):
		code = codePaused
	case errors.Is(err, common.ErrOnlyOwner),
		errors.Is(err, delegation.ErrNotDelegate),
		errors.Is(err, permission.ErrNotSponsor):
		code = codeForbidden
		status = http.StatusForbidden
	case errors.Is(err, messaging.ErrEmptySubject),
		errors.Is(err, messaging.ErrSubjectTooLong),
		errors.Is(err, messaging.ErrEmptyBody),
		errors.Is(err, messaging.ErrBodyTooLong),
		errors.Is(err, messaging.ErrEmptyContentID),
		errors.Is(err, messaging.ErrContentIDTooLong),
		errors.Is(err, messaging.ErrZeroRecipient),
		errors.Is(err, messaging.ErrInvalidEmail),
		errors.Is(err, messaging.ErrInvalidWebhookURL):
		code = codeInvalidParams
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrQuotaSendsExceeded),
		errors.Is(err, common.ErrQuotaRecipientExceeded):
		code = codeRateLimited
		status = http.StatusTooManyRequests
	case errors.Is(err, revshare.ErrNoClaimableAmount),
		errors.Is(err, revshare.ErrClaimPeriodNotExpired),
		errors.Is(err, system.ErrNotPaused),
		errors.Is(err, system.ErrAlreadyPaused),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientAllowance),
		errors.Is(err, ledger.ErrInsufficientPoolBalance),
		errors.Is(err, core.ErrPermissionUnsupported):
		code = codeLedgerError
	default:
		code = codeServerError
		status = http.StatusInternalServerError
	}
	writeError(w, status, id, code, err.Error(), nil)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() { _ = reader.Close() }()

	w.Header().Set("Content-Type", "application/json")

	if !s.allow(clientID(r)) {
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "too many requests", nil)
		return
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	switch req.Method {
	case "relay_send":
		s.handleSend(w, req)
	case "relay_sendPrepared":
		s.handleSendPrepared(w, req)
	case "relay_sendToEmail":
		s.handleSendToEmail(w, req)
	case "relay_sendPreparedToEmail":
		s.handleSendPreparedToEmail(w, req)
	case "relay_sendThroughWebhook":
		s.handleSendThroughWebhook(w, req)
	case "relay_claimRecipientShare":
		s.handleClaimRecipientShare(w, req)
	case "relay_claimOwnerShare":
		s.handleClaimOwnerShare(w, req)
	case "relay_claimExpiredShares":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleClaimExpiredShares(w, req)
	case "relay_delegateTo":
		s.handleDelegateTo(w, req)
	case "relay_rejectDelegation":
		s.handleRejectDelegation(w, req)
	case "relay_setPermission":
		s.handleSetPermission(w, req)
	case "relay_clearPermission":
		s.handleClearPermission(w, req)
	case "relay_approve":
		s.handleApprove(w, req)
	case "relay_setFee":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleSetFee(w, req)
	case "relay_setDelegationFee":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleSetDelegationFee(w, req)
	case "relay_setCustomFeeDiscount":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleSetCustomFeeDiscount(w, req)
	case "relay_setOwner":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleSetOwner(w, req)
	case "relay_pause":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePause(w, req)
	case "relay_unpause":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleUnpause(w, req)
	case "relay_emergencyUnpause":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleEmergencyUnpause(w, req)
	case "relay_distributeClaimableFunds":
		s.handleDistributeClaimableFunds(w, req)
	case "relay_getClaimable":
		s.handleGetClaimable(w, req)
	case "relay_getDelegation":
		s.handleGetDelegation(w, req)
	case "relay_getPermission":
		s.handleGetPermission(w, req)
	case "relay_getFeeConfig":
		s.handleGetFeeConfig(w, req)
	case "relay_balance":
		s.handleBalance(w, req)
	case "relay_allowance":
		s.handleAllowance(w, req)
	case "relay_ownerPool":
		s.handleOwnerPool(w, req)
	case "relay_paused":
		s.handlePaused(w, req)
	case "relay_eventsLatest":
		s.handleEventsLatest(w, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
	}
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

func (s *Server) allow(id string) bool {
	s.mu.Lock()
	limiter, ok := s.visitors[id]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSec), requestBurst)
		s.visitors[id] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
