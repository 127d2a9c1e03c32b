// Package msg contains the wire envelopes exchanged between the client and a
// state channel node, and the classification of inbound messages into the
// three kinds the client understands: error notifications, correlated
// responses, and uncorrelated events.
package msg

import (
	"encoding/json"
	"fmt"
)

// Method is the name of an RPC method the node understands.
type Method string

const (
	MethodInstall                  Method = "install"
	MethodInstallVirtual           Method = "installVirtual"
	MethodRejectInstall            Method = "rejectInstall"
	MethodCreateChannel            Method = "createChannel"
	MethodDeployStateDepositHolder Method = "deployStateDepositHolder"
	MethodDeposit                  Method = "deposit"
	MethodWithdraw                 Method = "withdraw"
	MethodGetFreeBalanceState      Method = "getFreeBalanceState"
	MethodGetAppInstanceDetails    Method = "getAppInstanceDetails"
)

var methods = map[Method]bool{
	MethodInstall:                  true,
	MethodInstallVirtual:           true,
	MethodRejectInstall:            true,
	MethodCreateChannel:            true,
	MethodDeployStateDepositHolder: true,
	MethodDeposit:                  true,
	MethodWithdraw:                 true,
	MethodGetFreeBalanceState:      true,
	MethodGetAppInstanceDetails:    true,
}

// Valid reports whether the method is one the node recognizes.
func (m Method) Valid() bool {
	return methods[m]
}

// EventName is the name of an event published by the node or synthesized by
// the client. Business events the client does not recognize pass through
// verbatim under their own name.
type EventName string

const (
	EventInstall        EventName = "install"
	EventInstallVirtual EventName = "installVirtual"
	EventRejectInstall  EventName = "rejectInstall"
	EventError          EventName = "error"
)

// Request is the envelope of an outbound RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  Method          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      uint64          `json:"id"`
}

// NewRequest builds a request envelope for the method, marshaling params to
// JSON. A nil params produces a request with no params field.
func NewRequest(id uint64, method Method, params interface{}) (Request, error) {
	req := Request{JSONRPC: "2.0", Method: method, ID: id}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return Request{}, fmt.Errorf("marshaling params for %s: %w", method, err)
		}
		req.Params = raw
	}
	return req, nil
}

// Result is the typed head of an RPC response payload. Type carries the
// method name the result answers, or "error" for node errors.
type Result struct {
	Type string `json:"type"`
}

// Kind classifies an inbound message.
type Kind int

const (
	// KindError is an error notification, correlated or not.
	KindError Kind = iota
	// KindResponse is a response correlated to a request by id.
	KindResponse
	// KindEvent is an uncorrelated event.
	KindEvent
)

// Inbound is the tagged union of everything the node may deliver. The fields
// that are meaningful depend on Kind.
type Inbound struct {
	Kind Kind

	// ID is set, with HasID, for responses and for error notifications that
	// carry a correlation id.
	ID    uint64
	HasID bool

	// Type is the extracted type tag: result.type for RPC-shaped messages,
	// the top-level type otherwise.
	Type string

	// Result is the raw result payload of an RPC-shaped message.
	Result json.RawMessage

	// Data is the data payload of a plain event.
	Data json.RawMessage
}

// envelope is the superset shape of every message the node sends.
type envelope struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Type    EventName       `json:"type,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	ID      *uint64         `json:"id,omitempty"`
}

// Classify parses a raw inbound message and classifies it. The precedence is
// fixed: an error type tag wins, then the presence of a correlation id, then
// event dispatch.
func Classify(raw []byte) (Inbound, error) {
	env := envelope{}
	err := json.Unmarshal(raw, &env)
	if err != nil {
		return Inbound{}, fmt.Errorf("decoding message: %w", err)
	}

	in := Inbound{Data: env.Data}
	if env.ID != nil {
		in.ID = *env.ID
		in.HasID = true
	}

	if len(env.Result) > 0 {
		result := Result{}
		err = json.Unmarshal(env.Result, &result)
		if err != nil {
			return Inbound{}, fmt.Errorf("decoding result: %w", err)
		}
		in.Type = result.Type
		in.Result = env.Result
	} else {
		in.Type = string(env.Type)
	}

	switch {
	case in.Type == string(EventError):
		in.Kind = KindError
	case in.HasID:
		in.Kind = KindResponse
	default:
		in.Kind = KindEvent
	}
	return in, nil
}

// Event is the envelope of a plain event notification.
type Event struct {
	Type EventName       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// AppInstanceRecord describes an installed app instance. Records are unique
// per identity hash and owned by the client's registry.
type AppInstanceRecord struct {
	IdentityHash   string   `json:"identityHash"`
	Owners         []string `json:"owners,omitempty"`
	AppDefinition  string   `json:"appDefinition,omitempty"`
	MyDeposit      string   `json:"myDeposit,omitempty"`
	PeerDeposit    string   `json:"peerDeposit,omitempty"`
	Timeout        uint64   `json:"timeout,omitempty"`
	Intermediaries []string `json:"intermediaries,omitempty"`
}
