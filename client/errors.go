package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/statechannels/clientsdk/msg"
)

// ErrMalformedRequest indicates a call was made with a method name the node
// does not recognize. The request never reaches the transport.
var ErrMalformedRequest = errors.New("malformed request: unresolvable method")

// TimeoutError indicates no response arrived within the request timeout. It
// carries the original request that went unanswered.
type TimeoutError struct {
	Request msg.Request
}

func (e *TimeoutError) Error() string {
	serialized, err := json.Marshal(e.Request)
	if err != nil {
		return fmt.Sprintf("request %d timed out", e.Request.ID)
	}
	return fmt.Sprintf("request timed out: %s", serialized)
}

// UnexpectedMessageTypeError indicates a response arrived for a call but its
// result type does not match the method that was requested.
type UnexpectedMessageTypeError struct {
	Method msg.Method
	Got    string
}

func (e *UnexpectedMessageTypeError) Error() string {
	return fmt.Sprintf("unexpected message type: requested %q, response carries %q", e.Method, e.Got)
}

// NodeError is an explicit error reported by the node. Data carries the raw
// error payload.
type NodeError struct {
	Data json.RawMessage
}

func (e *NodeError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("node error: %s", e.Data)
	}
	return "node error"
}
