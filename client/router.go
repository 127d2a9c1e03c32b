package client

import (
	"encoding/json"
	"fmt"

	"github.com/statechannels/clientsdk/msg"
)

// handleMessage is the single handler registered on the transport. Every
// inbound message has exactly one of three outcomes: error handling,
// settlement of a correlated call, or uncorrelated event dispatch. No message
// stops the loop.
func (c *Client) handleMessage(raw []byte) {
	in, err := msg.Classify(raw)
	if err != nil {
		fmt.Fprintf(c.logWriter, "dropping undecodable message: %v\n", err)
		return
	}

	switch in.Kind {
	case msg.KindError:
		c.handleError(in)
	case msg.KindResponse:
		c.handleResponse(in, raw)
	case msg.KindEvent:
		c.dispatchEvent(in)
	}
}

// handleError fails the correlated call, if one is awaiting the id, and
// always republishes the error on the general event stream. Callers need the
// local failure, other observers need the global visibility.
func (c *Client) handleError(in msg.Inbound) {
	payload := in.Result
	if len(payload) == 0 {
		payload = in.Data
	}
	nodeErr := &NodeError{Data: payload}
	if in.HasID {
		c.settle(in.ID, callResult{err: nodeErr})
	}
	c.publish(Event{Type: msg.EventError, Data: payload, Err: nodeErr})
}

// handleResponse settles the pending call matching the response's id. A
// response with no matching pending entry is orphaned, which is never fatal:
// it is republished as a structured error event.
func (c *Client) handleResponse(in msg.Inbound, raw []byte) {
	p := c.take(in.ID)
	if p == nil {
		fmt.Fprintf(c.logWriter, "orphaned response for id %d\n", in.ID)
		data, err := json.Marshal(msg.OrphanedResponseEventData{
			Name: "orphaned_response",
			ID:   in.ID,
			Raw:  raw,
		})
		if err != nil {
			data = nil
		}
		c.publish(Event{Type: msg.EventError, Data: data})
		return
	}
	if in.Type != string(p.method) {
		p.result <- callResult{err: &UnexpectedMessageTypeError{Method: p.method, Got: in.Type}}
		return
	}
	p.result <- callResult{payload: in.Result}
}
