// Package client contains a client-side runtime for a state channel node. The
// Client correlates asynchronous requests and responses over an injected
// transport, enforces per-request timeouts, routes the node's events to typed
// topic subscribers, and maintains a registry giving each installed app
// instance a single authoritative in-memory record.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/statechannels/clientsdk/msg"
)

// RequestTimeout is the default time budget a call waits for its response.
const RequestTimeout = 30 * time.Second

// Transport delivers serialized messages to and from the node. Delivery is
// at-least-once with no ordering guarantee. OnMessage supports a single
// handler registration.
type Transport interface {
	SendMessage(data []byte) error
	OnMessage(handler func(data []byte))
}

// Config contains the information that can be supplied to configure the
// Client at construction.
type Config struct {
	Transport Transport

	// RequestTimeout overrides the default per-request timeout when non-zero.
	RequestTimeout time.Duration

	LogWriter io.Writer
}

// NewClient constructs a client over the given transport and registers its
// message handler on it.
func NewClient(c Config) *Client {
	client := &Client{
		transport:      c.Transport,
		requestTimeout: c.RequestTimeout,
		logWriter:      c.LogWriter,
		pending:        map[uint64]*pendingRequest{},
		subs:           map[msg.EventName][]subscription{},
	}
	if client.requestTimeout == 0 {
		client.requestTimeout = RequestTimeout
	}
	if client.logWriter == nil {
		client.logWriter = io.Discard
	}
	client.registry = NewRegistry(client)
	client.transport.OnMessage(client.handleMessage)
	return client
}

// Client is the runtime coordinating calls, events, and the app instance
// registry over one transport.
//
// All functions of the Client are safe to call from multiple goroutines as it
// uses an internal mutex.
type Client struct {
	transport      Transport
	requestTimeout time.Duration
	logWriter      io.Writer

	registry *Registry

	nextID uint64

	// mu is a lock for the mutable fields of this type. It should be locked
	// when reading or writing any of the mutable fields. The mutable fields
	// are listed below.
	mu      sync.Mutex
	pending map[uint64]*pendingRequest
	subs    map[msg.EventName][]subscription
}

// pendingRequest is a call awaiting its response. It is owned by the pending
// table and settles exactly once: removal from the table is the sole
// double-settle guard.
type pendingRequest struct {
	id      uint64
	method  msg.Method
	request msg.Request
	result  chan callResult
	timer   *time.Timer
}

type callResult struct {
	payload json.RawMessage
	err     error
}

// Registry returns the client's app instance registry.
func (c *Client) Registry() *Registry {
	return c.registry
}

// Call issues a request for the method and waits for the correlated response,
// the request timeout, or ctx cancellation, whichever settles the call first.
// An unresolvable method fails immediately without touching the transport.
func (c *Client) Call(ctx context.Context, method msg.Method, params interface{}) (json.RawMessage, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, method)
	}

	id := atomic.AddUint64(&c.nextID, 1)
	req, err := msg.NewRequest(id, method, params)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request %d: %w", id, err)
	}

	p := &pendingRequest{
		id:      id,
		method:  method,
		request: req,
		result:  make(chan callResult, 1),
	}
	c.mu.Lock()
	c.pending[id] = p
	// Armed under the lock so the firing callback, which settles through the
	// same lock, always observes the timer.
	p.timer = time.AfterFunc(c.requestTimeout, func() {
		c.settle(id, callResult{err: &TimeoutError{Request: req}})
	})
	c.mu.Unlock()

	fmt.Fprintf(c.logWriter, "sending request %d %s\n", id, method)
	err = c.transport.SendMessage(data)
	if err != nil {
		c.take(id)
		return nil, fmt.Errorf("sending request %d: %w", id, err)
	}

	select {
	case res := <-p.result:
		return res.payload, res.err
	case <-ctx.Done():
		if c.take(id) != nil {
			return nil, ctx.Err()
		}
		// A response or timeout settled the call between ctx firing and the
		// entry being taken.
		res := <-p.result
		return res.payload, res.err
	}
}

// take removes the pending entry for the id and stops its timer. It returns
// nil if the call already settled.
func (c *Client) take(id uint64) *pendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	if p.timer != nil {
		p.timer.Stop()
	}
	return p
}

// settle delivers the result to the pending call for the id, if it is still
// pending. It reports whether a call was settled.
func (c *Client) settle(id uint64, res callResult) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	p.result <- res
	return true
}

// Snapshot is a point-in-time view of the client's observable state.
type Snapshot struct {
	PendingRequestIDs []uint64
	AppInstances      []msg.AppInstanceRecord
}

// Snapshot returns the ids of the in-flight calls and the cached app
// instance records.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	ids := make([]uint64, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return Snapshot{
		PendingRequestIDs: ids,
		AppInstances:      c.registry.Records(),
	}
}
