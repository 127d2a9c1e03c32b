package client

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/statechannels/clientsdk/msg"
)

// Event is a fully-hydrated event published to subscribers. AppInstance is
// set for install, virtual install, and reject-install events; Err is set for
// error events.
type Event struct {
	Type        msg.EventName
	Data        json.RawMessage
	AppInstance *msg.AppInstanceRecord
	Err         error
}

// EventHandler receives events published for a topic.
type EventHandler func(Event)

type subscription struct {
	id      uuid.UUID
	handler EventHandler
	once    bool
}

// On subscribes the handler to the topic. Handlers for a topic are invoked in
// registration order. The returned id unsubscribes via Off.
func (c *Client) On(topic msg.EventName, handler EventHandler) uuid.UUID {
	return c.subscribe(topic, handler, false)
}

// Once subscribes the handler to the topic for a single invocation.
func (c *Client) Once(topic msg.EventName, handler EventHandler) uuid.UUID {
	return c.subscribe(topic, handler, true)
}

func (c *Client) subscribe(topic msg.EventName, handler EventHandler, once bool) uuid.UUID {
	id := uuid.New()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[topic] = append(c.subs[topic], subscription{id: id, handler: handler, once: once})
	return id
}

// Off removes the subscription with the id from the topic. Removing an
// unknown id is a no-op.
func (c *Client) Off(topic msg.EventName, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	subs := c.subs[topic]
	for i, s := range subs {
		if s.id == id {
			c.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// publish invokes the topic's handlers in registration order, dropping
// once-subscriptions before their single invocation.
func (c *Client) publish(e Event) {
	c.mu.Lock()
	subs := c.subs[e.Type]
	invoked := make([]subscription, len(subs))
	copy(invoked, subs)
	remaining := subs[:0:0]
	for _, s := range subs {
		if !s.once {
			remaining = append(remaining, s)
		}
	}
	c.subs[e.Type] = remaining
	c.mu.Unlock()

	for _, s := range invoked {
		s.handler(e)
	}
}
