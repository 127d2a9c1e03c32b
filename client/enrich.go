package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/statechannels/clientsdk/msg"
)

// dispatchEvent routes an uncorrelated event. Install, virtual install, and
// reject-install events are enriched asynchronously so the router keeps
// processing subsequent messages; everything else republishes verbatim in
// arrival order. Two racing enrichments have no relative-ordering guarantee.
func (c *Client) dispatchEvent(in msg.Inbound) {
	name := msg.EventName(in.Type)
	switch name {
	case msg.EventInstall:
		go c.enrichInstall(name, in.Data)
	case msg.EventInstallVirtual:
		go c.enrichInstallVirtual(name, in.Data)
	case msg.EventRejectInstall:
		go c.enrichRejectInstall(in.Data)
	default:
		c.publish(Event{Type: name, Data: in.Data})
	}
}

// enrichInstall resolves the app instance id embedded in an install event and
// republishes the event carrying the resolved record, never the raw id.
func (c *Client) enrichInstall(name msg.EventName, data json.RawMessage) {
	eventData := msg.InstallEventData{}
	err := json.Unmarshal(data, &eventData)
	if err == nil && eventData.AppInstanceID == "" {
		err = fmt.Errorf("%s event carries no app instance id", name)
	}
	if err != nil {
		c.publishEnrichmentFailure(name, data, err)
		return
	}
	c.resolveAndPublish(name, data, eventData.AppInstanceID)
}

// enrichInstallVirtual is the install enrichment for virtual installs, where
// the id sits one level deeper under a secondary params field.
func (c *Client) enrichInstallVirtual(name msg.EventName, data json.RawMessage) {
	eventData := msg.InstallVirtualEventData{}
	err := json.Unmarshal(data, &eventData)
	if err == nil && eventData.Params.AppInstanceID == "" {
		err = fmt.Errorf("%s event carries no app instance id", name)
	}
	if err != nil {
		c.publishEnrichmentFailure(name, data, err)
		return
	}
	c.resolveAndPublish(name, data, eventData.Params.AppInstanceID)
}

func (c *Client) resolveAndPublish(name msg.EventName, data json.RawMessage, id string) {
	record, err := c.registry.GetOrCreate(context.Background(), id, nil)
	if err != nil {
		c.publishEnrichmentFailure(name, data, fmt.Errorf("resolving app instance %s: %w", id, err))
		return
	}
	c.publish(Event{Type: name, Data: data, AppInstance: &record})
}

// enrichRejectInstall registers the full instance details carried by a
// reject-install event and republishes. The installation never completed
// node-side, so no details fetch is ever issued.
func (c *Client) enrichRejectInstall(data json.RawMessage) {
	eventData := msg.RejectInstallEventData{}
	err := json.Unmarshal(data, &eventData)
	if err == nil && (eventData.AppInstance == nil || eventData.AppInstance.IdentityHash == "") {
		err = fmt.Errorf("%s event carries no app instance details", msg.EventRejectInstall)
	}
	if err != nil {
		c.publishEnrichmentFailure(msg.EventRejectInstall, data, err)
		return
	}
	record, err := c.registry.GetOrCreate(context.Background(), eventData.AppInstance.IdentityHash, eventData.AppInstance)
	if err != nil {
		c.publishEnrichmentFailure(msg.EventRejectInstall, data, err)
		return
	}
	c.publish(Event{Type: msg.EventRejectInstall, Data: data, AppInstance: &record})
}

func (c *Client) publishEnrichmentFailure(name msg.EventName, data json.RawMessage, err error) {
	fmt.Fprintf(c.logWriter, "enriching %s event: %v\n", name, err)
	c.publish(Event{Type: msg.EventError, Data: data, Err: err})
}
