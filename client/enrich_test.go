package client

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/statechannels/clientsdk/msg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("no event published within 5s")
		return Event{}
	}
}

func TestEnrich_installResolvesViaFetch(t *testing.T) {
	transport := newFakeTransport()
	c := NewClient(Config{Transport: transport, LogWriter: &strings.Builder{}})

	installs := make(chan Event, 2)
	c.On(msg.EventInstall, func(e Event) { installs <- e })

	transport.deliver(t, msg.Event{Type: msg.EventInstall, Data: json.RawMessage(`{"appInstanceId":"0x1"}`)})

	// The enrichment issues exactly one details fetch for the uncached id.
	req := transport.waitForRequest(t)
	require.Equal(t, msg.MethodGetAppInstanceDetails, req.Method)
	params := msg.GetAppInstanceDetailsParams{}
	require.NoError(t, json.Unmarshal(req.Params, &params))
	require.Equal(t, "0x1", params.AppInstanceID)

	transport.deliver(t, response(req.ID, "getAppInstanceDetails", map[string]interface{}{
		"appInstance": msg.AppInstanceRecord{IdentityHash: "0x1", AppDefinition: "0xD"},
	}))

	e := waitForEvent(t, installs)
	require.NotNil(t, e.AppInstance)
	assert.Equal(t, "0x1", e.AppInstance.IdentityHash)
	assert.Equal(t, "0xD", e.AppInstance.AppDefinition)

	// A second install event for the same id resolves from the cache with no
	// additional fetch.
	sentBefore := transport.sentCount()
	transport.deliver(t, msg.Event{Type: msg.EventInstall, Data: json.RawMessage(`{"appInstanceId":"0x1"}`)})
	e = waitForEvent(t, installs)
	require.NotNil(t, e.AppInstance)
	assert.Equal(t, "0x1", e.AppInstance.IdentityHash)
	assert.Equal(t, sentBefore, transport.sentCount())
}

func TestEnrich_installVirtualIdNestedDeeper(t *testing.T) {
	transport := newFakeTransport()
	c := NewClient(Config{Transport: transport, LogWriter: &strings.Builder{}})

	installs := make(chan Event, 2)
	c.On(msg.EventInstallVirtual, func(e Event) { installs <- e })

	transport.deliver(t, msg.Event{Type: msg.EventInstallVirtual, Data: json.RawMessage(`{"params":{"appInstanceId":"0x2"}}`)})

	req := transport.waitForRequest(t)
	require.Equal(t, msg.MethodGetAppInstanceDetails, req.Method)

	transport.deliver(t, response(req.ID, "getAppInstanceDetails", map[string]interface{}{
		"appInstance": msg.AppInstanceRecord{IdentityHash: "0x2"},
	}))

	e := waitForEvent(t, installs)
	require.NotNil(t, e.AppInstance)
	assert.Equal(t, "0x2", e.AppInstance.IdentityHash)

	// Cached now, so the next virtual install for the id fetches nothing.
	sentBefore := transport.sentCount()
	transport.deliver(t, msg.Event{Type: msg.EventInstallVirtual, Data: json.RawMessage(`{"params":{"appInstanceId":"0x2"}}`)})
	e = waitForEvent(t, installs)
	require.NotNil(t, e.AppInstance)
	assert.Equal(t, sentBefore, transport.sentCount())
}

func TestEnrich_rejectInstallUsesSuppliedDetails(t *testing.T) {
	transport := newFakeTransport()
	c := NewClient(Config{Transport: transport, LogWriter: &strings.Builder{}})

	rejects := make(chan Event, 1)
	c.On(msg.EventRejectInstall, func(e Event) { rejects <- e })

	transport.deliver(t, msg.Event{Type: msg.EventRejectInstall, Data: json.RawMessage(`{"appInstance":{"identityHash":"0xABC","appDefinition":"0xD"}}`)})

	e := waitForEvent(t, rejects)
	require.NotNil(t, e.AppInstance)
	assert.Equal(t, "0xABC", e.AppInstance.IdentityHash)

	// The original payload is republished and no fetch was issued.
	eventData := msg.RejectInstallEventData{}
	require.NoError(t, json.Unmarshal(e.Data, &eventData))
	require.NotNil(t, eventData.AppInstance)
	assert.Equal(t, "0xABC", eventData.AppInstance.IdentityHash)
	assert.Equal(t, 0, transport.sentCount())

	// The record is registered under its identity hash.
	record, ok := c.Registry().Cached("0xABC")
	require.True(t, ok)
	assert.Equal(t, "0xD", record.AppDefinition)
}

func TestEnrich_missingIdPublishesError(t *testing.T) {
	transport := newFakeTransport()
	c := NewClient(Config{Transport: transport, LogWriter: &strings.Builder{}})

	errorEvents := make(chan Event, 1)
	c.On(msg.EventError, func(e Event) { errorEvents <- e })

	transport.deliver(t, msg.Event{Type: msg.EventInstall, Data: json.RawMessage(`{}`)})

	e := waitForEvent(t, errorEvents)
	require.Error(t, e.Err)
	assert.Equal(t, 0, transport.sentCount())
}
