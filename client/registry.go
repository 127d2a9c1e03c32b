package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/statechannels/clientsdk/msg"
	"golang.org/x/sync/singleflight"
)

// detailsFetcher issues the details-fetch call the registry uses on a cache
// miss without a hint.
type detailsFetcher interface {
	Call(ctx context.Context, method msg.Method, params interface{}) (json.RawMessage, error)
}

// Registry is a get-or-create cache of app instance records keyed by identity
// hash. It never holds two records for the same id, and a cached record is
// never replaced: later hints are ignored.
type Registry struct {
	fetcher detailsFetcher

	// group deduplicates concurrent details fetches for the same id so a
	// second caller attaches to the in-flight fetch.
	group singleflight.Group

	// mu guards records.
	mu      sync.Mutex
	records map[string]msg.AppInstanceRecord
}

// NewRegistry constructs a registry fetching uncached details through f.
func NewRegistry(f detailsFetcher) *Registry {
	return &Registry{
		fetcher: f,
		records: map[string]msg.AppInstanceRecord{},
	}
}

// GetOrCreate returns the record for the id, in order of preference: the
// cached record, a record built from the hint, or a record built from a
// details fetch through the node.
func (r *Registry) GetOrCreate(ctx context.Context, id string, hint *msg.AppInstanceRecord) (msg.AppInstanceRecord, error) {
	if id == "" {
		return msg.AppInstanceRecord{}, errors.New("app instance id is empty")
	}

	r.mu.Lock()
	if record, ok := r.records[id]; ok {
		r.mu.Unlock()
		return record, nil
	}
	if hint != nil {
		record := *hint
		record.IdentityHash = id
		r.records[id] = record
		r.mu.Unlock()
		return record, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		// A racing caller may have populated the cache while this caller was
		// waiting its turn on the group.
		r.mu.Lock()
		record, ok := r.records[id]
		r.mu.Unlock()
		if ok {
			return record, nil
		}
		return r.fetch(ctx, id)
	})
	if err != nil {
		return msg.AppInstanceRecord{}, err
	}
	return v.(msg.AppInstanceRecord), nil
}

func (r *Registry) fetch(ctx context.Context, id string) (msg.AppInstanceRecord, error) {
	payload, err := r.fetcher.Call(ctx, msg.MethodGetAppInstanceDetails, msg.GetAppInstanceDetailsParams{AppInstanceID: id})
	if err != nil {
		return msg.AppInstanceRecord{}, fmt.Errorf("fetching details for %s: %w", id, err)
	}
	result := msg.GetAppInstanceDetailsResult{}
	err = json.Unmarshal(payload, &result)
	if err != nil {
		return msg.AppInstanceRecord{}, fmt.Errorf("decoding details for %s: %w", id, err)
	}
	if result.AppInstance == nil {
		return msg.AppInstanceRecord{}, fmt.Errorf("details for %s carry no app instance", id)
	}
	record := *result.AppInstance
	if record.IdentityHash == "" {
		record.IdentityHash = id
	}
	r.mu.Lock()
	r.records[id] = record
	r.mu.Unlock()
	return record, nil
}

// Cached returns the cached record for the id without fetching.
func (r *Registry) Cached(id string) (msg.AppInstanceRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	return record, ok
}

// Records returns every cached record ordered by identity hash.
func (r *Registry) Records() []msg.AppInstanceRecord {
	r.mu.Lock()
	records := make([]msg.AppInstanceRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	r.mu.Unlock()
	sort.Slice(records, func(i, j int) bool { return records[i].IdentityHash < records[j].IdentityHash })
	return records
}
