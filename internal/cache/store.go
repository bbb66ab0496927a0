package cache

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the key/value surface the services depend on. Implementations are
// advisory: a miss is always safe and errors are downgraded by callers.
type Store interface {
	Get(key Key) ([]byte, bool, error)
	Set(key Key, value []byte) error
	Delete(keys ...Key) error
	// PurgeClass evicts every entry of a resource class (wildcard eviction).
	PurgeClass(class Class) error
	// DeleteScoped evicts every entry, in any class, whose key carries the
	// given parameter (e.g. all keys scoped to a user id).
	DeleteScoped(param string) error
}

// ClassPolicy fixes TTL and capacity for one resource class.
type ClassPolicy struct {
	TTL        time.Duration
	MaxEntries int
}

// Policies maps every resource class to its policy.
type Policies map[Class]ClassPolicy

// DefaultPolicies returns the per-class TTLs: search results are short-lived,
// per-user snapshots medium, hotel reference data long.
func DefaultPolicies() Policies {
	return Policies{
		ClassSearch:        {TTL: 3 * time.Minute, MaxEntries: 512},
		ClassUserBookings:  {TTL: 5 * time.Minute, MaxEntries: 1024},
		ClassBookingDetail: {TTL: 5 * time.Minute, MaxEntries: 2048},
		ClassUserRooms:     {TTL: 5 * time.Minute, MaxEntries: 1024},
		ClassRoomDetail:    {TTL: 10 * time.Minute, MaxEntries: 2048},
		ClassHotel:         {TTL: time.Hour, MaxEntries: 256},
	}
}

// LRUStore partitions entries by resource class, one expiring LRU per class so
// each class gets its own TTL and a bounded key cardinality. Partitioning also
// keeps wildcard eviction of search results a scan over the search partition
// only.
type LRUStore struct {
	partitions map[Class]*expirable.LRU[string, []byte]
}

// NewLRUStore builds a store for the given policies; classes missing from the
// policy set fall back to the defaults.
func NewLRUStore(policies Policies) *LRUStore {
	defaults := DefaultPolicies()
	partitions := make(map[Class]*expirable.LRU[string, []byte], len(Classes))
	for _, class := range Classes {
		policy, ok := policies[class]
		if !ok {
			policy = defaults[class]
		}
		if policy.TTL <= 0 {
			policy.TTL = defaults[class].TTL
		}
		if policy.MaxEntries <= 0 {
			policy.MaxEntries = defaults[class].MaxEntries
		}
		partitions[class] = expirable.NewLRU[string, []byte](policy.MaxEntries, nil, policy.TTL)
	}
	return &LRUStore{partitions: partitions}
}

// Get returns the cached value for the key, if present and unexpired.
func (s *LRUStore) Get(key Key) ([]byte, bool, error) {
	partition, err := s.partition(key.Class)
	if err != nil {
		return nil, false, err
	}
	value, ok := partition.Get(key.String())
	return value, ok, nil
}

// Set stores the value under the key with the class TTL.
func (s *LRUStore) Set(key Key, value []byte) error {
	partition, err := s.partition(key.Class)
	if err != nil {
		return err
	}
	partition.Add(key.String(), value)
	return nil
}

// Delete evicts the given keys. Missing keys are ignored.
func (s *LRUStore) Delete(keys ...Key) error {
	for _, key := range keys {
		partition, err := s.partition(key.Class)
		if err != nil {
			return err
		}
		partition.Remove(key.String())
	}
	return nil
}

// PurgeClass evicts every entry of the class.
func (s *LRUStore) PurgeClass(class Class) error {
	partition, err := s.partition(class)
	if err != nil {
		return err
	}
	partition.Purge()
	return nil
}

// DeleteScoped scans all partitions and evicts keys carrying the parameter.
func (s *LRUStore) DeleteScoped(param string) error {
	if param == "" {
		return nil
	}
	for _, class := range Classes {
		partition := s.partitions[class]
		for _, key := range partition.Keys() {
			if keyHasParam(key, param) {
				partition.Remove(key)
			}
		}
	}
	return nil
}

// Len reports the number of live entries in a class, for tests and metrics.
func (s *LRUStore) Len(class Class) int {
	partition, ok := s.partitions[class]
	if !ok {
		return 0
	}
	return partition.Len()
}

func (s *LRUStore) partition(class Class) (*expirable.LRU[string, []byte], error) {
	partition, ok := s.partitions[class]
	if !ok {
		return nil, fmt.Errorf("cache: unknown resource class %q", class)
	}
	return partition, nil
}
