package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomSnapshot struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

// faultyStore wraps an LRUStore and fails on demand.
type faultyStore struct {
	*LRUStore
	failGet bool
	failSet bool
}

func (s *faultyStore) Get(key Key) ([]byte, bool, error) {
	if s.failGet {
		return nil, false, errors.New("cache down")
	}
	return s.LRUStore.Get(key)
}

func (s *faultyStore) Set(key Key, value []byte) error {
	if s.failSet {
		return errors.New("cache down")
	}
	return s.LRUStore.Set(key, value)
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	store := NewLRUStore(nil)
	key := NewKey(ClassRoomDetail, "room-1")
	calls := 0
	compute := func(ctx context.Context) (roomSnapshot, error) {
		calls++
		return roomSnapshot{ID: "room-1", Price: "100.00"}, nil
	}

	first, err := GetOrCompute(context.Background(), store, nil, key, compute)
	require.NoError(t, err)
	assert.Equal(t, "room-1", first.ID)
	assert.Equal(t, 1, calls)

	second, err := GetOrCompute(context.Background(), store, nil, key, compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second read must be served from cache")
}

func TestGetOrCompute_ComputeErrorIsNotCached(t *testing.T) {
	store := NewLRUStore(nil)
	key := NewKey(ClassRoomDetail, "room-1")
	boom := errors.New("db down")
	calls := 0

	_, err := GetOrCompute(context.Background(), store, nil, key, func(ctx context.Context) (roomSnapshot, error) {
		calls++
		return roomSnapshot{}, boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing was populated; the next call recomputes.
	_, ok, getErr := store.Get(key)
	require.NoError(t, getErr)
	assert.False(t, ok)

	value, err := GetOrCompute(context.Background(), store, nil, key, func(ctx context.Context) (roomSnapshot, error) {
		calls++
		return roomSnapshot{ID: "room-1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "room-1", value.ID)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_CacheFailuresNeverSurface(t *testing.T) {
	key := NewKey(ClassRoomDetail, "room-1")

	t.Run("read failure degrades to compute", func(t *testing.T) {
		store := &faultyStore{LRUStore: NewLRUStore(nil), failGet: true}
		value, err := GetOrCompute(context.Background(), store, nil, key, func(ctx context.Context) (roomSnapshot, error) {
			return roomSnapshot{ID: "room-1"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "room-1", value.ID)
	})

	t.Run("write failure still returns the computed value", func(t *testing.T) {
		store := &faultyStore{LRUStore: NewLRUStore(nil), failSet: true}
		value, err := GetOrCompute(context.Background(), store, nil, key, func(ctx context.Context) (roomSnapshot, error) {
			return roomSnapshot{ID: "room-1"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "room-1", value.ID)
	})

	t.Run("undecodable entry is recomputed", func(t *testing.T) {
		store := NewLRUStore(nil)
		require.NoError(t, store.Set(key, []byte("{not json")))

		value, err := GetOrCompute(context.Background(), store, nil, key, func(ctx context.Context) (roomSnapshot, error) {
			return roomSnapshot{ID: "room-1"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "room-1", value.ID)
	})
}

func TestGetOrCompute_NilStore(t *testing.T) {
	value, err := GetOrCompute[roomSnapshot](context.Background(), nil, nil, NewKey(ClassRoomDetail, "room-1"), func(ctx context.Context) (roomSnapshot, error) {
		return roomSnapshot{ID: "room-1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "room-1", value.ID)
}
