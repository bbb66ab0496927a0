package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAllClasses(t *testing.T, store *LRUStore) {
	t.Helper()

	entries := []Key{
		NewKey(ClassSearch, "lisbon", "2"),
		NewKey(ClassSearch, "porto"),
		NewKey(ClassUserBookings, "guest-1"),
		NewKey(ClassUserBookings, "guest-2"),
		NewKey(ClassBookingDetail, "guest-1", "booking-9"),
		NewKey(ClassUserRooms, "host-1"),
		NewKey(ClassUserRooms, "host-2"),
		NewKey(ClassRoomDetail, "room-1"),
		NewKey(ClassRoomDetail, "room-2"),
		NewKey(ClassHotel, "hotel-1"),
	}
	for _, key := range entries {
		require.NoError(t, store.Set(key, []byte("x")))
	}
}

func present(t *testing.T, store *LRUStore, key Key) bool {
	t.Helper()
	_, ok, err := store.Get(key)
	require.NoError(t, err)
	return ok
}

func TestInvalidator_RoomMutations(t *testing.T) {
	for _, kind := range []MutationKind{MutationRoomCreated, MutationRoomUpdated, MutationRoomDeleted} {
		t.Run(string(kind), func(t *testing.T) {
			store := NewLRUStore(nil)
			seedAllClasses(t, store)

			NewInvalidator(store, nil).Invalidate(context.Background(), Mutation{
				Kind:   kind,
				RoomID: "room-1",
				HostID: "host-1",
			})

			// Any room mutation can change any search result page.
			assert.Equal(t, 0, store.Len(ClassSearch))
			assert.False(t, present(t, store, NewKey(ClassUserRooms, "host-1")))
			assert.False(t, present(t, store, NewKey(ClassRoomDetail, "room-1")))

			// Unrelated entries survive.
			assert.True(t, present(t, store, NewKey(ClassUserRooms, "host-2")))
			assert.True(t, present(t, store, NewKey(ClassRoomDetail, "room-2")))
			assert.True(t, present(t, store, NewKey(ClassUserBookings, "guest-1")))
			assert.True(t, present(t, store, NewKey(ClassHotel, "hotel-1")))
		})
	}
}

func TestInvalidator_BookingMutations(t *testing.T) {
	for _, kind := range []MutationKind{MutationBookingCreated, MutationBookingCancelled} {
		t.Run(string(kind), func(t *testing.T) {
			store := NewLRUStore(nil)
			seedAllClasses(t, store)

			NewInvalidator(store, nil).Invalidate(context.Background(), Mutation{
				Kind:       kind,
				RoomID:     "room-1",
				GuestID:    "guest-1",
				BookingIDs: []string{"booking-9"},
			})

			// Bookings shift date-filtered availability, so search pages go.
			assert.Equal(t, 0, store.Len(ClassSearch))
			assert.False(t, present(t, store, NewKey(ClassUserBookings, "guest-1")))
			assert.False(t, present(t, store, NewKey(ClassBookingDetail, "guest-1", "booking-9")))

			assert.True(t, present(t, store, NewKey(ClassUserBookings, "guest-2")))
			assert.True(t, present(t, store, NewKey(ClassRoomDetail, "room-1")), "room record itself did not change")
		})
	}
}

func TestInvalidator_UserChanged(t *testing.T) {
	store := NewLRUStore(nil)
	seedAllClasses(t, store)

	NewInvalidator(store, nil).Invalidate(context.Background(), Mutation{
		Kind:   MutationUserChanged,
		UserID: "guest-1",
	})

	assert.False(t, present(t, store, NewKey(ClassUserBookings, "guest-1")))
	assert.False(t, present(t, store, NewKey(ClassBookingDetail, "guest-1", "booking-9")))
	assert.True(t, present(t, store, NewKey(ClassUserBookings, "guest-2")))
	assert.True(t, present(t, store, NewKey(ClassSearch, "lisbon", "2")), "search pages are not user scoped")
}

func TestInvalidator_NilStoreAndUnknownKind(t *testing.T) {
	// A nil store must be a no-op rather than a panic.
	NewInvalidator(nil, nil).Invalidate(context.Background(), Mutation{Kind: MutationRoomCreated})

	store := NewLRUStore(nil)
	seedAllClasses(t, store)
	NewInvalidator(store, nil).Invalidate(context.Background(), Mutation{Kind: MutationKind("bogus")})
	assert.Equal(t, 2, store.Len(ClassSearch), "unknown kinds evict nothing")
}
