package cache

import (
	"context"
	"log/slog"
)

// MutationKind identifies the write that just committed.
type MutationKind string

const (
	MutationRoomCreated      MutationKind = "room_created"
	MutationRoomUpdated      MutationKind = "room_updated"
	MutationRoomDeleted      MutationKind = "room_deleted"
	MutationBookingCreated   MutationKind = "booking_created"
	MutationBookingCancelled MutationKind = "booking_cancelled"
	MutationUserChanged      MutationKind = "user_changed"
)

// Mutation describes a committed write and the identifiers it touched.
type Mutation struct {
	Kind       MutationKind
	RoomID     string
	HostID     string
	GuestID    string
	UserID     string
	BookingIDs []string
}

// Invalidator maps committed mutations to the cache keys and patterns that
// must be evicted. Eviction is best-effort and must be triggered strictly
// after the underlying write commits: evicting first would leave a cold cache
// for a value that never changed if the write then failed.
type Invalidator struct {
	store  Store
	logger *slog.Logger
}

// NewInvalidator wires an invalidation coordinator over the store.
func NewInvalidator(store Store, logger *slog.Logger) *Invalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invalidator{store: store, logger: logger}
}

// Invalidate evicts every cache entry the mutation may have staled. Failures
// are logged and swallowed; a stale entry dies at its TTL regardless.
func (i *Invalidator) Invalidate(ctx context.Context, mutation Mutation) {
	if i == nil || i.store == nil {
		return
	}

	log := loggerFor(ctx, i.logger).With("mutation", string(mutation.Kind))

	switch mutation.Kind {
	case MutationRoomCreated, MutationRoomUpdated, MutationRoomDeleted:
		i.purgeClass(ctx, log, ClassSearch)
		i.delete(ctx, log,
			NewKey(ClassUserRooms, mutation.HostID),
			NewKey(ClassRoomDetail, mutation.RoomID),
		)

	case MutationBookingCreated, MutationBookingCancelled:
		i.purgeClass(ctx, log, ClassSearch)
		keys := []Key{NewKey(ClassUserBookings, mutation.GuestID)}
		for _, bookingID := range mutation.BookingIDs {
			keys = append(keys, NewKey(ClassBookingDetail, mutation.GuestID, bookingID))
		}
		i.delete(ctx, log, keys...)

	case MutationUserChanged:
		if err := i.store.DeleteScoped(mutation.UserID); err != nil {
			log.WarnContext(ctx, "cache eviction failed", "user_id", mutation.UserID, "error", err)
		}

	default:
		log.WarnContext(ctx, "unknown mutation kind, skipping invalidation")
	}
}

func (i *Invalidator) purgeClass(ctx context.Context, log *slog.Logger, class Class) {
	if err := i.store.PurgeClass(class); err != nil {
		log.WarnContext(ctx, "cache class purge failed", "class", string(class), "error", err)
	}
}

func (i *Invalidator) delete(ctx context.Context, log *slog.Logger, keys ...Key) {
	if err := i.store.Delete(keys...); err != nil {
		log.WarnContext(ctx, "cache eviction failed", "error", err)
	}
}
