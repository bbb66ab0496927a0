// Package cache provides the read-through cache layer fronting the store's
// read endpoints: deterministic structured keys, class-partitioned TTL caches,
// and the invalidation coordinator that maps mutations to evictions. The cache
// is strictly best-effort; absence is always safe and failures never surface
// to callers.
package cache

import "strings"

// Class tags cache entries by the resource they snapshot. Each class carries
// its own TTL and capacity.
type Class string

const (
	// ClassSearch holds room search result pages (short-lived).
	ClassSearch Class = "search"
	// ClassUserBookings holds per-guest booking list snapshots.
	ClassUserBookings Class = "user_bookings"
	// ClassBookingDetail holds individual booking views.
	ClassBookingDetail Class = "booking_detail"
	// ClassUserRooms holds per-host room listings.
	ClassUserRooms Class = "user_rooms"
	// ClassRoomDetail holds individual room records.
	ClassRoomDetail Class = "room_detail"
	// ClassHotel holds hotel reference data (long-lived).
	ClassHotel Class = "hotel"
)

// Classes enumerates every resource class, in eviction-scan order.
var Classes = []Class{
	ClassSearch,
	ClassUserBookings,
	ClassBookingDetail,
	ClassUserRooms,
	ClassRoomDetail,
	ClassHotel,
}

// Key identifies a cache entry: a resource class plus the ordered parameters
// that discriminate the request. Two logically identical requests must build
// the same key, so callers pass parameters in a fixed order and absent values
// as empty strings, which are omitted rather than encoded as placeholders.
type Key struct {
	Class  Class
	Params []string
}

// NewKey builds a Key, dropping empty parameters.
func NewKey(class Class, params ...string) Key {
	kept := make([]string, 0, len(params))
	for _, param := range params {
		if param == "" {
			continue
		}
		kept = append(kept, param)
	}
	return Key{Class: class, Params: kept}
}

// String renders the canonical key form "class:param1:param2".
func (k Key) String() string {
	if len(k.Params) == 0 {
		return string(k.Class)
	}
	return string(k.Class) + ":" + strings.Join(k.Params, ":")
}

// keyHasParam reports whether a canonical key string carries the given value
// as one of its parameters. Used for user-scoped wildcard eviction.
func keyHasParam(key string, param string) bool {
	segments := strings.Split(key, ":")
	for _, segment := range segments[1:] {
		if segment == param {
			return true
		}
	}
	return false
}
