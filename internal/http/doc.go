// Package http provides HTTP handlers and middleware for the booking API.
//
// The router exposes the following endpoints:
//   - POST /users: registers an account. Body: {"email","password","display_name"}.
//   - POST /sessions: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","principal":{"user_id","is_admin"}} with the token also
//     surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted from the
//     Authorization header or session cookie. Returns 204 No Content and clears the cookie.
//   - GET /rooms/search: public room search. Query parameters: city, room_type, guests,
//     min_price, max_price, check_in_date, check_out_date (dates come as a pair or not
//     at all), page, limit. Responds with one page of `roomDTO` values plus a
//     pagination block.
//   - GET /rooms/{id}, GET /hotels/{id}: public detail lookups.
//   - GET /hotels: public hotel directory, served from the long-TTL hotel cache.
//   - GET /rooms, POST /rooms, PUT /rooms/{id}, DELETE /rooms/{id}: host-facing listing
//     management exchanging the `roomDTO` payload defined in room_handler.go. Updates
//     accept only the mutable fields; identity and ownership never change.
//   - POST /bookings, GET /bookings, GET /bookings/{id}, POST /bookings/{id}/cancel:
//     reservation endpoints exchanging the `bookingDTO` payload defined in
//     booking_handler.go. Cancelled bookings keep their row; only the status changes.
//   - GET /users/{id}, PUT /users/{id}: profile endpoints exchanging the `userDTO`
//     payload defined in user_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
