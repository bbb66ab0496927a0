package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterConfig wires handlers and middleware into the API router.
type RouterConfig struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Rooms    *RoomHandler
	Bookings *BookingHandler
	// RequireSession guards the authenticated routes. Public routes
	// (registration, login, room search and detail, hotel lookups) bypass it.
	RequireSession func(http.Handler) http.Handler
	// Middleware wraps the whole router, outermost first.
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the API route table.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	guard := cfg.RequireSession
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}
	authed := func(handler http.HandlerFunc) http.Handler {
		return guard(handler)
	}

	if cfg.Auth != nil {
		router.HandleFunc("/sessions", cfg.Auth.CreateSession).Methods(http.MethodPost)
		router.HandleFunc("/sessions/current", cfg.Auth.DeleteCurrentSession).Methods(http.MethodDelete)
	}

	if cfg.Users != nil {
		router.HandleFunc("/users", cfg.Users.Register).Methods(http.MethodPost)
		router.Handle("/users/{id}", authed(cfg.Users.Get)).Methods(http.MethodGet)
		router.Handle("/users/{id}", authed(cfg.Users.Update)).Methods(http.MethodPut)
	}

	if cfg.Rooms != nil {
		// Search and detail routes are public; search must be registered
		// before the {id} route so "search" is not captured as an id.
		router.HandleFunc("/rooms/search", cfg.Rooms.Search).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{id}", cfg.Rooms.Get).Methods(http.MethodGet)
		router.HandleFunc("/hotels", cfg.Rooms.ListHotels).Methods(http.MethodGet)
		router.HandleFunc("/hotels/{id}", cfg.Rooms.GetHotel).Methods(http.MethodGet)

		router.Handle("/rooms", authed(cfg.Rooms.ListMine)).Methods(http.MethodGet)
		router.Handle("/rooms", authed(cfg.Rooms.Create)).Methods(http.MethodPost)
		router.Handle("/rooms/{id}", authed(cfg.Rooms.Update)).Methods(http.MethodPut)
		router.Handle("/rooms/{id}", authed(cfg.Rooms.Delete)).Methods(http.MethodDelete)
	}

	if cfg.Bookings != nil {
		router.Handle("/bookings", authed(cfg.Bookings.Create)).Methods(http.MethodPost)
		router.Handle("/bookings", authed(cfg.Bookings.List)).Methods(http.MethodGet)
		router.Handle("/bookings/{id}", authed(cfg.Bookings.Get)).Methods(http.MethodGet)
		router.Handle("/bookings/{id}/cancel", authed(cfg.Bookings.Cancel)).Methods(http.MethodPost)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
