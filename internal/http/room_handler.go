package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/example/booking-platform/internal/application"
	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/persistence"
)

type roomService interface {
	CreateRoom(ctx context.Context, params application.CreateRoomParams) (persistence.Room, error)
	UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (persistence.Room, error)
	DeleteRoom(ctx context.Context, principal application.Principal, roomID string) error
	GetRoom(ctx context.Context, roomID string) (persistence.Room, error)
	ListHostRooms(ctx context.Context, principal application.Principal) ([]persistence.Room, error)
	GetHotel(ctx context.Context, hotelID string) (persistence.Hotel, error)
	ListHotels(ctx context.Context) ([]persistence.Hotel, error)
	SearchRooms(ctx context.Context, params application.SearchRoomsParams) (application.SearchRoomsResult, error)
}

// RoomHandler exposes the room listing and search endpoints.
type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

// Create handles POST /rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req roomCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	price, err := parsePrice(req.PricePerNight)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), application.CreateRoomParams{
		Principal: principal,
		Input: application.RoomInput{
			HotelID:       req.HotelID,
			RoomType:      req.RoomType,
			Description:   req.Description,
			PricePerNight: price,
			Capacity:      req.Capacity,
			Available:     req.Available,
			Amenities:     req.Amenities,
		},
	})
	if err != nil {
		h.log(r.Context(), "Create", "hotel_id", req.HotelID).ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create", "room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRoomDTO(room))
}

// Update handles PUT /rooms/{id}.
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req roomUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := application.RoomUpdateInput{
		RoomType:    req.RoomType,
		Description: req.Description,
		Capacity:    req.Capacity,
		Available:   req.Available,
		Amenities:   req.Amenities,
	}
	if req.PricePerNight != nil {
		price, err := parsePrice(*req.PricePerNight)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
			return
		}
		input.PricePerNight = &price
	}

	roomID := mux.Vars(r)["id"]
	room, err := h.service.UpdateRoom(r.Context(), application.UpdateRoomParams{
		Principal: principal,
		RoomID:    roomID,
		Input:     input,
	})
	if err != nil {
		h.log(r.Context(), "Update", "room_id", roomID).ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomDTO(room))
}

// Delete handles DELETE /rooms/{id}.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	roomID := mux.Vars(r)["id"]
	if err := h.service.DeleteRoom(r.Context(), principal, roomID); err != nil {
		h.log(r.Context(), "Delete", "room_id", roomID).ErrorContext(r.Context(), "room deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Get handles GET /rooms/{id}.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	room, err := h.service.GetRoom(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomDTO(room))
}

// ListMine handles GET /rooms and returns the caller's listings.
func (h *RoomHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	rooms, err := h.service.ListHostRooms(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		payload = append(payload, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// GetHotel handles GET /hotels/{id}.
func (h *RoomHandler) GetHotel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	hotel, err := h.service.GetHotel(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHotelDTO(hotel))
}

// ListHotels handles GET /hotels.
func (h *RoomHandler) ListHotels(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	hotels, err := h.service.ListHotels(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]hotelDTO, 0, len(hotels))
	for _, hotel := range hotels {
		payload = append(payload, toHotelDTO(hotel))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Search handles GET /rooms/search.
func (h *RoomHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.SearchRooms(r.Context(), params)
	if err != nil {
		h.log(r.Context(), "Search").ErrorContext(r.Context(), "room search failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := searchResponse{
		Rooms:      make([]roomDTO, 0, len(result.Rooms)),
		Pagination: result.Pagination,
	}
	for _, room := range result.Rooms {
		payload.Rooms = append(payload.Rooms, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func parseSearchQuery(query url.Values) (application.SearchRoomsParams, error) {
	params := application.SearchRoomsParams{
		City:     strings.TrimSpace(query.Get("city")),
		RoomType: strings.TrimSpace(query.Get("room_type")),
	}

	if value := strings.TrimSpace(query.Get("guests")); value != "" {
		guests, err := strconv.Atoi(value)
		if err != nil {
			return params, fmt.Errorf("guests must be an integer")
		}
		params.Guests = &guests
	}
	if value := strings.TrimSpace(query.Get("min_price")); value != "" {
		price, err := parsePrice(value)
		if err != nil {
			return params, fmt.Errorf("min_price must be a decimal amount")
		}
		params.MinPrice = &price
	}
	if value := strings.TrimSpace(query.Get("max_price")); value != "" {
		price, err := parsePrice(value)
		if err != nil {
			return params, fmt.Errorf("max_price must be a decimal amount")
		}
		params.MaxPrice = &price
	}
	if value := strings.TrimSpace(query.Get("check_in_date")); value != "" {
		date, err := booking.ParseDate(value)
		if err != nil {
			return params, fmt.Errorf("check_in_date must use the format %s", booking.DateLayout)
		}
		params.CheckIn = &date
	}
	if value := strings.TrimSpace(query.Get("check_out_date")); value != "" {
		date, err := booking.ParseDate(value)
		if err != nil {
			return params, fmt.Errorf("check_out_date must use the format %s", booking.DateLayout)
		}
		params.CheckOut = &date
	}
	if value := strings.TrimSpace(query.Get("page")); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil {
			return params, fmt.Errorf("page must be an integer")
		}
		params.Page = page
	}
	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil {
			return params, fmt.Errorf("limit must be an integer")
		}
		params.Limit = limit
	}

	return params, nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price must be a decimal amount")
	}
	return price, nil
}

type roomCreateRequest struct {
	HotelID       string   `json:"hotel_id"`
	RoomType      string   `json:"room_type"`
	Description   string   `json:"description"`
	PricePerNight string   `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
	Available     bool     `json:"available"`
	Amenities     []string `json:"amenities"`
}

type roomUpdateRequest struct {
	RoomType      *string  `json:"room_type"`
	Description   *string  `json:"description"`
	PricePerNight *string  `json:"price_per_night"`
	Capacity      *int     `json:"capacity"`
	Available     *bool    `json:"available"`
	Amenities     []string `json:"amenities"`
}

type roomDTO struct {
	ID            string   `json:"id"`
	HotelID       string   `json:"hotel_id"`
	HostID        string   `json:"host_id"`
	RoomType      string   `json:"room_type"`
	Description   string   `json:"description"`
	PricePerNight string   `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
	Available     bool     `json:"available"`
	Amenities     []string `json:"amenities"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type hotelDTO struct {
	ID        string `json:"id"`
	HostID    string `json:"host_id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toHotelDTO(hotel persistence.Hotel) hotelDTO {
	return hotelDTO{
		ID:        hotel.ID,
		HostID:    hotel.HostID,
		Name:      hotel.Name,
		City:      hotel.City,
		CreatedAt: hotel.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: hotel.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type searchResponse struct {
	Rooms      []roomDTO              `json:"rooms"`
	Pagination application.Pagination `json:"pagination"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:            room.ID,
		HotelID:       room.HotelID,
		HostID:        room.HostID,
		RoomType:      room.RoomType,
		Description:   room.Description,
		PricePerNight: room.PricePerNight.StringFixed(2),
		Capacity:      room.Capacity,
		Available:     room.Available,
		Amenities:     room.Amenities,
		CreatedAt:     room.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     room.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
