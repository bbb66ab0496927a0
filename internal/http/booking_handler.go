package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/booking-platform/internal/application"
	"github.com/example/booking-platform/internal/booking"
	"github.com/example/booking-platform/internal/persistence"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (persistence.BookingView, error)
	CancelBooking(ctx context.Context, principal application.Principal, bookingID string) (persistence.BookingView, error)
	GetBooking(ctx context.Context, principal application.Principal, bookingID string) (persistence.BookingView, error)
	ListBookings(ctx context.Context, principal application.Principal) ([]persistence.BookingView, error)
}

// BookingHandler exposes the reservation endpoints.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req bookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := application.BookingInput{
		RoomID:          req.RoomID,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	}
	vErr := parseBookingDates(req, &input)
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", req.RoomID)

	view, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", view.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(view))
}

// Cancel handles POST /bookings/{id}/cancel. The booking row survives
// cancellation; only its status changes.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	bookingID := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Cancel", "booking_id", bookingID)

	view, err := h.service.CancelBooking(r.Context(), principal, bookingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(view))
}

// Get handles GET /bookings/{id}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	view, err := h.service.GetBooking(r.Context(), principal, mux.Vars(r)["id"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(view))
}

// List handles GET /bookings and returns the caller's bookings, newest stay first.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	views, err := h.service.ListBookings(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]bookingDTO, 0, len(views))
	for _, view := range views {
		payload = append(payload, toBookingDTO(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// parseBookingDates converts the wire dates into the input struct, collecting
// format problems as field errors so they render like any other validation
// failure.
func parseBookingDates(req bookingCreateRequest, input *application.BookingInput) error {
	fields := map[string]string{}

	if value := strings.TrimSpace(req.CheckInDate); value != "" {
		date, err := booking.ParseDate(value)
		if err != nil {
			fields["check_in_date"] = "check_in_date must use the format " + booking.DateLayout
		} else {
			input.CheckIn = date
		}
	}
	if value := strings.TrimSpace(req.CheckOutDate); value != "" {
		date, err := booking.ParseDate(value)
		if err != nil {
			fields["check_out_date"] = "check_out_date must use the format " + booking.DateLayout
		} else {
			input.CheckOut = date
		}
	}

	if len(fields) > 0 {
		return &application.ValidationError{FieldErrors: fields}
	}
	return nil
}

type bookingCreateRequest struct {
	RoomID          string `json:"room_id"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests"`
}

type bookingDTO struct {
	ID              string `json:"id"`
	GuestID         string `json:"guest_id"`
	RoomID          string `json:"room_id"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	Guests          int    `json:"guests"`
	TotalPrice      string `json:"total_price"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
	RoomType        string `json:"room_type"`
	HotelID         string `json:"hotel_id"`
	HotelName       string `json:"hotel_name"`
	HotelCity       string `json:"hotel_city"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toBookingDTO(view persistence.BookingView) bookingDTO {
	return bookingDTO{
		ID:              view.ID,
		GuestID:         view.GuestID,
		RoomID:          view.RoomID,
		CheckInDate:     booking.FormatDate(view.CheckIn),
		CheckOutDate:    booking.FormatDate(view.CheckOut),
		Guests:          view.Guests,
		TotalPrice:      view.TotalPrice.StringFixed(2),
		Status:          string(view.Status),
		SpecialRequests: view.SpecialRequests,
		RoomType:        view.RoomType,
		HotelID:         view.HotelID,
		HotelName:       view.HotelName,
		HotelCity:       view.HotelCity,
		CreatedAt:       view.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       view.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
