package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

var errInvalidBookingId = errors.New("booking ID must be greater than zero")

// ConfirmBooking books seats directly, or confirms a hold when holdId is set.
// Seats the caller locked as a guest before logging in count as its own.
func (app *Application) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var input api.ConfirmBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	req := booking.ConfirmRequest{
		UserID:     app.contextGetUserId(r),
		ShowtimeID: input.ShowtimeId,
		SeatIDs:    input.SeatIds,
	}

	if input.HoldId != nil {
		req.HoldID = *input.HoldId
	}

	if holder := app.sessionHolder(r); holder != "" {
		req.Holders = []domain.Holder{holder}
	}

	reservation, err := app.bookings.Confirm(r.Context(), req)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request, bookingId int) {
	if bookingId < 1 {
		app.badRequestResponse(w, r, errInvalidBookingId)
		return
	}

	err := app.bookings.Cancel(r.Context(), bookingId, app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetBookingsOfUser(w http.ResponseWriter, r *http.Request, params api.GetBookingsOfUserParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)
	pagination := toPagination(params)

	bookings, metadata, err := app.bookings.ListBookingsForUser(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: toBookingSummaries(bookings),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(reservation *domain.Reservation) api.BookingResponse {
	seatIds := make([]int, len(reservation.ReservationSeats))
	for i, rs := range reservation.ReservationSeats {
		seatIds[i] = rs.SeatID
	}

	resp := api.BookingResponse{
		BookingId:     reservation.ID,
		BookingNumber: reservation.BookingNumber,
		ShowtimeId:    reservation.ShowtimeID,
		SeatIds:       seatIds,
		Status:        api.BookingStatus(reservation.Status),
		TotalPrice:    reservation.TotalPrice,
	}

	if reservation.ConfirmedAt != nil {
		resp.ConfirmedAt = *reservation.ConfirmedAt
	}

	return resp
}

func toBookingSummaries(bookings []domain.BookingSummary) []api.BookingSummary {
	summaries := make([]api.BookingSummary, len(bookings))

	for i, v := range bookings {
		summary := &summaries[i]

		summary.BookingId = v.ReservationID
		summary.BookingNumber = v.BookingNumber
		summary.PerformanceTitle = v.PerformanceTitle
		summary.PosterUrl = v.PosterUrl
		summary.ViewingDate = v.ViewingDate
		summary.BookingDate = v.BookingDate
		summary.TotalPrice = v.TotalPrice
		summary.Status = api.BookingStatus(v.Status)
	}

	return summaries
}
