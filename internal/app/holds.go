package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/booking"
)

var errInvalidHoldId = errors.New("hold ID must be greater than zero")

func (app *Application) PlaceHold(w http.ResponseWriter, r *http.Request, showtimeId api.ShowtimeId) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	var input api.PlaceHoldRequest

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

	userId := app.contextGetUserId(r)

	reservation, handle, err := app.bookings.PlaceHold(r.Context(), booking.HoldRequest{
		UserID:     userId,
		ShowtimeID: showtimeId,
		SeatIDs:    input.SeatIds,
		TTL:        ttlFromSeconds(input.TtlSeconds),
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.HoldResponse{
		HoldId:     reservation.ID,
		ShowtimeId: reservation.ShowtimeID,
		SeatIds:    handle.SeatIDs,
		TotalPrice: reservation.TotalPrice,
		ExpiresAt:  handle.LockedUntil,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHold(w http.ResponseWriter, r *http.Request, holdId int) {
	if holdId < 1 {
		app.badRequestResponse(w, r, errInvalidHoldId)
		return
	}

	userId := app.contextGetUserId(r)

	err := app.bookings.ReleaseHold(r.Context(), holdId, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("hold released", "hold_id", holdId, "user_id", userId)

	w.WriteHeader(http.StatusNoContent)
}
