package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

var errInvalidSeatId = errors.New("seat ID must be greater than zero")

// LockSeats locks seats for the caller, which is the authenticated user or
// the guest session.
func (app *Application) LockSeats(w http.ResponseWriter, r *http.Request, showtimeId api.ShowtimeId) {
	logger := app.contextGetLogger(r)

	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	var input api.LockSeatsRequest

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

	handle, err := app.bookings.AcquireLocks(r.Context(), booking.LockRequest{
		ShowtimeID: showtimeId,
		SeatIDs:    input.SeatIds,
		Holder:     app.lockHolder(r),
		TTL:        ttlFromSeconds(input.TtlSeconds),
	})
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyLocked) {
			logger.Info("seat lock contention", "showtime_id", showtimeId, "seat_ids", input.SeatIds)
		}

		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.LockResponse{
		ShowtimeId:  handle.ShowtimeID,
		SeatIds:     handle.SeatIDs,
		LockedUntil: handle.LockedUntil,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseSeatLock(w http.ResponseWriter, r *http.Request, showtimeId api.ShowtimeId, seatId int) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	if seatId < 1 {
		app.badRequestResponse(w, r, errInvalidSeatId)
		return
	}

	err := app.bookings.ReleaseLock(r.Context(), showtimeId, seatId, app.lockHolder(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ttlFromSeconds(seconds *int) time.Duration {
	if seconds == nil {
		return 0
	}

	return time.Duration(*seconds) * time.Second
}
