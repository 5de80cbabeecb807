package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

var errInvalidShowtimeId = errors.New("showtime ID must be greater than zero")

func (app *Application) EnsureShowtime(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.EnsureShowtimeRequest

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

	showtimeId, err := app.bookings.EnsureShowtime(r.Context(), input.ExternalId, input.StartAt)
	if err != nil {
		if errors.Is(err, domain.ErrPerformanceNotFound) {
			logger.Warn("showtime requested for unknown performance", "external_id", input.ExternalId)
		}

		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.EnsureShowtimeResponse{
		ShowtimeId: showtimeId,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtimeAvailability(w http.ResponseWriter, r *http.Request, showtimeId api.ShowtimeId) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	availability, err := app.bookings.GetAvailability(r.Context(), showtimeId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toAvailabilityResponse(availability), nil)
	if err != nil {
		app.serverErrorResponse(w, r, fmt.Errorf("writing availability of showtime %d: %w", showtimeId, err))
	}
}

func toAvailabilityResponse(availability *domain.Availability) api.AvailabilityResponse {
	seats := make([]api.SeatAvailability, len(availability.Seats))

	for i, v := range availability.Seats {
		seats[i] = api.SeatAvailability{
			SeatId: v.SeatID,
			Row:    v.RowLabel,
			SeatNo: v.SeatNo,
			Price:  v.Price,
			Status: api.SeatStatus(v.Status),
		}
	}

	return api.AvailabilityResponse{
		ShowtimeId:  availability.ShowtimeID,
		EvaluatedAt: availability.EvaluatedAt,
		Seats:       seats,
	}
}
