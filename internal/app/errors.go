package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
	appvalidator "github.com/metinatakli/seat-reservation-system/internal/validator"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The method is not supported for this resource"
	ErrUnauthorizedAccess = "You must be authenticated to access this resource"
	ErrInvalidToken       = "Invalid or missing authentication token"
	ErrFailedValidation   = "One or more fields are invalid"
	ErrCatalogUnavailable = "The performance catalog is unavailable, please try again later"
)

func (app *Application) logError(r *http.Request, err error) {
	app.contextGetLogger(r).Error(err.Error())
}

// errorResponse writes the common JSON error body with the given status.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) notFoundResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// paramErrorResponse answers path and query parameters that could not be bound.
func (app *Application) paramErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *api.InvalidParamFormatError
	if errors.As(err, &formatErr) {
		app.errorResponse(w, r, http.StatusBadRequest, "invalid format for parameter "+formatErr.ParamName)
		return
	}

	app.badRequestResponse(w, r, err)
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorizedAccess)
}

func (app *Application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidToken)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusForbidden, err.Error())
}

func (app *Application) badGatewayResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusBadGateway, ErrCatalogUnavailable)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, len(validationErrs)),
	}

	for i, fe := range validationErrs {
		resp.ValidationErrors[i] = api.ValidationError{
			Field: fe.Field(),
			Issue: appvalidator.ValidationMessage(fe),
		}
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookingErrorResponse translates an error of the booking engine into a
// response. Anything unrecognised is a server error.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := app.contextGetLogger(r)

	switch {
	case errors.Is(err, domain.ErrSeatAlreadyBooked),
		errors.Is(err, domain.ErrSeatAlreadyLocked),
		errors.Is(err, domain.ErrHoldExpired),
		errors.Is(err, domain.ErrHoldSeatsMismatch):
		logger.Warn("booking conflict", "error", err)
		app.conflictResponse(w, r, err)

	case errors.Is(err, domain.ErrSeatNotFound),
		errors.Is(err, domain.ErrShowtimeNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrPerformanceNotFound):
		app.notFoundResponseWithErr(w, r, err)

	case errors.Is(err, domain.ErrAccessDenied):
		logger.Warn("access denied to booking", "error", err)
		app.forbiddenResponse(w, r, err)

	case errors.Is(err, domain.ErrNoSeatsRequested),
		errors.Is(err, domain.ErrTooManySeatsRequested),
		errors.Is(err, domain.ErrInvalidExternalID),
		errors.Is(err, domain.ErrHolderRequired):
		app.badRequestResponse(w, r, err)

	case errors.Is(err, domain.ErrCatalogUnavailable):
		app.badGatewayResponse(w, r, err)

	default:
		app.serverErrorResponse(w, r, err)
	}
}
