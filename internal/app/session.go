package app

import (
	"log/slog"
	"net/http"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type sessionKey string

const (
	SessionKeyGuest = sessionKey("guest")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const (
	userIdContextKey = contextKey("userID")
	loggerContextKey = contextKey("logger")
)

func (app *Application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(userIdContextKey).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

func (app *Application) contextGetOptionalUserId(r *http.Request) (int, bool) {
	userId, ok := r.Context().Value(userIdContextKey).(int)

	return userId, ok && userId > 0
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

// lockHolder identifies the caller of the lock endpoints: the authenticated
// user, or the guest session otherwise.
func (app *Application) lockHolder(r *http.Request) domain.Holder {
	if userId, ok := app.contextGetOptionalUserId(r); ok {
		return domain.UserHolder(userId)
	}

	return app.sessionHolder(r)
}

// sessionHolder is the guest session of the caller, used to take over seats
// locked before logging in.
func (app *Application) sessionHolder(r *http.Request) domain.Holder {
	token := app.sessionManager.Token(r.Context())
	if token == "" {
		return ""
	}

	return domain.SessionHolder(token)
}
