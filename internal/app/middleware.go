package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/metinatakli/seat-reservation-system/api"
)

var errInvalidToken = errors.New("invalid or expired authentication token")

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// logRequest attaches a request scoped logger to the context and logs the
// outcome of every request.
func (app *Application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		logger := app.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		)

		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		r = r.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("request completed",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func (app *Application) ensureGuestUserSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId := app.sessionManager.Token(r.Context())

		if sessionId == "" {
			app.sessionManager.Put(r.Context(), SessionKeyGuest.String(), true)

			_, _, err := app.sessionManager.Commit(r.Context())
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the user of a bearer token when one is sent. Requests
// without a token continue anonymously; a bad token is rejected.
func (app *Application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		userId, err := app.parseAccessToken(raw)
		if err != nil {
			app.contextGetLogger(r).Warn("rejected bearer token", "error", err)
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIdContextKey, userId)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *Application) parseAccessToken(raw string) (int, error) {
	if app.config.JWT.Secret == "" {
		return 0, errInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if app.config.JWT.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(app.config.JWT.Issuer))
	}

	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return []byte(app.config.JWT.Secret), nil
	}, opts...)
	if err != nil {
		return 0, err
	}

	userId, err := strconv.Atoi(claims.Subject)
	if err != nil || userId < 1 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", errInvalidToken, claims.Subject)
	}

	return userId, nil
}

// requireAuthentication rejects anonymous calls to operations that declare
// bearer security.
func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(api.BearerAuthScopes) == nil {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := app.contextGetOptionalUserId(r); !ok {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validateRequest checks path and query parameters against the OpenAPI
// document. Bodies are validated by the handlers.
func (app *Application) validateRequest(next http.Handler) http.Handler {
	router, err := legacy.NewRouter(app.openapi)
	if err != nil {
		app.logger.Error("openapi request validation disabled", "error", err)
		return next
	}

	options := &openapi3filter.Options{
		ExcludeRequestBody: true,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := router.FindRoute(r)
		if err != nil {
			// unknown paths and methods are answered by the router
			next.ServeHTTP(w, r)
			return
		}

		err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		})
		if err != nil {
			app.badRequestResponse(w, r, requestValidationError(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestValidationError(err error) error {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		return fmt.Errorf("invalid %s parameter %q", reqErr.Parameter.In, reqErr.Parameter.Name)
	}

	return err
}
