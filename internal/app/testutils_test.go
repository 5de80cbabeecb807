package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/metinatakli/seat-reservation-system/internal/validator"
	"github.com/stretchr/testify/mock"
)

const (
	testJWTSecret = "test-secret"
	testUserID    = 42
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) EnsureShowtime(ctx context.Context, externalID string, startAt time.Time) (int, error) {
	args := m.Called(ctx, externalID, startAt)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockBookingService) AcquireLocks(ctx context.Context, req booking.LockRequest) (*domain.LockHandle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LockHandle), args.Error(1)
}

func (m *MockBookingService) ReleaseLock(ctx context.Context, showtimeID, seatID int, holder domain.Holder) error {
	args := m.Called(ctx, showtimeID, seatID, holder)
	return args.Error(0)
}

func (m *MockBookingService) PlaceHold(ctx context.Context, req booking.HoldRequest) (*domain.Reservation, *domain.LockHandle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Reservation), args.Get(1).(*domain.LockHandle), args.Error(2)
}

func (m *MockBookingService) ReleaseHold(ctx context.Context, reservationID, userID int) error {
	args := m.Called(ctx, reservationID, userID)
	return args.Error(0)
}

func (m *MockBookingService) Confirm(ctx context.Context, req booking.ConfirmRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, reservationID, userID int) error {
	args := m.Called(ctx, reservationID, userID)
	return args.Error(0)
}

func (m *MockBookingService) ListBookingsForUser(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func newTestApplication(opts ...func(*Application)) *Application {
	doc, err := api.GetSwagger()
	if err != nil {
		panic(err)
	}

	app := &Application{
		config: Config{
			Env: "test",
			JWT: JWTConfig{Secret: testJWTSecret},
		},
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		openapi:        doc,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// setupGuestSession loads a committed guest session into the request context
// and returns its token.
func setupGuestSession(t *testing.T, app *Application, r *http.Request) (*http.Request, string) {
	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyGuest.String(), true)

	token, _, err := app.sessionManager.Commit(ctx)
	if err != nil {
		t.Fatalf("Failed to commit session: %v", err)
	}

	return r.WithContext(ctx), token
}

func withUser(r *http.Request, userId int) *http.Request {
	ctx := context.WithValue(r.Context(), userIdContextKey, userId)
	return r.WithContext(ctx)
}

func signTestToken(t *testing.T, secret string, subject string, expiresAt time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	return token
}

func bearer(t *testing.T, userId int) string {
	return "Bearer " + signTestToken(t, testJWTSecret, strconv.Itoa(userId), time.Now().Add(time.Hour))
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
