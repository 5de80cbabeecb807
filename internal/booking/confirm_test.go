package booking_test

import (
	"context"
	"errors"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

func (s *ServiceTestSuite) TestConfirm() {
	userHolder := domain.UserHolder(testUserID)
	claim := domain.SeatLock{
		ShowtimeID:  testShowtimeID,
		Holder:      userHolder,
		LockedUntil: testNow.Add(booking.DefaultConfig.LockTTL),
	}

	tests := []struct {
		name      string
		req       booking.ConfirmRequest
		setupMock func()
		wantErr   error
		wantTotal int
	}{
		{
			name:    "no seats requested",
			req:     booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID},
			wantErr: domain.ErrNoSeatsRequested,
		},
		{
			name: "showtime not found",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{101}},
			setupMock: func() {
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(nil, domain.ErrRecordNotFound)
			},
			wantErr: domain.ErrShowtimeNotFound,
		},
		{
			name: "showtime without venue",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{101}},
			setupMock: func() {
				detail := completeDetail()
				detail.VenueID = nil
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(detail, nil)
			},
			wantErr: domain.ErrInvalidShowData,
		},
		{
			name: "unknown seat",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{101, 999}},
			setupMock: func() {
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
				s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
			},
			wantErr: domain.ErrSeatNotFound,
		},
		{
			name: "seat already booked",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{101, 102}},
			setupMock: func() {
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
				s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
				s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).
					Return([]domain.ReservationSeat{{ReservationID: 5, ShowtimeID: testShowtimeID, SeatID: 102}}, nil)
			},
			wantErr: domain.ErrSeatAlreadyBooked,
		},
		{
			name: "seat locked by someone else",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{101, 102}},
			setupMock: func() {
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
				s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
				s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).
					Return([]domain.ReservationSeat{}, nil)
				s.locks.On("Acquire", mock.Anything, claim, []int{101, 102}, testNow, []domain.Holder{userHolder}).
					Return([]int{101}, nil)
			},
			wantErr: domain.ErrSeatAlreadyLocked,
		},
		{
			name: "store rejects a concurrent booking",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{101, 102}},
			setupMock: func() {
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
				s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
				s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).
					Return([]domain.ReservationSeat{}, nil)
				s.locks.On("Acquire", mock.Anything, claim, []int{101, 102}, testNow, []domain.Holder{userHolder}).
					Return([]int{101, 102}, nil)
				s.reservations.On("Create", mock.Anything, mock.Anything).Return(domain.ErrSeatAlreadyBooked)
			},
			wantErr: domain.ErrSeatAlreadyBooked,
		},
		{
			name: "successful confirmation",
			req:  booking.ConfirmRequest{UserID: testUserID, ShowtimeID: testShowtimeID, SeatIDs: []int{102, 101, 102}},
			setupMock: func() {
				s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
				s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
				s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).
					Return([]domain.ReservationSeat{}, nil)
				s.locks.On("Acquire", mock.Anything, claim, []int{101, 102}, testNow, []domain.Holder{userHolder}).
					Return([]int{101, 102}, nil)
				s.reservations.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
					return r.Status == domain.ReservationConfirmed &&
						r.UserID == testUserID &&
						r.BookingNumber == "BK-0001" &&
						len(r.ReservationSeats) == 2
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Reservation).ID = 9
				}).Return(nil)
				s.locks.On("Release", mock.Anything, testShowtimeID, []int{101, 102}, []domain.Holder{userHolder}).
					Return(int64(2), nil)
				s.events.On("PublishBookingConfirmed", mock.Anything, domain.BookingConfirmedEvent{
					ReservationID: 9,
					BookingNumber: "BK-0001",
					UserID:        testUserID,
					ShowtimeID:    testShowtimeID,
					SeatIDs:       []int{101, 102},
					TotalPrice:    100000,
					ConfirmedAt:   testNow,
				}).Return(nil)
			},
			wantTotal: 100000,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMock != nil {
				tt.setupMock()
			}

			reservation, err := s.service.Confirm(context.Background(), tt.req)
			s.service.Wait()

			if tt.wantErr != nil {
				s.True(errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				s.Nil(reservation)
				s.reservations.AssertNotCalled(s.T(), "Confirm", mock.Anything, mock.Anything)
				s.locks.AssertNotCalled(s.T(), "Release", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				s.events.AssertNotCalled(s.T(), "PublishBookingConfirmed", mock.Anything, mock.Anything)
				return
			}

			s.Require().NoError(err)
			s.Equal(9, reservation.ID)
			s.Equal(tt.wantTotal, reservation.TotalPrice)
			s.Equal(1, s.tx.Calls)
			s.locks.AssertExpectations(s.T())
			s.events.AssertExpectations(s.T())
		})
	}
}

func (s *ServiceTestSuite) TestConfirmHold() {
	holdHolder := domain.ReservationHolder(9)
	holders := []domain.Holder{domain.UserHolder(testUserID), holdHolder}
	expiresAt := testNow.Add(time.Minute)
	expiredAt := testNow.Add(-time.Second)

	tests := []struct {
		name    string
		hold    *domain.Reservation
		held    []int
		wantErr error
	}{
		{
			name: "hold of another user",
			hold: &domain.Reservation{
				ID: 9, UserID: 7, ShowtimeID: testShowtimeID, Status: domain.ReservationHold, ExpiresAt: &expiresAt,
			},
			wantErr: domain.ErrAccessDenied,
		},
		{
			name: "hold already confirmed",
			hold: &domain.Reservation{
				ID: 9, UserID: testUserID, ShowtimeID: testShowtimeID, Status: domain.ReservationConfirmed,
			},
			wantErr: domain.ErrBookingNotFound,
		},
		{
			name: "hold ran out",
			hold: &domain.Reservation{
				ID: 9, UserID: testUserID, ShowtimeID: testShowtimeID, Status: domain.ReservationHold, ExpiresAt: &expiredAt,
			},
			wantErr: domain.ErrHoldExpired,
		},
		{
			name: "only part of the held seats",
			hold: &domain.Reservation{
				ID: 9, UserID: testUserID, ShowtimeID: testShowtimeID, Status: domain.ReservationHold, ExpiresAt: &expiresAt,
			},
			held:    []int{101, 102},
			wantErr: domain.ErrHoldSeatsMismatch,
		},
		{
			name: "seats the hold never locked",
			hold: &domain.Reservation{
				ID: 9, UserID: testUserID, ShowtimeID: testShowtimeID, Status: domain.ReservationHold, ExpiresAt: &expiresAt,
			},
			held:    []int{102},
			wantErr: domain.ErrHoldSeatsMismatch,
		},
		{
			name: "hold confirmed",
			hold: &domain.Reservation{
				ID: 9, UserID: testUserID, ShowtimeID: testShowtimeID, Status: domain.ReservationHold, ExpiresAt: &expiresAt,
			},
			held: []int{101},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			s.reservations.On("GetForUpdate", mock.Anything, 9).Return(tt.hold, nil)
			s.locks.On("GetLiveSeatIdsByHolder", mock.Anything, testShowtimeID, holdHolder, testNow).Return(tt.held, nil)
			s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
			s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
			s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).Return([]domain.ReservationSeat{}, nil)
			s.locks.On("Acquire", mock.Anything, mock.Anything, []int{101}, testNow, holders).Return([]int{101}, nil)
			s.reservations.On("Confirm", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
				return r.ID == 9 && r.Status == domain.ReservationConfirmed
			})).Return(nil)
			s.locks.On("Release", mock.Anything, testShowtimeID, []int{101}, holders).Return(int64(1), nil)
			s.locks.On("Release", mock.Anything, testShowtimeID, []int(nil), []domain.Holder{holdHolder}).Return(int64(0), nil)
			s.events.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(nil)

			reservation, err := s.service.Confirm(context.Background(), booking.ConfirmRequest{
				UserID:     testUserID,
				ShowtimeID: testShowtimeID,
				SeatIDs:    []int{101},
				HoldID:     9,
			})
			s.service.Wait()

			if tt.wantErr != nil {
				s.True(errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				s.reservations.AssertNotCalled(s.T(), "Confirm", mock.Anything, mock.Anything)
				s.locks.AssertNotCalled(s.T(), "Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				s.locks.AssertNotCalled(s.T(), "Release", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}

			s.Require().NoError(err)
			s.Equal(9, reservation.ID)
			s.Equal(50000, reservation.TotalPrice)
			s.reservations.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
			s.locks.AssertExpectations(s.T())
		})
	}
}

func (s *ServiceTestSuite) TestConfirmReleasesGuestSessionLocks() {
	sessionHolder := domain.SessionHolder("guest-token")
	holders := []domain.Holder{domain.UserHolder(testUserID), sessionHolder}

	s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
	s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
	s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).Return([]domain.ReservationSeat{}, nil)
	s.locks.On("Acquire", mock.Anything, mock.Anything, []int{101}, testNow, holders).Return([]int{101}, nil)
	s.reservations.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.locks.On("Release", mock.Anything, testShowtimeID, []int{101}, holders).Return(int64(1), nil)
	s.events.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(nil)

	_, err := s.service.Confirm(context.Background(), booking.ConfirmRequest{
		UserID:     testUserID,
		ShowtimeID: testShowtimeID,
		SeatIDs:    []int{101},
		Holders:    []domain.Holder{sessionHolder, ""},
	})
	s.service.Wait()

	s.Require().NoError(err)
	s.locks.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestConfirmSurvivesPublishFailure() {
	s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
	s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
	s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).Return([]domain.ReservationSeat{}, nil)
	s.locks.On("Acquire", mock.Anything, mock.Anything, []int{101}, testNow, mock.Anything).Return([]int{101}, nil)
	s.reservations.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.locks.On("Release", mock.Anything, testShowtimeID, []int{101}, mock.Anything).Return(int64(1), nil)
	s.events.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	reservation, err := s.service.Confirm(context.Background(), booking.ConfirmRequest{
		UserID:     testUserID,
		ShowtimeID: testShowtimeID,
		SeatIDs:    []int{101},
	})
	s.service.Wait()

	s.Require().NoError(err)
	s.NotNil(reservation)
	s.events.AssertExpectations(s.T())
}
