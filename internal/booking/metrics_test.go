package booking_test

import (
	"context"

	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// counterValue sums every data point recorded so far on the named counter.
func (s *ServiceTestSuite) counterValue(name string) int64 {
	var rm metricdata.ResourceMetrics
	s.Require().NoError(s.metricReader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			s.Require().True(ok, "%s is not an int64 sum", name)

			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}

func (s *ServiceTestSuite) TestMetricsCountLockConflicts() {
	holder := domain.SessionHolder("abc")

	s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
	s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
	s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).Return([]domain.ReservationSeat{}, nil)
	s.locks.On("Acquire", mock.Anything, mock.Anything, []int{101, 102}, testNow, []domain.Holder{holder}).
		Return([]int{}, nil)

	_, err := s.service.AcquireLocks(context.Background(), booking.LockRequest{
		ShowtimeID: testShowtimeID,
		SeatIDs:    []int{101, 102},
		Holder:     holder,
	})
	s.ErrorIs(err, domain.ErrSeatAlreadyLocked)

	s.Equal(int64(2), s.counterValue("booking.seat_lock.conflicts"))
}

func (s *ServiceTestSuite) TestMetricsCountConfirmations() {
	s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
	s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
	s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).Return([]domain.ReservationSeat{}, nil)
	s.locks.On("Acquire", mock.Anything, mock.Anything, []int{101}, testNow, mock.Anything).Return([]int{101}, nil)
	s.reservations.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.locks.On("Release", mock.Anything, testShowtimeID, []int{101}, mock.Anything).Return(int64(1), nil)
	s.events.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(nil)

	_, err := s.service.Confirm(context.Background(), booking.ConfirmRequest{
		UserID:     testUserID,
		ShowtimeID: testShowtimeID,
		SeatIDs:    []int{101},
	})
	s.service.Wait()

	s.Require().NoError(err)
	s.Equal(int64(1), s.counterValue("booking.confirmations"))
	s.Zero(s.counterValue("booking.booked_seat.rejections"))
}

func (s *ServiceTestSuite) TestMetricsCountBookedSeatRejections() {
	s.showtimes.On("GetDetail", mock.Anything, testShowtimeID).Return(completeDetail(), nil)
	s.seats.GetSeatsByVenueAndIdsFunc = seatsByID(testSeats())
	s.reservations.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).Return([]domain.ReservationSeat{}, nil)
	s.locks.On("Acquire", mock.Anything, mock.Anything, []int{101}, testNow, mock.Anything).Return([]int{101}, nil)
	s.reservations.On("Create", mock.Anything, mock.Anything).Return(domain.ErrSeatAlreadyBooked)

	_, err := s.service.Confirm(context.Background(), booking.ConfirmRequest{
		UserID:     testUserID,
		ShowtimeID: testShowtimeID,
		SeatIDs:    []int{101},
	})
	s.service.Wait()

	s.ErrorIs(err, domain.ErrSeatAlreadyBooked)
	s.Equal(int64(1), s.counterValue("booking.booked_seat.rejections"))
	s.Zero(s.counterValue("booking.confirmations"))
}

func (s *ServiceTestSuite) TestMetricsCountSweptLocksAndHolds() {
	s.locks.On("DeleteExpired", mock.Anything, testNow).Return(int64(4), nil)
	s.reservations.On("CancelExpiredHolds", mock.Anything, testNow).Return(int64(1), nil)

	_, err := s.service.SweepExpired(context.Background(), testNow)
	s.Require().NoError(err)

	s.Equal(int64(4), s.counterValue("booking.sweep.locks"))
	s.Equal(int64(1), s.counterValue("booking.sweep.holds"))
}
