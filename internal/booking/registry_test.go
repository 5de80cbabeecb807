package booking_test

import (
	"context"
	"errors"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

var testStartAt = time.Date(2025, 4, 1, 19, 30, 0, 0, time.UTC)

func catalogPerformance() *domain.CatalogPerformance {
	return &domain.CatalogPerformance{
		ExternalID: "PF132236",
		Title:      "Hamlet",
		VenueName:  "Arts Center",
		PosterUrl:  "http://example.com/hamlet.gif",
		PriceGuide: "R석 100,000원, S석 70,000원",
		Prices:     []int{100000, 70000},
	}
}

func (s *ServiceTestSuite) TestEnsureShowtimeExisting() {
	s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", testStartAt).Return(21, nil)

	id, err := s.service.EnsureShowtime(context.Background(), "PF132236", testStartAt)

	s.Require().NoError(err)
	s.Equal(21, id)
	s.catalog.AssertNotCalled(s.T(), "GetPerformance", mock.Anything, mock.Anything)
	s.showtimes.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestEnsureShowtimeNormalizesInput() {
	seoul := time.FixedZone("KST", 9*60*60)
	startAt := time.Date(2025, 4, 2, 4, 30, 0, 123456789, seoul)
	want := time.Date(2025, 4, 1, 19, 30, 0, 123456000, time.UTC)

	s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(want) && t.Location() == time.UTC && t.Nanosecond() == want.Nanosecond()
	})).Return(21, nil)

	id, err := s.service.EnsureShowtime(context.Background(), "  PF132236 ", startAt)

	s.Require().NoError(err)
	s.Equal(21, id)
}

func (s *ServiceTestSuite) TestEnsureShowtimeBlankExternalID() {
	_, err := s.service.EnsureShowtime(context.Background(), "   ", testStartAt)
	s.ErrorIs(err, domain.ErrInvalidExternalID)
}

func (s *ServiceTestSuite) TestEnsureShowtimeCreatesCatalogChain() {
	var seeded []domain.Seat

	s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", testStartAt).
		Return(0, domain.ErrRecordNotFound)
	s.shows.On("GetShowIdByExternalId", mock.Anything, "PF132236").Return(0, domain.ErrRecordNotFound)
	s.catalog.On("GetPerformance", mock.Anything, "PF132236").Return(catalogPerformance(), nil)
	s.shows.On("GetOrCreateVenue", mock.Anything, "Arts Center").Return(testVenueID, true, nil)
	s.seats.CreateSeatsFunc = func(_ context.Context, venueID int, seats []domain.Seat) error {
		s.Equal(testVenueID, venueID)
		seeded = seats
		return nil
	}
	s.shows.On("GetOrCreatePerformance", mock.Anything, domain.Performance{
		ExternalID: "PF132236",
		Title:      "Hamlet",
		PosterUrl:  "http://example.com/hamlet.gif",
		PriceGuide: "R석 100,000원, S석 70,000원",
		VenueID:    testVenueID,
	}).Return(3, nil)
	s.shows.On("GetOrCreateShow", mock.Anything, "PF132236", 3).Return(11, nil)
	s.showtimes.On("Create", mock.Anything, mock.MatchedBy(func(st *domain.Showtime) bool {
		return st.ShowID == 11 && st.ExternalID == "PF132236" && st.StartAt.Equal(testStartAt)
	})).Return(21, nil)

	id, err := s.service.EnsureShowtime(context.Background(), "PF132236", testStartAt)

	s.Require().NoError(err)
	s.Equal(21, id)
	s.Len(seeded, 200)
	s.Equal(100000, seeded[0].Price)
	s.Equal(70000, seeded[len(seeded)-1].Price)
	s.Equal(1, s.tx.Calls)
	s.shows.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestEnsureShowtimeKnownVenueIsNotReseeded() {
	s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", testStartAt).
		Return(0, domain.ErrRecordNotFound)
	s.shows.On("GetShowIdByExternalId", mock.Anything, "PF132236").Return(0, domain.ErrRecordNotFound)
	s.catalog.On("GetPerformance", mock.Anything, "PF132236").Return(catalogPerformance(), nil)
	s.shows.On("GetOrCreateVenue", mock.Anything, "Arts Center").Return(testVenueID, false, nil)
	s.shows.On("GetOrCreatePerformance", mock.Anything, mock.Anything).Return(3, nil)
	s.shows.On("GetOrCreateShow", mock.Anything, "PF132236", 3).Return(11, nil)
	s.showtimes.On("Create", mock.Anything, mock.Anything).Return(21, nil)

	id, err := s.service.EnsureShowtime(context.Background(), "PF132236", testStartAt)

	s.Require().NoError(err)
	s.Equal(21, id)
}

func (s *ServiceTestSuite) TestEnsureShowtimeLosesInsertRace() {
	s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", testStartAt).
		Return(0, domain.ErrRecordNotFound).Once()
	s.shows.On("GetShowIdByExternalId", mock.Anything, "PF132236").Return(11, nil)
	s.showtimes.On("Create", mock.Anything, mock.Anything).Return(0, domain.ErrShowtimeAlreadyExists)
	s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", testStartAt).Return(21, nil).Once()

	id, err := s.service.EnsureShowtime(context.Background(), "PF132236", testStartAt)

	s.Require().NoError(err)
	s.Equal(21, id)
	s.catalog.AssertNotCalled(s.T(), "GetPerformance", mock.Anything, mock.Anything)
	s.showtimes.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestEnsureShowtimeCatalogFailure() {
	tests := []struct {
		name       string
		catalogErr error
	}{
		{name: "unknown performance", catalogErr: domain.ErrPerformanceNotFound},
		{name: "catalog unavailable", catalogErr: domain.ErrCatalogUnavailable},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			s.showtimes.On("GetIdByExternalIdAndStartAt", mock.Anything, "PF132236", testStartAt).
				Return(0, domain.ErrRecordNotFound)
			s.shows.On("GetShowIdByExternalId", mock.Anything, "PF132236").Return(0, domain.ErrRecordNotFound)
			s.catalog.On("GetPerformance", mock.Anything, "PF132236").Return(nil, tt.catalogErr)

			_, err := s.service.EnsureShowtime(context.Background(), "PF132236", testStartAt)

			s.True(errors.Is(err, tt.catalogErr), "got %v, want %v", err, tt.catalogErr)
			s.Equal(0, s.tx.Calls)
			s.showtimes.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
		})
	}
}
