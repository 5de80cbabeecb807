package integration_test

import (
	"time"
)

const (
	// Container related constants
	TestDBImage    = "postgres:17-alpine"
	TestDBName     = "seat_reservation"
	TestDBUser     = "test_user"
	TestDBPassword = "test_password"
	TestCacheImage = "redis:7"

	// Auth related constants
	TestJWTSecret   = "integration-secret"
	TestUserId      = 1
	TestOtherUserId = 2

	// Catalog related constants
	TestCatalogServiceKey = "integration-service-key"
	TestExternalID        = "PF132236"
	TestOtherExternalID   = "PF245117"
	TestMissingExternalID = "PF000000"

	// Seat related constants
	TestSeatPrice     = 50000
	TestSeatsPerVenue = 200
)

var TestStartAt = time.Date(2026, time.December, 24, 19, 30, 0, 0, time.UTC)
