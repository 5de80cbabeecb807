package booking

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/metinatakli/seat-reservation-system/internal/booking"

type metrics struct {
	lockConflicts     metric.Int64Counter
	confirmations     metric.Int64Counter
	bookedSeatRejects metric.Int64Counter
	sweptLocks        metric.Int64Counter
	sweptHolds        metric.Int64Counter
}

// newMetrics creates the booking counters on mp, or on the global provider
// when mp is nil. An instrument that fails to register counts nothing.
func newMetrics(mp metric.MeterProvider) *metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(meterName)

	return &metrics{
		lockConflicts: counter(meter, "booking.seat_lock.conflicts",
			"Seats refused because another holder has a live lock", "{seat}"),
		confirmations: counter(meter, "booking.confirmations",
			"Bookings confirmed", "{booking}"),
		bookedSeatRejects: counter(meter, "booking.booked_seat.rejections",
			"Confirmations the store rejected because a seat was booked concurrently", "{booking}"),
		sweptLocks: counter(meter, "booking.sweep.locks",
			"Expired seat locks deleted by the sweeper", "{lock}"),
		sweptHolds: counter(meter, "booking.sweep.holds",
			"Expired holds cancelled by the sweeper", "{hold}"),
	}
}

func counter(meter metric.Meter, name, description, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}

	return c
}

func (m *metrics) lockConflict(ctx context.Context, seats int) {
	m.lockConflicts.Add(ctx, int64(seats))
}

func (m *metrics) confirmed(ctx context.Context, fromHold bool) {
	m.confirmations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("from_hold", fromHold)))
}

func (m *metrics) bookedSeatRejected(ctx context.Context) {
	m.bookedSeatRejects.Add(ctx, 1)
}

func (m *metrics) swept(ctx context.Context, result SweepResult) {
	m.sweptLocks.Add(ctx, result.ExpiredLocks)
	m.sweptHolds.Add(ctx, result.ExpiredHolds)
}
