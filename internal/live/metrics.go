package live

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "tennis-dashboard/live"

type engineMetrics struct {
	ticks       metric.Int64Counter
	events      metric.Int64Counter
	subscribers metric.Int64UpDownCounter
}

// newEngineMetrics binds to whatever global MeterProvider is installed at
// construction time; with none installed every instrument is a no-op.
func newEngineMetrics() (engineMetrics, error) {
	meter := otel.Meter(meterName)

	ticks, err1 := meter.Int64Counter("live.ticks",
		metric.WithDescription("Simulation ticks executed"))
	events, err2 := meter.Int64Counter("live.events",
		metric.WithDescription("Match events generated by the simulation"))
	subscribers, err3 := meter.Int64UpDownCounter("live.subscribers",
		metric.WithDescription("Active match update subscribers"))

	m := engineMetrics{ticks: ticks, events: events, subscribers: subscribers}
	if m.ticks == nil {
		m.ticks = noop.Int64Counter{}
	}
	if m.events == nil {
		m.events = noop.Int64Counter{}
	}
	if m.subscribers == nil {
		m.subscribers = noop.Int64UpDownCounter{}
	}
	return m, errors.Join(err1, err2, err3)
}
