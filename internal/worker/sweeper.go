package worker

import (
	"context"
	"time"

	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/metrics"
)

// MissedMarker is the slice of the appointment service the sweeper uses.
type MissedMarker interface {
	MarkMissedAppointments(ctx context.Context) (int64, error)
}

// Sweeper periodically marks past-due appointments as missed. One run
// failing does not stop the loop.
type Sweeper struct {
	appointments MissedMarker
	interval     time.Duration
	metrics      *metrics.SweepMetrics
	logger       *logger.Logger
}

func NewSweeper(appointments MissedMarker, interval time.Duration, m *metrics.SweepMetrics, logger *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		appointments: appointments,
		interval:     interval,
		metrics:      m,
		logger:       logger,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("appointment sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("appointment sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	s.metrics.Runs.Inc()

	count, err := s.appointments.MarkMissedAppointments(ctx)
	if err != nil {
		s.metrics.Failures.Inc()
		s.logger.Error(err, "missed-appointment sweep failed")
		return
	}

	if count > 0 {
		s.metrics.MarkedMissed.Add(float64(count))
		s.logger.Info("marked appointments missed", "count", count)
	}
}
