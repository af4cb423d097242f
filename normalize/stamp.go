package normalize

import (
	"time"

	"github.com/poiesic/stixify/core"
)

// Stamper assigns identity and temporal fields to indicators.
type Stamper struct {
	now   func() time.Time
	newID func() string
}

// StamperOption configures a Stamper.
type StamperOption func(*Stamper)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) StamperOption {
	return func(s *Stamper) {
		s.now = now
	}
}

// WithIDSource sets the identifier source. Defaults to core.NewIndicatorID.
func WithIDSource(newID func() string) StamperOption {
	return func(s *Stamper) {
		s.newID = newID
	}
}

// NewStamper creates a Stamper with the given options applied.
func NewStamper(opts ...StamperOption) *Stamper {
	s := &Stamper{
		now:   time.Now,
		newID: core.NewIndicatorID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stamp reads the clock once and writes that timestamp to created, modified and
// valid_from of every indicator, and gives each indicator a fresh id.
// The slice is modified in place and returned for convenience.
func (s *Stamper) Stamp(indicators []core.Indicator) []core.Indicator {
	ts := core.FormatTimestamp(s.now())
	for i := range indicators {
		indicators[i].ID = s.newID()
		indicators[i].Created = ts
		indicators[i].Modified = ts
		indicators[i].ValidFrom = ts
	}
	return indicators
}
