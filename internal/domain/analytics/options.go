package analytics

import "time"

// DefaultRecentWindow is the trailing window of PlayerSummary.Last30Days.
const DefaultRecentWindow = 30 * 24 * time.Hour

type settings struct {
	recentWindow time.Duration
}

// Option configures Summarize.
type Option func(*settings)

// WithRecentWindow sets the trailing window of the recent sub-aggregate.
// Non-positive values keep the default.
func WithRecentWindow(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.recentWindow = d
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{recentWindow: DefaultRecentWindow}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
