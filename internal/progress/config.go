package progress

import "time"

// Timings collects every wall-clock parameter of the sync core. All values
// are plain durations; tests drive them through a fake clock.
type Timings struct {
	// RealtimeTTL is how long a realtime snapshot stays fresh.
	RealtimeTTL time.Duration
	// DashboardTTL is how long a dashboard snapshot stays fresh.
	DashboardTTL time.Duration
	// InitialPollDelay is the pause before the first poll, giving the
	// backend's asynchronous processing a head start.
	InitialPollDelay time.Duration
	// PollInterval is the fixed spacing between polls.
	PollInterval time.Duration
	// MaxPollDuration bounds a polling cycle; past it the cycle times out.
	MaxPollDuration time.Duration
}

// DefaultTimings returns the reference configuration.
func DefaultTimings() Timings {
	return Timings{
		RealtimeTTL:      5 * time.Second,
		DashboardTTL:     30 * time.Second,
		InitialPollDelay: 1 * time.Second,
		PollInterval:     2 * time.Second,
		MaxPollDuration:  30 * time.Second,
	}
}
