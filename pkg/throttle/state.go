package throttle

import "time"

// State is the per-key throttle record: failure timestamps inside the
// sliding window plus an optional lockout deadline.
type State struct {
	Attempts     []time.Time `json:"attempts,omitempty"`
	BlockedUntil time.Time   `json:"blocked_until"`
}

// IsZero reports whether the state carries no attempts and no lockout.
func (s State) IsZero() bool {
	return len(s.Attempts) == 0 && s.BlockedUntil.IsZero()
}

// prune drops attempts that fell out of the sliding window.
func (s State) prune(now time.Time, window time.Duration) State {
	cutoff := now.Add(-window)
	kept := s.Attempts[:0:0]
	for _, ts := range s.Attempts {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	s.Attempts = kept
	return s
}
