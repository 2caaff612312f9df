package extract

import "time"

// Progress carries the two one-way progress channels of an extraction.
// Either callback may be nil. Extractors invoke them zero or more times
// from the goroutine running Extract. There is no backpressure.
type Progress struct {
	// OnFraction receives the completed fraction in [0, 1].
	OnFraction func(fraction float64)

	// OnRemaining receives the estimated time left.
	OnRemaining func(remaining time.Duration)
}

// Fraction reports the completed fraction, clamped to [0, 1].
// It is safe to call on a nil Progress.
func (p *Progress) Fraction(fraction float64) {
	if p == nil || p.OnFraction == nil {
		return
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	p.OnFraction(fraction)
}

// Remaining reports the estimated time left. Negative durations are
// reported as zero. It is safe to call on a nil Progress.
func (p *Progress) Remaining(remaining time.Duration) {
	if p == nil || p.OnRemaining == nil {
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	p.OnRemaining(remaining)
}

// estimateRemaining extrapolates the time left from the throughput so far.
// It returns false until some bytes have been processed.
func estimateRemaining(elapsed time.Duration, done, total uint64) (time.Duration, bool) {
	if done == 0 || total == 0 || elapsed <= 0 {
		return 0, false
	}
	if done >= total {
		return 0, true
	}
	perByte := float64(elapsed) / float64(done)
	return time.Duration(perByte * float64(total-done)), true
}
