package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_NilSafe(t *testing.T) {
	var p *Progress
	assert.NotPanics(t, func() {
		p.Fraction(0.5)
		p.Remaining(time.Second)
	})

	empty := &Progress{}
	assert.NotPanics(t, func() {
		empty.Fraction(0.5)
		empty.Remaining(time.Second)
	})
}

func TestProgress_Clamps(t *testing.T) {
	var fractions []float64
	var remaining []time.Duration
	p := &Progress{
		OnFraction:  func(f float64) { fractions = append(fractions, f) },
		OnRemaining: func(d time.Duration) { remaining = append(remaining, d) },
	}

	p.Fraction(-0.5)
	p.Fraction(0.25)
	p.Fraction(3)
	p.Remaining(-time.Second)
	p.Remaining(2 * time.Second)

	assert.Equal(t, []float64{0, 0.25, 1}, fractions)
	assert.Equal(t, []time.Duration{0, 2 * time.Second}, remaining)
}

func TestEstimateRemaining(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		done    uint64
		total   uint64
		want    time.Duration
		ok      bool
	}{
		{"nothing done yet", time.Second, 0, 100, 0, false},
		{"empty archive", time.Second, 0, 0, 0, false},
		{"half done", 2 * time.Second, 50, 100, 2 * time.Second, true},
		{"quarter done", time.Second, 25, 100, 3 * time.Second, true},
		{"finished", time.Second, 100, 100, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := estimateRemaining(tt.elapsed, tt.done, tt.total)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
