package domain

import (
	"testing"
	"time"
)

func TestPromotionIsCurrent(t *testing.T) {
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	p := Promotion{Active: true, StartAt: start, EndAt: end}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"at start", start, true},
		{"mid window", start.Add(30 * time.Minute), true},
		{"at end", end, false},
		{"after end", end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsCurrent(tt.now); got != tt.want {
				t.Errorf("IsCurrent(%s) = %v; want %v", tt.now.Format(time.RFC3339), got, tt.want)
			}
		})
	}

	inactive := Promotion{Active: false, StartAt: start, EndAt: end}
	if inactive.IsCurrent(start.Add(30 * time.Minute)) {
		t.Error("inactive promotion reported current")
	}
}
