package duty

import (
	"testing"
	"time"
)

func TestAwardedPoints(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     int
	}{
		{"zero", 0, 0},
		{"just under one point", 3*time.Minute + 59*time.Second, 0},
		{"exactly four minutes", 4 * time.Minute, 1},
		{"seven minutes truncates twice", 7 * time.Minute, 1},
		{"eight minutes", 8 * time.Minute, 2},
		{"twenty two minutes", 22 * time.Minute, 5},
		{"forty minutes", 40 * time.Minute, 10},
		{"twelve hours", 12 * time.Hour, 180},
		{"negative clamps to zero", -5 * time.Minute, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AwardedPoints(tc.duration); got != tc.want {
				t.Fatalf("AwardedPoints(%v) = %d, want %d", tc.duration, got, tc.want)
			}
		})
	}
}
