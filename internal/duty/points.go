package duty

import "time"

const minutesPerPoint = 4

// AwardedPoints converts time served into reward points: one point per
// four full minutes. The duration is truncated to whole minutes before the
// division, so 7 minutes yields 1 point, not 1.75 rounded.
func AwardedPoints(d time.Duration) int {
	totalMinutes := int(d / time.Minute)
	if totalMinutes < 0 {
		return 0
	}
	return totalMinutes / minutesPerPoint
}
