package engine

import "time"

func nextDeadline(tickIntervalHours int) int64 {
	if tickIntervalHours <= 0 {
		tickIntervalHours = 24
	}
	return time.Now().Add(time.Duration(tickIntervalHours) * time.Hour).Unix()
}
