package sim

import "time"

// FrameBudget is the wall time one tick may take at fps.
func FrameBudget(fps int) time.Duration {
	if fps < 1 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}

// Remaining is how long to sleep after a tick that took elapsed. It is zero
// when the tick ran over budget; the next tick starts at once and the lost
// time is not made up.
func Remaining(fps int, elapsed time.Duration) time.Duration {
	return max(FrameBudget(fps)-elapsed, 0)
}
