package algoperf

import (
	"fmt"
	"time"
)

// Measure runs fn exactly once and returns its elapsed time. time.Now carries
// a monotonic reading, so the result is immune to wall clock adjustments.
// A panic raised by fn is returned as *ExecutionError.
func Measure(fn func()) (elapsed time.Duration, err error) {
	start := time.Now()
	defer func() {
		elapsed = time.Since(start)
		if r := recover(); r != nil {
			err = &ExecutionError{Cause: panicError(r)}
		}
	}()

	fn()
	return
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
