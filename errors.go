package algoperf

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrExecutionFailure = errors.New("algorithm execution failed")
)

type UnknownAlgorithmError struct {
	ID string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm: %s", e.ID)
}

func (e *UnknownAlgorithmError) Is(target error) bool {
	return target == ErrUnknownAlgorithm
}

// ExecutionError is returned when an algorithm panics during a trial.
// AlgorithmID, N and Trial are set by the runner; Measure only fills Cause.
type ExecutionError struct {
	AlgorithmID string
	N           int
	Trial       int
	Cause       error
}

func (e *ExecutionError) Error() string {
	if e.AlgorithmID == "" {
		return fmt.Sprintf("%s: %v", ErrExecutionFailure, e.Cause)
	}
	return fmt.Sprintf("%s: %s n=%d trial=%d: %v", ErrExecutionFailure, e.AlgorithmID, e.N, e.Trial, e.Cause)
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailure
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
