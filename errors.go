package fractal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidView indicates a view with a non-positive (or non-finite) radius.
	ErrInvalidView = errors.New("fractal: view radius must be positive")
	// ErrInvalidSpec indicates a spec that cannot be evaluated.
	ErrInvalidSpec = errors.New("fractal: invalid spec")
	// ErrEvaluation indicates that a chunk worker failed and the whole raster was discarded.
	ErrEvaluation = errors.New("fractal: evaluation failed")
	// ErrTimeout indicates that the evaluation deadline passed before all chunks were joined.
	ErrTimeout = errors.New("fractal: evaluation deadline exceeded")
	// ErrClosed indicates use of an evaluator after Close.
	ErrClosed = errors.New("fractal: evaluator closed")
)

// EvaluationError reports the chunk whose computation failed.
type EvaluationError struct {
	Chunk Chunk
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%v: chunk %s: %v", ErrEvaluation, e.Chunk, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Is reports ErrEvaluation as a match so callers need not type-assert.
func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluation
}
