// Package pagerank turns a corrected adjacency matrix into the linear system
// (I - α·Pᵀ)·x = ((1-α)/N)·𝟙 and solves it with Gauss-Seidel sweeps.
package pagerank

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultAlpha         = 0.85
	DefaultTolerance     = 1e-4
	DefaultMaxIterations = 200
)

var ErrInvalidParams = errors.New("invalid solver parameters")

// Params controls the matrix transform and the solver
type Params struct {
	Alpha         float64 // damping factor, in [0, 1)
	Tolerance     float64 // stop once the sweep delta norm is <= Tolerance
	MaxIterations int     // hard cap on sweeps
}

// DefaultParams returns α = 0.85, ε = 1e-4 and a 200 sweep cap
func DefaultParams() Params {
	return Params{
		Alpha:         DefaultAlpha,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate rejects parameters for which the diagonal of I - α·Pᵀ may vanish
// or the loop may never stop
func (p Params) Validate() error {
	if math.IsNaN(p.Alpha) || p.Alpha < 0 || p.Alpha >= 1 {
		return fmt.Errorf("%w: alpha must be in [0, 1), got %v", ErrInvalidParams, p.Alpha)
	}
	if math.IsNaN(p.Tolerance) || p.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be >= 0, got %v", ErrInvalidParams, p.Tolerance)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be >= 1, got %d", ErrInvalidParams, p.MaxIterations)
	}
	return nil
}
