package ability

// Config controls the Newton-Raphson iteration and the plausible range the
// returned theta is clamped to.
type Config struct {
	// Epsilon is the convergence threshold on |delta theta|.
	Epsilon float64

	// MaxIterations caps the Newton-Raphson loop.
	MaxIterations int

	// MinTheta and MaxTheta bound every returned estimate.
	MinTheta float64
	MaxTheta float64
}

// DefaultConfig returns the recommended iteration constants.
func DefaultConfig() Config {
	return Config{
		Epsilon:       1e-4,
		MaxIterations: 25,
		MinTheta:      -4.0,
		MaxTheta:      4.0,
	}
}
