package interval

import "math/rand/v2"

// Source supplies uniformly distributed floats in [0, 1). Algorithms may be
// shared between goroutines, so a Source must be safe for concurrent use.
type Source interface {
	Float64() float64
}

type globalSource struct{}

//nolint:gosec // G404: jitter does not need a cryptographic generator
func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource is the process-wide math/rand/v2 generator.
var DefaultSource Source = globalSource{} //nolint:gochecknoglobals

func orDefault(src Source) Source {
	if src == nil {
		return DefaultSource
	}

	return src
}

// between returns a uniformly chosen value in [low, high].
func between(src Source, low, high float64) float64 {
	return low + orDefault(src).Float64()*(high-low)
}
