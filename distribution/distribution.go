// Package distribution implements the prior/proposal distribution families
// used to score and sample parameter values: fifteen families split across
// three capability tiers (pdf/pmf, "full line" sampling, and
// "semi-interval" (0, inf) sampling), each supporting only the subset of
// {PDF, PMF, RandomLine, RandomSemiInterval, RandomRange, RandomRangeWith}
// that makes mathematical sense for it. Calling an operation a family does
// not support returns an *UnsupportedError rather than panicking.
package distribution

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDomain is returned when a value, or a distribution's own parameters,
// fall outside the domain a density, mass function, or sampler is defined
// on.
var ErrDomain = errors.New("distribution: value outside valid domain")

// Distribution is a closed union over the fifteen supported families.
// Concrete values are plain data (Beta, Normal, Chi, ...); the package-level
// functions below dispatch on the concrete type, mirroring the single
// tagged enum this engine's prior/proposal distributions were modeled on.
type Distribution interface {
	isDistribution()
}

// UnsupportedError reports that an operation was attempted against a
// distribution family that does not define it.
type UnsupportedError struct {
	Op   string
	Type string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("distribution: %s does not support %s", e.Type, e.Op)
}

func unsupported(op string, d Distribution) error {
	return &UnsupportedError{Op: op, Type: fmt.Sprintf("%T", d)}
}

// PDF evaluates the probability density at x. Uniform, Triangular, and
// Poisson have no density and return an *UnsupportedError.
func PDF(d Distribution, x float64) (float64, error) {
	switch v := d.(type) {
	case Beta:
		if x < 0 || x > 1 {
			return 0, fmt.Errorf("%w: Beta is defined on [0, 1], got %v", ErrDomain, x)
		}
		return distuv.Beta{Alpha: v.Alpha, Beta: v.Beta}.Prob(x), nil
	case Chi:
		if x < 0 {
			return 0, fmt.Errorf("%w: Chi is defined on [0, inf), got %v", ErrDomain, x)
		}
		return chiPDF(x, v.DF), nil
	case ChiSquared:
		if x < 0 {
			return 0, fmt.Errorf("%w: ChiSquared is defined on [0, inf), got %v", ErrDomain, x)
		}
		return distuv.ChiSquared{K: float64(v.DF)}.Prob(x), nil
	case Exponential:
		if x < 0 {
			return 0, fmt.Errorf("%w: Exponential is defined on [0, inf), got %v", ErrDomain, x)
		}
		return distuv.Exponential{Rate: v.Rate}.Prob(x), nil
	case Gamma:
		if x <= 0 {
			return 0, fmt.Errorf("%w: Gamma is defined on (0, inf), got %v", ErrDomain, x)
		}
		return distuv.Gamma{Alpha: v.Shape, Beta: 1.0 / v.Scale}.Prob(x), nil
	case InverseGamma:
		if x <= 0 {
			return 0, fmt.Errorf("%w: InverseGamma is defined on (0, inf), got %v", ErrDomain, x)
		}
		return inverseGammaPDF(x, v.Shape, v.Scale), nil
	case LogNormal:
		if x <= 0 {
			return 0, fmt.Errorf("%w: LogNormal is defined on (0, inf), got %v", ErrDomain, x)
		}
		return distuv.LogNormal{Mu: v.Mean, Sigma: v.StdDev}.Prob(x), nil
	case Cauchy:
		return cauchyPDF(x, v.Location, v.Scale), nil
	case Laplace:
		return laplacePDF(x, v.Location, v.Scale), nil
	case Normal:
		return distuv.Normal{Mu: v.Mean, Sigma: v.StdDev}.Prob(x), nil
	case StudentT:
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: v.DF}.Prob(x), nil
	case Bactrian:
		if err := v.validate(); err != nil {
			return 0, err
		}
		return bactrianPDF(x, v.M, v.StdDev), nil
	default:
		return 0, unsupported("a pdf", d)
	}
}

// PMF evaluates the probability mass at the integer k. Only Poisson has a
// probability mass function.
func PMF(d Distribution, k int64) (float64, error) {
	switch v := d.(type) {
	case Poisson:
		if k < 0 {
			return 0, fmt.Errorf("%w: Poisson is defined on {0, 1, 2, ...}, got %d", ErrDomain, k)
		}
		return distuv.Poisson{Lambda: v.Rate}.Prob(float64(k)), nil
	default:
		return 0, unsupported("a pmf", d)
	}
}

// RandomLine draws a sample from a "full line" distribution: one whose
// support is all of R. Cauchy, Laplace, Normal, StudentT, and Bactrian
// support this; the rest return an *UnsupportedError.
func RandomLine(d Distribution, rng *rand.Rand) (float64, error) {
	switch v := d.(type) {
	case Cauchy:
		return v.Location + v.Scale*math.Tan(math.Pi*(rng.Float64()-0.5)), nil
	case Laplace:
		return laplaceSample(rng, v.Location, v.Scale), nil
	case Normal:
		return distuv.Normal{Mu: v.Mean, Sigma: v.StdDev, Src: rng}.Rand(), nil
	case StudentT:
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: v.DF, Src: rng}.Rand(), nil
	case Bactrian:
		if err := v.validate(); err != nil {
			return 0, err
		}
		return bactrianSample(rng, v.M, v.StdDev), nil
	default:
		return 0, unsupported("random_line", d)
	}
}

// RandomSemiInterval draws a sample from a distribution whose support is
// (0, inf). Full-line families are supported too, via exp(RandomLine):
// every full-line family is, by construction, also usable as a
// semi-interval family on the log scale.
func RandomSemiInterval(d Distribution, rng *rand.Rand) (float64, error) {
	switch d.(type) {
	case Cauchy, Laplace, Normal, StudentT, Bactrian:
		line, err := RandomLine(d, rng)
		if err != nil {
			return 0, err
		}
		return math.Exp(line), nil
	}

	switch v := d.(type) {
	case Chi:
		return chiSample(rng, v.DF), nil
	case ChiSquared:
		return distuv.ChiSquared{K: float64(v.DF), Src: rng}.Rand(), nil
	case Exponential:
		return distuv.Exponential{Rate: v.Rate, Src: rng}.Rand(), nil
	case Gamma:
		return distuv.Gamma{Alpha: v.Shape, Beta: 1.0 / v.Scale, Src: rng}.Rand(), nil
	case InverseGamma:
		g := distuv.Gamma{Alpha: v.Shape, Beta: 1.0 / v.Scale, Src: rng}.Rand()
		return 1.0 / g, nil
	case LogNormal:
		return distuv.LogNormal{Mu: v.Mean, Sigma: v.StdDev, Src: rng}.Rand(), nil
	case Poisson:
		return distuv.Poisson{Lambda: v.Rate, Src: rng}.Rand(), nil
	default:
		return 0, unsupported("random_semi_interval", d)
	}
}

// RandomRange draws a sample constrained to [low, high). Uniform,
// Triangular, and Beta sample the range directly; every other family maps
// a RandomSemiInterval draw into the range via intervalToRange.
func RandomRange(d Distribution, low, high float64, rng *rand.Rand) (float64, error) {
	if !(low < high) {
		return 0, fmt.Errorf("%w: invalid range [%v, %v)", ErrDomain, low, high)
	}
	switch v := d.(type) {
	case Uniform:
		return distuv.Uniform{Min: low, Max: high, Src: rng}.Rand(), nil
	case Triangular:
		return triangularSample(rng, low, (low+high)/2, high), nil
	case Beta:
		s := distuv.Beta{Alpha: v.Alpha, Beta: v.Beta, Src: rng}.Rand()
		return low + s*(high-low), nil
	}

	point, err := RandomSemiInterval(d, rng)
	if err != nil {
		return 0, unsupported("random_range", d)
	}
	return intervalToRange(point, low, high), nil
}

// RandomRangeWith draws a sample constrained to [low, high), biased toward
// value: the semi-interval draw is multiplied by (high-value)/(value-low)
// before being mapped into the range, so a draw of 1 lands on value. Beta
// ignores value, since its mean is already fixed by its own shape
// parameters, and falls back to RandomRange. Uniform and Triangular have no
// notion of centering on a value and return an *UnsupportedError.
func RandomRangeWith(d Distribution, low, high, value float64, rng *rand.Rand) (float64, error) {
	if !(low < high) {
		return 0, fmt.Errorf("%w: invalid range [%v, %v)", ErrDomain, low, high)
	}
	if _, ok := d.(Beta); ok {
		return RandomRange(d, low, high, rng)
	}
	switch d.(type) {
	case Uniform, Triangular:
		return 0, unsupported("random_range_with", d)
	}

	point, err := RandomSemiInterval(d, rng)
	if err != nil {
		return 0, unsupported("random_range_with", d)
	}
	ratio := (high - value) / (value - low)
	return intervalToRange(point*ratio, low, high), nil
}

// intervalToRange maps a (0, inf) point into [low, high) so that ratio==1
// (the median of a typical semi-interval draw) lands on the range's
// midpoint.
func intervalToRange(ratio, low, high float64) float64 {
	return low + (high-low)/(ratio+1.0)
}
