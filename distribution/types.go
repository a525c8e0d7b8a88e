package distribution

import "fmt"

// Uniform is the continuous uniform family. It carries no parameters of its
// own; its range is supplied at sampling time by RandomRange.
type Uniform struct{}

// Triangular is symmetric about the midpoint of the sampled range.
type Triangular struct{}

// Beta is the Beta(Alpha, Beta) family on (0, 1), stretched to [low, high)
// by RandomRange.
type Beta struct {
	Alpha, Beta float64
}

// Chi is the chi distribution with DF degrees of freedom, the distribution
// of the square root of a sum of DF squared standard normal draws.
type Chi struct {
	DF int
}

// ChiSquared is the chi-squared distribution with DF degrees of freedom.
type ChiSquared struct {
	DF int
}

// Exponential is parameterized by its rate (inverse mean).
type Exponential struct {
	Rate float64
}

// Gamma is parameterized by shape and scale (not rate).
type Gamma struct {
	Shape, Scale float64
}

// InverseGamma is parameterized by shape and scale; a draw is the
// reciprocal of a Gamma(Shape, Scale) draw.
type InverseGamma struct {
	Shape, Scale float64
}

// LogNormal is parameterized by the mean and standard deviation of the
// underlying normal on the log scale.
type LogNormal struct {
	Mean, StdDev float64
}

// Poisson is parameterized by its rate. It supports PMF and
// RandomSemiInterval (and RandomRange/RandomRangeWith, which map a
// RandomSemiInterval draw into the range), but not PDF or RandomLine: a
// Poisson draw has no density and its integer support does not line up
// with RandomLine's continuous one.
type Poisson struct {
	Rate float64
}

// Cauchy is the Cauchy-Lorentz family, with no defined mean or variance.
type Cauchy struct {
	Location, Scale float64
}

// Laplace is the double-exponential family.
type Laplace struct {
	Location, Scale float64
}

// Normal is the Gaussian family.
type Normal struct {
	Mean, StdDev float64
}

// StudentT is Student's t-distribution with DF degrees of freedom, located
// at 0 with unit scale.
type StudentT struct {
	DF float64
}

// Bactrian mixes two normals at +/- M standard deviations, used as a
// proposal kernel that avoids small steps. M must be in [0, 1).
type Bactrian struct {
	M      float64
	StdDev float64
}

func (b Bactrian) validate() error {
	if b.M < 0 || b.M >= 1.0 {
		return fmt.Errorf("%w: Bactrian.M must be in [0, 1), got %v", ErrDomain, b.M)
	}
	return nil
}

func (Uniform) isDistribution()      {}
func (Triangular) isDistribution()   {}
func (Beta) isDistribution()         {}
func (Chi) isDistribution()          {}
func (ChiSquared) isDistribution()   {}
func (Exponential) isDistribution()  {}
func (Gamma) isDistribution()        {}
func (InverseGamma) isDistribution() {}
func (LogNormal) isDistribution()    {}
func (Poisson) isDistribution()      {}
func (Cauchy) isDistribution()       {}
func (Laplace) isDistribution()      {}
func (Normal) isDistribution()       {}
func (StudentT) isDistribution()     {}
func (Bactrian) isDistribution()     {}
