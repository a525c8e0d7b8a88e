package distribution

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// chiPDF is the density of the chi distribution, derived from the
// chi-squared density by the standard change of variables y = x^2.
func chiPDF(x float64, df int) float64 {
	if x <= 0 {
		return 0
	}
	k := float64(df)
	return math.Pow(x, k-1) * math.Exp(-x*x/2) / (math.Pow(2, k/2-1) * math.Gamma(k/2))
}

// chiSample builds a chi draw directly from its definition: the square
// root of a sum of df squared standard normal draws.
func chiSample(rng *rand.Rand, df int) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	sum := 0.0
	for i := 0; i < df; i++ {
		z := n.Rand()
		sum += z * z
	}
	return math.Sqrt(sum)
}

func inverseGammaPDF(x, shape, scale float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(scale, shape) / math.Gamma(shape) * math.Pow(x, -shape-1) * math.Exp(-scale/x)
}

func cauchyPDF(x, location, scale float64) float64 {
	z := (x - location) / scale
	return 1.0 / (math.Pi * scale * (1 + z*z))
}

func laplacePDF(x, location, scale float64) float64 {
	return math.Exp(-math.Abs(x-location)/scale) / (2 * scale)
}

// laplaceSample draws from a standard Laplace via inverse-CDF sampling on
// u in (-0.5, 0.5), then shifts and scales.
func laplaceSample(rng *rand.Rand, location, scale float64) float64 {
	u := rng.Float64() - 0.5
	sign := 1.0
	if u < 0 {
		sign = -1.0
	}
	return location - scale*sign*math.Log(1-2*math.Abs(u))
}

// bactrianPDF is the mixture-of-two-normals density: two Gaussian lobes
// centered at +/- m*stddev, each with variance (1-m^2)*stddev^2 so the
// mixture's overall variance stays stddev^2.
func bactrianPDF(x, m, stddev float64) float64 {
	variance := (1 - m*m) * stddev * stddev
	c := 1.0 / (2 * stddev * math.Sqrt(2*math.Pi*(1-m*m)))
	e1 := math.Exp(-math.Pow(x+m*stddev, 2) / (2 * variance))
	e2 := math.Exp(-math.Pow(x-m*stddev, 2) / (2 * variance))
	return c * (e1 + e2)
}

func bactrianSample(rng *rand.Rand, m, stddev float64) float64 {
	lobeStdDev := stddev * math.Sqrt(1-m*m)
	z := distuv.Normal{Mu: 0, Sigma: lobeStdDev, Src: rng}.Rand()
	sign := 1.0
	if rng.Float64() < 0.5 {
		sign = -1.0
	}
	return sign*m*stddev + z
}

// triangularSample draws from a triangular distribution with the given
// lower limit, mode, and upper limit via inverse-CDF sampling.
func triangularSample(rng *rand.Rand, low, mode, high float64) float64 {
	u := rng.Float64()
	fc := (mode - low) / (high - low)
	if u < fc {
		return low + math.Sqrt(u*(high-low)*(mode-low))
	}
	return high - math.Sqrt((1-u)*(high-low)*(high-mode))
}
