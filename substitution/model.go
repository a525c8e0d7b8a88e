// Package substitution builds continuous-time Markov rate matrices over
// the four-symbol DNA alphabet and exponentiates them into finite-time
// transition probability matrices via spectral decomposition.
package substitution

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidModel is returned when a rate matrix cannot be turned into a
// usable Model: it fails to decompose, is not diagonalizable, or has a
// non-real eigenvalue.
var ErrInvalidModel = errors.New("substitution: rate matrix is invalid")

// N is the size of the DNA alphabet (A, C, G, T), in that index order.
const N = 4

// RateMatrix is an instantaneous substitution rate matrix Q: off-diagonal
// entries are substitution rates, and each row's diagonal entry is the
// negative of the rest of the row so that every row sums to zero.
type RateMatrix [N][N]float64

// Model is a substitution model ready to compute finite-time transition
// probabilities. It holds Q's eigendecomposition so repeated calls to
// Transition at different branch lengths only pay for a matrix exponential
// of the diagonal, not a fresh decomposition.
type Model struct {
	q       RateMatrix
	vectors mat.Dense  // P, columns are eigenvectors
	inverse mat.Dense  // P^-1
	values  [N]float64 // eigenvalues, the diagonal of D
}

// NewModel decomposes q and returns a Model that can compute Transition(t)
// for any t.
func NewModel(q RateMatrix) (*Model, error) {
	dense := mat.NewDense(N, N, nil)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			dense.Set(i, j, q[i][j])
		}
	}

	var eig mat.Eigen
	if ok := eig.Factorize(dense, mat.EigenRight); !ok {
		return nil, fmt.Errorf("%w: eigendecomposition failed to converge", ErrInvalidModel)
	}

	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	m := &Model{q: q}
	realVectors := mat.NewDense(N, N, nil)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			realVectors.Set(i, j, real(vectors.At(i, j)))
		}
	}
	m.vectors.CloneFrom(realVectors)

	if err := m.inverse.Inverse(realVectors); err != nil {
		return nil, fmt.Errorf("%w: not diagonalizable: %w", ErrInvalidModel, err)
	}

	for i, v := range values {
		if math.Abs(imag(v)) > 1e-6 {
			return nil, fmt.Errorf("%w: non-real eigenvalue %v; only time-reversible models are supported", ErrInvalidModel, v)
		}
		m.values[i] = real(v)
	}

	return m, nil
}

// RateMatrixOf returns the Q this model was built from.
func (m *Model) RateMatrixOf() RateMatrix {
	return m.q
}

// Transition returns exp(Q*t), the probability of ending in state j after
// time t given a start in state i, as P[i][j].
func (m *Model) Transition(t float64) [N][N]float64 {
	expD := mat.NewDense(N, N, nil)
	for i := 0; i < N; i++ {
		expD.Set(i, i, math.Exp(m.values[i]*t))
	}

	var tmp, out mat.Dense
	tmp.Mul(&m.vectors, expD)
	out.Mul(&tmp, &m.inverse)

	var result [N][N]float64
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			result[i][j] = out.At(i, j)
		}
	}
	return result
}

// normalize scales q in place so that the expected number of substitutions
// per unit branch length, under the equilibrium frequencies freq, is 1.
func normalize(q *RateMatrix, freq [N]float64) {
	var rate float64
	for i := 0; i < N; i++ {
		rate -= freq[i] * q[i][i]
	}
	if rate == 0 {
		return
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			q[i][j] /= rate
		}
	}
}

func fillDiagonal(q *RateMatrix) {
	for i := 0; i < N; i++ {
		var sum float64
		for j := 0; j < N; j++ {
			if j != i {
				sum += q[i][j]
			}
		}
		q[i][i] = -sum
	}
}

// isTransition reports whether i and j are both purines (A, G) or both
// pyrimidines (C, T). Indices follow the A=0, C=1, G=2, T=3 convention.
func isTransition(i, j int) bool {
	purine := func(k int) bool { return k == 0 || k == 2 }
	return purine(i) == purine(j)
}

// JukesCantor builds the equal-rate, equal-frequency Jukes-Cantor (1969)
// rate matrix.
func JukesCantor() (*Model, error) {
	var q RateMatrix
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i != j {
				q[i][j] = 1.0
			}
		}
	}
	fillDiagonal(&q)
	normalize(&q, [N]float64{0.25, 0.25, 0.25, 0.25})
	return NewModel(q)
}

// K80 builds the Kimura (1980) two-parameter rate matrix: transitions are
// kappa times as likely as transversions, frequencies are equal.
func K80(kappa float64) (*Model, error) {
	freq := [N]float64{0.25, 0.25, 0.25, 0.25}
	var q RateMatrix
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i == j {
				continue
			}
			if isTransition(i, j) {
				q[i][j] = kappa
			} else {
				q[i][j] = 1.0
			}
		}
	}
	fillDiagonal(&q)
	normalize(&q, freq)
	return NewModel(q)
}

// F81 builds the Felsenstein (1981) rate matrix: all substitutions are
// equally likely scaled only by the target base's equilibrium frequency.
func F81(piA, piC, piG, piT float64) (*Model, error) {
	freq := [N]float64{piA, piC, piG, piT}
	var q RateMatrix
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i != j {
				q[i][j] = freq[j]
			}
		}
	}
	fillDiagonal(&q)
	normalize(&q, freq)
	return NewModel(q)
}

// HKY builds the Hasegawa-Kishino-Yano (1985) rate matrix, combining K80's
// transition/transversion bias with F81's unequal base frequencies.
func HKY(kappa, piA, piC, piG, piT float64) (*Model, error) {
	freq := [N]float64{piA, piC, piG, piT}
	var q RateMatrix
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i == j {
				continue
			}
			if isTransition(i, j) {
				q[i][j] = kappa * freq[j]
			} else {
				q[i][j] = freq[j]
			}
		}
	}
	fillDiagonal(&q)
	normalize(&q, freq)
	return NewModel(q)
}

// GTR builds the general time-reversible rate matrix from six pairwise
// exchangeabilities (in the order AC, AG, AT, CG, CT, GT) and four
// equilibrium frequencies.
func GTR(ac, ag, at, cg, ct, gt, piA, piC, piG, piT float64) (*Model, error) {
	freq := [N]float64{piA, piC, piG, piT}
	exch := [N][N]float64{
		{0, ac, ag, at},
		{ac, 0, cg, ct},
		{ag, cg, 0, gt},
		{at, ct, gt, 0},
	}

	var q RateMatrix
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i != j {
				q[i][j] = exch[i][j] * freq[j]
			}
		}
	}
	fillDiagonal(&q)
	normalize(&q, freq)
	return NewModel(q)
}
