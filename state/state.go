// Package state owns every piece of mutable Markov chain state — the
// tree, the named parameters, the per-edge transition cache, and the
// per-site conditional likelihood tables — behind a single aggregate with
// the only mutating methods operators are allowed to call, matching the
// one-aggregate-owns-everything shape of the chain State this engine was
// modeled on.
package state

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/likelihood"
	"github.com/aspartik-go/b3/parameter"
	"github.com/aspartik-go/b3/substitution"
	"github.com/aspartik-go/b3/transitions"
	"github.com/aspartik-go/b3/tree"
)

var (
	// ErrUnknownParameter is returned when a prior term or log entry
	// names a parameter that does not exist in the chain's state.
	ErrUnknownParameter = errors.New("state: unknown parameter")
	// ErrUnsupportedPrior is returned when LogPrior is asked to score a
	// parameter kind that has no distribution-based prior.
	ErrUnsupportedPrior = errors.New("state: parameter kind has no distribution-based prior")
)

// State is the aggregate root of one chain's current position: a tree, a
// set of named typed parameters, and the versioned transition/likelihood
// caches derived from them. Every edit an operator makes goes through one
// of State's mutating methods, which snapshot whatever they touch so a
// later Reject can undo exactly that edit.
type State struct {
	tree        *tree.Tree
	params      map[string]parameter.Parameter
	model       *substitution.Model
	transitions *transitions.Cache
	backend     likelihood.Backend
	rng         *rand.Rand

	logLikelihood float64
	llSnapshot    *float64

	treeSnapshot   *tree.Snapshot
	paramSnapshots map[string]parameter.Parameter
}

// New builds a State from an already-constructed tree, parameter set,
// substitution model, and likelihood backend (wired to the tree's leaf
// rows by the caller). The transition cache is sized to the tree's edge
// count and starts at the identity matrix on every edge.
func New(t *tree.Tree, params map[string]parameter.Parameter, model *substitution.Model, backend likelihood.Backend, rng *rand.Rand) *State {
	return &State{
		tree:        t,
		params:      params,
		model:       model,
		transitions: transitions.New(t.NumEdges()),
		backend:     backend,
		rng:         rng,
	}
}

// Tree returns the chain's tree, for operators that only need to read its
// topology (sampling a node, inspecting weights). Structural edits must go
// through State's own SwapParents/SetWeight/ScaleAllWeights so they are
// versioned.
func (s *State) Tree() *tree.Tree { return s.tree }

// RNG returns the chain's random stream.
func (s *State) RNG() *rand.Rand { return s.rng }

// LogLikelihood returns the log-likelihood as of the last Propose-family
// call (or 0 before the first one).
func (s *State) LogLikelihood() float64 { return s.logLikelihood }

// Param returns the named parameter and whether it exists.
func (s *State) Param(name string) (parameter.Parameter, bool) {
	p, ok := s.params[name]
	return p, ok
}

// RealParam returns the named parameter narrowed to *parameter.RealParam.
func (s *State) RealParam(name string) (*parameter.RealParam, bool) {
	p, ok := s.params[name]
	if !ok {
		return nil, false
	}
	rp, ok := p.(*parameter.RealParam)
	return rp, ok
}

// IntegerParam returns the named parameter narrowed to
// *parameter.IntegerParam.
func (s *State) IntegerParam(name string) (*parameter.IntegerParam, bool) {
	p, ok := s.params[name]
	if !ok {
		return nil, false
	}
	ip, ok := p.(*parameter.IntegerParam)
	return ip, ok
}

// BooleanParam returns the named parameter narrowed to
// *parameter.BooleanParam.
func (s *State) BooleanParam(name string) (*parameter.BooleanParam, bool) {
	p, ok := s.params[name]
	if !ok {
		return nil, false
	}
	bp, ok := p.(*parameter.BooleanParam)
	return bp, ok
}

// ParamNames returns every parameter name, for loggers that dump the full
// parameter set.
func (s *State) ParamNames() []string {
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	return names
}

func (s *State) beginTreeEdit() {
	if s.treeSnapshot == nil {
		snap := s.tree.Snapshot()
		s.treeSnapshot = &snap
	}
}

func (s *State) beginParamEdit(name string) {
	if s.paramSnapshots == nil {
		s.paramSnapshots = make(map[string]parameter.Parameter)
	}
	if _, already := s.paramSnapshots[name]; already {
		return
	}
	s.paramSnapshots[name] = s.params[name].Clone()
}

// ScaleRealParam multiplies the real parameter name's dimension at index
// by factor, snapshotting the parameter first. Reports false if the
// parameter doesn't exist, isn't real-valued, index is out of range, or
// the scaled value would leave the parameter's [Min, Max] bounds, in
// which case the edit is undone before returning.
func (s *State) ScaleRealParam(name string, index int, factor float64) bool {
	rp, ok := s.RealParam(name)
	if !ok || index < 0 || index >= len(rp.Values) {
		return false
	}
	s.beginParamEdit(name)
	old := rp.Values[index]
	rp.Values[index] *= factor
	if !rp.IsValid() {
		rp.Values[index] = old
		return false
	}
	return true
}

// SwapParents exchanges the parent pointers of two non-root nodes and
// recomputes the affected transition matrices and conditional likelihood
// tables, returning the new total log-likelihood.
func (s *State) SwapParents(a, b tree.Node) float64 {
	s.beginTreeEdit()
	edges, nodes := s.tree.SwapParents(a, b)
	return s.refresh(edges, nodes)
}

// SetWeight sets n's height and recomputes every transition matrix and
// conditional likelihood table it affects: the edge to n's parent (if
// any), the two edges from n to its children (if n is internal), and the
// to-root closure of n's ancestors.
func (s *State) SetWeight(n tree.Node, w float64) float64 {
	s.beginTreeEdit()
	s.tree.SetWeight(n, w)

	edges := s.edgesIncidentTo(n)
	nodes := s.tree.DirtyClosure([]tree.Node{n})
	return s.refresh(edges, nodes)
}

// ScaleAllWeights multiplies every node's height by factor and recomputes
// the entire transition cache and likelihood table.
func (s *State) ScaleAllWeights(factor float64) float64 {
	s.beginTreeEdit()

	nodes := s.tree.Nodes()
	for _, n := range nodes {
		s.tree.SetWeight(n, s.tree.WeightOf(n)*factor)
	}

	edges := make([]int, s.tree.NumEdges())
	for i := range edges {
		edges[i] = i
	}

	leaves := s.tree.Leaves()
	starts := make([]tree.Node, len(leaves))
	for i, l := range leaves {
		starts[i] = l.Node()
	}
	dirty := s.tree.DirtyClosure(starts)

	return s.refresh(edges, dirty)
}

// edgesIncidentTo returns the edge indices of every edge touching n: the
// edge from n's parent down to n, if n is not the root, and the two edges
// from n down to its children, if n is internal.
func (s *State) edgesIncidentTo(n tree.Node) []int {
	var edges []int
	if p, ok := s.tree.ParentOf(n); ok {
		edges = append(edges, s.tree.EdgeTo(p, n))
	}
	if i, ok := s.tree.AsInternal(n); ok {
		left, right := s.tree.ChildrenOf(i)
		edges = append(edges, s.tree.EdgeTo(i, left), s.tree.EdgeTo(i, right))
	}
	return edges
}

// refresh recomputes the transition matrices for edgesDirty (by the
// branch length implied by the tree's current weights) and the
// conditional likelihood tables for nodesDirty (which must already be in
// child-before-parent order), returning the new total log-likelihood. If
// nodesDirty is empty, the edit had no effect on the likelihood (a
// parameter-only edit) and the cached log-likelihood is returned as-is.
func (s *State) refresh(edgesDirty []int, nodesDirty []tree.Node) float64 {
	if len(nodesDirty) == 0 {
		return s.logLikelihood
	}
	if s.llSnapshot == nil {
		old := s.logLikelihood
		s.llSnapshot = &old
	}

	lengths := make([]float64, len(edgesDirty))
	for i, e := range edgesDirty {
		child := s.tree.ChildAt(e)
		parent, _ := s.tree.ParentOf(child)
		lengths[i] = s.tree.WeightOf(parent.Node()) - s.tree.WeightOf(child)
	}
	s.transitions.Propose(edgesDirty, lengths, s.model)

	nodes := make([]int, len(nodesDirty))
	trans := make([]transitions.Matrix, len(nodesDirty)*2)
	children := make([]int, len(nodesDirty)*2)
	for i, n := range nodesDirty {
		internal, _ := s.tree.AsInternal(n)
		left, right := s.tree.ChildrenOf(internal)
		trans[i*2] = s.transitions.Matrix(s.tree.EdgeTo(internal, left))
		trans[i*2+1] = s.transitions.Matrix(s.tree.EdgeTo(internal, right))
		children[i*2] = int(left)
		children[i*2+1] = int(right)
		nodes[i] = int(n)
	}

	s.logLikelihood = s.backend.Propose(nodes, trans, children)
	return s.logLikelihood
}

// PriorTerm names one named parameter's prior distribution: the density
// (real parameters) or mass (integer parameters) of every dimension of
// Param under Dist, logged and summed into LogPrior.
type PriorTerm struct {
	Param string
	Dist  distribution.Distribution
}

// LogPrior returns the sum, across terms, of the log-density (real
// parameters) or log-mass (integer parameters) of every dimension of the
// named parameter under its distribution. Boolean parameters have no
// distribution-based prior and are rejected, matching the source this is
// grounded on.
func (s *State) LogPrior(terms []PriorTerm) (float64, error) {
	var total float64
	for _, term := range terms {
		p, ok := s.Param(term.Param)
		if !ok {
			return 0, fmt.Errorf("%w: %q in prior", ErrUnknownParameter, term.Param)
		}

		switch v := p.(type) {
		case *parameter.RealParam:
			for _, x := range v.Values {
				density, err := distribution.PDF(term.Dist, x)
				if err != nil {
					return 0, err
				}
				total += math.Log(density)
			}
		case *parameter.IntegerParam:
			for _, x := range v.Values {
				mass, err := distribution.PMF(term.Dist, x)
				if err != nil {
					return 0, err
				}
				total += math.Log(mass)
			}
		case *parameter.BooleanParam:
			return 0, fmt.Errorf("%w: boolean parameter %q", ErrUnsupportedPrior, term.Param)
		}
	}
	return total, nil
}

// Accept commits every edit proposed since the last Accept or Reject.
func (s *State) Accept() {
	s.transitions.Accept()
	s.backend.Accept()
	s.treeSnapshot = nil
	s.paramSnapshots = nil
	s.llSnapshot = nil
}

// Reject discards every edit proposed since the last Accept or Reject,
// restoring the tree, any touched parameters, the cached log-likelihood,
// and the versioned caches to their state at the start of the step.
func (s *State) Reject() {
	s.transitions.Reject()
	s.backend.Reject()

	if s.treeSnapshot != nil {
		s.tree.Restore(*s.treeSnapshot)
		s.treeSnapshot = nil
	}
	for name, snap := range s.paramSnapshots {
		s.params[name] = snap
	}
	s.paramSnapshots = nil

	if s.llSnapshot != nil {
		s.logLikelihood = *s.llSnapshot
		s.llSnapshot = nil
	}
}
