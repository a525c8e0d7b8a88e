// Package parameter implements the engine's typed, bounds-checked named
// parameters: a closed union of real, integer, and boolean vectors.
package parameter

import "fmt"

// Kind discriminates the concrete type held by a Parameter.
type Kind int

const (
	Real Kind = iota
	Integer
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "Real"
	case Integer:
		return "Integer"
	case Boolean:
		return "Boolean"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Parameter is a named, typed, possibly multi-dimensional value in the
// chain's state. It is a closed union over RealParam, IntegerParam, and
// BooleanParam, discriminated by Kind.
type Parameter interface {
	Kind() Kind
	Len() int
	IsValid() bool
	// Clone returns a deep copy, used by State to snapshot a parameter
	// before an operator edits it in place, so a rejected proposal can
	// restore the prior values.
	Clone() Parameter
}

// RealParam is a vector of real-valued dimensions with optional bounds
// shared across all of them.
type RealParam struct {
	Values   []float64
	Min, Max *float64
}

func (p *RealParam) Kind() Kind { return Real }
func (p *RealParam) Len() int   { return len(p.Values) }

// IsValid reports whether every value lies within [Min, Max] (either
// bound may be absent).
func (p *RealParam) IsValid() bool {
	for _, v := range p.Values {
		if p.Min != nil && v < *p.Min {
			return false
		}
		if p.Max != nil && v > *p.Max {
			return false
		}
	}
	return true
}

// First returns the parameter's first dimension, the common case for
// scalar parameters referenced by name from a substitution model or
// distribution.
func (p *RealParam) First() float64 { return p.Values[0] }

func (p *RealParam) Clone() Parameter {
	return &RealParam{Values: append([]float64(nil), p.Values...), Min: p.Min, Max: p.Max}
}

// IntegerParam is a vector of integer-valued dimensions with optional
// bounds shared across all of them.
type IntegerParam struct {
	Values   []int64
	Min, Max *int64
}

func (p *IntegerParam) Kind() Kind { return Integer }
func (p *IntegerParam) Len() int   { return len(p.Values) }

func (p *IntegerParam) IsValid() bool {
	for _, v := range p.Values {
		if p.Min != nil && v < *p.Min {
			return false
		}
		if p.Max != nil && v > *p.Max {
			return false
		}
	}
	return true
}

func (p *IntegerParam) First() int64 { return p.Values[0] }

func (p *IntegerParam) Clone() Parameter {
	return &IntegerParam{Values: append([]int64(nil), p.Values...), Min: p.Min, Max: p.Max}
}

// BooleanParam is a vector of boolean dimensions. Booleans have no
// bounds, so IsValid is always true.
type BooleanParam struct {
	Values []bool
}

func (p *BooleanParam) Kind() Kind    { return Boolean }
func (p *BooleanParam) Len() int      { return len(p.Values) }
func (p *BooleanParam) IsValid() bool { return true }

func (p *BooleanParam) First() bool { return p.Values[0] }

func (p *BooleanParam) Clone() Parameter {
	return &BooleanParam{Values: append([]bool(nil), p.Values...)}
}
