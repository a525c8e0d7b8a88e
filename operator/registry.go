package operator

import (
	"fmt"

	"github.com/aspartik-go/b3/distribution"
)

// Spec names one operator to construct, by kind, with the knobs its
// constructor needs. Param and Factor are ignored by operators that don't
// use them. This is what a config file's operator list deserializes into.
type Spec struct {
	Kind   string                    `json:"kind"`
	Weight float64                   `json:"weight"`
	Param  string                    `json:"param,omitempty"`
	Factor float64                   `json:"factor,omitempty"`
	Dist   distribution.Distribution `json:"-"`
}

// Build constructs the list of Operators named by specs, in order.
func Build(specs []Spec) ([]Operator, error) {
	ops := make([]Operator, 0, len(specs))
	for _, spec := range specs {
		op, err := build(spec)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func build(spec Spec) (Operator, error) {
	switch spec.Kind {
	case "narrow-exchange":
		return NewNarrowExchange(spec.Weight), nil
	case "wide-exchange":
		return NewWideExchange(spec.Weight), nil
	case "slide":
		if spec.Dist == nil {
			return nil, fmt.Errorf("operator: slide requires a distribution")
		}
		return NewSlide(spec.Dist, spec.Weight), nil
	case "scale":
		if spec.Dist == nil {
			return nil, fmt.Errorf("operator: scale requires a distribution")
		}
		return NewScale(spec.Factor, spec.Dist, spec.Weight), nil
	case "param-scale":
		if spec.Dist == nil {
			return nil, fmt.Errorf("operator: param-scale requires a distribution")
		}
		if spec.Param == "" {
			return nil, fmt.Errorf("operator: param-scale requires a parameter name")
		}
		return NewParamScale(spec.Param, spec.Factor, spec.Dist, spec.Weight), nil
	default:
		return nil, fmt.Errorf("operator: unknown kind %q", spec.Kind)
	}
}
