package parameter

import "testing"

func ptr[T any](v T) *T { return &v }

func TestRealParamBounds(t *testing.T) {
	p := &RealParam{Values: []float64{0.5, 0.9}, Min: ptr(0.0), Max: ptr(1.0)}
	if !p.IsValid() {
		t.Error("expected values within bounds to be valid")
	}

	p.Values[0] = 1.5
	if p.IsValid() {
		t.Error("expected value above max to be invalid")
	}
}

func TestRealParamUnbounded(t *testing.T) {
	p := &RealParam{Values: []float64{-1e9, 1e9}}
	if !p.IsValid() {
		t.Error("a parameter with no bounds should always be valid")
	}
}

func TestIntegerParamBounds(t *testing.T) {
	p := &IntegerParam{Values: []int64{1, 2, 3}, Min: ptr(int64(0))}
	if !p.IsValid() {
		t.Error("expected values within bounds to be valid")
	}
	p.Values[0] = -1
	if p.IsValid() {
		t.Error("expected value below min to be invalid")
	}
}

func TestBooleanParamAlwaysValid(t *testing.T) {
	p := &BooleanParam{Values: []bool{true, false, true}}
	if !p.IsValid() {
		t.Error("boolean parameters have no bounds to violate")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := &RealParam{Values: []float64{1, 2, 3}, Min: ptr(0.0)}
	clone := p.Clone().(*RealParam)

	clone.Values[0] = 99
	if p.Values[0] == 99 {
		t.Error("mutating the clone mutated the original")
	}
}

func TestKindDiscriminator(t *testing.T) {
	var params []Parameter = []Parameter{
		&RealParam{Values: []float64{1}},
		&IntegerParam{Values: []int64{1}},
		&BooleanParam{Values: []bool{true}},
	}
	want := []Kind{Real, Integer, Boolean}
	for i, p := range params {
		if p.Kind() != want[i] {
			t.Errorf("params[%d].Kind() = %v, want %v", i, p.Kind(), want[i])
		}
	}
}
