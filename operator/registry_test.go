package operator_test

import (
	"testing"

	"github.com/aspartik-go/b3/distribution"
	"github.com/aspartik-go/b3/operator"
)

func TestBuildConstructsEveryKind(t *testing.T) {
	specs := []operator.Spec{
		{Kind: "narrow-exchange", Weight: 1},
		{Kind: "wide-exchange", Weight: 1},
		{Kind: "slide", Weight: 1, Dist: distribution.Normal{Mean: 0, StdDev: 1}},
		{Kind: "scale", Weight: 1, Factor: 0.5, Dist: distribution.Uniform{}},
		{Kind: "param-scale", Weight: 1, Factor: 0.5, Param: "kappa", Dist: distribution.Uniform{}},
	}

	ops, err := operator.Build(specs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ops) != len(specs) {
		t.Fatalf("got %d operators, want %d", len(ops), len(specs))
	}
	for i, op := range ops {
		if op.Weight() != specs[i].Weight {
			t.Errorf("ops[%d].Weight() = %v, want %v", i, op.Weight(), specs[i].Weight)
		}
		if op.Name() == "" {
			t.Errorf("ops[%d].Name() is empty", i)
		}
	}
}

func TestBuildRejectsUnknownKind(t *testing.T) {
	_, err := operator.Build([]operator.Spec{{Kind: "nonsense", Weight: 1}})
	if err == nil {
		t.Fatal("expected an error for an unknown operator kind")
	}
}

func TestBuildRejectsMissingDistribution(t *testing.T) {
	_, err := operator.Build([]operator.Spec{{Kind: "scale", Weight: 1, Factor: 0.5}})
	if err == nil {
		t.Fatal("expected an error when scale has no distribution")
	}
}
