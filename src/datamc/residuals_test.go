package datamc

import (
	"math"
	"testing"

	"github.com/andrey-popov/HepPlotUtilities/src/hist"
)

func TestTotalSimulation(t *testing.T) {
	a := &hist.Histogram{
		Name: "a",
		Bins: []hist.Bin{{LowEdge: 0, Width: 1, Content: 4, Error: 3}},
	}
	b := &hist.Histogram{
		Name: "b",
		Bins: []hist.Bin{{LowEdge: 0, Width: 1, Content: 4, Error: 4}},
	}
	total, err := totalSimulation([]*hist.Histogram{a, b})
	if err != nil {
		t.Fatalf("total simulation: %v", err)
	}
	if total.Name != "mc_total" {
		t.Errorf("total name: %q", total.Name)
	}
	if total.Bins[0].Content != 8 {
		t.Errorf("total content: %g", total.Bins[0].Content)
	}
	// Uncertainties combine in quadrature: sqrt(3^2 + 4^2) = 5.
	if !almostEqual(total.Bins[0].Error, 5) {
		t.Errorf("total error: %g", total.Bins[0].Error)
	}
	// Summing must not write back into the inputs.
	if a.Bins[0].Content != 4 || b.Bins[0].Content != 4 {
		t.Error("totalSimulation mutated its inputs")
	}
}

func TestComputeResiduals(t *testing.T) {
	data := &hist.Histogram{
		Name: "data",
		Bins: []hist.Bin{
			{LowEdge: 0, Width: 1, Content: 10, Error: math.Sqrt(10)},
			{LowEdge: 1, Width: 1, Content: 8, Error: math.Sqrt(8)},
		},
	}
	total := &hist.Histogram{
		Name: "mc_total",
		Bins: []hist.Bin{
			{LowEdge: 0, Width: 1, Content: 8, Error: 1},
			{LowEdge: 1, Width: 1, Content: 8, Error: 1},
		},
	}
	res, err := computeResiduals(data, total)
	if err != nil {
		t.Fatalf("residuals: %v", err)
	}
	if res.Name != "residuals" {
		t.Errorf("residuals name: %q", res.Name)
	}
	// (10 - 8) / 8 = 0.25 and (8 - 8) / 8 = 0.
	if !almostEqual(res.Bins[0].Content, 0.25) {
		t.Errorf("residual bin 0: %g", res.Bins[0].Content)
	}
	if !almostEqual(res.Bins[1].Content, 0) {
		t.Errorf("residual bin 1: %g", res.Bins[1].Content)
	}
	if data.Bins[0].Content != 10 || total.Bins[0].Content != 8 {
		t.Error("computeResiduals mutated its inputs")
	}
}

func TestComputeResiduals_EmptyMCBin(t *testing.T) {
	data := &hist.Histogram{
		Name: "data",
		Bins: []hist.Bin{
			{LowEdge: 0, Width: 1, Content: 3},
			{LowEdge: 1, Width: 1, Content: 5},
		},
	}
	total := &hist.Histogram{
		Name: "mc_total",
		Bins: []hist.Bin{
			{LowEdge: 0, Width: 1, Content: 0},
			{LowEdge: 1, Width: 1, Content: 5},
		},
	}
	res, err := computeResiduals(data, total)
	if err != nil {
		t.Fatalf("residuals: %v", err)
	}
	// An empty simulation bin yields the NaN sentinel, not an error, so the rest of the
	// figure still renders; the bin shows up as a gap.
	if !math.IsNaN(res.Bins[0].Content) {
		t.Errorf("expected NaN for zero-MC bin, got %g", res.Bins[0].Content)
	}
	if !almostEqual(res.Bins[1].Content, 0) {
		t.Errorf("residual bin 1: %g", res.Bins[1].Content)
	}
}

func TestComputeResiduals_Deterministic(t *testing.T) {
	data := twoBin("data", 100)
	total := twoBin("mc_total", 81)

	first, err := computeResiduals(data, total)
	if err != nil {
		t.Fatalf("residuals: %v", err)
	}
	second, err := computeResiduals(data, total)
	if err != nil {
		t.Fatalf("residuals: %v", err)
	}
	for i := range first.Bins {
		if math.Float64bits(first.Bins[i].Content) != math.Float64bits(second.Bins[i].Content) {
			t.Errorf("bin %d content differs between runs", i)
		}
		if math.Float64bits(first.Bins[i].Error) != math.Float64bits(second.Bins[i].Error) {
			t.Errorf("bin %d error differs between runs", i)
		}
	}
}
