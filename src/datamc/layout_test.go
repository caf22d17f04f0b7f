package datamc

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestComputeGeometry_NoResiduals(t *testing.T) {
	g := computeGeometry(false, 3, DefaultStyle())

	if g.HasResiduals {
		t.Fatal("geometry without residuals claims to have a residuals panel")
	}
	if g.BottomSpacing != 0 {
		t.Errorf("bottom spacing: %g", g.BottomSpacing)
	}
	if g.Main != (Rect{X0: 0, Y0: 0, X1: 0.95, Y1: 1}) {
		t.Errorf("main panel rect: %+v", g.Main)
	}
	if g.FontScale != 1 {
		t.Errorf("font scale without residuals: %g", g.FontScale)
	}
	if g.CanvasWidth != 750 || g.CanvasHeight != 500 {
		t.Errorf("canvas: %g x %g", g.CanvasWidth, g.CanvasHeight)
	}
}

func TestComputeGeometry_WithResiduals(t *testing.T) {
	g := computeGeometry(true, 3, DefaultStyle())

	if !g.HasResiduals {
		t.Fatal("geometry with residuals lacks a residuals panel")
	}
	if g.BottomSpacing != 0.17 {
		t.Errorf("bottom spacing: %g", g.BottomSpacing)
	}
	if g.Main != (Rect{X0: 0, Y0: 0.17, X1: 0.95, Y1: 1}) {
		t.Errorf("main panel rect: %+v", g.Main)
	}
	if g.Residuals != (Rect{X0: 0, Y0: 0, X1: 0.95, Y1: 0.27}) {
		t.Errorf("residuals panel rect: %+v", g.Residuals)
	}
	if !almostEqual(g.FontScale, 0.83/0.27) {
		t.Errorf("font scale: %g", g.FontScale)
	}
	if !almostEqual(g.TickScale, (1-2*0.1-0.17)/0.17) {
		t.Errorf("tick scale: %g", g.TickScale)
	}
	// The canvas grows so that the main panel keeps its base height.
	if !almostEqual(float64(g.CanvasHeight), 500/(1-0.17)) {
		t.Errorf("canvas height: %g", g.CanvasHeight)
	}
	if !almostEqual(g.Main.Height()*float64(g.CanvasHeight), 500) {
		t.Errorf("main panel absolute height: %g", g.Main.Height()*float64(g.CanvasHeight))
	}
}

func TestComputeGeometry_MarginInvariance(t *testing.T) {
	// The absolute space reserved for labels must not depend on the panel split: margin
	// fraction times panel fraction is the same canvas fraction for both panels.
	g := computeGeometry(true, 3, DefaultStyle())

	mainBottom := g.MainMargins.Bottom * g.Main.Height()
	resBottom := g.ResidualsMargins.Bottom * g.Residuals.Height()
	if !almostEqual(mainBottom, 0.1) || !almostEqual(resBottom, 0.1) {
		t.Errorf("bottom label space: main %g, residuals %g", mainBottom, resBottom)
	}
	if g.ResidualsMargins.Top != 0 {
		t.Errorf("residuals panel must touch the main panel, top margin %g", g.ResidualsMargins.Top)
	}
}

func TestComputeGeometry_FontScaleEqualizesSizes(t *testing.T) {
	// A font size given as a fraction of the residuals panel, multiplied by FontScale, must
	// come out the same absolute size as the same fraction of the main panel.
	g := computeGeometry(true, 5, DefaultStyle())

	const frac = 0.04
	mainAbs := frac * g.Main.Height() * float64(g.CanvasHeight)
	resAbs := frac * g.FontScale * g.Residuals.Height() * float64(g.CanvasHeight)
	if !almostEqual(mainAbs, resAbs) {
		t.Errorf("absolute font sizes differ: main %g, residuals %g", mainAbs, resAbs)
	}
}

func TestComputeGeometry_LegendGrowsDownward(t *testing.T) {
	st := DefaultStyle()
	for _, entries := range []int{1, 3, 6} {
		g := computeGeometry(false, entries, st)
		if g.Legend.Y1 != 0.9 {
			t.Errorf("%d entries: legend top %g", entries, g.Legend.Y1)
		}
		want := 0.04 * float64(entries)
		if !almostEqual(g.Legend.Height(), want) {
			t.Errorf("%d entries: legend height %g, want %g", entries, g.Legend.Height(), want)
		}
		if g.Legend.X0 != 0.86 || g.Legend.X1 != 0.99 {
			t.Errorf("%d entries: legend x span [%g, %g]", entries, g.Legend.X0, g.Legend.X1)
		}
	}
}
