package datamc

import "gonum.org/v1/plot/vg"

// Layout constants of the figure kind. Fractions are in normalized canvas coordinates.
const (
	// Fraction of the canvas height reserved for the residuals panel.
	bottomSpacingFrac = 0.17
	// Fraction reserved around each panel for axis labels.
	marginFrac = 0.1
	// Width of the main panel, margin excluded.
	mainPanelWidthFrac = 0.85
	// Vertical size of one legend entry.
	legendEntryFrac = 0.04
	// Top edge of the legend box.
	legendTopFrac = 0.9
	// Legend text size as a fraction of the canvas height.
	legendTextFrac = 0.03
	// Headroom between the tallest series and the panel's upper edge.
	maxHeadroom = 1.1
)

// Rect is an axis-aligned rectangle in normalized (0-1) canvas coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Margins are label-space reservations on the four sides of a panel, as fractions of the
// panel's own size.
type Margins struct {
	Left, Right, Bottom, Top float64
}

// Geometry is the complete normalized-coordinate layout of one rendered figure. It is
// recomputed on every render because both the panel split and the legend height depend on
// render-time state (residuals toggle, number of series).
type Geometry struct {
	BottomSpacing float64
	Margin        float64

	CanvasWidth  vg.Length
	CanvasHeight vg.Length

	Main        Rect
	MainMargins Margins

	HasResiduals     bool
	Residuals        Rect
	ResidualsMargins Margins

	// FontScale is the ratio of the two panels' heights. Residuals-panel font sizes are
	// specified relative to that panel, so multiplying them by FontScale makes the rendered
	// text the same absolute size as in the main panel.
	FontScale float64
	// TickScale stretches the residuals panel's x tick marks to compensate for the panel's
	// reduced height.
	TickScale float64

	Legend Rect
}

// computeGeometry derives the panel layout for one render. Margins are divided by the panel's
// size fraction so that the absolute space reserved for labels does not depend on how the
// canvas is split between the panels.
func computeGeometry(residuals bool, legendEntries int, st Style) Geometry {
	bottomSpacing := 0.0
	if residuals {
		bottomSpacing = bottomSpacingFrac
	}
	m := marginFrac

	g := Geometry{
		BottomSpacing: bottomSpacing,
		Margin:        m,
		CanvasWidth:   st.CanvasWidth,
		CanvasHeight:  vg.Length(float64(st.CanvasBaseHeight) / (1 - bottomSpacing)),
		FontScale:     1,
	}

	g.Main = Rect{X0: 0, Y0: bottomSpacing, X1: mainPanelWidthFrac + m, Y1: 1}
	g.MainMargins = Margins{
		Left:   m / g.Main.Width(),
		Right:  m / g.Main.Width(),
		Bottom: m / g.Main.Height(),
		Top:    m / g.Main.Height(),
	}

	if residuals {
		g.HasResiduals = true
		g.Residuals = Rect{X0: 0, Y0: 0, X1: mainPanelWidthFrac + m, Y1: bottomSpacing + m}
		// No top margin: the residuals panel reaches up to the main panel so the two read
		// as one figure.
		g.ResidualsMargins = Margins{
			Left:   m / g.Residuals.Width(),
			Right:  m / g.Residuals.Width(),
			Bottom: m / g.Residuals.Height(),
			Top:    0,
		}
		g.FontScale = g.Main.Height() / g.Residuals.Height()
		g.TickScale = (1 - 2*m - bottomSpacing) / bottomSpacing
	}

	g.Legend = Rect{
		X0: 0.86,
		Y0: legendTopFrac - legendEntryFrac*float64(legendEntries),
		X1: 0.99,
		Y1: legendTopFrac,
	}
	return g
}
