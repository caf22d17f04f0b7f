package datamc

import "gonum.org/v1/plot/vg"

// TickStyle selects how axis tick marks are drawn.
type TickStyle int

const (
	// TicksAllSides mirrors the tick marks on the top and right edges of each panel.
	TicksAllSides TickStyle = iota
	// TicksDefault leaves the plain left/bottom axes.
	TicksDefault
)

// Style collects the decoration options recognized by the layout engine and the composer. A
// Style is applied per render; there is no process-global style state. Font sizes and offsets
// are fractions of the panel height, so the same Style produces the same proportions at any
// canvas size.
type Style struct {
	// FontFamily is the typeface used for every label on the figure.
	FontFamily string
	// BaseFontSize is the axis tick label size as a fraction of the panel height.
	BaseFontSize float64
	// AxisTitleSize is the axis and figure title size as a fraction of the panel height.
	AxisTitleSize float64
	// AxisLabelOffset is the padding between the panel content and its titles, as a fraction
	// of the panel height.
	AxisLabelOffset float64
	// MaxAxisDigits caps the number of significant digits in tick labels; longer values
	// switch to scientific notation.
	MaxAxisDigits int
	// Ticks selects the tick mark style.
	Ticks TickStyle

	// CanvasWidth is the rendered canvas width. The height is derived from CanvasBaseHeight
	// and the residuals panel fraction, so enabling residuals grows the canvas instead of
	// squeezing the main panel.
	CanvasWidth      vg.Length
	CanvasBaseHeight vg.Length
}

// DefaultStyle mirrors the decoration the figure kind has always used.
func DefaultStyle() Style {
	return Style{
		FontFamily:       "Liberation",
		BaseFontSize:     0.04,
		AxisTitleSize:    0.045,
		AxisLabelOffset:  0.007,
		MaxAxisDigits:    3,
		Ticks:            TicksAllSides,
		CanvasWidth:      750,
		CanvasBaseHeight: 500,
	}
}
