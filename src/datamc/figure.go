// Package datamc builds the standard data-versus-simulation comparison figure: a stacked set
// of MC histograms overlaid with data points, optionally accompanied by a residuals panel
// showing the relative data/MC agreement per bin.
package datamc

import (
	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"

	"github.com/andrey-popov/HepPlotUtilities/src/hist"
	"github.com/andrey-popov/HepPlotUtilities/src/store"
)

var (
	// ErrDegenerateNormalization means the total simulation integral is zero, so no
	// normalization factor exists. The caller may still render without normalizing.
	ErrDegenerateNormalization = errors.New("total simulation integral is zero")
	// ErrFigureNotRendered flags an operation that needs a rendered figure.
	ErrFigureNotRendered = errors.New("figure has not been rendered")
	// ErrFigureAlreadyRendered flags a mutation attempted after rendering.
	ErrFigureAlreadyRendered = errors.New("figure has already been rendered")
	// ErrBadResidualsRange means the requested residuals range has min >= max.
	ErrBadResidualsRange = errors.New("invalid residuals range")
	// ErrNoDataHistogram flags an operation that needs data on a blind figure.
	ErrNoDataHistogram = errors.New("figure has no data histogram")
)

// Figure is one data/MC comparison figure. It owns working copies of all histograms and, once
// rendered, the composed panels, legend and annotations; everything is released together when
// the figure is garbage collected. A Figure is not safe for concurrent use, but distinct
// figures never share state and may be rendered in parallel.
type Figure struct {
	rawTitle string
	title    hist.Title
	data     *hist.Histogram
	mc       []*hist.Histogram

	plotResiduals  bool
	resMin, resMax float64

	style Style

	rendered      bool
	geom          Geometry
	mainPanel     *hplot.Plot
	resPanel      *hplot.Plot
	totalMC       *hist.Histogram
	residuals     *hist.Histogram
	legend        *plot.Legend
	legendEntries int
	annotations   []annotation
}

// New builds a figure from loaded container contents. The contents must hold at least one MC
// histogram; the data histogram may be absent (a blind figure draws only the stack).
func New(c *store.Contents) (*Figure, error) {
	if c == nil || len(c.MC) == 0 {
		return nil, store.ErrNoSimulationFound
	}
	return &Figure{
		rawTitle:      c.Title,
		title:         hist.ParseTitle(c.Title),
		data:          c.Data,
		mc:            c.MC,
		plotResiduals: true,
		resMin:        -0.25,
		resMax:        0.28,
		style:         DefaultStyle(),
	}, nil
}

// FromFile loads the figure contents from the given ROOT file and directory.
func FromFile(path, dir string) (*Figure, error) {
	c, err := store.LoadFile(path, dir)
	if err != nil {
		return nil, err
	}
	return New(c)
}

// Title returns the raw figure title as stored in the container.
func (f *Figure) Title() string { return f.rawTitle }

// ParsedTitle returns the structured form of the figure title.
func (f *Figure) ParsedTitle() hist.Title { return f.title }

// Hist resolves a histogram by name. The name "data" resolves the data histogram; any other
// name is looked up among the MC histograms. Unknown names resolve to nil.
func (f *Figure) Hist(name string) *hist.Histogram {
	if name == "data" {
		return f.data
	}
	for _, h := range f.mc {
		if h.Name == name {
			return h
		}
	}
	return nil
}

// SetStyle replaces the decoration style. Must be called before rendering.
func (f *Figure) SetStyle(st Style) error {
	if f.rendered {
		return ErrFigureAlreadyRendered
	}
	f.style = st
	return nil
}

// NormalizeMCToData rescales every MC histogram by a common factor so that the total simulation
// integral matches the data integral. When isDensity is true the integrals weight each bin by
// its width (event-density convention); the under/overflow accumulators are always included.
// Must be called before rendering.
func (f *Figure) NormalizeMCToData(isDensity bool) error {
	if f.rendered {
		return ErrFigureAlreadyRendered
	}
	if f.data == nil {
		return errors.WithMessage(ErrNoDataHistogram, "cannot normalize")
	}

	dataIntegral := f.data.Integral(isDensity)
	mcIntegral := 0.0
	for _, h := range f.mc {
		mcIntegral += h.Integral(isDensity)
	}
	if mcIntegral == 0 {
		return ErrDegenerateNormalization
	}

	factor := dataIntegral / mcIntegral
	for _, h := range f.mc {
		h.Scale(factor)
	}
	return nil
}

// RequestResiduals toggles the residuals panel and sets its y range. Must be called before
// rendering. The default is an enabled panel with range (-0.25, 0.28).
func (f *Figure) RequestResiduals(on bool, min, max float64) error {
	if f.rendered {
		return ErrFigureAlreadyRendered
	}
	if on && min >= max {
		return errors.Wrapf(ErrBadResidualsRange, "[%g, %g]", min, max)
	}
	f.plotResiduals = on
	f.resMin = min
	f.resMax = max
	return nil
}

// Legend returns the legend of the rendered figure, or nil before rendering.
func (f *Figure) Legend() *plot.Legend { return f.legend }

// MainPanel returns the main panel of the rendered figure, or nil before rendering.
func (f *Figure) MainPanel() *hplot.Plot { return f.mainPanel }

// ResidualsPanel returns the residuals panel, or nil when absent.
func (f *Figure) ResidualsPanel() *hplot.Plot { return f.resPanel }

// Geometry returns the layout computed by the last render. Zero before rendering.
func (f *Figure) Geometry() Geometry { return f.geom }
