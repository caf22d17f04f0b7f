package datamc

import (
	"image/color"
	"math"
	"time"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/andrey-popov/HepPlotUtilities/src/hist"
	"github.com/andrey-popov/HepPlotUtilities/src/logging"
	"github.com/andrey-popov/HepPlotUtilities/src/store"
)

// Render composes the figure: panel geometry, the MC stack, the data overlay, the legend and,
// when requested, the residuals panel. It can run only once per figure; mutations such as
// NormalizeMCToData or RequestResiduals must happen before it. Rendering does not rasterize
// anything, it builds the draw tree that Print later serializes.
func (f *Figure) Render() error {
	if f.rendered {
		return ErrFigureAlreadyRendered
	}
	defer logging.TimeTrack(time.Now(), "render figure")

	entries := len(f.mc)
	if f.data != nil {
		entries++
	}
	f.legendEntries = entries
	// A blind figure has nothing to compare the stack against.
	showResiduals := f.plotResiduals && f.data != nil
	f.geom = computeGeometry(showResiduals, entries, f.style)

	total, err := totalSimulation(f.mc)
	if err != nil {
		return err
	}
	f.totalMC = total

	if err := f.composeMainPanel(showResiduals); err != nil {
		return err
	}
	f.composeLegend()
	if showResiduals {
		if err := f.composeResidualsPanel(); err != nil {
			return err
		}
	}

	f.rendered = true
	return nil
}

func (f *Figure) composeMainPanel(blankXLabels bool) error {
	panelHeight := vg.Length(f.geom.Main.Height()) * f.geom.CanvasHeight
	p := hplot.New()
	p.Title.Text = f.title.Main
	p.Title.TextStyle.Font.Size = vg.Length(f.style.AxisTitleSize) * panelHeight
	p.Title.Padding = vg.Length(f.style.AxisLabelOffset) * panelHeight
	f.styleAxes(&p.X, &p.Y, panelHeight, 1)
	p.Y.Label.Text = f.title.Y
	if !blankXLabels {
		// With a residuals panel the x-axis title moves down there.
		p.X.Label.Text = f.title.X
	}

	// The stack is drawn as cumulative sums, largest first, so each series covers the totals
	// beneath it. Visually the bottom of the stack is the last-loaded histogram.
	bottomFirst := stackOrder(f.mc)
	cum, err := buildStack(bottomFirst)
	if err != nil {
		return err
	}
	for i := len(cum) - 1; i >= 0; i-- {
		loadIdx := len(f.mc) - 1 - i
		hp := hplot.NewH1D(store.ToHBook(cum[i]))
		hp.FillColor = plotutil.Color(loadIdx)
		hp.LineStyle.Color = color.Black
		hp.LineStyle.Width = 0.5
		p.Add(hp)
	}

	if f.data != nil {
		pts := newHistPoints(f.data)
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle = dataGlyphStyle()
		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return err
		}
		bars.LineStyle.Color = color.Black
		bars.CapWidth = 0
		p.Add(bars, scatter)
	}

	// Axis ranges are pinned only after the last Add: adding a plotter expands them. The x
	// range follows the shared binning so both panels line up exactly.
	edges := f.mc[0].Edges()
	p.X.Min = edges[0]
	p.X.Max = edges[len(edges)-1]
	p.Y.Min = 0
	if f.data != nil {
		// Neither the stack nor the data curve may be clipped; both series share one scale.
		p.Y.Max = maxHeadroom * math.Max(f.totalMC.Max(), f.data.Max())
	}

	digits := f.style.MaxAxisDigits
	p.Y.Tick.Marker = cappedTicks{n: 8, maxDigits: digits}
	xTicks := plot.Ticker(cappedTicks{n: 8, maxDigits: digits})
	if blankXLabels {
		// The residuals panel repeats this axis right below; duplicate labels would clash.
		xTicks = blankTicks{base: xTicks}
	}
	p.X.Tick.Marker = xTicks

	if f.style.Ticks == TicksAllSides {
		p.Add(panelFrame{line: draw.LineStyle{Color: color.Black, Width: 0.5}, tick: 2})
	}

	f.mainPanel = p
	return nil
}

func (f *Figure) composeResidualsPanel() error {
	res, err := computeResiduals(f.data, f.totalMC)
	if err != nil {
		return err
	}
	f.residuals = res

	panelHeight := vg.Length(f.geom.Residuals.Height()) * f.geom.CanvasHeight
	p := hplot.New()
	f.styleAxes(&p.X, &p.Y, panelHeight, f.geom.FontScale)
	// The x-axis title of the stacked plot moves down here.
	p.X.Label.Text = f.title.X
	p.Y.Label.Text = "(Data - MC) / MC"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	pts := newHistPoints(res)
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle = dataGlyphStyle()
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	bars.LineStyle.Color = color.Black
	bars.CapWidth = 0
	p.Add(bars, scatter)

	// Pinned after the last Add. The x range must match the main panel exactly; the y range is
	// the requested residuals window and out-of-range points are clipped.
	p.X.Min = f.mainPanel.X.Min
	p.X.Max = f.mainPanel.X.Max
	p.Y.Min = f.resMin
	p.Y.Max = f.resMax

	digits := f.style.MaxAxisDigits
	p.X.Tick.Marker = cappedTicks{n: 8, maxDigits: digits}
	p.Y.Tick.Marker = cappedTicks{n: 4, maxDigits: digits}
	// Compensate the tick length for the reduced panel height.
	p.X.Tick.Length = vg.Length(float64(p.X.Tick.Length) * f.geom.TickScale)

	if f.style.Ticks == TicksAllSides {
		p.Add(panelFrame{line: draw.LineStyle{Color: color.Black, Width: 0.5}, tick: 2})
	}

	f.resPanel = p
	return nil
}

func (f *Figure) composeLegend() {
	leg := plot.NewLegend()
	leg.Top = true
	leg.TextStyle.Font.Typeface = font.Typeface(f.style.FontFamily)
	leg.TextStyle.Font.Size = vg.Length(legendTextFrac) * f.geom.CanvasHeight

	if f.data != nil {
		leg.Add(seriesLabel(f.data), pointSwatch{sty: dataGlyphStyle()})
	}
	for i, h := range f.mc {
		leg.Add(seriesLabel(h), fillSwatch{fill: plotutil.Color(i)})
	}
	f.legend = &leg
}

// styleAxes applies the figure style to one panel's axes. Sizes are fractions of the panel
// height; scale is the cross-panel font compensation factor from the layout engine.
func (f *Figure) styleAxes(x, y *plot.Axis, panelHeight vg.Length, scale float64) {
	labelSize := vg.Length(f.style.BaseFontSize*scale) * panelHeight
	titleSize := vg.Length(f.style.AxisTitleSize*scale) * panelHeight
	for _, ax := range []*plot.Axis{x, y} {
		ax.Label.TextStyle.Font.Typeface = font.Typeface(f.style.FontFamily)
		ax.Label.TextStyle.Font.Size = titleSize
		ax.Tick.Label.Font.Typeface = font.Typeface(f.style.FontFamily)
		ax.Tick.Label.Font.Size = labelSize
	}
}

// stackOrder returns the MC histograms in bottom-to-top visual order, which is the reverse of
// their load order.
func stackOrder(mc []*hist.Histogram) []*hist.Histogram {
	out := make([]*hist.Histogram, len(mc))
	for i, h := range mc {
		out[len(mc)-1-i] = h
	}
	return out
}

// buildStack returns the cumulative histograms of the stack: element i is the sum of the
// bottom i+1 series in visual order, so the last element is the total simulation.
func buildStack(bottomFirst []*hist.Histogram) ([]*hist.Histogram, error) {
	cum := make([]*hist.Histogram, len(bottomFirst))
	running := bottomFirst[0].Clone()
	cum[0] = running.Clone()
	for i, h := range bottomFirst[1:] {
		if err := running.Add(h); err != nil {
			return nil, err
		}
		cum[i+1] = running.Clone()
	}
	return cum, nil
}

func seriesLabel(h *hist.Histogram) string {
	if h.Title != "" {
		return h.Title
	}
	return h.Name
}

func dataGlyphStyle() draw.GlyphStyle {
	return draw.GlyphStyle{
		Color:  color.Black,
		Radius: vg.Points(2.5),
		Shape:  draw.CircleGlyph{},
	}
}

// histPoints adapts a histogram to the scatter and error-bar plotters, one point per bin at
// the bin center. NaN bins are dropped so they render as gaps. Only vertical errors are
// exposed; the horizontal bin-width error is suppressed as a fixed style of this figure kind.
type histPoints struct {
	xs, ys, errs []float64
}

func newHistPoints(h *hist.Histogram) histPoints {
	var p histPoints
	for _, b := range h.Bins {
		if math.IsNaN(b.Content) {
			continue
		}
		e := b.Error
		if math.IsNaN(e) {
			e = 0
		}
		p.xs = append(p.xs, b.LowEdge+b.Width/2)
		p.ys = append(p.ys, b.Content)
		p.errs = append(p.errs, e)
	}
	return p
}

func (p histPoints) Len() int                        { return len(p.xs) }
func (p histPoints) XY(i int) (float64, float64)     { return p.xs[i], p.ys[i] }
func (p histPoints) YError(i int) (float64, float64) { return p.errs[i], p.errs[i] }

// fillSwatch is the filled-area legend thumbnail used for MC series.
type fillSwatch struct {
	fill color.Color
}

func (s fillSwatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.fill, pts)
}

// pointSwatch is the point-with-error-bar legend thumbnail used for the data series.
type pointSwatch struct {
	sty draw.GlyphStyle
}

func (s pointSwatch) Thumbnail(c *draw.Canvas) {
	mid := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	c.StrokeLine2(draw.LineStyle{Color: s.sty.Color, Width: 0.5},
		mid.X, c.Min.Y, mid.X, c.Max.Y)
	c.DrawGlyph(s.sty, mid)
}

// panelFrame mirrors the axis tick marks on the top and right edges of a panel.
type panelFrame struct {
	line draw.LineStyle
	tick vg.Length
}

func (fr panelFrame) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	xmin, xmax := trX(plt.X.Min), trX(plt.X.Max)
	ymin, ymax := trY(plt.Y.Min), trY(plt.Y.Max)

	c.StrokeLine2(fr.line, xmin, ymax, xmax, ymax)
	c.StrokeLine2(fr.line, xmax, ymin, xmax, ymax)

	for _, t := range plt.X.Tick.Marker.Ticks(plt.X.Min, plt.X.Max) {
		x := trX(t.Value)
		c.StrokeLine2(fr.line, x, ymax, x, ymax-fr.tick)
	}
	for _, t := range plt.Y.Tick.Marker.Ticks(plt.Y.Min, plt.Y.Max) {
		y := trY(t.Value)
		c.StrokeLine2(fr.line, xmax, y, xmax-fr.tick, y)
	}
}
