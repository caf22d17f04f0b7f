package hist

import (
	"math"

	"github.com/pkg/errors"
	deepcopy "github.com/tiendc/go-deepcopy"
)

// ErrInconsistentBinning is returned by histogram arithmetic when the two operands do not share
// the same bin edges. Arithmetic on mismatched binnings is numerically meaningless, so it is
// refused up front instead of producing garbage.
var ErrInconsistentBinning = errors.New("histograms have inconsistent binning")

// Relative tolerance used when comparing bin edges.
const edgeTolerance = 1e-9

// Bin is a single bin of a one-dimensional histogram.
type Bin struct {
	LowEdge float64
	Width   float64
	Content float64
	Error   float64
}

// Accum is an under- or overflow accumulator. It has a content and an uncertainty but no
// associated axis range.
type Accum struct {
	Content float64
	Error   float64
}

// Histogram is a named, titled, binned function with a per-bin value and uncertainty.
//
// Histograms are value-like: arithmetic mutates the receiver in place, and Clone produces a
// fully detached deep copy. All histograms participating in one figure must share the same
// binning; operations that combine two histograms verify this and fail with
// ErrInconsistentBinning otherwise.
type Histogram struct {
	Name      string
	Title     string
	Bins      []Bin
	Underflow Accum
	Overflow  Accum
}

// NBins returns the number of nominal bins (flows excluded).
func (h *Histogram) NBins() int { return len(h.Bins) }

// Edges returns the n+1 bin edges.
func (h *Histogram) Edges() []float64 {
	if len(h.Bins) == 0 {
		return nil
	}
	edges := make([]float64, 0, len(h.Bins)+1)
	for _, b := range h.Bins {
		edges = append(edges, b.LowEdge)
	}
	last := h.Bins[len(h.Bins)-1]
	return append(edges, last.LowEdge+last.Width)
}

// Clone returns a deep copy detached from the receiver.
func (h *Histogram) Clone() *Histogram {
	c := new(Histogram)
	if err := deepcopy.Copy(c, h); err != nil {
		// Copying between two identical concrete types cannot fail.
		panic(err)
	}
	return c
}

// SameBinning reports whether the two histograms share bin edges within tolerance.
func (h *Histogram) SameBinning(o *Histogram) bool {
	if len(h.Bins) != len(o.Bins) {
		return false
	}
	for i := range h.Bins {
		scale := math.Max(math.Abs(h.Bins[i].Width), 1)
		if math.Abs(h.Bins[i].LowEdge-o.Bins[i].LowEdge) > edgeTolerance*scale {
			return false
		}
		if math.Abs(h.Bins[i].Width-o.Bins[i].Width) > edgeTolerance*scale {
			return false
		}
	}
	return true
}

// Add adds o to the receiver bin by bin. Uncertainties are combined in quadrature; this is the
// single combination convention used throughout the package, including for the total-MC
// histogram entering the residuals.
func (h *Histogram) Add(o *Histogram) error {
	return h.AddScaled(o, 1)
}

// AddScaled adds c*o to the receiver bin by bin, with quadrature uncertainties.
func (h *Histogram) AddScaled(o *Histogram, c float64) error {
	if !h.SameBinning(o) {
		return errors.Wrapf(ErrInconsistentBinning, "add %q to %q", o.Name, h.Name)
	}
	for i := range h.Bins {
		h.Bins[i].Content += c * o.Bins[i].Content
		h.Bins[i].Error = quadSum(h.Bins[i].Error, c*o.Bins[i].Error)
	}
	h.Underflow.Content += c * o.Underflow.Content
	h.Underflow.Error = quadSum(h.Underflow.Error, c*o.Underflow.Error)
	h.Overflow.Content += c * o.Overflow.Content
	h.Overflow.Error = quadSum(h.Overflow.Error, c*o.Overflow.Error)
	return nil
}

// Scale multiplies every bin content and uncertainty (flows included) by f in place.
func (h *Histogram) Scale(f float64) {
	af := math.Abs(f)
	for i := range h.Bins {
		h.Bins[i].Content *= f
		h.Bins[i].Error *= af
	}
	h.Underflow.Content *= f
	h.Underflow.Error *= af
	h.Overflow.Content *= f
	h.Overflow.Error *= af
}

// Divide replaces the receiver with the bin-wise ratio receiver/o, propagating uncertainties of
// both operands. Bins where o is zero get NaN content and NaN uncertainty; the caller decides
// how to treat the sentinel (the figure renders such bins as gaps).
func (h *Histogram) Divide(o *Histogram) error {
	if !h.SameBinning(o) {
		return errors.Wrapf(ErrInconsistentBinning, "divide %q by %q", h.Name, o.Name)
	}
	for i := range h.Bins {
		h.Bins[i] = divideBin(h.Bins[i], o.Bins[i].Content, o.Bins[i].Error)
	}
	h.Underflow = divideAccum(h.Underflow, o.Underflow)
	h.Overflow = divideAccum(h.Overflow, o.Overflow)
	return nil
}

// Integral sums bin contents, weighting each bin by its width when density is true. The under-
// and overflow accumulators always contribute their raw content: they have no width, so the
// density convention does not apply to them.
func (h *Histogram) Integral(density bool) float64 {
	sum := h.Underflow.Content + h.Overflow.Content
	for _, b := range h.Bins {
		if density {
			sum += b.Content * b.Width
		} else {
			sum += b.Content
		}
	}
	return sum
}

// Max returns the largest bin content (flows excluded), or 0 for an empty histogram.
// NaN bins are skipped.
func (h *Histogram) Max() float64 {
	max := math.Inf(-1)
	for _, b := range h.Bins {
		if !math.IsNaN(b.Content) && b.Content > max {
			max = b.Content
		}
	}
	if math.IsInf(max, -1) {
		return 0
	}
	return max
}

func quadSum(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}

func divideBin(num Bin, den, denErr float64) Bin {
	if den == 0 {
		num.Content = math.NaN()
		num.Error = math.NaN()
		return num
	}
	r := num.Content / den
	num.Error = math.Sqrt(sqr(num.Error/den) + sqr(num.Content*denErr/(den*den)))
	num.Content = r
	return num
}

func divideAccum(num Accum, den Accum) Accum {
	b := divideBin(Bin{Content: num.Content, Error: num.Error}, den.Content, den.Error)
	return Accum{Content: b.Content, Error: b.Error}
}

func sqr(x float64) float64 { return x * x }
