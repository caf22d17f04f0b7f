package datamc

import (
	"github.com/andrey-popov/HepPlotUtilities/src/hist"
)

// totalSimulation builds the bin-wise sum of all MC histograms. Uncertainties of the summands
// are combined in quadrature (the package-wide convention, see hist.Add).
func totalSimulation(mc []*hist.Histogram) (*hist.Histogram, error) {
	total := mc[0].Clone()
	total.Name = "mc_total"
	total.Title = "Total MC"
	for _, h := range mc[1:] {
		if err := total.Add(h); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// computeResiduals builds (data - total) / total per bin. Bins with zero total MC carry the
// NaN sentinel instead of failing, so one empty bin does not prevent inspecting the rest of
// the figure; such bins render as gaps. The computation is pure: identical inputs give
// bit-identical output.
func computeResiduals(data, total *hist.Histogram) (*hist.Histogram, error) {
	res := data.Clone()
	res.Name = "residuals"
	res.Title = ""
	if err := res.AddScaled(total, -1); err != nil {
		return nil, err
	}
	if err := res.Divide(total); err != nil {
		return nil, err
	}
	return res, nil
}
