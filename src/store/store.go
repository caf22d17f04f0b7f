// Package store reads and writes the ROOT containers that figures are built from. The selection
// logic in Load is container-agnostic and operates on the Group abstraction; rootio.go binds it
// to actual ROOT files through groot.
package store

import (
	"github.com/pkg/errors"

	"github.com/andrey-popov/HepPlotUtilities/src/hist"
)

var (
	// ErrSourceUnavailable means the container could not be opened or is corrupted.
	ErrSourceUnavailable = errors.New("source container is missing or corrupted")
	// ErrGroupNotFound means the requested sub-directory does not exist in the container.
	ErrGroupNotFound = errors.New("group not found in source container")
	// ErrMissingDataHistogram means the container has no entry literally named "data".
	ErrMissingDataHistogram = errors.New("data histogram not found")
	// ErrNoSimulationFound means no MC histograms survived the entry filter.
	ErrNoSimulationFound = errors.New("no simulation histograms found")
)

// Entry names with a reserved meaning. They are never returned among the MC histograms:
// "data" is the observed distribution and "syst_up"/"syst_down" hold systematic-variation
// bands that this figure kind does not draw.
var reservedNames = map[string]bool{
	"data":      true,
	"syst_up":   true,
	"syst_down": true,
}

// Container classes accepted as one-dimensional histograms of a numeric bin-content type.
var hist1DClasses = map[string]bool{
	"TH1D": true,
	"TH1F": true,
	"TH1I": true,
	"TH1S": true,
	"TH1C": true,
}

// Key identifies one entry of a group: its name and its container class.
type Key struct {
	Name  string
	Class string
}

// Group is one logical directory of a container. Keys are reported in container order, which
// defines the stacking order of the figure.
type Group interface {
	// Title returns the stored figure title, if any.
	Title() (string, bool)
	// Keys lists the entries of the group in container order.
	Keys() []Key
	// Histogram reads the named entry as a 1-D histogram.
	Histogram(name string) (*hist.Histogram, error)
}

// Contents is everything a figure needs from one group. All histograms are deep copies detached
// from the container, so the container may be closed (or the Group mutated) without invalidating
// them.
type Contents struct {
	Title string
	Data  *hist.Histogram
	MC    []*hist.Histogram
}

// Load reads the title, the data histogram and every MC histogram from g. The entry literally
// named "data" must exist and be a 1-D histogram; every other 1-D histogram entry whose name is
// not reserved becomes an MC histogram. At least one MC histogram must remain.
func Load(g Group) (*Contents, error) {
	c := &Contents{}
	if s, ok := g.Title(); ok {
		c.Title = s
	}

	for _, k := range g.Keys() {
		if !hist1DClasses[k.Class] {
			continue
		}
		isData := k.Name == "data"
		if !isData && reservedNames[k.Name] {
			continue
		}
		h, err := g.Histogram(k.Name)
		if err != nil {
			return nil, errors.WithMessagef(err, "entry %q", k.Name)
		}
		h = h.Clone()
		h.Name = k.Name
		if isData {
			c.Data = h
		} else {
			c.MC = append(c.MC, h)
		}
	}

	if c.Data == nil {
		return nil, ErrMissingDataHistogram
	}
	if len(c.MC) == 0 {
		return nil, ErrNoSimulationFound
	}
	return c, nil
}
