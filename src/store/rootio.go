package store

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rbase"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"

	"github.com/andrey-popov/HepPlotUtilities/src/hist"
	"github.com/andrey-popov/HepPlotUtilities/src/logging"
)

// rootGroup adapts one directory of a ROOT file to the Group interface.
type rootGroup struct {
	dir riofs.Directory
}

// LoadFile opens the ROOT file at path, resolves the directory dir inside it (the file itself
// when dir is empty) and loads the figure contents from it. The file is closed before
// returning; the histograms are detached copies.
func LoadFile(path, dir string) (*Contents, error) {
	defer logging.TimeTrack(time.Now(), "load "+path)

	f, err := groot.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "%q: %v", path, err)
	}
	defer f.Close()

	var d riofs.Directory = f
	if dir != "" {
		obj, err := riofs.Dir(f).Get(dir)
		if err != nil {
			return nil, errors.Wrapf(ErrGroupNotFound, "%q in %q", dir, path)
		}
		sub, ok := obj.(riofs.Directory)
		if !ok {
			return nil, errors.Wrapf(ErrGroupNotFound, "%q in %q is not a directory", dir, path)
		}
		d = sub
	}

	c, err := Load(&rootGroup{dir: d})
	if err != nil {
		return nil, errors.WithMessagef(err, "file %q, group %q", path, dir)
	}
	logging.Debugf("loaded %d MC histograms from %q group %q", len(c.MC), path, dir)
	return c, nil
}

// ListGroups returns the names of the top-level directories of the ROOT file at path, in file
// order. Each such directory is a candidate figure group for LoadFile.
func ListGroups(path string) ([]string, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "%q: %v", path, err)
	}
	defer f.Close()

	var names []string
	for _, k := range f.Keys() {
		switch k.ClassName() {
		case "TDirectory", "TDirectoryFile":
			names = append(names, k.Name())
		}
	}
	return names, nil
}

func (g *rootGroup) Title() (string, bool) {
	obj, err := g.dir.Get("title")
	if err != nil {
		return "", false
	}
	s, ok := obj.(root.ObjString)
	if !ok {
		return "", false
	}
	return s.String(), true
}

func (g *rootGroup) Keys() []Key {
	var keys []Key
	for _, k := range g.dir.Keys() {
		keys = append(keys, Key{Name: k.Name(), Class: k.ClassName()})
	}
	return keys
}

func (g *rootGroup) Histogram(name string) (*hist.Histogram, error) {
	obj, err := g.dir.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read entry %q", name)
	}
	h1, ok := obj.(rhist.H1)
	if !ok {
		return nil, errors.Errorf("entry %q is not a 1-D histogram", name)
	}
	title := ""
	if named, ok := obj.(root.Named); ok {
		title = named.Title()
	}
	h := FromHBook(rootcnv.H1D(h1))
	h.Name = name
	h.Title = title
	return h, nil
}

// WriteRequest is the payload of Write: a title and histograms in write order.
type WriteRequest struct {
	Title string
	Hists []*hist.Histogram
}

// Write serializes req into a new ROOT file at path, overwriting any existing file. The title
// is stored as a TObjString under "title" and each histogram as a TH1D under its own name.
func Write(path string, req WriteRequest) error {
	defer logging.TimeTrack(time.Now(), "write "+path)

	f, err := riofs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create output file %q", path)
	}
	defer f.Close()

	if err := f.Put("title", rbase.NewObjString(req.Title)); err != nil {
		return errors.Wrap(err, "write title")
	}
	for _, h := range req.Hists {
		if err := f.Put(h.Name, rhist.NewH1DFrom(ToHBook(h))); err != nil {
			return errors.Wrapf(err, "write histogram %q", h.Name)
		}
	}
	return nil
}

// FromHBook converts an hbook histogram, keeping per-bin contents and uncertainties and the
// under/overflow accumulators.
func FromHBook(hb *hbook.H1D) *hist.Histogram {
	h := &hist.Histogram{}
	for i := range hb.Binning.Bins {
		b := &hb.Binning.Bins[i]
		h.Bins = append(h.Bins, hist.Bin{
			LowEdge: b.Range.Min,
			Width:   b.Range.Max - b.Range.Min,
			Content: b.Dist.Dist.SumW,
			Error:   math.Sqrt(b.Dist.Dist.SumW2),
		})
	}
	h.Underflow = hist.Accum{
		Content: hb.Binning.Outflows[0].Dist.SumW,
		Error:   math.Sqrt(hb.Binning.Outflows[0].Dist.SumW2),
	}
	h.Overflow = hist.Accum{
		Content: hb.Binning.Outflows[1].Dist.SumW,
		Error:   math.Sqrt(hb.Binning.Outflows[1].Dist.SumW2),
	}
	return h
}

// ToHBook converts a histogram back to hbook form for serialization.
func ToHBook(h *hist.Histogram) *hbook.H1D {
	hb := hbook.NewH1DFromEdges(h.Edges())
	hb.Ann["name"] = h.Name
	hb.Ann["title"] = h.Title
	for i, b := range h.Bins {
		dst := &hb.Binning.Bins[i].Dist.Dist
		dst.N = 1
		dst.SumW = b.Content
		dst.SumW2 = b.Error * b.Error
	}
	hb.Binning.Outflows[0].Dist.SumW = h.Underflow.Content
	hb.Binning.Outflows[0].Dist.SumW2 = h.Underflow.Error * h.Underflow.Error
	hb.Binning.Outflows[1].Dist.SumW = h.Overflow.Content
	hb.Binning.Outflows[1].Dist.SumW2 = h.Overflow.Error * h.Overflow.Error
	return hb
}
