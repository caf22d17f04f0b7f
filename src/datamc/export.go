package datamc

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/andrey-popov/HepPlotUtilities/src/logging"
	"github.com/andrey-popov/HepPlotUtilities/src/store"
)

// Print serializes the rendered figure. A path ending in ".root" writes the figure contents
// back into the structured container format; any other known extension produces a raster or
// vector image. Annotations added after rendering appear in every subsequent Print.
func (f *Figure) Print(path string) error {
	if !f.rendered {
		return ErrFigureNotRendered
	}
	defer logging.TimeTrack(time.Now(), "print "+path)
	if strings.EqualFold(filepath.Ext(path), ".root") {
		return f.printContainer(path)
	}
	return f.printImage(path)
}

func (f *Figure) printContainer(path string) error {
	req := store.WriteRequest{Title: f.rawTitle}
	if f.data != nil {
		req.Hists = append(req.Hists, f.data)
	}
	req.Hists = append(req.Hists, f.mc...)
	req.Hists = append(req.Hists, f.totalMC)
	if f.residuals != nil {
		req.Hists = append(req.Hists, f.residuals)
	}
	return store.Write(path, req)
}

func (f *Figure) printImage(path string) error {
	w, h := f.geom.CanvasWidth, f.geom.CanvasHeight

	var out io.WriterTo
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		img := vgimg.New(w, h)
		f.drawTo(draw.New(img))
		switch ext {
		case ".png":
			out = vgimg.PngCanvas{Canvas: img}
		case ".jpg", ".jpeg":
			out = vgimg.JpegCanvas{Canvas: img}
		default:
			out = vgimg.TiffCanvas{Canvas: img}
		}
	case ".pdf":
		c := vgpdf.New(w, h)
		f.drawTo(draw.New(c))
		out = c
	case ".svg":
		c := vgsvg.New(w, h)
		f.drawTo(draw.New(c))
		out = c
	case ".eps":
		c := vgeps.New(w, h)
		f.drawTo(draw.New(c))
		out = c
	default:
		return errors.Errorf("unsupported output format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	if _, err := out.WriteTo(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "write %q", path)
	}
	return file.Close()
}

// drawTo composes the full figure onto one canvas: panels first, then the legend, then the
// canvas-level annotations.
func (f *Figure) drawTo(dc draw.Canvas) {
	f.mainPanel.Draw(f.subCanvas(dc, f.geom.Main, f.geom.MainMargins))
	if f.resPanel != nil {
		f.resPanel.Draw(f.subCanvas(dc, f.geom.Residuals, f.geom.ResidualsMargins))
	}
	f.legend.Draw(f.subCanvas(dc, f.geom.Legend, Margins{}))

	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y
	for _, a := range f.annotations {
		sty := draw.TextStyle{
			Color: color.Black,
			Font: font.Font{
				Typeface: font.Typeface(f.style.FontFamily),
				Variant:  "Sans",
				Size:     vg.Length(f.style.BaseFontSize) * h,
			},
			XAlign:  a.xalign,
			YAlign:  draw.YBottom,
			Handler: plot.DefaultTextHandler,
		}
		pt := vg.Point{X: dc.Min.X + vg.Length(a.x)*w, Y: dc.Min.Y + vg.Length(a.y)*h}
		dc.FillText(sty, pt, a.text)
	}
}

// subCanvas maps a normalized-coordinate rectangle (with per-panel margins) onto dc.
func (f *Figure) subCanvas(dc draw.Canvas, r Rect, m Margins) draw.Canvas {
	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y
	x0 := dc.Min.X + vg.Length(r.X0)*w
	x1 := dc.Min.X + vg.Length(r.X1)*w
	y0 := dc.Min.Y + vg.Length(r.Y0)*h
	y1 := dc.Min.Y + vg.Length(r.Y1)*h

	pw := x1 - x0
	ph := y1 - y0
	return draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: x0 + vg.Length(m.Left)*pw, Y: y0 + vg.Length(m.Bottom)*ph},
			Max: vg.Point{X: x1 - vg.Length(m.Right)*pw, Y: y1 - vg.Length(m.Top)*ph},
		},
	}
}
