package datamc

import (
	"gonum.org/v1/plot/vg/draw"
)

// annotation is a fixed-position text element in normalized canvas coordinates, drawn on top
// of the panels.
type annotation struct {
	x, y   float64
	text   string
	xalign draw.XAlignment
}

// AddCMSLabel places the experiment label in the upper-left corner of the canvas, optionally
// followed by a qualifier such as "Preliminary". The figure must have been rendered first.
func (f *Figure) AddCMSLabel(additionalText string) error {
	if !f.rendered {
		return ErrFigureNotRendered
	}
	text := "CMS"
	if additionalText != "" {
		text += " " + additionalText
	}
	f.annotations = append(f.annotations, annotation{x: 0.16, y: 0.91, text: text, xalign: draw.XLeft})
	return nil
}

// AddEnergyLabel places the integrated-luminosity/energy label in the upper-right corner of
// the canvas. The figure must have been rendered first.
func (f *Figure) AddEnergyLabel(text string) error {
	if !f.rendered {
		return ErrFigureNotRendered
	}
	f.annotations = append(f.annotations, annotation{x: 0.85, y: 0.91, text: text, xalign: draw.XRight})
	return nil
}
