package datamc

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
)

// cappedTicks generates up to n tick marks at nice increments, with labels capped at maxDigits
// significant digits (longer values fall back to scientific notation).
type cappedTicks struct {
	n         int
	maxDigits int
}

func (t cappedTicks) Ticks(min, max float64) []plot.Tick {
	n := t.n
	if n < 2 {
		n = 5
	}
	if math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min

	// Preferred tick steps: 1, 2, 2.5, 5, 10 ... scaled by power of 10
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}

	start := math.Ceil(min/bestStep) * bestStep
	var ticks []plot.Tick
	for v := start; v <= max+bestStep/2; v += bestStep {
		if v < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: t.format(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func (t cappedTicks) format(v float64) string {
	if v == 0 {
		return "0"
	}
	digits := t.maxDigits
	if digits <= 0 {
		digits = 3
	}
	return fmt.Sprintf("%.*g", digits, v)
}

// blankTicks keeps the tick marks of the wrapped ticker but drops their labels. Used on the
// main panel's x axis when the residuals panel repeats the same axis below it.
type blankTicks struct {
	base plot.Ticker
}

func (t blankTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.base.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}
