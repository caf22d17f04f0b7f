// Package main provides the CLI entry point for datamcplot: it reads one or more figure
// directories from a ROOT file and renders the standard data/MC comparison figure for each.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/andrey-popov/HepPlotUtilities/src/datamc"
	"github.com/andrey-popov/HepPlotUtilities/src/logging"
	"github.com/andrey-popov/HepPlotUtilities/src/store"
)

var (
	dirs       []string
	outDir     string
	format     string
	normalize  bool
	density    bool
	residuals  bool
	resMin     float64
	resMax     float64
	cms        bool
	cmsExtra   string
	energyText string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datamcplot [input.root]",
		Short: "Render data/MC comparison figures from a ROOT file",
		Long: `datamcplot loads named histogram sets ("data" plus simulation) from directories
of a ROOT file and renders each as a stacked comparison figure with an optional
residuals panel.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "Directory inside the input file (repeatable; default: every top-level directory)")
	rootCmd.Flags().StringVarP(&outDir, "output", "o", ".", "Directory for the rendered figures")
	rootCmd.Flags().StringVar(&format, "format", "png", "Output format: png, jpg, tiff, pdf, svg, eps or root")
	rootCmd.Flags().BoolVar(&normalize, "normalize", false, "Rescale the simulation to the data integral")
	rootCmd.Flags().BoolVar(&density, "density", false, "Use the event-density convention for normalization integrals")
	rootCmd.Flags().BoolVar(&residuals, "residuals", true, "Draw the residuals panel")
	rootCmd.Flags().Float64Var(&resMin, "res-min", -0.25, "Lower edge of the residuals panel")
	rootCmd.Flags().Float64Var(&resMax, "res-max", 0.28, "Upper edge of the residuals panel")
	rootCmd.Flags().BoolVar(&cms, "cms", false, "Draw the experiment label")
	rootCmd.Flags().StringVar(&cmsExtra, "cms-extra", "", "Qualifier after the experiment label, e.g. \"Preliminary\"")
	rootCmd.Flags().StringVar(&energyText, "energy-label", "", "Luminosity/energy annotation, e.g. \"59.7 fb^{-1} (13 TeV)\"")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.SetLogLevel(logLevel)
	input := args[0]
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", input)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	targets := dirs
	if len(targets) == 0 {
		var err error
		targets, err = store.ListGroups(input)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return fmt.Errorf("no figure directories in %s", input)
		}
	}
	logging.Infof("rendering %d figure(s) from %s", len(targets), input)

	// At debug level the bar would interleave with the per-figure log lines.
	var bar *pb.ProgressBar
	if logging.GetLogLevel() > logging.LevelDebug {
		bar = pb.StartNew(len(targets))
	}
	var failed int
	for _, dir := range targets {
		if err := renderOne(input, dir); err != nil {
			logging.Errorf("figure %q: %v", dir, err)
			failed++
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d figures failed", failed, len(targets))
	}
	return nil
}

func renderOne(input, dir string) error {
	fig, err := datamc.FromFile(input, dir)
	if err != nil {
		return err
	}
	if normalize {
		if err := fig.NormalizeMCToData(density); err != nil {
			return err
		}
	}
	if err := fig.RequestResiduals(residuals, resMin, resMax); err != nil {
		return err
	}
	if err := fig.Render(); err != nil {
		return err
	}
	if cms {
		if err := fig.AddCMSLabel(cmsExtra); err != nil {
			return err
		}
	}
	if energyText != "" {
		if err := fig.AddEnergyLabel(energyText); err != nil {
			return err
		}
	}

	out := filepath.Join(outDir, dir+"."+strings.TrimPrefix(format, "."))
	logging.Debugf("writing %s", out)
	return fig.Print(out)
}
