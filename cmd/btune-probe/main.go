// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

// Command btune-probe drives a Tuner over a file's chunks using
// hostsim's real (if unoptimized) compressor, and prints the champion
// cparams it converges on. It exists to exercise the core end-to-end
// from the command line rather than from a test harness.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Blosc/blosc2-btune"
	"github.com/Blosc/blosc2-btune/hostsim"
	"github.com/Blosc/blosc2-btune/mlhint"
)

type runOptions struct {
	chunkSize    int
	typeSize     int
	tradeoff     float64
	perfMode     string
	configFile   string
	usePredictor bool
	nThreads     int
}

func main() {
	opts := &runOptions{}
	root := &cobra.Command{
		Use:   "btune-probe FILE",
		Short: "Tune compression cparams for a file's chunks and report the champion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}

	fs := root.Flags()
	fs.IntVar(&opts.chunkSize, "chunk-size", 1<<20, "chunk size in bytes")
	fs.IntVar(&opts.typeSize, "typesize", 8, "element size in bytes")
	fs.Float64Var(&opts.tradeoff, "tradeoff", btune.DefaultTradeoff, "speed/ratio tradeoff in [0,1]")
	fs.StringVar(&opts.perfMode, "perf-mode", "COMP", "COMP, DECOMP or BALANCED")
	fs.StringVar(&opts.configFile, "config", "", "optional YAML config file overriding the defaults")
	fs.BoolVar(&opts.usePredictor, "ml-hint", false, "seed the search with mlhint's heuristic predictor")
	fs.IntVar(&opts.nThreads, "threads", 1, "compression/decompression thread count to report to the tuner")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "btune-probe:", err)
		os.Exit(1)
	}
}

func run(path string, opts *runOptions) error {
	log := logrus.New()
	entry := logrus.NewEntry(log)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := btune.DefaultConfig()
	cfg.Tradeoff = opts.tradeoff
	if pm, ok := perfModeFromString(opts.perfMode); ok {
		cfg.PerfMode = pm
	} else {
		entry.Warnf("unknown perf mode %q, using COMP", opts.perfMode)
	}
	if opts.configFile != "" {
		cfg, err = btune.LoadConfigFile(opts.configFile, cfg)
		if err != nil {
			return err
		}
	}

	engine := hostsim.New()
	tunerOpts := []btune.Option{btune.WithLogger(entry)}
	if opts.usePredictor {
		tunerOpts = append(tunerOpts, btune.WithPredictor(mlhint.NewHeuristic(), 8))
	}

	t, err := btune.Init(cfg, engine, btune.InitParams{
		TypeSize:       opts.typeSize,
		NThreadsComp:   opts.nThreads,
		NThreadsDecomp: opts.nThreads,
	}, tunerOpts...)
	if err != nil {
		return fmt.Errorf("initializing tuner: %w", err)
	}

	for off := 0; off < len(data) && t.State() != btune.StateStop; off += opts.chunkSize {
		end := off + opts.chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]

		t.BeginChunk(len(chunk), opts.typeSize)
		t.PrimeChunk(chunk)

		cparams := t.NextCParams()
		compressed, instr, err := engine.CompressInstrumented(chunk, cparams)
		if err != nil {
			return fmt.Errorf("compressing chunk at offset %d: %w", off, err)
		}
		ctime := float64(len(chunk)) / instr.CSpeed
		if err := t.Update(ctime, len(compressed), compressed, len(chunk)); err != nil {
			return fmt.Errorf("updating tuner for chunk at offset %d: %w", off, err)
		}
	}

	best := t.Best()
	fmt.Printf("state=%s steps=%d codec=%s filter=%s clevel=%d split=%s cratio=%.3f score=%.6f\n",
		t.State(), t.StepsCount(), best.CompCode, best.Filter, best.CLevel, best.SplitMode, best.CRatio, best.Score)
	return nil
}

func perfModeFromString(s string) (btune.PerfMode, bool) {
	switch s {
	case "COMP":
		return btune.PerfComp, true
	case "DECOMP":
		return btune.PerfDecomp, true
	case "BALANCED":
		return btune.PerfBalanced, true
	default:
		return 0, false
	}
}
