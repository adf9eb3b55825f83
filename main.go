/*
Command gantt2svg lays out scheduled work (crew members, projects and
trailers) on a day, week, month or year timeline and writes it as an SVG
Gantt chart.

Overlapping assignments of one row are stacked into as few sub-rows as
possible; bars crossing the window edge are clipped to the visible part.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gantt2svg/internal/config"
	"gantt2svg/internal/render"
	"gantt2svg/internal/source"
	"gantt2svg/internal/timeline"
)

// getOutputFilename returns outputFile when set, otherwise the input file
// name with its extension replaced by .svg.
func getOutputFilename(inputFile, outputFile string) string {
	if outputFile != "" {
		return outputFile
	}

	base := filepath.Base(inputFile)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".svg"
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s [options]\n", fs.Name())
		fmt.Fprintf(out, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nThe input is a CSV file (one interval per row) or a YAML file with an entities list.\n")
		fmt.Fprintf(out, "Settings come from the defaults, the config file and GANTT_* environment variables, in that order.\n")
		fmt.Fprintf(out, "\nExample:\n")
		fmt.Fprintf(out, "  %s --input schedule.csv --view month --date 2025-09-01 --output september.svg\n", fs.Name())
	}
}

// run is main without the process exit, so it can be driven from tests.
func run(args []string, stdout, stderr io.Writer, now time.Time) error {
	fs := flag.NewFlagSet("gantt2svg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "Enable debug logging")
	inputFile := fs.String("input", "", "CSV or YAML file with the schedule (required)")
	configFile := fs.String("config", "", "YAML configuration file (optional)")
	outputFile := fs.String("output", "", "Output SVG filename (optional)")
	view := fs.String("view", "", "Granularity: day, week, month or year (overrides config)")
	date := fs.String("date", "", "Reference date YYYY-MM-DD inside the window (overrides config, default today)")
	step := fs.Int("step", 0, "Move the window by this many days, weeks, months or years")
	fs.Usage = usage(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if *inputFile == "" {
		fs.Usage()
		return errors.New("input file is required, use --input to specify it")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if *view != "" {
		cfg.View.Granularity = *view
	}
	if *date != "" {
		cfg.View.Reference = *date
	}
	logger.Debug("configuration loaded",
		"granularity", cfg.View.Granularity,
		"reference", cfg.View.Reference,
		"min_width_percent", cfg.Layout.MinWidthPercent)

	viewport, err := cfg.Viewport(now)
	if err != nil {
		return err
	}
	viewport = viewport.Step(*step)

	entities, err := source.Load(*inputFile, source.Options{Columns: cfg.Columns, Location: now.Location()})
	if err != nil {
		return fmt.Errorf("error reading %s: %w", *inputFile, err)
	}
	logger.Debug("entities loaded", "count", len(entities), "file", *inputFile)

	opts := cfg.EngineOptions()
	opts.Logger = logger
	bars, err := timeline.NewEngine(opts).Layout(entities, viewport)
	if err != nil {
		return err
	}

	outputPath := getOutputFilename(*inputFile, *outputFile)
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating SVG file: %w", err)
	}
	chart := render.Chart{Viewport: viewport, Entities: entities, Bars: bars}
	if err := render.Render(f, chart, cfg); err != nil {
		f.Close()
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}

	fmt.Fprintf(stdout, "Placed %d bars for %d rows (%s)\n", len(bars), len(entities), viewport.Label())
	fmt.Fprintf(stdout, "Gantt SVG generated successfully: %s\n", outputPath)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, time.Now()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
