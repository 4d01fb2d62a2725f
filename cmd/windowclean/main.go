// Command windowclean loads a combined windowed-sensor export, drops windows
// whose labels have no majority class (plus any listed with -drop), and
// writes the cleaned export.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/windowclean/internal/config"
	"github.com/banshee-data/windowclean/internal/dataset"
	"github.com/banshee-data/windowclean/internal/fsutil"
	"github.com/banshee-data/windowclean/internal/ledger"
	"github.com/banshee-data/windowclean/internal/report"
	"github.com/banshee-data/windowclean/internal/security"
	"github.com/banshee-data/windowclean/internal/version"
	"github.com/banshee-data/windowclean/internal/windowing"
)

var (
	configPath   = flag.String("config", "", "Path to a JSON cleaning config (defaults apply when empty)")
	dataPath     = flag.String("data", config.DefaultDataPath, "Flat data CSV")
	labelsPath   = flag.String("labels", config.DefaultLabelsPath, "Window label CSV with a 'label' column")
	sampleLabels = flag.String("sample-labels", "", "Per-sample label CSV, one window per line (enables ambiguity detection)")
	downsample   = flag.Bool("downsample", true, "Export is downsampled (41 samples per window instead of 62)")
	modality     = flag.String("modality", config.DefaultModality, "Modality tag for logs and the ledger")
	dropList     = flag.String("drop", "", "Comma-separated window indices to drop in addition to ambiguous ones")
	outputDir    = flag.String("out", config.DefaultOutputDir, "Directory for the cleaned CSVs")
	ledgerPath   = flag.String("ledger", "", "SQLite run ledger (disabled when empty)")
	plotDir      = flag.String("plots", "", "Directory for diagnostic plots (disabled when empty)")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

// summary is what one run did, for the final log line and tests.
type summary struct {
	run        ledger.Run
	dataOut    string
	labelsOut  string
	samplesOut string
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.EmptyCleanConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadCleanConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	applyFlags(flag.CommandLine, cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	drop, err := parseIndexList(*dropList)
	if err != nil {
		log.Fatalf("invalid -drop: %v", err)
	}

	s, err := run(fsutil.OSFileSystem{}, cfg, drop)
	if err != nil {
		log.Fatalf("cleaning failed: %v", err)
	}
	log.Printf("[%s] kept %d of %d windows (%d ambiguous, %d removed) -> %s",
		s.run.Modality, s.run.WindowsOut, s.run.WindowsIn, s.run.AmbiguousCount, s.run.RemovedCount, s.dataOut)
	if s.run.RunID != "" {
		log.Printf("recorded run %s in %s", s.run.RunID, cfg.GetLedgerPath())
	}
}

// applyFlags copies explicitly set flags over cfg, so a config file supplies
// defaults and the command line wins.
func applyFlags(fs *flag.FlagSet, cfg *config.CleanConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataPath = ptr(*dataPath)
		case "labels":
			cfg.LabelsPath = ptr(*labelsPath)
		case "sample-labels":
			cfg.SampleLabelsPath = ptr(*sampleLabels)
		case "downsample":
			cfg.Downsample = ptr(*downsample)
		case "modality":
			cfg.Modality = ptr(*modality)
		case "out":
			cfg.OutputDir = ptr(*outputDir)
		case "ledger":
			cfg.LedgerPath = ptr(*ledgerPath)
		case "plots":
			cfg.PlotDir = ptr(*plotDir)
		}
	})
}

func ptr[T any](v T) *T { return &v }

// parseIndexList parses a comma-separated list of window indices.
func parseIndexList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid index '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// run executes one cleaning pass: load, detect, filter, write, record, plot.
func run(fsys fsutil.FileSystem, cfg *config.CleanConfig, drop []int) (*summary, error) {
	loader := dataset.FromConfig(fsys, cfg)
	loader.Logf = log.Printf

	xt, windowLabels, err := loader.LoadCombined(cfg.GetDataPath(), cfg.GetLabelsPath(), cfg.GetDownsample())
	if err != nil {
		return nil, err
	}

	y, err := sampleLabelsFor(loader, cfg, xt, windowLabels)
	if err != nil {
		return nil, err
	}

	cleaner := windowing.NewCleaner(windowing.Config{
		DominanceThreshold: cfg.GetDominanceThreshold(),
		PadValue:           cfg.GetPadValue(),
		Logf:               log.Printf,
	})
	batch := windowing.Batch[int]{Xt: xt.Windows(), Xc: windowLabels, Y: y}

	ambiguous, err := windowing.FindAmbiguousWindows(cleaner, batch, cfg.GetModality())
	if err != nil {
		return nil, err
	}
	remove := append(append([]int{}, ambiguous...), drop...)
	removed := windowing.NewIndexSet(batch.Len(), remove...)

	cleaned, err := windowing.RemoveByIndices(cleaner, batch, remove)
	if err != nil {
		return nil, err
	}
	_, labelCols := cleaned.Y.Shape()

	s := &summary{run: ledger.Run{
		Modality:       cfg.GetModality(),
		DataPath:       cfg.GetDataPath(),
		WindowsIn:      batch.Len(),
		AmbiguousCount: len(ambiguous),
		RemovedCount:   removed.Len(),
		RemovedIndices: removed.Members(),
		WindowsOut:     cleaned.Xt.Len(),
		LabelCols:      labelCols,
		Padded:         cleaned.Padded,
	}}

	if err := writeOutputs(loader, cfg, cleaned, s); err != nil {
		return nil, err
	}

	if path := cfg.GetLedgerPath(); path != "" {
		l, err := ledger.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		defer l.Close()
		if err := l.Record(&s.run); err != nil {
			return nil, err
		}
	}

	if dir := cfg.GetPlotDir(); dir != "" {
		if err := writePlots(fsys, dir, cleaner, cfg.GetModality(), y, cleaned.Y); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// sampleLabelsFor returns the per-sample labels used for ambiguity detection.
// Without a sample label file every sample carries its window's label, so no
// window is ambiguous and only -drop removes anything.
func sampleLabelsFor(loader *dataset.Loader, cfg *config.CleanConfig, xt *windowing.Tensor, windowLabels []int) ([][]int, error) {
	if path := cfg.GetSampleLabelsPath(); path != "" {
		y, err := loader.LoadSampleLabels(path)
		if err != nil {
			return nil, err
		}
		if len(y) != xt.Len() {
			return nil, fmt.Errorf("%w: %s has %d windows, data has %d",
				windowing.ErrLengthMismatch, path, len(y), xt.Len())
		}
		return y, nil
	}

	_, steps, _ := xt.Shape()
	y := make([][]int, len(windowLabels))
	for i, label := range windowLabels {
		row := make([]int, steps)
		for j := range row {
			row[j] = label
		}
		y[i] = row
	}
	return y, nil
}

func writeOutputs(loader *dataset.Loader, cfg *config.CleanConfig, cleaned *windowing.Cleaned[int], s *summary) error {
	dir := cfg.GetOutputDir()
	if err := loader.FS.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if cleaned.Xt.Len() == 0 {
		log.Printf("[%s] every window was removed; nothing written to %s", cfg.GetModality(), dir)
		return nil
	}

	dataOut, err := outputPath(dir, filepath.Base(cfg.GetDataPath()))
	if err != nil {
		return err
	}
	labelsOut, err := outputPath(dir, filepath.Base(cfg.GetLabelsPath()))
	if err != nil {
		return err
	}
	if err := loader.WriteCombined(dataOut, labelsOut, cleaned.Xt, cleaned.Xc); err != nil {
		return err
	}
	s.dataOut, s.labelsOut = dataOut, labelsOut

	if path := cfg.GetSampleLabelsPath(); path != "" {
		samplesOut, err := outputPath(dir, filepath.Base(path))
		if err != nil {
			return err
		}
		if err := loader.WriteLabelMatrix(samplesOut, cleaned.Y); err != nil {
			return err
		}
		s.samplesOut = samplesOut
	}
	return nil
}

// outputPath joins name onto dir and refuses results that land elsewhere,
// for example through a symlink already sitting in dir.
func outputPath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := security.WithinDir(path, dir); err != nil {
		return "", err
	}
	return path, nil
}

func writePlots(fsys fsutil.FileSystem, dir string, c *windowing.Cleaner, modality string, before [][]int, after *windowing.LabelMatrix) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plot dir: %w", err)
	}
	prefix := strings.ToLower(security.SanitizeFilename(modality))

	err := createOutput(fsys, dir, prefix+"_dominance.png", func(w io.Writer) error {
		return report.WriteDominanceHistogram(w, windowing.DominanceRatios(before), c.Threshold())
	})
	if err != nil {
		return err
	}
	return createOutput(fsys, dir, prefix+"_labels.html", func(w io.Writer) error {
		return report.RenderLabelChart(w, modality+" labels", windowing.CountLabels(before), after.Counts(c.PadValue()))
	})
}

// createOutput writes name inside dir through fsys with render.
func createOutput(fsys fsutil.FileSystem, dir, name string, render func(io.Writer) error) error {
	path, err := outputPath(dir, name)
	if err != nil {
		return err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
