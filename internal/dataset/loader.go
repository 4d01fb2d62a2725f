// Package dataset reads and writes the flat CSV exports of windowed sensor
// recordings.
//
// A combined export is two files: a data table with one row per sample and
// one column per channel (windows × samples rows, after a header row), and a
// label table with a "label" column holding one row per window.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/banshee-data/windowclean/internal/config"
	"github.com/banshee-data/windowclean/internal/fsutil"
	"github.com/banshee-data/windowclean/internal/monitoring"
	"github.com/banshee-data/windowclean/internal/windowing"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Default export file names.
const (
	DefaultDataFile   = config.DefaultDataPath
	DefaultLabelsFile = config.DefaultLabelsPath
)

// LabelColumn is the required column of the label table.
const LabelColumn = "label"

var (
	// ErrInvalidArgument indicates a missing path or one without a .csv extension.
	ErrInvalidArgument = errors.New("dataset: invalid argument")
	// ErrMissingLabelColumn indicates the label table has no "label" column.
	ErrMissingLabelColumn = errors.New("dataset: label column not found")
	// ErrNonNumeric indicates a data column that does not parse as numbers.
	ErrNonNumeric = errors.New("dataset: non-numeric data")
	// ErrEmpty indicates there is nothing to write.
	ErrEmpty = errors.New("dataset: no windows")
)

// Loader reads combined exports. The zero value is not usable; build one with
// NewLoader or FromConfig.
type Loader struct {
	FS                 fsutil.FileSystem
	Channels           int
	SamplesDownsampled int
	SamplesFull        int
	Logf               monitoring.LogFunc
}

// NewLoader returns a Loader with the export defaults: 11 channels and 41 or
// 62 samples per window.
func NewLoader(fsys fsutil.FileSystem) *Loader {
	return FromConfig(fsys, config.EmptyCleanConfig())
}

// FromConfig returns a Loader using the window layout from cfg.
func FromConfig(fsys fsutil.FileSystem, cfg *config.CleanConfig) *Loader {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return &Loader{
		FS:                 fsys,
		Channels:           cfg.GetChannels(),
		SamplesDownsampled: cfg.GetSamplesDownsampled(),
		SamplesFull:        cfg.GetSamplesFull(),
	}
}

// LoadCombined reads a combined export from the host filesystem with the
// default layout.
func LoadCombined(dataPath, labelsPath string, downsample bool) (*windowing.Tensor, []int, error) {
	return NewLoader(nil).LoadCombined(dataPath, labelsPath, downsample)
}

// SamplesPerWindow returns the window length for the given export rate.
func (l *Loader) SamplesPerWindow(downsample bool) int {
	if downsample {
		return l.SamplesDownsampled
	}
	return l.SamplesFull
}

// LoadCombined reads the data and label tables and reshapes the data into a
// windows × samples × channels tensor, where the window count is the number
// of label rows. The data table's total element count must match that shape
// exactly; the values are then taken in row-major order.
func (l *Loader) LoadCombined(dataPath, labelsPath string, downsample bool) (*windowing.Tensor, []int, error) {
	if err := checkCSVPath("data", dataPath); err != nil {
		return nil, nil, err
	}
	if err := checkCSVPath("labels", labelsPath); err != nil {
		return nil, nil, err
	}

	labels, err := l.readLabels(labelsPath)
	if err != nil {
		return nil, nil, err
	}
	flat, err := l.readData(dataPath)
	if err != nil {
		return nil, nil, err
	}

	samples := l.SamplesPerWindow(downsample)
	t, err := windowing.Reshape(flat, len(labels), samples, l.Channels)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", dataPath, err)
	}

	monitoring.OrDefault(l.Logf)("dataset: loaded %d windows %s from %s", len(labels), t, dataPath)
	return t, labels, nil
}

func (l *Loader) readLabels(path string) ([]int, error) {
	df, header, err := l.readTable(path)
	if err != nil {
		return nil, err
	}
	if df == nil {
		if !slices.Contains(header, LabelColumn) {
			return nil, fmt.Errorf("%w: %s has columns %v", ErrMissingLabelColumn, path, header)
		}
		return []int{}, nil
	}

	col := df.Col(LabelColumn)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s has columns %v", ErrMissingLabelColumn, path, df.Names())
	}
	switch col.Type() {
	case series.Int:
	case series.Float:
		// Int() truncates, so fractional labels are rejected first.
		for i, v := range col.Float() {
			if math.IsNaN(v) || v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: %s row %d label %v is not a whole number", ErrNonNumeric, path, i+1, v)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s column %q has type %s", ErrNonNumeric, path, LabelColumn, col.Type())
	}
	labels, err := col.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: %s column %q: %v", ErrNonNumeric, path, LabelColumn, err)
	}
	return labels, nil
}

// readData returns the table's cells in row-major order.
func (l *Loader) readData(path string) ([]float64, error) {
	df, _, err := l.readTable(path)
	if err != nil {
		return nil, err
	}
	if df == nil {
		return []float64{}, nil
	}
	for j, typ := range df.Types() {
		if typ != series.Int && typ != series.Float {
			return nil, fmt.Errorf("%w: %s column %q has type %s", ErrNonNumeric, path, df.Names()[j], typ)
		}
	}

	rows, cols := df.Dims()
	flat := make([]float64, rows*cols)
	for j, name := range df.Names() {
		for i, v := range df.Col(name).Float() {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: %s column %q row %d is empty", ErrNonNumeric, path, name, i+1)
			}
			flat[i*cols+j] = v
		}
	}
	return flat, nil
}

// readTable parses path with gota. gota rejects a file holding only a header
// row, so that case returns a nil frame and the header names instead.
func (l *Loader) readTable(path string) (*dataframe.DataFrame, []string, error) {
	raw, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(raw))
	if df.Err == nil {
		return &df, df.Names(), nil
	}
	if records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll(); err == nil && len(records) == 1 {
		return nil, records[0], nil
	}
	return nil, nil, fmt.Errorf("failed to parse %s: %w", path, df.Err)
}

// checkCSVPath rejects empty paths and paths without a .csv extension.
func checkCSVPath(role, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: %s path is empty", ErrInvalidArgument, role)
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".csv") {
		return fmt.Errorf("%w: %s path %q must have .csv extension, got %q", ErrInvalidArgument, role, path, ext)
	}
	return nil
}
