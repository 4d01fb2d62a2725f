package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is the path to the canonical cleaning defaults file.
const DefaultConfigPath = "config/clean.defaults.json"

// Loader and cleaning defaults used when a field is omitted.
const (
	DefaultDataPath           = "ES_InterDown_combined_data.csv"
	DefaultLabelsPath         = "ES_InterDown_combined_labels.csv"
	DefaultChannels           = 11
	DefaultSamplesDownsampled = 41
	DefaultSamplesFull        = 62
	DefaultDominanceThreshold = 0.5
	DefaultPadValue           = -42
	DefaultModality           = "ACC"
	DefaultOutputDir          = "clean"
)

// CleanConfig is the root configuration for a cleaning run. Every field is
// optional; the Get* methods supply defaults, so partial files are safe.
type CleanConfig struct {
	// Inputs
	DataPath         *string `json:"data_path,omitempty"`
	LabelsPath       *string `json:"labels_path,omitempty"`
	SampleLabelsPath *string `json:"sample_labels_path,omitempty"` // per-sample labels for ambiguity detection
	Downsample       *bool   `json:"downsample,omitempty"`

	// Window layout
	Channels           *int `json:"channels,omitempty"`
	SamplesDownsampled *int `json:"samples_downsampled,omitempty"`
	SamplesFull        *int `json:"samples_full,omitempty"`

	// Cleaning
	DominanceThreshold *float64 `json:"dominance_threshold,omitempty"`
	PadValue           *int     `json:"pad_value,omitempty"`
	Modality           *string  `json:"modality,omitempty"`

	// Outputs
	OutputDir  *string `json:"output_dir,omitempty"`
	LedgerPath *string `json:"ledger_path,omitempty"` // empty disables the run ledger
	PlotDir    *string `json:"plot_dir,omitempty"`    // empty disables plots
}

// EmptyCleanConfig returns a CleanConfig with all fields unset.
func EmptyCleanConfig() *CleanConfig {
	return &CleanConfig{}
}

// LoadCleanConfig loads a CleanConfig from a JSON file. The file must have a
// .json extension and be at most 1MB.
func LoadCleanConfig(path string) (*CleanConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCleanConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching from the current
// directory up towards the repository root. Panics if not found; intended for
// test setup.
func MustLoadDefaultConfig() *CleanConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadCleanConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that set values are in range.
func (c *CleanConfig) Validate() error {
	if c.DominanceThreshold != nil {
		if v := *c.DominanceThreshold; v <= 0 || v > 1 {
			return fmt.Errorf("dominance_threshold must be in (0, 1], got %f", v)
		}
	}
	for name, v := range map[string]*int{
		"channels":            c.Channels,
		"samples_downsampled": c.SamplesDownsampled,
		"samples_full":        c.SamplesFull,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}
	for name, p := range map[string]*string{
		"data_path":   c.DataPath,
		"labels_path": c.LabelsPath,
	} {
		if p != nil && *p != "" && !strings.EqualFold(filepath.Ext(*p), ".csv") {
			return fmt.Errorf("%s must be a .csv file, got %q", name, *p)
		}
	}
	if c.Modality != nil && strings.TrimSpace(*c.Modality) == "" {
		return fmt.Errorf("modality must not be blank")
	}
	return nil
}

func getString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func getInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// GetDataPath returns data_path or DefaultDataPath.
func (c *CleanConfig) GetDataPath() string { return getString(c.DataPath, DefaultDataPath) }

// GetLabelsPath returns labels_path or DefaultLabelsPath.
func (c *CleanConfig) GetLabelsPath() string { return getString(c.LabelsPath, DefaultLabelsPath) }

// GetSampleLabelsPath returns sample_labels_path; empty means none.
func (c *CleanConfig) GetSampleLabelsPath() string { return getString(c.SampleLabelsPath, "") }

// GetDownsample returns downsample, true by default.
func (c *CleanConfig) GetDownsample() bool {
	if c.Downsample == nil {
		return true
	}
	return *c.Downsample
}

// GetChannels returns the channel count per sample.
func (c *CleanConfig) GetChannels() int { return getInt(c.Channels, DefaultChannels) }

// GetSamplesDownsampled returns samples per window for downsampled exports.
func (c *CleanConfig) GetSamplesDownsampled() int {
	return getInt(c.SamplesDownsampled, DefaultSamplesDownsampled)
}

// GetSamplesFull returns samples per window for full-rate exports.
func (c *CleanConfig) GetSamplesFull() int { return getInt(c.SamplesFull, DefaultSamplesFull) }

// GetDominanceThreshold returns the ambiguity threshold.
func (c *CleanConfig) GetDominanceThreshold() float64 {
	if c.DominanceThreshold == nil {
		return DefaultDominanceThreshold
	}
	return *c.DominanceThreshold
}

// GetPadValue returns the label pad value.
func (c *CleanConfig) GetPadValue() int { return getInt(c.PadValue, DefaultPadValue) }

// GetModality returns the modality tag used in log lines and the ledger.
func (c *CleanConfig) GetModality() string { return getString(c.Modality, DefaultModality) }

// GetOutputDir returns the directory cleaned CSVs are written to.
func (c *CleanConfig) GetOutputDir() string { return getString(c.OutputDir, DefaultOutputDir) }

// GetLedgerPath returns the SQLite ledger path; empty disables recording.
func (c *CleanConfig) GetLedgerPath() string { return getString(c.LedgerPath, "") }

// GetPlotDir returns the plot output directory; empty disables plots.
func (c *CleanConfig) GetPlotDir() string { return getString(c.PlotDir, "") }

// SamplesPerWindow returns the window length for the given export rate.
func (c *CleanConfig) SamplesPerWindow(downsample bool) int {
	if downsample {
		return c.GetSamplesDownsampled()
	}
	return c.GetSamplesFull()
}
