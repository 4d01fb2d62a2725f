package windowing

import (
	"github.com/banshee-data/windowclean/internal/monitoring"
	"gonum.org/v1/gonum/mat"
)

// DefaultDominanceThreshold is the largest majority share, as a fraction of a
// window's samples, that still counts as ambiguous.
const DefaultDominanceThreshold = 0.5

// Config controls a Cleaner. Start from DefaultConfig: PadValue has no
// implicit default because 0 is a valid class.
type Config struct {
	// DominanceThreshold in (0, 1]. Non-positive values use the default.
	DominanceThreshold float64
	// PadValue fills label cells past the end of a shorter sequence.
	PadValue int
	// Logf receives diagnostic lines. Nil forwards to monitoring.Logf.
	Logf monitoring.LogFunc
}

// DefaultConfig returns the 50% threshold and the -42 pad value.
func DefaultConfig() Config {
	return Config{
		DominanceThreshold: DefaultDominanceThreshold,
		PadValue:           PadValue,
	}
}

// Cleaner holds the settings shared by the detection and filtering steps.
// A nil *Cleaner behaves like NewCleaner(DefaultConfig()). It is immutable
// and safe for concurrent use.
type Cleaner struct {
	threshold float64
	pad       int
	logf      monitoring.LogFunc
}

// NewCleaner builds a Cleaner from cfg.
func NewCleaner(cfg Config) *Cleaner {
	if cfg.DominanceThreshold <= 0 {
		cfg.DominanceThreshold = DefaultDominanceThreshold
	}
	return &Cleaner{
		threshold: cfg.DominanceThreshold,
		pad:       cfg.PadValue,
		logf:      monitoring.OrDefault(cfg.Logf),
	}
}

var defaultCleaner = NewCleaner(DefaultConfig())

func (c *Cleaner) orDefault() *Cleaner {
	if c == nil {
		return defaultCleaner
	}
	return c
}

// Threshold returns the dominance threshold in use.
func (c *Cleaner) Threshold() float64 { return c.orDefault().threshold }

// PadValue returns the label pad value in use.
func (c *Cleaner) PadValue() int { return c.orDefault().pad }

// Batch bundles the index-aligned collections of one modality: sensor
// windows, per-window context of any type, and per-sample labels.
type Batch[C any] struct {
	Xt []*mat.Dense
	Xc []C
	Y  [][]int
}

// Len returns the number of sensor windows.
func (b Batch[C]) Len() int { return len(b.Xt) }
