package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/windowclean/internal/windowing"
)

// WriteCombined writes t and its per-window labels in the layout LoadCombined
// reads: a header row of channel indices, then one row per sample. Floats are
// written in shortest round-trip form, so reloading yields identical values.
func (l *Loader) WriteCombined(dataPath, labelsPath string, t *windowing.Tensor, labels []int) error {
	if err := checkCSVPath("data", dataPath); err != nil {
		return err
	}
	if err := checkCSVPath("labels", labelsPath); err != nil {
		return err
	}
	if t == nil || t.Len() == 0 {
		return ErrEmpty
	}
	if len(labels) != t.Len() {
		return fmt.Errorf("%w: %d windows, %d labels", windowing.ErrLengthMismatch, t.Len(), len(labels))
	}
	_, _, channels := t.Shape()

	err := l.writeCSV(dataPath, func(w *csv.Writer) error {
		record := make([]string, channels)
		for c := range record {
			record[c] = strconv.Itoa(c)
		}
		if err := w.Write(record); err != nil {
			return err
		}
		data := t.Data()
		for off := 0; off < len(data); off += channels {
			for c, v := range data[off : off+channels] {
				record[c] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return l.writeCSV(labelsPath, func(w *csv.Writer) error {
		if err := w.Write([]string{LabelColumn}); err != nil {
			return err
		}
		for _, v := range labels {
			if err := w.Write([]string{strconv.Itoa(v)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (l *Loader) writeCSV(path string, fill func(*csv.Writer) error) (err error) {
	f, err := l.FS.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadSampleLabels reads per-sample labels, one window per line and one label
// per cell. Lines may differ in length and blank cells are skipped, so a
// ragged export loads as written. There is no header row. Blank lines are
// ignored by the CSV reader; write a window without labels as a lone comma.
func (l *Loader) LoadSampleLabels(path string) ([][]int, error) {
	if err := checkCSVPath("sample labels", path); err != nil {
		return nil, err
	}
	f, err := l.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	var out [][]int
	for window := 0; ; window++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		row := make([]int, 0, len(record))
		for _, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: %s window %d: %q", ErrNonNumeric, path, window, cell)
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteLabelMatrix writes m one row per window with no header, pad cells
// included, so the output stays rectangular.
func (l *Loader) WriteLabelMatrix(path string, m *windowing.LabelMatrix) error {
	if err := checkCSVPath("sample labels", path); err != nil {
		return err
	}
	return l.writeCSV(path, func(w *csv.Writer) error {
		_, cols := m.Shape()
		record := make([]string, cols)
		for i := 0; i < m.Len(); i++ {
			for j, v := range m.Row(i) {
				record[j] = strconv.Itoa(v)
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}
