package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/jmontp/LocoHub-sub002/units"
)

// ConvertCSV converts a long-format CSV table into a phase-indexed
// parquet dataset. The CSV must carry the subject, task, step and
// phase_percent columns; every other column is treated as a feature.
// Empty cells and the literals NA, NaN and nan become NaN.
// It returns the number of strides written.
func ConvertCSV(ctx context.Context, csvPath, parquetPath string) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("reading csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{units.ColSubject, units.ColTask, units.ColStep, units.ColPhase} {
		if _, ok := idx[required]; !ok {
			return 0, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	features := make([]string, 0, len(header))
	for _, name := range header {
		if !units.IsMetaColumn(name) {
			features = append(features, name)
		}
	}

	var strides []*Stride
	var current *Stride
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("reading csv line %d: %w", line+1, err)
		}
		line++

		subject := record[idx[units.ColSubject]]
		task := record[idx[units.ColTask]]
		step, err := strconv.Atoi(record[idx[units.ColStep]])
		if err != nil {
			return 0, fmt.Errorf("csv line %d: bad step %q", line, record[idx[units.ColStep]])
		}
		phase, err := parseCell(record[idx[units.ColPhase]])
		if err != nil {
			return 0, fmt.Errorf("csv line %d: bad phase_percent %q", line, record[idx[units.ColPhase]])
		}

		if current == nil || current.Subject != subject || current.Task != task || current.Step != step {
			if current != nil {
				strides = append(strides, current)
			}
			current = newStride(subject, task, step, features)
		}
		current.Phase = append(current.Phase, phase)
		for _, feat := range features {
			v, err := parseCell(record[idx[feat]])
			if err != nil {
				return 0, fmt.Errorf("csv line %d: bad value %q in column %s", line, record[idx[feat]], feat)
			}
			current.Features[feat] = append(current.Features[feat], v)
		}
	}
	if current != nil {
		strides = append(strides, current)
	}

	if len(strides) == 0 {
		return 0, fmt.Errorf("csv %s holds no data rows", csvPath)
	}

	if err := WriteAll(parquetPath, strides); err != nil {
		return 0, err
	}
	return len(strides), nil
}

// ExportCSV writes a parquet dataset back out as a long-format CSV table.
func ExportCSV(ctx context.Context, parquetPath, csvPath string) error {
	ds, err := ReadAll(ctx, parquetPath)
	if err != nil {
		return err
	}
	features := ds.Features()

	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := append([]string{units.ColSubject, units.ColTask, units.ColStep, units.ColPhase}, features...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, s := range ds.Strides {
		for i := range s.Phase {
			record[0] = s.Subject
			record[1] = s.Task
			record[2] = strconv.Itoa(s.Step)
			record[3] = formatCell(s.Phase[i])
			for j, feat := range features {
				record[4+j] = formatCell(s.Value(feat, i))
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return out.Close()
}

func parseCell(cell string) (float64, error) {
	switch cell {
	case "", "NA", "NaN", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
