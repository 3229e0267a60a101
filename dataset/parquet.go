package dataset

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/jmontp/LocoHub-sub002/units"
)

const readBatchSize = 256

// ReadAll loads an entire phase-indexed parquet dataset into memory,
// grouping consecutive rows into strides by (subject, task, step).
// Rows are expected in file order with phase sorted within each stride,
// which is what WriteAll and ConvertCSV produce.
func ReadAll(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading dataset size: %w", err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}

	columns := leafNames(pf.Schema())
	ds := &Dataset{
		Path:    path,
		Columns: columns,
	}

	features := units.FeatureColumns(columns)

	var current *Stride
	flush := func() {
		if current != nil {
			ds.Strides = append(ds.Strides, current)
			current = nil
		}
	}

	buf := make([]parquet.Row, readBatchSize)
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				subject, task, step, phase, values := decodeRow(columns, row)
				if current == nil || current.Subject != subject || current.Task != task || current.Step != step {
					flush()
					current = newStride(subject, task, step, features)
				}
				current.Phase = append(current.Phase, phase)
				for _, feat := range features {
					current.Features[feat] = append(current.Features[feat], values[feat])
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("reading parquet rows: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("closing row reader: %w", err)
		}
	}
	flush()

	return ds, nil
}

// WriteAll writes strides to a phase-indexed parquet file. The feature
// column set is the union of feature columns across all strides.
func WriteAll(path string, strides []*Stride) error {
	features := unionFeatures(strides)

	group := parquet.Group{
		units.ColSubject: parquet.String(),
		units.ColTask:    parquet.String(),
		units.ColStep:    parquet.Int(64),
		units.ColPhase:   parquet.Leaf(parquet.DoubleType),
	}
	for _, feat := range features {
		group[feat] = parquet.Leaf(parquet.DoubleType)
	}
	schema := parquet.NewSchema("locomotion", group)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	defer out.Close()

	w := parquet.NewGenericWriter[map[string]any](out, schema)
	batch := make([]map[string]any, 0, readBatchSize)

	write := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := w.Write(batch); err != nil {
			return fmt.Errorf("writing parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for _, s := range strides {
		for i := range s.Phase {
			row := map[string]any{
				units.ColSubject: s.Subject,
				units.ColTask:    s.Task,
				units.ColStep:    int64(s.Step),
				units.ColPhase:   s.Phase[i],
			}
			for _, feat := range features {
				row[feat] = s.Value(feat, i)
			}
			batch = append(batch, row)
			if len(batch) == readBatchSize {
				if err := write(); err != nil {
					return err
				}
			}
		}
	}
	if err := write(); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return out.Close()
}

func newStride(subject, task string, step int, features []string) *Stride {
	s := &Stride{
		Subject:  subject,
		Task:     task,
		Step:     step,
		Features: make(map[string][]float64, len(features)),
	}
	return s
}

func leafNames(schema *parquet.Schema) []string {
	paths := schema.Columns()
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = path[len(path)-1]
	}
	return names
}

func decodeRow(columns []string, row parquet.Row) (subject, task string, step int, phase float64, values map[string]float64) {
	phase = math.NaN()
	values = make(map[string]float64, len(columns))
	for _, v := range row {
		ci := v.Column()
		if ci < 0 || ci >= len(columns) {
			continue
		}
		switch name := columns[ci]; name {
		case units.ColSubject:
			subject = v.String()
		case units.ColTask:
			task = v.String()
		case units.ColTaskInfo:
			// carried for v2 datasets, not used during validation
		case units.ColStep:
			step = int(asInt(v))
		case units.ColPhase:
			phase = asFloat(v)
		default:
			values[name] = asFloat(v)
		}
	}
	return subject, task, step, phase, values
}

func asFloat(v parquet.Value) float64 {
	if v.IsNull() {
		return math.NaN()
	}
	switch v.Kind() {
	case parquet.Double:
		return v.Double()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Int32:
		return float64(v.Int32())
	default:
		return math.NaN()
	}
}

func asInt(v parquet.Value) int64 {
	if v.IsNull() {
		return 0
	}
	switch v.Kind() {
	case parquet.Int64:
		return v.Int64()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Double:
		return int64(v.Double())
	default:
		return 0
	}
}

func unionFeatures(strides []*Stride) []string {
	seen := make(map[string]bool)
	var features []string
	for _, s := range strides {
		for feat := range s.Features {
			if !seen[feat] {
				seen[feat] = true
				features = append(features, feat)
			}
		}
	}
	sort.Strings(features)
	return features
}
