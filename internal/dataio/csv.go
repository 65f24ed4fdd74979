package dataio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/simfuse/matrix"
)

var (
	// ErrEmpty indicates a file without sample rows.
	ErrEmpty = errors.New("dataio: no samples")
	// ErrMalformed indicates a structural CSV problem.
	ErrMalformed = errors.New("dataio: malformed table")
	// ErrMissingValue indicates an empty, NA, NaN or infinite cell.
	ErrMissingValue = errors.New("dataio: missing or non-finite value")
	// ErrDuplicateSample indicates a sample id that occurs twice.
	ErrDuplicateSample = errors.New("dataio: duplicate sample id")
	// ErrSampleMismatch indicates views that do not cover the same samples.
	ErrSampleMismatch = errors.New("dataio: views cover different samples")
)

// Table is one feature matrix with its row and column names.
type Table struct {
	Name     string
	Samples  []string
	Features []string
	Data     *matrix.Dense
}

// ReadTableFile opens path and parses it with ReadTable. The table is named
// after the path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = path

	return t, nil
}

// ReadTable parses a samples × features CSV.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header needs an id column and at least one feature", ErrMalformed)
	}

	t := &Table{Features: append([]string(nil), header[1:]...)}
	seen := make(map[string]int)
	var rows [][]float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		id := strings.TrimSpace(rec[0])
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("line %d: %q already on line %d: %w", line, id, prev, ErrDuplicateSample)
		}
		seen[id] = line

		row := make([]float64, len(rec)-1)
		for j, cell := range rec[1:] {
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d, feature %q: %w", line, t.Features[j], err)
			}
			row[j] = v
		}
		t.Samples = append(t.Samples, id)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	if t.Data, err = matrix.NewFromRows(rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return t, nil
}

func parseValue(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "NA") {
		return 0, ErrMissingValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrMissingValue
	}

	return v, nil
}

// Align reorders every table to the sample order of the first one.
// All tables must contain exactly the same sample ids.
func Align(tables ...*Table) ([]string, error) {
	if len(tables) == 0 {
		return nil, ErrEmpty
	}
	order := tables[0].Samples
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, t := range tables[1:] {
		if len(t.Samples) != len(order) {
			return nil, fmt.Errorf("%s has %d samples, %s has %d: %w",
				t.Name, len(t.Samples), tables[0].Name, len(order), ErrSampleMismatch)
		}
		rows := t.Data.ToRows()
		sorted := make([][]float64, len(order))
		for i, id := range t.Samples {
			p, ok := pos[id]
			if !ok {
				return nil, fmt.Errorf("%s: sample %q not in %s: %w", t.Name, id, tables[0].Name, ErrSampleMismatch)
			}
			sorted[p] = rows[i]
		}
		data, err := matrix.NewFromRows(sorted)
		if err != nil {
			return nil, err
		}
		t.Data = data
		t.Samples = append([]string(nil), order...)
	}

	return append([]string(nil), order...), nil
}

// ReadSeeds parses "sample,score" rows (header optional) and returns a score
// vector aligned with samples; samples not listed score 0. Ids that are not
// in samples are an error.
func ReadSeeds(r io.Reader, samples []string) ([]float64, error) {
	pos := make(map[string]int, len(samples))
	for i, id := range samples {
		pos[id] = i
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.FieldsPerRecord = 2

	seeds := make([]float64, len(samples))
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		v, err := parseValue(rec[1])
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p, ok := pos[strings.TrimSpace(rec[0])]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown sample %q: %w", line, rec[0], ErrSampleMismatch)
		}
		seeds[p] = v
	}

	return seeds, nil
}

// WriteMatrix writes a square sample × sample matrix as CSV with sample ids
// as header and first column.
func WriteMatrix(w io.Writer, samples []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	header := append([]string{""}, samples...)
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(samples)+1)
	for i, row := range rows {
		if len(row) != len(samples) || i >= len(samples) {
			return fmt.Errorf("%w: row %d has %d values for %d samples", ErrMalformed, i, len(row), len(samples))
		}
		rec[0] = samples[i]
		for j, v := range row {
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
