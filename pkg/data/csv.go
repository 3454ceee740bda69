package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses a dataset from r. The first record is the header of variable
// names; every following record is one sample. Blank lines are skipped.
//
// ReadCSV returns ErrEmpty when there are no samples, ErrRagged when a record
// has the wrong width (reported with its line number), and a parse error when
// a cell is not a number.
func ReadCSV(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	var rows [][]float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != len(names) {
			return nil, fmt.Errorf("line %d has %d fields, want %d: %w", line, len(rec), len(names), ErrRagged)
		}
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, names[j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return FromRows(rows, names)
}

// WriteCSV writes m to w in the format read by [ReadCSV].
func WriteCSV(m *Matrix, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(m.Names()); err != nil {
		return err
	}
	r, c := m.dense.Dims()
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.dense.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads a CSV dataset from the file at path.
func ImportCSV(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ExportCSV writes m to a CSV file at path.
func ExportCSV(m *Matrix, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(m, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
