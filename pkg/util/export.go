package util

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// leading columns, in order, when present
var axisColumns = []string{"WAVELENGTH", "FREQ"}

// Columns orders result names: sweep axes first, the rest sorted.
func Columns(results map[string][]float64) []string {
	cols := make([]string, 0, len(results))
	for _, axis := range axisColumns {
		if _, ok := results[axis]; ok {
			cols = append(cols, axis)
		}
	}

	rest := make([]string, 0, len(results))
	for name := range results {
		if !isAxis(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	return append(cols, rest...)
}

func isAxis(name string) bool {
	for _, axis := range axisColumns {
		if name == axis {
			return true
		}
	}
	return false
}

func checkLengths(results map[string][]float64, cols []string) (int, error) {
	rows := -1
	for _, c := range cols {
		v, ok := results[c]
		if !ok {
			return 0, fmt.Errorf("no result column %q", c)
		}
		if rows >= 0 && len(v) != rows {
			return 0, fmt.Errorf("column %q has %d rows, want %d", c, len(v), rows)
		}
		rows = len(v)
	}
	return max(rows, 0), nil
}

// WriteCSV writes one row per sweep point with a header line.
func WriteCSV(w io.Writer, results map[string][]float64) error {
	cols := Columns(results)
	rows, err := checkLengths(results, cols)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for i := range rows {
		for j, c := range cols {
			record[j] = strconv.FormatFloat(results[c][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a file written by WriteCSV.
func ReadCSV(r io.Reader) (map[string][]float64, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	header := records[0]
	results := make(map[string][]float64, len(header))
	for _, name := range header {
		results[name] = make([]float64, 0, len(records)-1)
	}
	for line, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line+2, header[j], err)
			}
			results[header[j]] = append(results[header[j]], v)
		}
	}
	return results, nil
}

// WriteJSON writes the results as one object of named arrays. JSON has no
// infinities, so -inf dB values are written as null.
func WriteJSON(w io.Writer, results map[string][]float64) error {
	cols := Columns(results)
	if _, err := checkLengths(results, cols); err != nil {
		return err
	}

	out := make(map[string][]*float64, len(results))
	for _, c := range cols {
		values := make([]*float64, len(results[c]))
		for i := range results[c] {
			if v := results[c][i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
				values[i] = &v
			}
		}
		out[c] = values
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteFile picks CSV or JSON from the file extension.
func WriteFile(path string, results map[string][]float64) (err error) {
	var write func(io.Writer, map[string][]float64) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".json":
		write = WriteJSON
	default:
		return fmt.Errorf("unsupported output format %q, use .csv or .json", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f, results)
}
