package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV stores the dataset label-first, one row per line, without a header.
func WriteCSV(path string, d Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i := range d.X {
		fmt.Fprintf(w, "%d", d.Y[i])
		for j := range d.X[i] {
			fmt.Fprintf(w, ",%g", d.X[i][j])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// ReadCSV loads a numeric CSV where column labelCol holds the integer label and
// every other column is a feature. A non-numeric first row is treated as a header.
func ReadCSV(path string, labelCol int) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Dataset{}, err
	}
	var d Dataset
	for i, row := range rows {
		if labelCol < 0 || labelCol >= len(row) {
			return Dataset{}, fmt.Errorf("row %d: label column %d out of range", i+1, labelCol)
		}
		label, err := strconv.Atoi(row[labelCol])
		if err != nil {
			if i == 0 {
				continue
			}
			return Dataset{}, fmt.Errorf("row %d: label %q: %w", i+1, row[labelCol], err)
		}
		vec := make([]float64, 0, len(row)-1)
		for j, cell := range row {
			if j == labelCol {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("row %d col %d: %w", i+1, j, err)
			}
			vec = append(vec, v)
		}
		d.X = append(d.X, vec)
		d.Y = append(d.Y, label)
	}
	if d.Len() == 0 {
		return Dataset{}, ErrEmpty
	}
	return d, nil
}
