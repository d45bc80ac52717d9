package data

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmpty           = errors.New("dataset is empty")
	ErrShapeMismatch   = errors.New("feature rows and labels differ in length")
	ErrNotBinary       = errors.New("dataset must contain exactly two labels")
	ErrMissingPositive = errors.New("positive label not present in dataset")
)

// Dataset is a feature matrix with one integer label per row. Rows are shared,
// not copied, by the resampling helpers; callers must treat them as read-only.
type Dataset struct {
	X [][]float64
	Y []int
}

func (d Dataset) Len() int { return len(d.Y) }

// Labels returns the distinct labels in ascending order.
func (d Dataset) Labels() []int {
	seen := map[int]bool{}
	out := []int{}
	for _, l := range d.Y {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}

// Validate checks the shape of the dataset and that it is a two-class problem
// containing the positive label.
func (d Dataset) Validate(positive int) error {
	if err := d.CheckShape(); err != nil {
		return err
	}
	labels := d.Labels()
	if len(labels) != 2 {
		return fmt.Errorf("%w: found %d", ErrNotBinary, len(labels))
	}
	if labels[0] != positive && labels[1] != positive {
		return fmt.Errorf("%w: %d", ErrMissingPositive, positive)
	}
	return nil
}

// CheckShape checks that the dataset is non-empty, rectangular and has one
// label per row.
func (d Dataset) CheckShape() error {
	if len(d.X) == 0 {
		return ErrEmpty
	}
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, len(d.X), len(d.Y))
	}
	width := len(d.X[0])
	for i, row := range d.X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), width)
		}
	}
	return nil
}

// Split partitions the rows into the positive-label subset and everything else.
func (d Dataset) Split(positive int) (pos, neg Dataset) {
	for i, l := range d.Y {
		if l == positive {
			pos.X = append(pos.X, d.X[i])
			pos.Y = append(pos.Y, l)
		} else {
			neg.X = append(neg.X, d.X[i])
			neg.Y = append(neg.Y, l)
		}
	}
	return pos, neg
}

// Subset returns the rows at idx, in order.
func (d Dataset) Subset(idx []int) Dataset {
	out := Dataset{X: make([][]float64, len(idx)), Y: make([]int, len(idx))}
	for i, j := range idx {
		out.X[i] = d.X[j]
		out.Y[i] = d.Y[j]
	}
	return out
}

// Concat appends the rows of other after the rows of d into a new dataset.
func (d Dataset) Concat(other Dataset) Dataset {
	n := d.Len() + other.Len()
	out := Dataset{X: make([][]float64, 0, n), Y: make([]int, 0, n)}
	out.X = append(append(out.X, d.X...), other.X...)
	out.Y = append(append(out.Y, d.Y...), other.Y...)
	return out
}

// Count returns how many rows carry label.
func (d Dataset) Count(label int) int {
	c := 0
	for _, l := range d.Y {
		if l == label {
			c++
		}
	}
	return c
}
