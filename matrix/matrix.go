// Package matrix provides the dense matrix operations used by the
// calibration engine as pure functions: inputs are never modified and
// results are freshly allocated. There is no shared algebra state.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Identity returns the n x n identity matrix.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Invert returns the inverse of a square matrix, or an error when the
// matrix is singular or badly conditioned.
func Invert(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("invert: matrix is %dx%d, not square", r, c)
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, fmt.Errorf("invert: %w", err)
	}
	return &inv, nil
}

// Multiply returns a*b.
func Multiply(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// Scale returns f*a.
func Scale(f float64, a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Scale(f, a)
	return &out
}

// HConcat returns [a | b], the horizontal concatenation of two matrices
// with equal row counts.
func HConcat(a, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br {
		return nil, fmt.Errorf("hconcat: row mismatch %d vs %d", ar, br)
	}
	out := mat.NewDense(ar, ac+bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			out.Set(i, j, a.At(i, j))
		}
		for j := 0; j < bc; j++ {
			out.Set(i, ac+j, b.At(i, j))
		}
	}
	return out, nil
}

// SubMatrix returns a copy of rows [r0, r1) and columns [c0, c1) of a.
func SubMatrix(a mat.Matrix, r0, r1, c0, c1 int) *mat.Dense {
	out := mat.NewDense(r1-r0, c1-c0, nil)
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			out.Set(i-r0, j-c0, a.At(i, j))
		}
	}
	return out
}

// SolveVec solves a*x = b for x, where b is given as a plain slice.
func SolveVec(a mat.Matrix, b []float64) ([]float64, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("solve: matrix is %dx%d, not square", r, c)
	}
	if len(b) != r {
		return nil, fmt.Errorf("solve: rhs length %d does not match %d rows", len(b), r)
	}
	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(len(b), b)); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	out := make([]float64, r)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
