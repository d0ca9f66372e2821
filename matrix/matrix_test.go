package matrix_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvecal/matrix"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	id := matrix.Identity(3)
	a := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 10})
	prod := matrix.Multiply(id, a)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if prod.At(i, j) != a.At(i, j) {
				t.Fatalf("identity product mismatch at (%d,%d)", i, j)
			}
		}
	}
}

func TestInvert_TwoByTwo(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 2, []float64{4, 7, 2, 6})
	inv, err := matrix.Invert(a)
	if err != nil {
		t.Fatalf("Invert error: %v", err)
	}

	// a * inv should be the identity.
	prod := matrix.Multiply(a, inv)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod.At(i, j)-want) > 1e-12 {
				t.Fatalf("a*inv mismatch at (%d,%d): got %.15f want %.0f", i, j, prod.At(i, j), want)
			}
		}
	}
}

func TestInvert_Singular(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	if _, err := matrix.Invert(a); err == nil {
		t.Fatal("expected error for singular matrix")
	}
}

func TestInvert_NotSquare(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 3, nil)
	if _, err := matrix.Invert(a); err == nil {
		t.Fatal("expected error for non-square matrix")
	}
}

func TestMultiplyAndScale(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 1, []float64{1, 1})

	prod := matrix.Multiply(a, b)
	if r, c := prod.Dims(); r != 2 || c != 1 {
		t.Fatalf("unexpected product dims %dx%d", r, c)
	}
	if prod.At(0, 0) != 3 || prod.At(1, 0) != 7 {
		t.Fatalf("product mismatch: got (%.1f, %.1f)", prod.At(0, 0), prod.At(1, 0))
	}

	neg := matrix.Scale(-1, a)
	if neg.At(1, 0) != -3 {
		t.Fatalf("scale mismatch: got %.1f want -3", neg.At(1, 0))
	}
	// Input must be untouched.
	if a.At(1, 0) != 3 {
		t.Fatalf("Scale modified its input: %.1f", a.At(1, 0))
	}
}

func TestHConcat(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 1, []float64{5, 6})
	ab, err := matrix.HConcat(a, b)
	if err != nil {
		t.Fatalf("HConcat error: %v", err)
	}
	if r, c := ab.Dims(); r != 2 || c != 3 {
		t.Fatalf("unexpected dims %dx%d", r, c)
	}
	if ab.At(0, 2) != 5 || ab.At(1, 1) != 4 {
		t.Fatalf("concat mismatch: got %.1f, %.1f", ab.At(0, 2), ab.At(1, 1))
	}

	if _, err := matrix.HConcat(a, mat.NewDense(3, 1, nil)); err == nil {
		t.Fatal("expected row mismatch error")
	}
}

func TestSubMatrix(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	s := matrix.SubMatrix(a, 1, 3, 0, 2)
	if r, c := s.Dims(); r != 2 || c != 2 {
		t.Fatalf("unexpected dims %dx%d", r, c)
	}
	if s.At(0, 0) != 4 || s.At(1, 1) != 8 {
		t.Fatalf("submatrix mismatch: got %.1f, %.1f", s.At(0, 0), s.At(1, 1))
	}

	// Writing to the copy must not touch the source.
	s.Set(0, 0, 99)
	if a.At(1, 0) != 4 {
		t.Fatalf("SubMatrix aliases its input")
	}
}

func TestSolveVec(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 2, []float64{2, 0, 0, 4})
	x, err := matrix.SolveVec(a, []float64{6, 8})
	if err != nil {
		t.Fatalf("SolveVec error: %v", err)
	}
	if math.Abs(x[0]-3) > 1e-12 || math.Abs(x[1]-2) > 1e-12 {
		t.Fatalf("solution mismatch: got %v", x)
	}

	if _, err := matrix.SolveVec(a, []float64{1}); err == nil {
		t.Fatal("expected rhs length error")
	}
}
