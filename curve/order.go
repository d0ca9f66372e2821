package curve

// ParameterSize is one entry of a curve order list: a curve name and its
// parameter count. A slice of ParameterSize fixes the layout of a flat
// parameter vector; the same order must be used for generation, Jacobian
// indexing, and sensitivity lookup within a calibration run.
type ParameterSize struct {
	CurveName string
	Count     int
}

// TotalParameters sums the parameter counts of an order list.
func TotalParameters(order []ParameterSize) int {
	n := 0
	for _, ps := range order {
		n += ps.Count
	}
	return n
}

// Offset returns the start index of the named curve's window within the
// flat vector laid out by order, and whether the curve is present.
func Offset(order []ParameterSize, name string) (int, bool) {
	off := 0
	for _, ps := range order {
		if ps.CurveName == name {
			return off, true
		}
		off += ps.Count
	}
	return 0, false
}
