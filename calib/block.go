package calib

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/matrix"
)

// BuildingBlock records how one calibrated curve's parameters respond to
// market quotes: its window into the cumulative parameter vector and its
// transition matrix, whose columns span the quotes of every curve in
// QuoteOrder (the curve's own group and all earlier groups).
type BuildingBlock struct {
	CurveName string
	// Offset and Size locate the curve's parameters within the combined
	// vector across all groups calibrated so far.
	Offset int
	Size   int
	// QuoteOrder fixes the column layout of Transition: one column per
	// market quote, grouped per curve in calibration order.
	QuoteOrder []curve.ParameterSize
	// Transition is d(parameters)/d(market quotes), Size rows by
	// TotalParameters(QuoteOrder) columns.
	Transition *mat.Dense
}

// QuoteColumns extracts the transition columns belonging to one curve's
// market quotes, or false when that curve is not in the quote order.
func (b BuildingBlock) QuoteColumns(curveName string) (*mat.Dense, bool) {
	off := 0
	for _, ps := range b.QuoteOrder {
		if ps.CurveName == curveName {
			return matrix.SubMatrix(b.Transition, 0, b.Size, off, off+ps.Count), true
		}
		off += ps.Count
	}
	return nil, false
}

// Bundle maps curve names to their building blocks. It grows by one group
// at a time during calibration; With returns a copy so each merge step is
// an explicit new value.
type Bundle struct {
	blocks map[string]BuildingBlock
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{blocks: map[string]BuildingBlock{}}
}

// With returns a copy of the bundle including block.
func (b *Bundle) With(block BuildingBlock) *Bundle {
	next := make(map[string]BuildingBlock, len(b.blocks)+1)
	for k, v := range b.blocks {
		next[k] = v
	}
	next[block.CurveName] = block
	return &Bundle{blocks: next}
}

// Block returns the building block for a curve name.
func (b *Bundle) Block(name string) (BuildingBlock, bool) {
	blk, ok := b.blocks[name]
	return blk, ok
}

// Names returns the curve names in the bundle, sorted.
func (b *Bundle) Names() []string {
	out := make([]string, 0, len(b.blocks))
	for k := range b.blocks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of blocks.
func (b *Bundle) Len() int {
	return len(b.blocks)
}
