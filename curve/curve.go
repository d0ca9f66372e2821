package curve

import (
	"math"
	"sort"
	"time"

	"github.com/meenmo/curvecal/utils"
)

// Curve is a parametric discount/projection curve.
//
// Parameter introspection (ParameterCount/Parameter/WithParameter) lets
// sensitivity code bump a single node and rebuild without knowing the
// concrete curve type.
type Curve interface {
	Name() string
	DF(t time.Time) float64
	ZeroRateAt(t time.Time) float64
	ParameterCount() int
	Parameter(i int) float64
	WithParameter(i int, v float64) Curve
}

// ZeroRateCurve is a nodal curve of continuously compounded zero rates.
//
// Zero rates are linearly interpolated in curve time (which makes discount
// factors log-linear between nodes, matching the bootstrap convention) and
// extrapolated flat beyond the first and last node.
type ZeroRateCurve struct {
	name       string
	settlement time.Time
	nodeDates  []time.Time
	nodeTimes  []float64 // year fractions from settlement, ascending
	zeros      []float64 // decimal (0.025 == 2.5%)
	dayCount   string
}

// NewZeroRateCurve builds a curve from node dates and zero rates.
// Node dates must be strictly after settlement; they are sorted internally.
func NewZeroRateCurve(name string, settlement time.Time, nodeDates []time.Time, zeros []float64, dayCount string) (*ZeroRateCurve, error) {
	if len(zeros) != len(nodeDates) {
		return nil, &DimensionError{Op: "NewZeroRateCurve " + name, Want: len(nodeDates), Got: len(zeros)}
	}
	if dayCount == "" {
		dayCount = "ACT/365F"
	}

	type node struct {
		date time.Time
		zero float64
	}
	nodes := make([]node, len(nodeDates))
	for i := range nodeDates {
		nodes[i] = node{nodeDates[i], zeros[i]}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].date.Before(nodes[j].date) })

	c := &ZeroRateCurve{
		name:       name,
		settlement: settlement,
		nodeDates:  make([]time.Time, len(nodes)),
		nodeTimes:  make([]float64, len(nodes)),
		zeros:      make([]float64, len(nodes)),
		dayCount:   dayCount,
	}
	for i, n := range nodes {
		c.nodeDates[i] = n.date
		c.nodeTimes[i] = utils.YearFraction(settlement, n.date, dayCount)
		c.zeros[i] = n.zero
	}
	return c, nil
}

// Name returns the curve name.
func (c *ZeroRateCurve) Name() string { return c.name }

// Settlement returns the curve's settlement date.
func (c *ZeroRateCurve) Settlement() time.Time { return c.settlement }

// NodeDates returns the curve's node date grid.
func (c *ZeroRateCurve) NodeDates() []time.Time {
	out := make([]time.Time, len(c.nodeDates))
	copy(out, c.nodeDates)
	return out
}

// ParameterCount returns the number of zero-rate nodes.
func (c *ZeroRateCurve) ParameterCount() int { return len(c.zeros) }

// Parameter returns the i-th node's zero rate.
func (c *ZeroRateCurve) Parameter(i int) float64 { return c.zeros[i] }

// WithParameter returns a copy of the curve with the i-th zero rate replaced.
func (c *ZeroRateCurve) WithParameter(i int, v float64) Curve {
	zeros := make([]float64, len(c.zeros))
	copy(zeros, c.zeros)
	zeros[i] = v
	return &ZeroRateCurve{
		name:       c.name,
		settlement: c.settlement,
		nodeDates:  c.nodeDates,
		nodeTimes:  c.nodeTimes,
		zeros:      zeros,
		dayCount:   c.dayCount,
	}
}

// zeroAt interpolates the continuously compounded zero rate at curve time t.
func (c *ZeroRateCurve) zeroAt(t float64) float64 {
	n := len(c.nodeTimes)
	if n == 0 {
		return 0
	}
	if t <= c.nodeTimes[0] {
		return c.zeros[0]
	}
	if t >= c.nodeTimes[n-1] {
		return c.zeros[n-1]
	}
	i := sort.SearchFloat64s(c.nodeTimes, t)
	// c.nodeTimes[i-1] < t <= c.nodeTimes[i]
	t1, t2 := c.nodeTimes[i-1], c.nodeTimes[i]
	z1, z2 := c.zeros[i-1], c.zeros[i]
	return z1 + (z2-z1)*(t-t1)/(t2-t1)
}

// DF returns the discount factor at date t.
func (c *ZeroRateCurve) DF(t time.Time) float64 {
	yf := utils.YearFraction(c.settlement, t, c.dayCount)
	if yf <= 0 {
		return 1.0
	}
	return math.Exp(-c.zeroAt(yf) * yf)
}

// ZeroRateAt returns the continuously compounded zero rate (decimal) at date t.
func (c *ZeroRateCurve) ZeroRateAt(t time.Time) float64 {
	yf := utils.YearFraction(c.settlement, t, c.dayCount)
	if yf <= 0 {
		return c.zeroAt(0)
	}
	return c.zeroAt(yf)
}
