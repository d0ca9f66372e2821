// Command curvecal calibrates discount and forward curves from a JSON
// market file and prints the calibrated zero rates and the sensitivity
// building blocks as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meenmo/curvecal/calib"
	"github.com/meenmo/curvecal/calendar"
	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/logging"
	"github.com/meenmo/curvecal/market"
	"github.com/meenmo/curvecal/marketdata"
	"github.com/meenmo/curvecal/marketdata/pg"
	"github.com/meenmo/curvecal/measure"
	"github.com/meenmo/curvecal/rates"
)

// InstrumentInput is one calibration instrument in the market file.
type InstrumentInput struct {
	Type    string  `json:"type"` // deposit | fra | swap
	Index   string  `json:"index"`
	Tenor   string  `json:"tenor"`               // maturity tenor, e.g. "6M", "5Y"
	Forward string  `json:"forward,omitempty"`   // FRA start tenor, e.g. "3M"
	RatePct float64 `json:"rate_pct"`            // quoted rate in percent
	Notional float64 `json:"notional,omitempty"` // informational; par measures are notional-free
}

// CurveInput defines one curve within a calibration group.
type CurveInput struct {
	Name        string            `json:"name"`
	Currency    string            `json:"currency,omitempty"` // discounting target
	Indices     []string          `json:"indices,omitempty"`  // forward targets
	DayCount    string            `json:"day_count,omitempty"`
	Calendar    string            `json:"calendar,omitempty"`
	Instruments []InstrumentInput `json:"instruments"`
}

// GroupInput is one calibration group.
type GroupInput struct {
	Curves []CurveInput `json:"curves"`
}

// MarketInput is the market file schema.
type MarketInput struct {
	ValuationDate string                        `json:"valuation_date"`
	Groups        []GroupInput                  `json:"groups"`
	Fixings       map[string]map[string]float64 `json:"fixings,omitempty"` // index -> date -> rate (decimal)
	FX            []FXInput                     `json:"fx,omitempty"`
}

// FXInput is one spot FX rate.
type FXInput struct {
	Base  string  `json:"base"`
	Quote string  `json:"quote"`
	Rate  float64 `json:"rate"`
}

// CurveOutput reports one calibrated curve.
type CurveOutput struct {
	Name      string             `json:"name"`
	ZeroRates map[string]float64 `json:"zero_rates_pct"` // node date -> zero rate in percent
}

// BlockOutput reports one bundle entry.
type BlockOutput struct {
	CurveName  string      `json:"curve_name"`
	Offset     int         `json:"offset"`
	Size       int         `json:"size"`
	QuoteOrder []string    `json:"quote_order"`
	Transition [][]float64 `json:"transition"`
}

// CalibrationOutput is the JSON result schema.
type CalibrationOutput struct {
	ValuationDate string        `json:"valuation_date"`
	Curves        []CurveOutput `json:"curves"`
	Blocks        []BlockOutput `json:"blocks"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "curvecal",
		Short:         "Interest-rate curve calibration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "log level (trace|debug|info|warn|error)")
	root.PersistentFlags().String("pg-dsn", "", "optional Postgres DSN for fixings")
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("pg_dsn", root.PersistentFlags().Lookup("pg-dsn"))
	viper.SetEnvPrefix("CURVECAL")
	viper.AutomaticEnv()

	root.AddCommand(newCalibrateCmd())
	return root
}

func newCalibrateCmd() *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate curves from a JSON market file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.DefaultConfig()
			cfg.Level = viper.GetString("log_level")
			logger := logging.NewWithConfig(cfg)
			return runCalibrate(cmd.Context(), logger, inputPath, viper.GetString("pg_dsn"))
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "market file path (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runCalibrate(ctx context.Context, logger zerolog.Logger, inputPath, dsn string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read market file: %w", err)
	}
	var input MarketInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("parse market file: %w", err)
	}
	valuation, err := time.Parse("2006-01-02", input.ValuationDate)
	if err != nil {
		return fmt.Errorf("invalid valuation_date: %w", err)
	}

	snap := rates.NewSnapshot(valuation)
	fx := market.NewFXMatrix()
	for _, r := range input.FX {
		fx = fx.WithRate(market.Currency(r.Base), market.Currency(r.Quote), r.Rate)
	}
	snap = snap.WithFXMatrix(fx)

	snap, err = attachFixings(ctx, logger, snap, input, valuation, dsn)
	if err != nil {
		return err
	}

	groups, discounting, forwards, err := buildGroups(input, valuation)
	if err != nil {
		return err
	}

	calibrator := calib.NewCalibrator(discounting, forwards, measure.Default(), calib.DefaultRootFinderConfig).
		WithLogger(logger)
	final, bundle, err := calibrator.Calibrate(groups, snap)
	if err != nil {
		logger.Error().Err(err).Msg("calibration failed")
		return err
	}

	out := buildOutput(input, valuation, final, bundle)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// attachFixings merges file-supplied fixings with Postgres fixings when a
// DSN is configured. File entries win.
func attachFixings(ctx context.Context, logger zerolog.Logger, snap *rates.Snapshot,
	input MarketInput, valuation time.Time, dsn string) (*rates.Snapshot, error) {

	merged := map[string]map[string]float64{}
	if dsn != "" {
		store, err := pg.Open(dsn)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		for _, g := range input.Groups {
			for _, c := range g.Curves {
				for _, ins := range c.Instruments {
					if _, ok := merged[ins.Index]; ok {
						continue
					}
					fixings, err := store.Fixings(ctx, ins.Index, valuation.AddDate(-1, 0, 0), valuation)
					if err != nil {
						return nil, err
					}
					merged[ins.Index] = fixings
					logger.Debug().Str("index", ins.Index).Int("fixings", len(fixings)).Msg("loaded fixings")
				}
			}
		}
	}
	for idx, series := range input.Fixings {
		if _, ok := merged[idx]; !ok {
			merged[idx] = map[string]float64{}
		}
		for d, r := range series {
			merged[idx][d] = r
		}
	}
	for idx, series := range merged {
		snap = snap.WithFixings(market.ReferenceIndex(idx), market.NewMapFixingFeed(series))
	}
	return snap, nil
}

func buildGroups(input MarketInput, valuation time.Time) ([]calib.Group,
	map[string]market.Currency, map[string][]market.ReferenceIndex, error) {

	discounting := map[string]market.Currency{}
	forwards := map[string][]market.ReferenceIndex{}
	var groups []calib.Group

	for gi, g := range input.Groups {
		var group calib.Group
		for _, c := range g.Curves {
			cal := calendar.CalendarID(c.Calendar)
			if cal == "" {
				cal = calendar.NONE
			}
			entry, err := buildEntry(c, valuation, cal)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("group %d curve %s: %w", gi+1, c.Name, err)
			}
			group = append(group, entry)
			if c.Currency != "" {
				discounting[c.Name] = market.Currency(c.Currency)
			}
			for _, idx := range c.Indices {
				forwards[c.Name] = append(forwards[c.Name], market.ReferenceIndex(idx))
			}
		}
		groups = append(groups, group)
	}
	return groups, discounting, forwards, nil
}

func buildEntry(c CurveInput, valuation time.Time, cal calendar.CalendarID) (calib.GroupEntry, error) {
	var trades []instrument.Trade
	var nodes []time.Time
	var guess []float64

	for _, ins := range c.Instruments {
		idx := market.ReferenceIndex(ins.Index)
		rate := ins.RatePct / 100.0
		maturity, err := marketdata.MaturityDate(valuation, ins.Tenor, cal)
		if err != nil {
			return calib.GroupEntry{}, err
		}

		switch ins.Type {
		case "deposit":
			trades = append(trades, instrument.FixingDeposit{
				Index: idx, Start: valuation, End: maturity, FixedRate: rate, Notional: ins.Notional,
			})
		case "fra":
			start := valuation
			if ins.Forward != "" {
				start, err = marketdata.MaturityDate(valuation, ins.Forward, cal)
				if err != nil {
					return calib.GroupEntry{}, err
				}
			}
			trades = append(trades, instrument.ForwardRateAgreement{
				Index: idx, Start: start, End: maturity, FixedRate: rate, Notional: ins.Notional,
			})
		case "swap":
			trades = append(trades, instrument.Swap{
				Currency: idx.Currency(), Index: idx,
				Effective: valuation, Maturity: maturity,
				FixedRate: rate, Notional: ins.Notional, Calendar: cal,
			})
		default:
			return calib.GroupEntry{}, fmt.Errorf("unknown instrument type %q", ins.Type)
		}
		nodes = append(nodes, maturity)
		guess = append(guess, rate)
	}

	return calib.GroupEntry{
		Template: curve.NodalTemplate{
			CurveName:  c.Name,
			Settlement: valuation,
			NodeDates:  nodes,
			DayCount:   c.DayCount,
		},
		Trades:       trades,
		InitialGuess: guess,
	}, nil
}

func buildOutput(input MarketInput, valuation time.Time, final *rates.Snapshot, bundle *calib.Bundle) CalibrationOutput {
	out := CalibrationOutput{ValuationDate: valuation.Format("2006-01-02")}

	for _, g := range input.Groups {
		for _, ci := range g.Curves {
			c, ok := final.CurveByName(ci.Name)
			if !ok {
				continue
			}
			zc, ok := c.(*curve.ZeroRateCurve)
			if !ok {
				continue
			}
			zeros := map[string]float64{}
			for _, d := range zc.NodeDates() {
				zeros[d.Format("2006-01-02")] = zc.ZeroRateAt(d) * 100.0
			}
			out.Curves = append(out.Curves, CurveOutput{Name: ci.Name, ZeroRates: zeros})
		}
	}

	for _, name := range bundle.Names() {
		b, _ := bundle.Block(name)
		var order []string
		for _, ps := range b.QuoteOrder {
			order = append(order, ps.CurveName)
		}
		rows, cols := b.Transition.Dims()
		transition := make([][]float64, rows)
		for i := 0; i < rows; i++ {
			transition[i] = make([]float64, cols)
			for j := 0; j < cols; j++ {
				transition[i][j] = b.Transition.At(i, j)
			}
		}
		out.Blocks = append(out.Blocks, BlockOutput{
			CurveName:  name,
			Offset:     b.Offset,
			Size:       b.Size,
			QuoteOrder: order,
			Transition: transition,
		})
	}
	return out
}
