// Package instrument defines the market trades used to fit curves.
//
// The calibration core never branches on the concrete variant; it sees only
// the Trade interface and dispatches measures through a registry keyed by
// Kind.
package instrument

// Kind tags a trade variant for measure dispatch.
type Kind string

const (
	KindFixingDeposit Kind = "FIXING_DEPOSIT"
	KindFRA           Kind = "FRA"
	KindSwap          Kind = "SWAP"
)

// Trade is a calibration instrument.
type Trade interface {
	Kind() Kind
}
