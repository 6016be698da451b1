package bot

import "math"

// Adaptive difficulty: after each qualifying game a continuous skill value
// drifts toward a target win rate, and a dead-band filter turns it into a
// stable discrete sublevel.
const (
	// adaptTarget is the outcome score the controller steers toward. A
	// score above it means the bot was too easy and should harden.
	adaptTarget = 0.45

	// adaptDeadband shrinks the unit band around the applied sublevel;
	// subFloat must drift at least 1-adaptDeadband away before the applied
	// value moves.
	adaptDeadband = 0.35

	// hysteresisBand is the drift required to shift the applied sublevel.
	hysteresisBand = 1.0 - adaptDeadband
)

// adaptGain is the per-tier step size applied to the outcome error.
var adaptGain = map[Tier]float64{
	TierBeginner:     0.9,
	TierIntermediate: 0.8,
	TierStrong:       0.7,
}

// AdaptState is the persisted adaptive difficulty state for one tier.
// SubFloat drifts continuously; Applied is the discrete sublevel actually
// played, trailing SubFloat under hysteresis.
type AdaptState struct {
	SubFloat float64 `json:"subFloat"`
	Applied  int     `json:"applied"`
}

// Normalize coerces a possibly missing or corrupt state into a valid one.
// A nil or non-finite state defaults SubFloat to 4 with Applied rounded
// from it; out-of-range values are clamped into [0, 9].
func Normalize(raw *AdaptState) AdaptState {
	if raw == nil || math.IsNaN(raw.SubFloat) || math.IsInf(raw.SubFloat, 0) {
		return AdaptState{SubFloat: 4, Applied: 4}
	}
	st := *raw
	st.SubFloat = clampFloat(st.SubFloat, 0, Sublevels-1)
	if st.Applied < 0 || st.Applied > Sublevels-1 {
		st.Applied = int(math.Round(st.SubFloat))
	}
	return st
}

// UpdateSubFloat moves the continuous value by the tier gain times the
// outcome error. Score is 1 when the bot should get harder next time and
// 0 when it should get easier; Applied is carried over unchanged.
func UpdateSubFloat(tier Tier, prev AdaptState, score float64) AdaptState {
	gain, ok := adaptGain[tier]
	if !ok {
		gain = adaptGain[TierIntermediate]
	}
	next := prev
	next.SubFloat = clampFloat(prev.SubFloat+gain*(score-adaptTarget), 0, Sublevels-1)
	return next
}

// ApplyHysteresisOneStep moves Applied at most one unit toward SubFloat,
// and only once SubFloat has drifted past the dead band. Deliberately
// never jumps further regardless of how far SubFloat has drifted, so one
// game never swings the difficulty by more than one sublevel.
func ApplyHysteresisOneStep(st AdaptState) AdaptState {
	switch {
	case st.SubFloat >= float64(st.Applied)+hysteresisBand && st.Applied < Sublevels-1:
		st.Applied++
	case st.SubFloat <= float64(st.Applied)-hysteresisBand && st.Applied > 0:
		st.Applied--
	}
	return st
}

// AdaptAfterGame runs the full per-game update: drift then one hysteresis
// step, in that order.
func AdaptAfterGame(tier Tier, prev AdaptState, score float64) AdaptState {
	return ApplyHysteresisOneStep(UpdateSubFloat(tier, prev, score))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
