package bot

import "time"

// Preset is one engine configuration: a strength setting and the compute
// budget handed to the engine per move.
type Preset struct {
	Skill    int
	MoveTime time.Duration
}

// Sublevels is the number of presets per tier.
const Sublevels = 10

// DefaultSublevel is the neutral sublevel used when adaptation does not
// apply (bot against bot).
const DefaultSublevel = 4

// presets maps each tier to its sublevel ladder. Both fields are
// non-decreasing across each ladder so a higher sublevel is never weaker.
var presets = map[Tier][Sublevels]Preset{
	TierBeginner: {
		{0, 150 * time.Millisecond},
		{0, 200 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{1, 250 * time.Millisecond},
		{2, 250 * time.Millisecond},
		{2, 300 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{3, 350 * time.Millisecond},
		{4, 400 * time.Millisecond},
		{5, 450 * time.Millisecond},
	},
	TierIntermediate: {
		{5, 300 * time.Millisecond},
		{6, 350 * time.Millisecond},
		{7, 400 * time.Millisecond},
		{8, 450 * time.Millisecond},
		{9, 500 * time.Millisecond},
		{10, 550 * time.Millisecond},
		{11, 600 * time.Millisecond},
		{12, 700 * time.Millisecond},
		{13, 800 * time.Millisecond},
		{14, 900 * time.Millisecond},
	},
	TierStrong: {
		{12, 500 * time.Millisecond},
		{13, 600 * time.Millisecond},
		{14, 700 * time.Millisecond},
		{15, 800 * time.Millisecond},
		{16, 900 * time.Millisecond},
		{17, 1000 * time.Millisecond},
		{18, 1100 * time.Millisecond},
		{19, 1200 * time.Millisecond},
		{20, 1350 * time.Millisecond},
		{20, 1500 * time.Millisecond},
	},
}

// PresetFor returns the preset for a tier and sublevel, clamping the
// sublevel into range.
func PresetFor(tier Tier, sublevel int) Preset {
	ladder, ok := presets[tier]
	if !ok {
		ladder = presets[TierBeginner]
	}
	if sublevel < 0 {
		sublevel = 0
	}
	if sublevel >= Sublevels {
		sublevel = Sublevels - 1
	}
	return ladder[sublevel]
}
