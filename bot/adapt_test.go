package bot

import (
	"math"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	cases := []*AdaptState{
		nil,
		{SubFloat: math.NaN(), Applied: 3},
		{SubFloat: math.Inf(1), Applied: 3},
	}
	for _, raw := range cases {
		st := Normalize(raw)
		if st.SubFloat != 4 || st.Applied != 4 {
			t.Fatalf("Normalize(%v) = %+v, want the neutral state", raw, st)
		}
	}
}

func TestNormalizeClamps(t *testing.T) {
	st := Normalize(&AdaptState{SubFloat: 42, Applied: 3})
	if st.SubFloat != Sublevels-1 {
		t.Fatalf("SubFloat should clamp to %d, got %v", Sublevels-1, st.SubFloat)
	}
	if st.Applied != 3 {
		t.Fatalf("valid Applied should survive, got %d", st.Applied)
	}

	st = Normalize(&AdaptState{SubFloat: 6.4, Applied: 99})
	if st.Applied != 6 {
		t.Fatalf("out-of-range Applied should round from SubFloat, got %d", st.Applied)
	}
}

func TestUpdateSubFloatDirection(t *testing.T) {
	prev := AdaptState{SubFloat: 4, Applied: 4}

	harder := UpdateSubFloat(TierBeginner, prev, 1)
	if harder.SubFloat <= prev.SubFloat {
		t.Fatalf("a human win should raise SubFloat, got %v", harder.SubFloat)
	}
	easier := UpdateSubFloat(TierBeginner, prev, 0)
	if easier.SubFloat >= prev.SubFloat {
		t.Fatalf("a human loss should lower SubFloat, got %v", easier.SubFloat)
	}
	if harder.Applied != 4 || easier.Applied != 4 {
		t.Fatal("drift must not touch Applied")
	}
}

func TestUpdateSubFloatGainByTier(t *testing.T) {
	prev := AdaptState{SubFloat: 4, Applied: 4}
	beginner := UpdateSubFloat(TierBeginner, prev, 1).SubFloat - 4
	strong := UpdateSubFloat(TierStrong, prev, 1).SubFloat - 4
	if beginner <= strong {
		t.Fatalf("beginner tier should adapt faster: %v vs %v", beginner, strong)
	}
}

func TestUpdateSubFloatClampsAtEnds(t *testing.T) {
	top := UpdateSubFloat(TierBeginner, AdaptState{SubFloat: 8.9, Applied: 8}, 1)
	if top.SubFloat > Sublevels-1 {
		t.Fatalf("SubFloat exceeded the ladder: %v", top.SubFloat)
	}
	bottom := UpdateSubFloat(TierBeginner, AdaptState{SubFloat: 0.1, Applied: 0}, 0)
	if bottom.SubFloat < 0 {
		t.Fatalf("SubFloat went negative: %v", bottom.SubFloat)
	}
}

func TestHysteresisHoldsInsideBand(t *testing.T) {
	st := ApplyHysteresisOneStep(AdaptState{SubFloat: 4.6, Applied: 4})
	if st.Applied != 4 {
		t.Fatalf("drift inside the band must not move Applied, got %d", st.Applied)
	}
	st = ApplyHysteresisOneStep(AdaptState{SubFloat: 3.4, Applied: 4})
	if st.Applied != 4 {
		t.Fatalf("drift inside the band must not move Applied, got %d", st.Applied)
	}
}

func TestHysteresisStepsPastBand(t *testing.T) {
	st := ApplyHysteresisOneStep(AdaptState{SubFloat: 4.7, Applied: 4})
	if st.Applied != 5 {
		t.Fatalf("expected a step up, got %d", st.Applied)
	}
	st = ApplyHysteresisOneStep(AdaptState{SubFloat: 3.3, Applied: 4})
	if st.Applied != 3 {
		t.Fatalf("expected a step down, got %d", st.Applied)
	}
}

func TestHysteresisNeverJumps(t *testing.T) {
	// However far SubFloat has drifted, Applied moves one step per game.
	st := ApplyHysteresisOneStep(AdaptState{SubFloat: 8.99, Applied: 0})
	if st.Applied != 1 {
		t.Fatalf("expected exactly one step, got %d", st.Applied)
	}
}

func TestHysteresisStopsAtEnds(t *testing.T) {
	st := ApplyHysteresisOneStep(AdaptState{SubFloat: 9, Applied: Sublevels - 1})
	if st.Applied != Sublevels-1 {
		t.Fatalf("Applied should stay at the top, got %d", st.Applied)
	}
	st = ApplyHysteresisOneStep(AdaptState{SubFloat: 0, Applied: 0})
	if st.Applied != 0 {
		t.Fatalf("Applied should stay at the bottom, got %d", st.Applied)
	}
}

func TestAdaptAfterGameSequence(t *testing.T) {
	// Straight human wins on the beginner tier: each game drifts SubFloat
	// by 0.495 and the applied sublevel climbs as drift clears the band.
	st := AdaptState{SubFloat: 4, Applied: 4}
	applied := []int{}
	for i := 0; i < 4; i++ {
		st = AdaptAfterGame(TierBeginner, st, 1)
		applied = append(applied, st.Applied)
	}
	want := []int{4, 5, 5, 6}
	for i := range want {
		if applied[i] != want[i] {
			t.Fatalf("applied sequence %v, want %v", applied, want)
		}
	}
}

func TestAdaptAfterGameDrawBarelyMoves(t *testing.T) {
	st := AdaptAfterGame(TierIntermediate, AdaptState{SubFloat: 4, Applied: 4}, 0.5)
	if st.Applied != 4 {
		t.Fatalf("a single draw should not shift the sublevel, got %d", st.Applied)
	}
	if st.SubFloat <= 4 {
		t.Fatalf("a draw scores above target and should drift up, got %v", st.SubFloat)
	}
}
