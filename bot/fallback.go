package bot

import (
	"errors"
	"math/rand"

	"laskan/types"
)

// ErrNoFallback means the side to move has no legal moves, which only
// happens at true game end.
var ErrNoFallback = errors.New("no legal move for fallback")

// kingValue dominates every realistic capture sum, so a king capture is
// always preferred.
const kingValue = 1 << 20

// pieceValue is the fixed capture value table shared by both variants.
var pieceValue = map[types.Kind]int{
	types.Soldier: 1,
	types.Pawn:    1,
	types.Knight:  3,
	types.Bishop:  3,
	types.Officer: 3,
	types.Rook:    5,
	types.Queen:   9,
	types.King:    kingValue,
}

// FallbackMove picks a move without the engine: the highest-value capture
// (first found wins ties), else a random promotion, else a random move.
// Deterministic given the rng's seed and the move list order.
func FallbackMove(moves []types.Move, rng *rand.Rand) (types.Move, error) {
	if len(moves) == 0 {
		return types.Move{}, ErrNoFallback
	}

	bestValue := 0
	bestIdx := -1
	for i, m := range moves {
		if m.Capture == nil {
			continue
		}
		if v := pieceValue[m.Capture.Kind]; v > bestValue {
			bestValue = v
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return moves[bestIdx], nil
	}

	var promotions []types.Move
	for _, m := range moves {
		if m.Promotes {
			promotions = append(promotions, m)
		}
	}
	if len(promotions) > 0 {
		return promotions[rng.Intn(len(promotions))], nil
	}

	return moves[rng.Intn(len(moves))], nil
}
