package bot

import (
	"testing"

	"laskan/types"
)

func TestParsePlayer(t *testing.T) {
	if got := ParsePlayer("intermediate"); got != PlayerIntermediate {
		t.Fatalf("got %q", got)
	}
	if got := ParsePlayer("grandmaster"); got != PlayerHuman {
		t.Fatalf("unknown values should fall back to human, got %q", got)
	}
	if got := ParsePlayer(""); got != PlayerHuman {
		t.Fatalf("empty value should fall back to human, got %q", got)
	}
}

func TestPlayerTier(t *testing.T) {
	if PlayerStrong.Tier() != TierStrong {
		t.Fatal("bot player should map to its tier")
	}
	if PlayerHuman.Tier() != "" {
		t.Fatal("a human has no tier")
	}
}

func TestSingleHuman(t *testing.T) {
	s := Settings{White: PlayerHuman, Black: PlayerBeginner}
	color, ok := s.SingleHuman()
	if !ok || color != types.White {
		t.Fatalf("got %v %v", color, ok)
	}

	s = Settings{White: PlayerStrong, Black: PlayerHuman}
	color, ok = s.SingleHuman()
	if !ok || color != types.Black {
		t.Fatalf("got %v %v", color, ok)
	}

	if _, ok := (Settings{White: PlayerHuman, Black: PlayerHuman}).SingleHuman(); ok {
		t.Fatal("two humans is not a single-human game")
	}
	if _, ok := (Settings{White: PlayerBeginner, Black: PlayerStrong}).SingleHuman(); ok {
		t.Fatal("two bots is not a single-human game")
	}
}

func TestAnyBot(t *testing.T) {
	if (Settings{White: PlayerHuman, Black: PlayerHuman}).AnyBot() {
		t.Fatal("no bot expected")
	}
	if !(Settings{White: PlayerHuman, Black: PlayerBeginner}).AnyBot() {
		t.Fatal("bot expected")
	}
}
