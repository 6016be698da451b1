package record

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReadGame(t *testing.T) {
	dir := t.TempDir()
	info := GameInfo{
		White:  "human",
		Black:  "beginner",
		Result: "white",
	}
	moves := []string{"a3b4", "c5a3", "e3d4"}

	path, err := Save(dir, info, moves)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".laska" {
		t.Fatalf("unexpected extension on %q", path)
	}

	got, gotMoves, err := ReadGame(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.White != "human" || got.Black != "beginner" || got.Result != "white" {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if got.MoveCount != 3 {
		t.Fatalf("expected 3 moves, got %d", got.MoveCount)
	}
	if len(gotMoves) != 3 || gotMoves[0] != "a3b4" || gotMoves[2] != "e3d4" {
		t.Fatalf("move mismatch: %v", gotMoves)
	}
	if got.Date == "" {
		t.Fatal("date should be recorded")
	}
}

func TestReadGameRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.laska")
	if err := os.WriteFile(path, []byte("not a record\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadGame(path); err == nil {
		t.Fatal("foreign file should be rejected")
	}
}

func TestListGames(t *testing.T) {
	dir := t.TempDir()

	games, err := ListGames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Fatalf("empty dir should list no games, got %d", len(games))
	}

	// Write two records with distinct filenames to pin the order.
	for i, name := range []string{"20240101-120000.laska", "20240102-120000.laska"} {
		content := "laskan 1\ndate 2024-01-0" + string(rune('1'+i)) + "\nwhite human\nblack strong\nresult black\nmoves a3b4\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Unrelated files are skipped.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	games, err = ListGames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].Date != "2024-01-02" {
		t.Fatalf("newest game should list first, got %s", games[0].Date)
	}
}

func TestListGamesMissingDir(t *testing.T) {
	games, err := ListGames(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if games != nil {
		t.Fatalf("missing dir should yield an empty list, got %v", games)
	}
}
