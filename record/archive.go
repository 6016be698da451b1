package record

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GameInfo describes one archived game.
type GameInfo struct {
	FilePath  string
	Date      string // yyyy-mm-dd
	White     string // "human" or a tier name
	Black     string
	Result    string // "white", "black", "draw" or "?"
	MoveCount int
}

const fileExt = ".laska"

// Save writes a finished game to dir and returns the file path. Files are
// named by timestamp so lexical order is chronological.
func Save(dir string, info GameInfo, moves []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	now := time.Now()
	path := filepath.Join(dir, now.Format("20060102-150405")+fileExt)

	var b strings.Builder
	fmt.Fprintf(&b, "laskan 1\n")
	fmt.Fprintf(&b, "date %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "white %s\n", info.White)
	fmt.Fprintf(&b, "black %s\n", info.Black)
	fmt.Fprintf(&b, "result %s\n", info.Result)
	fmt.Fprintf(&b, "moves %s\n", strings.Join(moves, " "))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return path, nil
}

// ReadGame parses one archive file.
func ReadGame(path string) (GameInfo, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return GameInfo{}, nil, err
	}
	defer f.Close()

	info := GameInfo{FilePath: path, Result: "?"}
	var moves []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if !strings.HasPrefix(line, "laskan ") {
				return GameInfo{}, nil, fmt.Errorf("%s: not a laskan record", path)
			}
			continue
		}
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch key {
		case "date":
			info.Date = value
		case "white":
			info.White = value
		case "black":
			info.Black = value
		case "result":
			info.Result = value
		case "moves":
			moves = strings.Fields(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return GameInfo{}, nil, err
	}
	info.MoveCount = len(moves)
	return info, moves, nil
}

// ListGames scans dir for archived games, newest first. A missing dir is
// an empty list, not an error.
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var games []GameInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		info, _, err := ReadGame(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // skip unreadable files, keep browsing usable
		}
		games = append(games, info)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].FilePath > games[j].FilePath
	})
	return games, nil
}
