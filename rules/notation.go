package rules

import (
	"fmt"
	"strings"

	"laskan/types"
)

// PositionNotation encodes the state in the wire form consumed by the
// engine. Ranks are written top down separated by '/'; within a rank the
// playable squares are written left to right separated by ','. An empty
// square is an empty field; a column is its pieces top first, uppercase
// for White. The side to move follows after a space.
//
// The starting position encodes as:
//
//	p,p,p,p/p,p,p/p,p,p,p/,,/P,P,P,P/P,P,P/P,P,P,P w
//
// Mid multi-jump the position is not fully described by board and side:
// only the chaining column may move, and only over squares it has not
// already jumped. Two further fields carry that: the chain square, then
// the jumped squares joined by '+'.
//
//	... b c3 b2+d4
func PositionNotation(s *State) string {
	var ranks []string
	for rank := Size - 1; rank >= 0; rank-- {
		var squares []string
		for file := 0; file < Size; file++ {
			sq := types.Square{File: file, Rank: rank}
			if !Playable(sq) {
				continue
			}
			squares = append(squares, encodeColumn(s.At(sq)))
		}
		ranks = append(ranks, strings.Join(squares, ","))
	}
	side := "w"
	if s.Side == types.Black {
		side = "b"
	}
	text := strings.Join(ranks, "/") + " " + side
	if s.Chain != nil {
		text += " " + s.Chain.String()
		if len(s.Jumped) > 0 {
			coords := make([]string, len(s.Jumped))
			for i, sq := range s.Jumped {
				coords[i] = sq.String()
			}
			text += " " + strings.Join(coords, "+")
		}
	}
	return text
}

func encodeColumn(col Column) string {
	var b strings.Builder
	for _, p := range col {
		letter := p.Kind.Letter()
		if p.Color == types.White {
			letter = letter - 'a' + 'A'
		}
		b.WriteByte(letter)
	}
	return b.String()
}

// ParsePosition is the inverse of PositionNotation.
func ParsePosition(text string) (*State, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 2 {
		return nil, fmt.Errorf("position %q: missing side to move", text)
	}
	body := fields[0]
	s := &State{}
	switch fields[1] {
	case "w":
		s.Side = types.White
	case "b":
		s.Side = types.Black
	default:
		return nil, fmt.Errorf("position %q: bad side %q", text, fields[1])
	}
	if len(fields) > 2 {
		chain, err := types.ParseSquare(fields[2])
		if err != nil {
			return nil, fmt.Errorf("position %q: bad chain square: %v", text, err)
		}
		s.Chain = &chain
	}
	if len(fields) > 3 {
		for _, coord := range strings.Split(fields[3], "+") {
			sq, err := types.ParseSquare(coord)
			if err != nil {
				return nil, fmt.Errorf("position %q: bad jumped square: %v", text, err)
			}
			s.Jumped = append(s.Jumped, sq)
		}
	}

	ranks := strings.Split(body, "/")
	if len(ranks) != Size {
		return nil, fmt.Errorf("position %q: want %d ranks, got %d", text, Size, len(ranks))
	}
	for i, rankText := range ranks {
		rank := Size - 1 - i
		squares := strings.Split(rankText, ",")
		file := firstPlayableFile(rank)
		for _, colText := range squares {
			if file >= Size {
				return nil, fmt.Errorf("position %q: too many squares on rank %d", text, rank+1)
			}
			col, err := parseColumn(colText)
			if err != nil {
				return nil, fmt.Errorf("position %q: %v", text, err)
			}
			s.Board[rank][file] = col
			file += 2
		}
	}
	return s, nil
}

func firstPlayableFile(rank int) int {
	if rank%2 == 0 {
		return 0
	}
	return 1
}

func parseColumn(text string) (Column, error) {
	if text == "" {
		return nil, nil
	}
	col := make(Column, 0, len(text))
	for i := 0; i < len(text); i++ {
		letter := text[i]
		color := types.Black
		if letter >= 'A' && letter <= 'Z' {
			color = types.White
			letter = letter - 'A' + 'a'
		}
		kind := types.KindFromLetter(letter)
		if kind == types.NoKind {
			return nil, fmt.Errorf("bad piece letter %q", text[i])
		}
		col = append(col, types.Piece{Color: color, Kind: kind})
	}
	return col, nil
}
