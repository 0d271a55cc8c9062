// movegen.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file contains code to generate all valid tile plays
// from a rack against a board snapshot.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

/*

The code herein finds all legal plays on a crossword game board.

Plays are found by examining each one-dimensional lane of the
board in turn, i.e. 15 rows and 15 columns for a total of 30
lanes. For each lane, the cross-check set of every empty square
is calculated, i.e. the set of letters that form valid words by
connecting with word parts perpendicular to the lane. The
cross-check sets are memoized in an LRU cache keyed by the
perpendicular word fragments.

Within a lane, every square that does not have a tile
immediately before it is a potential start of a play. From each
start, tiles from the rack are laid on successive empty squares,
and tiles already on the board are played through, while
following the corresponding path in the lexicon automaton. A
play is emitted whenever the path is at a complete word of at
least two letters, at least one new tile has been placed, the
word ends at an empty
square or the lane edge, and the play connects with the existing
tiles on the board (or covers the start square on an empty
board).

The lanes are processed concurrently, one goroutine per lane,
and the per-lane results are concatenated in lane order, so that
repeated calls with the same inputs yield the same list.

*/

package skrafl

import (
	"strings"

	"golang.org/x/sync/errgroup"
)

// BingoBonus is the number of extra points awarded for laying down
// all the tiles in a full rack in one play
const BingoBonus = 50

// BoardSnapshot is the read-only view of a position that the
// move generator works against
type BoardSnapshot struct {
	Tiles   []byte
	Config  *GameConfig
	Lexicon LexiconAutomaton
	Leaves  LeaveValuator
}

// RawMoveGenerator enumerates the legal plays from a rack
// against a board snapshot. The result is unsorted, includes at
// least one Exchange (the pass), and is identical for repeated
// calls with the same inputs.
type RawMoveGenerator interface {
	Generate(snapshot *BoardSnapshot, rack []byte) []*Play
}

// LaneMoveGenerator is the standard RawMoveGenerator,
// scanning the board one lane at a time
type LaneMoveGenerator struct {
	crossCache crossCache
}

// NewLaneMoveGenerator returns a fresh LaneMoveGenerator
func NewLaneMoveGenerator() *LaneMoveGenerator {
	gen := &LaneMoveGenerator{}
	gen.crossCache.Init(2048)
	return gen
}

// laneScan holds the per-lane state of a generation pass
type laneScan struct {
	snap       *BoardSnapshot
	strider    Strider
	down       bool
	lane       int
	n          int
	sq         []byte
	crossSets  []uint64
	hasCross   []bool
	crossScore []int
	rack       []byte
	used       []bool
	word       []byte
	boardEmpty bool
	plays      []*Play
}

// Generate returns all legal plays from the given rack against
// the snapshot, plus the pass
func (gen *LaneMoveGenerator) Generate(snapshot *BoardSnapshot, rack []byte) []*Play {
	bl := snapshot.Config.Layout
	boardEmpty := true
	for _, tile := range snapshot.Tiles {
		if tile != 0 {
			boardEmpty = false
			break
		}
	}
	numLanes := bl.Rows + bl.Cols
	results := make([][]*Play, numLanes)
	var eg errgroup.Group
	for i := 0; i < numLanes; i++ {
		eg.Go(func() error {
			down := i >= bl.Rows
			lane := i
			if down {
				lane = i - bl.Rows
			}
			// Each lane scan mutates its own copy of the rack
			rackCopy := make([]byte, len(rack))
			copy(rackCopy, rack)
			results[i] = gen.scanLane(snapshot, rackCopy, down, lane, boardEmpty)
			return nil
		})
	}
	// The lane scans cannot fail; Wait is just the barrier
	_ = eg.Wait()
	plays := make([]*Play, 0, 32)
	for _, laneResult := range results {
		plays = append(plays, laneResult...)
	}
	// Always include the pass
	plays = append(plays, NewPassPlay())
	return plays
}

// scanLane generates the plays whose main word lies along the
// given lane
func (gen *LaneMoveGenerator) scanLane(snapshot *BoardSnapshot, rack []byte,
	down bool, lane int, boardEmpty bool) []*Play {

	bl := snapshot.Config.Layout
	scan := &laneScan{
		snap:       snapshot,
		strider:    bl.Lane(down, lane),
		down:       down,
		lane:       lane,
		rack:       rack,
		used:       make([]bool, len(rack)),
		boardEmpty: boardEmpty,
	}
	scan.n = scan.strider.Len()
	scan.sq = make([]byte, scan.n)
	scan.crossSets = make([]uint64, scan.n)
	scan.hasCross = make([]bool, scan.n)
	scan.crossScore = make([]int, scan.n)
	scan.word = make([]byte, 0, scan.n)
	for i := 0; i < scan.n; i++ {
		scan.sq[i] = snapshot.Tiles[scan.strider.At(i)]
	}
	// Compute the cross-check set of each empty square
	for i := 0; i < scan.n; i++ {
		if scan.sq[i] != 0 {
			continue
		}
		prefix, suffix := gen.perpFragments(snapshot, down, lane, i)
		if len(prefix) == 0 && len(suffix) == 0 {
			scan.crossSets[i] = uint64(1)<<snapshot.Config.Alphabet.NumLetters() - 1
			continue
		}
		scan.hasCross[i] = true
		for _, t := range prefix {
			scan.crossScore[i] += snapshot.Config.Alphabet.Score(t)
		}
		for _, t := range suffix {
			scan.crossScore[i] += snapshot.Config.Alphabet.Score(t)
		}
		scan.crossSets[i] = gen.cachedCrossSet(snapshot, prefix, suffix)
	}
	// Try every possible start square within the lane
	for start := 0; start < scan.n; start++ {
		if start > 0 && scan.sq[start-1] != 0 {
			// The word would extend leftwards over a tile
			// that is already on the board
			continue
		}
		gen.extend(scan, start, start, snapshot.Lexicon.Root(), 0, false)
	}
	return scan.plays
}

// perpFragments returns the tile runs immediately before and
// after the given lane square, in the perpendicular direction
func (gen *LaneMoveGenerator) perpFragments(snapshot *BoardSnapshot,
	down bool, lane, i int) (prefix, suffix []byte) {

	bl := snapshot.Config.Layout
	// The perpendicular lane through square i crosses our lane
	// at position lane within it
	perp := bl.Lane(!down, i)
	at := lane
	for j := at - 1; j >= 0; j-- {
		if snapshot.Tiles[perp.At(j)] == 0 {
			break
		}
		prefix = append([]byte{snapshot.Tiles[perp.At(j)]}, prefix...)
	}
	for j := at + 1; j < perp.Len(); j++ {
		if snapshot.Tiles[perp.At(j)] == 0 {
			break
		}
		suffix = append(suffix, snapshot.Tiles[perp.At(j)])
	}
	return prefix, suffix
}

// cachedCrossSet looks the cross-check set of a perpendicular
// prefix/suffix pair up in the LRU cache, computing it through
// the lexicon on a miss
func (gen *LaneMoveGenerator) cachedCrossSet(snapshot *BoardSnapshot,
	prefix, suffix []byte) uint64 {

	var sb strings.Builder
	sb.Grow(len(prefix) + len(suffix) + 1)
	for _, t := range prefix {
		sb.WriteByte(Letter(t))
	}
	sb.WriteByte(0)
	for _, t := range suffix {
		sb.WriteByte(Letter(t))
	}
	numLetters := snapshot.Config.Alphabet.NumLetters()
	return gen.crossCache.Lookup(sb.String(), func(string) uint64 {
		return crossSet(snapshot.Lexicon, numLetters, prefix, suffix)
	})
}

// extend lays tiles along the lane from the given position,
// following the lexicon automaton, and emits a play whenever a
// complete word has been formed
func (gen *LaneMoveGenerator) extend(scan *laneScan, start, pos int,
	node int32, placed int, contact bool) {

	alphabet := scan.snap.Config.Alphabet
	lex := scan.snap.Lexicon
	if placed > 0 && pos-start >= 2 && contact && lex.IsWord(node) &&
		(pos >= scan.n || scan.sq[pos] == 0) {
		gen.emit(scan, start, placed)
	}
	if pos >= scan.n {
		return
	}
	if tile := scan.sq[pos]; tile != 0 {
		// Occupied square: play through it
		next := lex.Arc(node, Letter(tile))
		if next >= 0 {
			scan.word = append(scan.word, 0)
			gen.extend(scan, start, pos+1, next, placed, true)
			scan.word = scan.word[:len(scan.word)-1]
		}
		return
	}
	// Empty square: try the distinct tiles remaining in the rack
	startSq := scan.snap.Config.Layout.StartSquare()
	newContact := contact || scan.hasCross[pos] ||
		(scan.boardEmpty && scan.strider.At(pos) == startSq)
	var tried [0x40]bool
	for ri := range scan.rack {
		if scan.used[ri] || tried[scan.rack[ri]] {
			continue
		}
		tried[scan.rack[ri]] = true
		scan.used[ri] = true
		if t := scan.rack[ri]; t == BlankTile {
			// A blank can stand for any letter that passes the
			// cross checks and continues a word
			for letter := byte(1); int(letter) <= alphabet.NumLetters(); letter++ {
				if scan.crossSets[pos]&(uint64(1)<<(letter-1)) == 0 {
					continue
				}
				next := lex.Arc(node, letter)
				if next < 0 {
					continue
				}
				scan.word = append(scan.word, letter|blankMask)
				gen.extend(scan, start, pos+1, next, placed+1, newContact)
				scan.word = scan.word[:len(scan.word)-1]
			}
		} else if scan.crossSets[pos]&(uint64(1)<<(t-1)) != 0 {
			if next := lex.Arc(node, t); next >= 0 {
				scan.word = append(scan.word, t)
				gen.extend(scan, start, pos+1, next, placed+1, newContact)
				scan.word = scan.word[:len(scan.word)-1]
			}
		}
		scan.used[ri] = false
	}
}

// emit scores the current word and appends it to the lane's
// play list
func (gen *LaneMoveGenerator) emit(scan *laneScan, start, placed int) {
	cfg := scan.snap.Config
	bl := cfg.Layout
	mainScore := 0
	multiplier := 1
	crossTotal := 0
	for i, t := range scan.word {
		pos := start + i
		abs := scan.strider.At(pos)
		if t == 0 {
			// Play-through: the existing tile scores at face
			// value, no multipliers
			mainScore += cfg.Alphabet.Score(scan.sq[pos])
			continue
		}
		letterScore := cfg.Alphabet.Score(t) * bl.LetterMultiplier(abs)
		mainScore += letterScore
		multiplier *= bl.WordMultiplier(abs)
		if scan.hasCross[pos] {
			crossTotal += (scan.crossScore[pos] + letterScore) * bl.WordMultiplier(abs)
		}
	}
	score := mainScore*multiplier + crossTotal
	if placed == cfg.RackSize {
		score += BingoBonus
	}
	word := make([]byte, len(scan.word))
	copy(word, scan.word)
	scan.plays = append(scan.plays, &Play{
		Kind:  PlayPlace,
		Down:  scan.down,
		Lane:  int8(scan.lane),
		Idx:   int8(start),
		Word:  word,
		Score: int16(score),
	})
}
