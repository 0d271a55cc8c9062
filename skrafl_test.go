// skrafl_test.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file contains tests for the alphabet, board, lexicon
// and move generation layers.

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

package skrafl

import (
	"testing"
)

// mustLexicon builds a lexicon from a word list, failing the
// test on error
func mustLexicon(t *testing.T, alphabet *Alphabet, words []string) *TrieLexicon {
	t.Helper()
	lex, err := NewTrieLexicon(alphabet, words)
	if err != nil {
		t.Fatalf("unable to build lexicon: %v", err)
	}
	return lex
}

// mustRack parses a rack string, failing the test on error
func mustRack(t *testing.T, alphabet *Alphabet, s string) []byte {
	t.Helper()
	rack, err := alphabet.ParseRack(s)
	if err != nil {
		t.Fatalf("unable to parse rack '%v': %v", s, err)
	}
	return rack
}

func TestAlphabet(t *testing.T) {
	a := EnglishAlphabet
	if a.NumLetters() != 26 {
		t.Errorf("English alphabet should have 26 letters, got %v", a.NumLetters())
	}
	tile, ok := a.TileOf('a')
	if !ok || tile != 1 {
		t.Errorf("TileOf('a') should be 1, got %v", tile)
	}
	if a.Score(tile) != 1 {
		t.Errorf("Score of 'a' should be 1")
	}
	z, _ := a.TileOf('z')
	if a.Score(z) != 10 {
		t.Errorf("Score of 'z' should be 10")
	}
	// A blank assigned to 'z' still scores zero
	blankZ, ok := a.TileOf('Z')
	if !ok || !IsBlank(blankZ) || Letter(blankZ) != z {
		t.Errorf("TileOf('Z') should be the blank-as-z tile")
	}
	if a.Score(blankZ) != 0 {
		t.Errorf("A blank scores 0, got %v", a.Score(blankZ))
	}
	if Blanked(blankZ) != BlankTile {
		t.Errorf("Blanked form of a blank tile should be 0")
	}
	if Blanked(z) != z {
		t.Errorf("Blanked form of a natural tile should be itself")
	}
	rack, err := a.ParseRack("ab?")
	if err != nil {
		t.Fatalf("unable to parse rack: %v", err)
	}
	if a.RackScore(rack) != 1+3 {
		t.Errorf("Rack score of 'ab?' should be 4, got %v", a.RackScore(rack))
	}
	if a.FormatRack(rack) != "ab?" {
		t.Errorf("FormatRack round trip failed: %v", a.FormatRack(rack))
	}
	if _, err = a.ParseRack("a1"); err == nil {
		t.Errorf("ParseRack should reject letters outside the alphabet")
	}
}

func TestBoardLayout(t *testing.T) {
	bl := NewBoardLayout("standard")
	if bl.NumSquares() != BoardSize*BoardSize {
		t.Errorf("Standard board should have %v squares", BoardSize*BoardSize)
	}
	if bl.StartSquare() != 7*BoardSize+7 {
		t.Errorf("Standard start square should be H8")
	}
	// Corner is a triple word, center a double word
	if bl.WordMultiplier(0) != 3 {
		t.Errorf("Top left corner should be a triple word square")
	}
	if bl.WordMultiplier(bl.StartSquare()) != 2 {
		t.Errorf("Center square should be a double word square")
	}
	// Strider geometry
	across := bl.Across(3)
	if across.Len() != BoardSize || across.At(4) != 3*BoardSize+4 {
		t.Errorf("Across strider misbehaves")
	}
	down := bl.Down(3)
	if down.Len() != BoardSize || down.At(4) != 4*BoardSize+3 {
		t.Errorf("Down strider misbehaves")
	}
	if bl.Lane(true, 3).At(4) != down.At(4) || bl.Lane(false, 3).At(4) != across.At(4) {
		t.Errorf("Lane strider misbehaves")
	}
}

func TestParseBoard(t *testing.T) {
	cfg := NewEnglishGameConfig()
	rows := make([]string, BoardSize)
	for i := range rows {
		rows[i] = "..............."
	}
	rows[7] = "......caT......"
	tiles, err := cfg.ParseBoard(rows)
	if err != nil {
		t.Fatalf("unable to parse board: %v", err)
	}
	c, _ := cfg.Alphabet.TileOf('c')
	tTile, _ := cfg.Alphabet.TileOf('t')
	if tiles[7*BoardSize+6] != c {
		t.Errorf("Expected 'c' at row 7, col 6")
	}
	// Upper case 'T' is a blank assigned to 't'
	if got := tiles[7*BoardSize+8]; !IsBlank(got) || Letter(got) != tTile {
		t.Errorf("Expected a blank-as-t at row 7, col 8")
	}
	rows[0] = "1.............."
	if _, err = cfg.ParseBoard(rows); err == nil {
		t.Errorf("ParseBoard should reject invalid letters")
	}
}

func TestLexicon(t *testing.T) {
	a := EnglishAlphabet
	lex := mustLexicon(t, a, []string{"cat", "cats", "cab"})
	positiveCases := []string{"cat", "cats", "cab"}
	negativeCases := []string{"ca", "c", "cast", "dog", ""}
	for _, word := range positiveCases {
		bytes := mustRack(t, a, word)
		if !lex.Find(bytes) {
			t.Errorf("Did not find word '%v' that should be in the lexicon", word)
		}
	}
	for _, word := range negativeCases {
		bytes := mustRack(t, a, word)
		if lex.Find(bytes) {
			t.Errorf("Found word '%v' that should not be in the lexicon", word)
		}
	}
	// A blank-as-letter finds the word of its assigned letter
	c, _ := a.TileOf('C')
	atTiles := mustRack(t, a, "at")
	if !lex.Find(append([]byte{c}, atTiles...)) {
		t.Errorf("Did not find 'cat' spelled with a blank-as-c")
	}
}

func TestCrossSet(t *testing.T) {
	a := EnglishAlphabet
	lex := mustLexicon(t, a, []string{"cat", "bat", "at"})
	c, _ := a.TileOf('c')
	b, _ := a.TileOf('b')
	aTile, _ := a.TileOf('a')
	tTile, _ := a.TileOf('t')
	// What can precede "at"? 'c' and 'b' ("cat", "bat")
	set := crossSet(lex, a.NumLetters(), nil, []byte{aTile, tTile})
	if set&(1<<(c-1)) == 0 || set&(1<<(b-1)) == 0 {
		t.Errorf("'c' and 'b' should be in the cross set before 'at'")
	}
	if set&(1<<(aTile-1)) != 0 {
		t.Errorf("'a' should not be in the cross set before 'at'")
	}
	// What can bridge "c" and "t"? only 'a'
	set = crossSet(lex, a.NumLetters(), []byte{c}, []byte{tTile})
	if set != 1<<(aTile-1) {
		t.Errorf("Only 'a' should bridge 'c' and 't', got %b", set)
	}
	// No constraint at all: every letter is allowed
	set = crossSet(lex, a.NumLetters(), nil, nil)
	if set != uint64(1)<<26-1 {
		t.Errorf("Empty context should allow every letter")
	}
}

// findPlay locates a play by its formatted description
func findPlay(plays []*Play, alphabet *Alphabet, desc string) *Play {
	for _, p := range plays {
		if p.Format(alphabet) == desc {
			return p
		}
	}
	return nil
}

func TestMoveGenEmptyBoard(t *testing.T) {
	cfg := NewEnglishGameConfig()
	lex := mustLexicon(t, cfg.Alphabet, []string{"ab"})
	gen := NewLaneMoveGenerator()
	snapshot := &BoardSnapshot{
		Tiles:   make([]byte, cfg.Layout.NumSquares()),
		Config:  cfg,
		Lexicon: lex,
		Leaves:  EmptyLeaves{},
	}
	plays := gen.Generate(snapshot, mustRack(t, cfg.Alphabet, "ab"))
	// Two across and two down placements through the start
	// square, plus the pass
	if len(plays) != 5 {
		t.Errorf("Expected 5 plays on the empty board, got %v", len(plays))
	}
	numPasses := 0
	for _, p := range plays {
		if p.IsPass() {
			numPasses++
			continue
		}
		// Every placement covers the double-word start square:
		// (1 + 3) * 2
		if p.Score != 8 {
			t.Errorf("Play %v should score 8, got %v", p.Format(cfg.Alphabet), p.Score)
		}
		covers := false
		strider := cfg.Layout.Lane(p.Down, int(p.Lane))
		for i, tile := range p.Word {
			if tile != 0 && strider.At(int(p.Idx)+i) == cfg.Layout.StartSquare() {
				covers = true
			}
		}
		if !covers {
			t.Errorf("Play %v does not cover the start square", p.Format(cfg.Alphabet))
		}
	}
	if numPasses != 1 {
		t.Errorf("Expected exactly one pass, got %v", numPasses)
	}
}

func TestMoveGenPlayThrough(t *testing.T) {
	cfg := NewEnglishGameConfig()
	lex := mustLexicon(t, cfg.Alphabet, []string{"cat", "cats", "cab"})
	gen := NewLaneMoveGenerator()
	rows := make([]string, BoardSize)
	for i := range rows {
		rows[i] = "..............."
	}
	rows[7] = "......cat......"
	tiles, err := cfg.ParseBoard(rows)
	if err != nil {
		t.Fatalf("unable to parse board: %v", err)
	}
	snapshot := &BoardSnapshot{Tiles: tiles, Config: cfg, Lexicon: lex, Leaves: EmptyLeaves{}}
	plays := gen.Generate(snapshot, mustRack(t, cfg.Alphabet, "s"))
	// The only legal play is hooking the s onto "cat"
	if len(plays) != 2 {
		for _, p := range plays {
			t.Logf("generated: %v", p.Format(cfg.Alphabet))
		}
		t.Fatalf("Expected 2 plays (the hook and the pass), got %v", len(plays))
	}
	hook := findPlay(plays, cfg.Alphabet, "H7 ...s")
	if hook == nil {
		t.Fatalf("Did not find the 'cats' hook")
	}
	// c + a + t + s at face value, no premiums hit
	if hook.Score != 6 {
		t.Errorf("'cats' should score 6, got %v", hook.Score)
	}
	if hook.PlacedCount() != 1 {
		t.Errorf("The hook places one tile, got %v", hook.PlacedCount())
	}
	// Determinism: an identical call yields the identical list
	again := gen.Generate(snapshot, mustRack(t, cfg.Alphabet, "s"))
	if len(again) != len(plays) {
		t.Fatalf("Repeated generation differs in size")
	}
	for i := range plays {
		if plays[i].key() != again[i].key() {
			t.Errorf("Repeated generation differs at %v", i)
		}
	}
}

func TestMoveGenBlank(t *testing.T) {
	cfg := NewEnglishGameConfig()
	lex := mustLexicon(t, cfg.Alphabet, []string{"cat", "cats"})
	gen := NewLaneMoveGenerator()
	rows := make([]string, BoardSize)
	for i := range rows {
		rows[i] = "..............."
	}
	rows[7] = "......cat......"
	tiles, err := cfg.ParseBoard(rows)
	if err != nil {
		t.Fatalf("unable to parse board: %v", err)
	}
	snapshot := &BoardSnapshot{Tiles: tiles, Config: cfg, Lexicon: lex, Leaves: EmptyLeaves{}}
	plays := gen.Generate(snapshot, []byte{BlankTile})
	hook := findPlay(plays, cfg.Alphabet, "H7 ...S")
	if hook == nil {
		t.Fatalf("Did not find the blank-as-s hook")
	}
	// The blank scores nothing: c + a + t only
	if hook.Score != 5 {
		t.Errorf("Blank 'cats' should score 5, got %v", hook.Score)
	}
	if !IsBlank(hook.Word[3]) {
		t.Errorf("The hooked tile should carry the blank marker")
	}
}

func TestPlayKey(t *testing.T) {
	p1 := &Play{Kind: PlayPlace, Down: false, Lane: 7, Idx: 6, Word: []byte{0, 0, 0, 19}, Score: 6}
	p2 := &Play{Kind: PlayPlace, Down: false, Lane: 7, Idx: 6, Word: []byte{0, 0, 0, 19}, Score: 6}
	p3 := &Play{Kind: PlayPlace, Down: true, Lane: 7, Idx: 6, Word: []byte{0, 0, 0, 19}, Score: 6}
	if p1.key() != p2.key() {
		t.Errorf("Equal plays should have equal keys")
	}
	if p1.key() == p3.key() {
		t.Errorf("Plays differing in direction should have different keys")
	}
	if !NewPassPlay().IsPass() {
		t.Errorf("NewPassPlay should be a pass")
	}
}

func TestPositionKey(t *testing.T) {
	board := make([]byte, 9)
	racks := [2][]byte{{1, 2}, {3}}
	k1 := PositionKey(board, racks, 0)
	k2 := PositionKey(board, racks, 0)
	if k1 != k2 {
		t.Errorf("PositionKey should be a pure function of the position")
	}
	if k1 == PositionKey(board, racks, 1) {
		t.Errorf("PositionKey should depend on the player to move")
	}
	board[4] = 1
	if k1 == PositionKey(board, racks, 0) {
		t.Errorf("PositionKey should depend on the board tiles")
	}
}

func TestSolutionStore(t *testing.T) {
	store, err := OpenInMemoryStore()
	if err != nil {
		t.Fatalf("unable to open in-memory store: %v", err)
	}
	defer store.Close()
	key := PositionKey(make([]byte, 4), [2][]byte{{1}, {2}}, 0)
	if _, ok, err := store.Load(key); err != nil || ok {
		t.Errorf("A fresh store should miss")
	}
	saved := &SolveResponse{Version: "1.0", Equity: 12,
		Plays: []JsonPlayWithEquity{{Equity: 12, JsonPlay: JsonPlay{Action: "play", Score: 6}}}}
	if err := store.Save(key, saved); err != nil {
		t.Fatalf("unable to save: %v", err)
	}
	loaded, ok, err := store.Load(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit after save")
	}
	if loaded.Equity != 12 || len(loaded.Plays) != 1 || loaded.Plays[0].Score != 6 {
		t.Errorf("loaded solution differs from the saved one")
	}
}
