// board.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the board geometry: the layout with its
// premium squares, and the striders that map lane coordinates
// to absolute square indices.

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
	"fmt"
	"strings"
)

const zero = int('0')

// BoardSize is the size of the Board
const BoardSize = 15

// RackSize contains the number of slots in the Rack
const RackSize = 7

// Word multiplication factors on a standard board
var WORD_MULTIPLIERS_STANDARD = [BoardSize]string{
	"311111131111113",
	"121111111111121",
	"112111111111211",
	"111211111112111",
	"111121111121111",
	"111111111111111",
	"111111111111111",
	"311111121111113",
	"111111111111111",
	"111111111111111",
	"111121111121111",
	"111211111112111",
	"112111111111211",
	"121111111111121",
	"311111131111113",
}

// Letter multiplication factors on a standard board
var LETTER_MULTIPLIERS_STANDARD = [BoardSize]string{
	"111211111112111",
	"111113111311111",
	"111111212111111",
	"211111121111112",
	"111111111111111",
	"131113111311131",
	"112111212111211",
	"111211111112111",
	"112111212111211",
	"131113111311131",
	"111111111111111",
	"211111121111112",
	"111111212111111",
	"111113111311111",
	"111211111112111",
}

// Word multiplication factors on an Explo board
var WORD_MULTIPLIERS_EXPLO = [BoardSize]string{
	"311111131111113",
	"111111112111111",
	"111111111211111",
	"111211111111111",
	"111121111111111",
	"111112111111211",
	"111111211111121",
	"311111121111113",
	"121111112111111",
	"112111111211111",
	"111111111121111",
	"111111111112111",
	"111112111111111",
	"111111211111111",
	"311111131111113",
}

// Letter multiplication factors on an Explo board
var LETTER_MULTIPLIERS_EXPLO = [BoardSize]string{
	"111121111112111",
	"131112111111131",
	"112111311111211",
	"111111121131112",
	"211111111113111",
	"121111111211111",
	"113111112111111",
	"111211111112111",
	"111111211111311",
	"111112111111121",
	"111311111111112",
	"211131121111111",
	"112111113111211",
	"131111111211131",
	"111211111121111",
}

// colIds are the column identifiers of a board
var colIds = [BoardSize]string{
	"1", "2", "3", "4", "5",
	"6", "7", "8", "9", "10",
	"11", "12", "13", "14", "15",
}

// rowIds are the row identifiers of a board
var rowIds = [BoardSize]string{
	"A", "B", "C", "D", "E",
	"F", "G", "H", "I", "J",
	"L", "M", "N", "O", "P",
}

// Strider maps indices along a single board lane (a row or a
// column) to absolute square indices
type Strider struct {
	base   int
	step   int
	length int
}

// At returns the absolute square index of the i-th square
// along the lane
func (s Strider) At(i int) int {
	return s.base + i*s.step
}

// Len returns the number of squares in the lane
func (s Strider) Len() int {
	return s.length
}

// BoardLayout describes the geometry of a board: its dimensions,
// its premium squares and its start square
type BoardLayout struct {
	Type string // 'standard' or 'explo'
	Rows int
	Cols int
	// Per-square multipliers, indexed by absolute square index
	wordMultiplier   []int
	letterMultiplier []int
	start            int
}

// NewBoardLayout creates a layout of the given type,
// 'standard' or 'explo'
func NewBoardLayout(boardType string) *BoardLayout {
	var letterMultipliers *[BoardSize]string
	var wordMultipliers *[BoardSize]string
	var start int
	if boardType == "standard" {
		letterMultipliers = &LETTER_MULTIPLIERS_STANDARD
		wordMultipliers = &WORD_MULTIPLIERS_STANDARD
		start = (BoardSize/2)*BoardSize + BoardSize/2 // H8
	} else if boardType == "explo" {
		letterMultipliers = &LETTER_MULTIPLIERS_EXPLO
		wordMultipliers = &WORD_MULTIPLIERS_EXPLO
		start = 3*BoardSize + 3 // D4
	} else {
		panic(fmt.Sprintf("Unknown board type: %s", boardType))
	}
	bl := &BoardLayout{
		Type:             boardType,
		Rows:             BoardSize,
		Cols:             BoardSize,
		wordMultiplier:   make([]int, BoardSize*BoardSize),
		letterMultiplier: make([]int, BoardSize*BoardSize),
		start:            start,
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sq := row*BoardSize + col
			bl.wordMultiplier[sq] = int(wordMultipliers[row][col]) - zero
			bl.letterMultiplier[sq] = int(letterMultipliers[row][col]) - zero
		}
	}
	return bl
}

// NumSquares returns the total number of squares on the board
func (bl *BoardLayout) NumSquares() int {
	return bl.Rows * bl.Cols
}

// StartSquare returns the absolute index of the start square
func (bl *BoardLayout) StartSquare() int {
	return bl.start
}

// WordMultiplier returns the word multiplier of a square
func (bl *BoardLayout) WordMultiplier(sq int) int {
	return bl.wordMultiplier[sq]
}

// LetterMultiplier returns the letter multiplier of a square
func (bl *BoardLayout) LetterMultiplier(sq int) int {
	return bl.letterMultiplier[sq]
}

// Across returns the strider of a board row
func (bl *BoardLayout) Across(row int) Strider {
	return Strider{base: row * bl.Cols, step: 1, length: bl.Cols}
}

// Down returns the strider of a board column
func (bl *BoardLayout) Down(col int) Strider {
	return Strider{base: col, step: bl.Cols, length: bl.Rows}
}

// Lane returns the strider of the i-th lane in the given
// direction: a row if down is false, a column if down is true
func (bl *BoardLayout) Lane(down bool, lane int) Strider {
	if down {
		return bl.Down(lane)
	}
	return bl.Across(lane)
}

// GameConfig bundles the parameters of a game variant:
// the alphabet, the board layout, the rack size and the
// number of players
type GameConfig struct {
	Alphabet   *Alphabet
	Layout     *BoardLayout
	RackSize   int
	NumPlayers int
}

// NewEnglishGameConfig returns the common English game
// configuration on a standard board
func NewEnglishGameConfig() *GameConfig {
	return &GameConfig{
		Alphabet:   EnglishAlphabet,
		Layout:     NewBoardLayout("standard"),
		RackSize:   RackSize,
		NumPlayers: 2,
	}
}

// NewIcelandicGameConfig returns the Icelandic game
// configuration on a standard board
func NewIcelandicGameConfig() *GameConfig {
	return &GameConfig{
		Alphabet:   IcelandicAlphabet,
		Layout:     NewBoardLayout("standard"),
		RackSize:   RackSize,
		NumPlayers: 2,
	}
}

// ParseBoard converts board rows, given as strings with '.' or
// ' ' denoting empty squares and upper case letters denoting
// blanks-as-letters, into a flat tile byte array
func (cfg *GameConfig) ParseBoard(rows []string) ([]byte, error) {
	bl := cfg.Layout
	if len(rows) != bl.Rows {
		return nil, fmt.Errorf("invalid board: must be %v rows", bl.Rows)
	}
	tiles := make([]byte, bl.NumSquares())
	for r, rowString := range rows {
		row := []rune(rowString)
		if len(row) != bl.Cols {
			return nil, fmt.Errorf(
				"invalid board row (#%v): must be %v characters long", r, bl.Cols,
			)
		}
		for c, letter := range row {
			if letter == '.' || letter == ' ' {
				continue
			}
			tile, ok := cfg.Alphabet.TileOf(letter)
			if !ok || tile == BlankTile {
				return nil, fmt.Errorf("invalid letter '%c' at %v,%v", letter, r, c)
			}
			tiles[r*bl.Cols+c] = tile
		}
	}
	return tiles, nil
}

// FormatBoard returns a printable string representation of a
// flat tile byte array
func (cfg *GameConfig) FormatBoard(tiles []byte) string {
	bl := cfg.Layout
	var sb strings.Builder
	sb.WriteString("  ")
	for i := 0; i < bl.Cols; i++ {
		// Print the column id right-justified in a 2-character field,
		// plus a space, making the column 3 characters wide
		sb.WriteString(fmt.Sprintf("%2s ", colIds[i]))
	}
	sb.WriteString("\n")
	for i := 0; i < bl.Rows; i++ {
		sb.WriteString(fmt.Sprintf("%s ", rowIds[i]))
		for j := 0; j < bl.Cols; j++ {
			tile := tiles[i*bl.Cols+j]
			if tile == 0 {
				sb.WriteString(" . ")
			} else {
				sb.WriteString(fmt.Sprintf(" %c ", cfg.Alphabet.Rune(tile)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
