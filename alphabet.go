// alphabet.go
//
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file implements the tile alphabet: the mapping between
// tile bytes, letters and scores, and the parsing and formatting
// of racks and board rows.

package skrafl

import (
	"fmt"
	"strings"
	"unicode"
)

// BlankTile is the rack encoding of a blank tile
const BlankTile = byte(0)

// blankMask is the high bit marking a blank tile that has been
// assigned a letter when placed on the board
const blankMask = byte(0x80)

// Alphabet maps tile bytes to letters and scores.
// Tile byte 0 is the blank (in a rack) or an empty square
// (on a board); bytes 1..0x3f are letters in alphabet order;
// a byte with the high bit set is a blank that has been
// assigned the letter in its low bits.
type Alphabet struct {
	letters []rune
	scores  []int
	index   map[rune]byte
}

// initAlphabet creates an Alphabet from a string of letters in
// alphabet order and a map of letter scores, with '?' denoting
// the blank tile
func initAlphabet(letters string, scores map[rune]int) *Alphabet {
	runes := []rune(letters)
	if len(runes) > 0x3f {
		panic("Alphabet cannot have more than 63 letters")
	}
	a := &Alphabet{
		letters: make([]rune, len(runes)+1),
		scores:  make([]int, len(runes)+1),
		index:   make(map[rune]byte),
	}
	a.letters[0] = '?'
	for i, r := range runes {
		tile := byte(i + 1)
		a.letters[tile] = r
		a.scores[tile] = scores[r]
		a.index[r] = tile
	}
	return a
}

// NumLetters returns the number of letters in the Alphabet,
// not counting the blank
func (a *Alphabet) NumLetters() int {
	return len(a.letters) - 1
}

// Letter strips the blank marker off a tile byte, leaving
// the letter that the tile stands for
func Letter(tile byte) byte {
	return tile &^ blankMask
}

// IsBlank returns true if the given tile byte is a blank that
// has been assigned a letter
func IsBlank(tile byte) bool {
	return tile&blankMask != 0
}

// Blanked returns the rack form of a placed tile: the tile byte
// itself, or 0 if the tile is a blank
func Blanked(tile byte) byte {
	if IsBlank(tile) {
		return BlankTile
	}
	return tile
}

// Score returns the score of a single tile. Blanks score zero,
// whether or not they have been assigned a letter.
func (a *Alphabet) Score(tile byte) int {
	if tile == BlankTile || IsBlank(tile) {
		return 0
	}
	return a.scores[tile]
}

// RackScore returns the sum of the tile scores in a rack
func (a *Alphabet) RackScore(rack []byte) int {
	score := 0
	for _, tile := range rack {
		score += a.Score(tile)
	}
	return score
}

// Rune returns the displayable letter for a tile byte.
// Blanks that have been assigned a letter are shown in
// upper case; an unassigned blank is '?'.
func (a *Alphabet) Rune(tile byte) rune {
	if tile == BlankTile {
		return '?'
	}
	if IsBlank(tile) {
		return unicode.ToUpper(a.letters[Letter(tile)])
	}
	return a.letters[tile]
}

// TileOf maps a letter rune to its tile byte. An upper case
// letter maps to the blank-as-letter form; '?' maps to the
// unassigned blank.
func (a *Alphabet) TileOf(r rune) (byte, bool) {
	if r == '?' {
		return BlankTile, true
	}
	if tile, ok := a.index[r]; ok {
		return tile, true
	}
	if lower := unicode.ToLower(r); lower != r {
		if tile, ok := a.index[lower]; ok {
			return tile | blankMask, true
		}
	}
	return 0, false
}

// ParseRack converts a rack string, with '?' denoting a blank,
// into a slice of tile bytes
func (a *Alphabet) ParseRack(s string) ([]byte, error) {
	runes := []rune(s)
	rack := make([]byte, 0, len(runes))
	for _, r := range runes {
		tile, ok := a.TileOf(r)
		if !ok || IsBlank(tile) {
			return nil, fmt.Errorf("invalid rack letter '%c'", r)
		}
		rack = append(rack, tile)
	}
	return rack, nil
}

// FormatRack returns the displayable string form of a rack
func (a *Alphabet) FormatRack(rack []byte) string {
	var sb strings.Builder
	for _, tile := range rack {
		sb.WriteRune(a.Rune(tile))
	}
	return sb.String()
}

// FormatWord returns the displayable form of a play word,
// with '.' standing in for play-through squares
func (a *Alphabet) FormatWord(word []byte) string {
	var sb strings.Builder
	for _, tile := range word {
		if tile == 0 {
			sb.WriteRune('.')
		} else {
			sb.WriteRune(a.Rune(tile))
		}
	}
	return sb.String()
}

// initEnglishAlphabet creates the standard English alphabet
// with its tile scores
func initEnglishAlphabet() *Alphabet {
	scores := map[rune]int{
		'a': 1, 'b': 3, 'c': 3, 'd': 2, 'e': 1,
		'f': 4, 'g': 2, 'h': 4, 'i': 1, 'j': 8,
		'k': 5, 'l': 1, 'm': 3, 'n': 1, 'o': 1,
		'p': 3, 'q': 10, 'r': 1, 's': 1, 't': 1,
		'u': 1, 'v': 4, 'w': 4, 'x': 8, 'y': 4,
		'z': 10,
	}
	return initAlphabet("abcdefghijklmnopqrstuvwxyz", scores)
}

// EnglishAlphabet is the standard English alphabet and tile scores
var EnglishAlphabet = initEnglishAlphabet()

// initIcelandicAlphabet creates the Icelandic alphabet with the
// tile scores of the new Icelandic tile set (as defined by
// Skraflfélag Íslands)
func initIcelandicAlphabet() *Alphabet {
	scores := map[rune]int{
		'a': 1, 'á': 3, 'b': 5, 'd': 5, 'ð': 2,
		'e': 3, 'é': 7, 'f': 3, 'g': 3, 'h': 4,
		'i': 1, 'í': 4, 'j': 6, 'k': 2, 'l': 2,
		'm': 2, 'n': 1, 'o': 5, 'ó': 3, 'p': 5,
		'r': 1, 's': 1, 't': 2, 'u': 2, 'ú': 4,
		'v': 5, 'x': 10, 'y': 6, 'ý': 5, 'þ': 7,
		'æ': 4, 'ö': 6,
	}
	return initAlphabet("aábdðeéfghiíjklmnoóprstuúvxyýþæö", scores)
}

// IcelandicAlphabet is the Icelandic alphabet and tile scores
var IcelandicAlphabet = initIcelandicAlphabet()
