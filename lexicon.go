// lexicon.go
//
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the lexicon automaton which encodes the
// dictionary of valid words, operating on tile letter bytes.

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
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// LexiconAutomaton is the word graph consumed by the move
// generator. Nodes are identified by int32 indices; letters are
// letter bytes (1..NumLetters) as defined by the Alphabet.
type LexiconAutomaton interface {
	// Root returns the start node of the automaton
	Root() int32
	// Arc follows the edge labelled with the given letter,
	// returning -1 if there is no such edge
	Arc(node int32, letter byte) int32
	// IsWord returns true if the path from the root to this
	// node spells a complete word
	IsWord(node int32) bool
	// Find returns true if the given letter byte sequence
	// is a word
	Find(word []byte) bool
}

// trieNode is a single node in a TrieLexicon
type trieNode struct {
	arcs  map[byte]int32
	final bool
}

// TrieLexicon is a LexiconAutomaton built at run time from a
// plain word list, so that no precompiled binary dictionary
// assets are needed.
type TrieLexicon struct {
	alphabet *Alphabet
	nodes    []trieNode
}

// NewTrieLexicon creates a lexicon for the given alphabet,
// containing the given words
func NewTrieLexicon(alphabet *Alphabet, words []string) (*TrieLexicon, error) {
	lex := &TrieLexicon{
		alphabet: alphabet,
		nodes:    []trieNode{{arcs: make(map[byte]int32)}},
	}
	for _, word := range words {
		if err := lex.AddWord(word); err != nil {
			return nil, err
		}
	}
	return lex, nil
}

// ReadTrieLexicon creates a lexicon from a reader containing
// one word per line. Empty lines are skipped.
func ReadTrieLexicon(alphabet *Alphabet, r io.Reader) (*TrieLexicon, error) {
	lex := &TrieLexicon{
		alphabet: alphabet,
		nodes:    []trieNode{{arcs: make(map[byte]int32)}},
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if err := lex.AddWord(word); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lex, nil
}

// AddWord inserts a single word into the lexicon
func (lex *TrieLexicon) AddWord(word string) error {
	node := int32(0)
	for _, r := range word {
		letter, ok := lex.alphabet.TileOf(r)
		if !ok || letter == BlankTile || IsBlank(letter) {
			return fmt.Errorf("word '%v' contains a letter outside the alphabet", word)
		}
		next, ok := lex.nodes[node].arcs[letter]
		if !ok {
			next = int32(len(lex.nodes))
			lex.nodes = append(lex.nodes, trieNode{arcs: make(map[byte]int32)})
			lex.nodes[node].arcs[letter] = next
		}
		node = next
	}
	lex.nodes[node].final = true
	return nil
}

// Root returns the start node
func (lex *TrieLexicon) Root() int32 {
	return 0
}

// Arc follows an outgoing edge, returning -1 if absent
func (lex *TrieLexicon) Arc(node int32, letter byte) int32 {
	if next, ok := lex.nodes[node].arcs[letter]; ok {
		return next
	}
	return -1
}

// IsWord returns true if the node terminates a word
func (lex *TrieLexicon) IsWord(node int32) bool {
	return lex.nodes[node].final
}

// Find attempts to find a word in the lexicon, returning true
// if found or false if not
func (lex *TrieLexicon) Find(word []byte) bool {
	node := int32(0)
	for _, letter := range word {
		if node = lex.Arc(node, Letter(letter)); node < 0 {
			return false
		}
	}
	return lex.IsWord(node)
}

// crossSet calculates a bit-mapped set of the letters that form
// valid words when bridging the given perpendicular prefix and
// suffix. Letter byte i corresponds to bit i-1. An empty prefix
// and suffix means no constraint: all bits are set.
func crossSet(lex LexiconAutomaton, numLetters int, prefix, suffix []byte) uint64 {
	allSet := uint64(1)<<numLetters - 1
	if len(prefix) == 0 && len(suffix) == 0 {
		return allSet
	}
	node := lex.Root()
	for _, letter := range prefix {
		if node = lex.Arc(node, Letter(letter)); node < 0 {
			return 0
		}
	}
	set := uint64(0)
	for letter := byte(1); int(letter) <= numLetters; letter++ {
		mid := lex.Arc(node, letter)
		if mid < 0 {
			continue
		}
		for _, s := range suffix {
			if mid = lex.Arc(mid, Letter(s)); mid < 0 {
				break
			}
		}
		if mid >= 0 && lex.IsWord(mid) {
			set |= uint64(1) << (letter - 1)
		}
	}
	return set
}

// crossCache encapsulates a simple LRU cached map of
// cross-set matching patterns to bitmapped sets
type crossCache struct {
	mux sync.Mutex
	lru *simplelru.LRU
}

// Init initalizes an empty crossCache
func (cc *crossCache) Init(size int) {
	cc.lru, _ = simplelru.NewLRU(size, nil)
}

// Lookup returns a bitmap set corresponding to a matching
// pattern key. If the key is found in the cache, it is
// returned immediately. Otherwise, the given fetchFunc() is
// called to calculate the associated bitmap set before storing
// it in the cache.
func (cc *crossCache) Lookup(key string, fetchFunc func(string) uint64) uint64 {
	cc.mux.Lock()
	defer cc.mux.Unlock()
	if bitMap, ok := cc.lru.Get(key); ok {
		return bitMap.(uint64)
	}
	bitMap := fetchFunc(key)
	cc.lru.Add(key, bitMap)
	return bitMap
}
