// endgame.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the two-player endgame solver: given a
// position with an empty bag, both racks known, it computes the
// optimal play sequence for both sides under perfect information,
// scored by final margin.

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

The solver is an iterative-deepening negamax search with
alpha-beta pruning over canonical position states.

A state is identified by the set of tiles placed since the start
of the endgame, held as a linked list of placements interned in
an append-only table. Two placement sequences that cover the same
squares with the same tiles map to the same state id: placements
are kept sorted by (tile, square), and when both players have
placed copies of the same tile, player 0 is credited first. This
collapses transpositions, which a straight move-sequence hash
would miss.

Each expanded state caches, per player, the generated candidate
plays plus a static valuation used for move ordering. The
valuation of a play is its score minus the best opponent play
that it does not block, where blocking is decided with a
per-position map of nearest empty squares in the four directions.
Evaluations are memoized with exact/lower/upper bound tags and
the depth they were searched to, so deeper iterations can reuse
or window-trim earlier results.

Passing is special: it does not advance the state, it suspends
the side to move, and two passes in a row end the game. The pass
branch is therefore evaluated before the side's own plays, and
the cached best moves of both sides are refined together.

*/

package skrafl

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RootState is the state id of the initial endgame position.
// It doubles as the end-of-game marker in a child play whose
// placement empties the mover's rack.
const RootState = uint32(0)

// nullID marks a state or play id that has not been computed
const nullID = ^uint32(0)

// PassPlayID is the reserved play id of the pass
const PassPlayID = uint32(0)

var negInfinity = float32(math.Inf(-1))
var posInfinity = float32(math.Inf(1))

// placedTile is a single tile placement: the tile byte (with the
// blank marker when a blank was used), which player placed it,
// and the absolute board square
type placedTile struct {
	tile   byte
	whose  uint8
	square int16
}

// state is a node in the placement history: a link to its parent
// state plus one placement. State 0 is the initial position.
type state struct {
	parent uint32
	placed placedTile
}

// boundKind tags a cached equity
type boundKind uint8

const (
	exactBound boundKind = iota
	lowerBound
	upperBound
)

// sideEval is the cached best move of one side at a state
type sideEval struct {
	equity    float32
	playID    uint32
	nextState uint32
	bound     boundKind
	depth     int8
}

// newSideEval returns the initial (worst possible) evaluation
func newSideEval() sideEval {
	return sideEval{
		equity:    negInfinity,
		playID:    nullID,
		nextState: nullID,
		bound:     lowerBound,
		depth:     math.MinInt8,
	}
}

// stateEval is the per-state cache: the best placing move and
// the best overall move (pass allowed) for each side, plus the
// two contiguous ranges of the shared child play buffer that
// hold the candidates of player 0 and player 1
type stateEval struct {
	bestPlaceMove [2]sideEval
	bestMove      [2]sideEval
	childRange    [3]int
}

// childPlay is one candidate at a state: an interned play id,
// the resulting state (0 = plays out, nullID = not yet
// computed), and the move-ordering valuation
type childPlay struct {
	playID    uint32
	nextState uint32
	valuation float32
}

// plyBuffer holds a reconstructed position; buffers are pooled
// and reused across recursion frames
type plyBuffer struct {
	boardTiles []byte
	racks      [2][]byte
}

// periods counts elapsed progress-tick periods
type periods uint64

// update returns true when a new period has been entered
func (p *periods) update(v uint64) bool {
	if v > uint64(*p) {
		*p = periods(v)
		return true
	}
	return false
}

// workBuffer holds the reusable allocations of a search. It is
// owned exclusively by the active search and is reused across
// recursive frames; all cross-frame references are indices, not
// pointers, so that a growing table never invalidates them.
type workBuffer struct {
	t0          time.Time
	tickPeriods periods
	// scratch list of placements, cleared between uses
	placed []placedTile
	// pool of position buffers, one per active ply
	plyBuffers []*plyBuffer
	// per-square nearest empty square in the four directions
	// (left, right, up, down), rebuilt per expanded position
	blocked [][4]int16
	// scratch list of blocked squares for one candidate play
	blockedSqs []int16
	// states[0] is the dummy initial state
	states      []state
	stateFinder map[state]uint32
	stateEvals  map[uint32]*stateEval
	// plays[0] is always the pass
	plays      []*Play
	playFinder map[string]uint32
	childPlays []childPlay
}

// init resets the work buffer for a new position, seeding the
// reserved entries at state id 0 and play id 0
func (work *workBuffer) init() {
	work.t0 = time.Now()
	work.tickPeriods = 0
	work.states = work.states[:0]
	work.states = append(work.states, state{
		parent: nullID,
		placed: placedTile{tile: 0xff, whose: 0xff, square: -1},
	})
	work.stateFinder = make(map[state]uint32)
	work.stateEvals = make(map[uint32]*stateEval)
	work.plays = work.plays[:0]
	work.plays = append(work.plays, NewPassPlay())
	work.playFinder = make(map[string]uint32)
	work.childPlays = work.childPlays[:0]
}

// FoundPlay pairs a play of the principal variation with its
// equity, for reporting
type FoundPlay struct {
	Equity float32
	Play   *Play
}

// Solver is the two-player endgame solver. It consumes the
// lexicon automaton and the raw move generator as read-only
// services; one search is in flight at a time.
type Solver struct {
	cfg        *GameConfig
	lexicon    LexiconAutomaton
	leaves     LeaveValuator
	movegen    RawMoveGenerator
	boardTiles []byte
	racks      [2][]byte
	rackScores [2]int
	// Cumulative game scores at the start of the endgame;
	// used for reporting only, the search works on deltas
	scores [2]int
	work   workBuffer
	logger zerolog.Logger
}

// NewSolver creates an endgame solver for the given game
// configuration, lexicon and move generator. Only two-player
// configurations can be solved.
func NewSolver(cfg *GameConfig, lexicon LexiconAutomaton, movegen RawMoveGenerator) *Solver {
	if cfg.NumPlayers != 2 {
		panic("cannot solve non-2-player endgames")
	}
	s := &Solver{
		cfg:     cfg,
		lexicon: lexicon,
		// With an empty bag, leaves are worthless
		leaves:  EmptyLeaves{},
		movegen: movegen,
		logger:  log.With().Str("module", "endgame").Logger(),
	}
	s.work.blocked = make([][4]int16, cfg.Layout.NumSquares())
	return s
}

// Init resets the work buffer and seeds the solver from a new
// position: the board tiles and the two racks
func (s *Solver) Init(boardTiles []byte, racks [2][]byte) {
	s.boardTiles = append(s.boardTiles[:0], boardTiles...)
	s.racks[0] = append(s.racks[0][:0], racks[0]...)
	s.racks[1] = append(s.racks[1][:0], racks[1]...)
	s.rackScores[0] = s.cfg.Alphabet.RackScore(racks[0])
	s.rackScores[1] = s.cfg.Alphabet.RackScore(racks[1])
	s.work.init()
}

// SetScores records the cumulative game scores at the start of
// the endgame, for reporting purposes
func (s *Solver) SetScores(scores [2]int) {
	s.scores = scores
}

// moveScore returns the raw score of a play; exchanges score
// nothing
func moveScore(play *Play) int16 {
	if play.Kind == PlayExchange {
		return 0
	}
	return play.Score
}

// popPlyBuffer takes a position buffer from the pool,
// allocating a fresh one if the pool is empty
func (s *Solver) popPlyBuffer() *plyBuffer {
	n := len(s.work.plyBuffers)
	if n == 0 {
		return &plyBuffer{}
	}
	ply := s.work.plyBuffers[n-1]
	s.work.plyBuffers = s.work.plyBuffers[:n-1]
	return ply
}

// pushPlyBuffer returns a position buffer to the pool
func (s *Solver) pushPlyBuffer(ply *plyBuffer) {
	s.work.plyBuffers = append(s.work.plyBuffers, ply)
}

// reconstruct rebuilds the full board and both racks of a state
// into the given buffer, by walking the placement chain from the
// state back to the root
func (s *Solver) reconstruct(stateID uint32, ply *plyBuffer) {
	ply.boardTiles = append(ply.boardTiles[:0], s.boardTiles...)
	ply.racks[0] = append(ply.racks[0][:0], s.racks[0]...)
	ply.racks[1] = append(ply.racks[1][:0], s.racks[1]...)
	for id := stateID; id != RootState; {
		st := &s.work.states[id]
		ply.boardTiles[st.placed.square] = st.placed.tile
		rack := ply.racks[st.placed.whose]
		blanked := Blanked(st.placed.tile)
		// Walk the tile off the rack, taking the rightmost
		// match to be deterministic
		found := false
		for i := len(rack) - 1; i >= 0; i-- {
			if rack[i] == blanked {
				rack = append(rack[:i], rack[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			// A placement that the rack cannot supply means the
			// state table is corrupt
			panic(fmt.Sprintf("state %v: placed tile 0x%02x not in rack", id, st.placed.tile))
		}
		ply.racks[st.placed.whose] = rack
		id = st.parent
	}
}

// newStateID canonicalizes the position reached by making the
// given play at the given state, interning any new states, and
// returns the resulting state id. Exchange plays (including the
// pass) do not advance the state.
func (s *Solver) newStateID(stateID uint32, player uint8, playID uint32) uint32 {
	play := s.work.plays[playID]
	if play.Kind == PlayExchange {
		return stateID
	}

	// Rebuild the placement list of the parent state
	s.work.placed = s.work.placed[:0]
	for id := stateID; id != RootState; {
		st := &s.work.states[id]
		s.work.placed = append(s.work.placed, st.placed)
		id = st.parent
	}
	for i, j := 0, len(s.work.placed)-1; i < j; i, j = i+1, j-1 {
		s.work.placed[i], s.work.placed[j] = s.work.placed[j], s.work.placed[i]
	}

	// Append the newly placed tiles
	strider := s.cfg.Layout.Lane(play.Down, int(play.Lane))
	for i, tile := range play.Word {
		if tile != 0 {
			s.work.placed = append(s.work.placed, placedTile{
				tile:   tile,
				whose:  player,
				square: int16(strider.At(int(play.Idx) + i)),
			})
		}
	}

	// Normalize the ordering
	placed := s.work.placed
	sort.Slice(placed, func(i, j int) bool {
		if placed[i].tile != placed[j].tile {
			return placed[i].tile < placed[j].tile
		}
		return placed[i].square < placed[j].square
	})

	// Normalize the tile owner: within each run of equal tiles
	// (the blanks 0x81-0xbf sort at the end and count as one
	// run), all copies placed by player 0 precede those placed
	// by player 1
	threshold := byte(0x80)
	var freq [2]int
	for cursor := len(placed) - 1; cursor >= 0; cursor-- {
		newThreshold := placed[cursor].tile
		if newThreshold < threshold {
			threshold = newThreshold
			p := cursor + 1
			for k := 0; k < freq[0]; k++ {
				placed[p].whose = 0
				p++
			}
			for k := 0; k < freq[1]; k++ {
				placed[p].whose = 1
				p++
			}
			freq[0], freq[1] = 0, 0
		}
		freq[placed[cursor].whose]++
	}
	// Assign the owners of the final leftmost run
	p := 0
	for k := 0; k < freq[0]; k++ {
		placed[p].whose = 0
		p++
	}
	for k := 0; k < freq[1]; k++ {
		placed[p].whose = 1
		p++
	}

	// Fold the canonical list into the state table
	newID := RootState
	for _, pt := range placed {
		st := state{parent: newID, placed: pt}
		if id, ok := s.work.stateFinder[st]; ok {
			newID = id
		} else {
			id = uint32(len(s.work.states))
			s.work.states = append(s.work.states, st)
			s.work.stateFinder[st] = id
			newID = id
		}
	}
	return newID
}

// bothPassValue returns the final margin, from the given
// player's viewpoint, when the game ends at this state with
// both racks retained: each side keeps the value of its
// remaining tiles
func (s *Solver) bothPassValue(stateID uint32, player uint8) float32 {
	rackScores := [2]int{s.rackScores[0], s.rackScores[1]}
	alphabet := s.cfg.Alphabet
	for id := stateID; id != RootState; {
		st := &s.work.states[id]
		rackScores[st.placed.whose] -= alphabet.Score(Blanked(st.placed.tile))
		id = st.parent
	}
	return float32(rackScores[player^1] - rackScores[player])
}

// rebuildBlocked recomputes, for every square, the nearest empty
// square in the four directions (left, right, up, down) on the
// given board: the last empty square seen strictly before the
// square in each scan, with the first square of a scan mapping
// to itself.
func (s *Solver) rebuildBlocked(boardTiles []byte) {
	bl := s.cfg.Layout
	blocked := s.work.blocked
	for row := 0; row < bl.Rows; row++ {
		strider := bl.Across(row)
		n := strider.Len()
		lastEmpty := int16(strider.At(0))
		for i := 0; i < n; i++ {
			here := strider.At(i)
			blocked[here][0] = lastEmpty
			if boardTiles[here] == 0 {
				lastEmpty = int16(here)
			}
		}
		lastEmpty = int16(strider.At(n - 1))
		for i := n - 1; i >= 0; i-- {
			here := strider.At(i)
			blocked[here][1] = lastEmpty
			if boardTiles[here] == 0 {
				lastEmpty = int16(here)
			}
		}
	}
	for col := 0; col < bl.Cols; col++ {
		strider := bl.Down(col)
		n := strider.Len()
		lastEmpty := int16(strider.At(0))
		for i := 0; i < n; i++ {
			here := strider.At(i)
			blocked[here][2] = lastEmpty
			if boardTiles[here] == 0 {
				lastEmpty = int16(here)
			}
		}
		lastEmpty = int16(strider.At(n - 1))
		for i := n - 1; i >= 0; i-- {
			here := strider.At(i)
			blocked[here][3] = lastEmpty
			if boardTiles[here] == 0 {
				lastEmpty = int16(here)
			}
		}
	}
}

// containsSquare reports whether a square is in the scratch
// blocked-square list
func containsSquare(squares []int16, sq int16) bool {
	for _, b := range squares {
		if b == sq {
			return true
		}
	}
	return false
}

// expand reconstructs a position, generates both players'
// candidate plays, fills in their move-ordering valuations, and
// caches the resulting evaluation record for the state
func (s *Solver) expand(stateID uint32) *stateEval {
	ply := s.popPlyBuffer()
	s.reconstruct(stateID, ply)
	alphabet := s.cfg.Alphabet
	rackScores := [2]int{
		alphabet.RackScore(ply.racks[0]),
		alphabet.RackScore(ply.racks[1]),
	}
	s.rebuildBlocked(ply.boardTiles)

	snapshot := &BoardSnapshot{
		Tiles:   ply.boardTiles,
		Config:  s.cfg,
		Lexicon: s.lexicon,
		Leaves:  s.leaves,
	}
	ev := &stateEval{
		bestPlaceMove: [2]sideEval{newSideEval(), newSideEval()},
		bestMove:      [2]sideEval{newSideEval(), newSideEval()},
	}
	ev.childRange[0] = len(s.work.childPlays)
	for player := 0; player < 2; player++ {
		for _, play := range s.movegen.Generate(snapshot, ply.racks[player]) {
			if play.Kind == PlayExchange {
				s.work.childPlays = append(s.work.childPlays, childPlay{
					playID:    PassPlayID,
					nextState: stateID,
				})
			} else {
				key := play.key()
				playID, ok := s.work.playFinder[key]
				if !ok {
					playID = uint32(len(s.work.plays))
					s.work.plays = append(s.work.plays, play)
					s.work.playFinder[key] = playID
				}
				s.work.childPlays = append(s.work.childPlays, childPlay{
					playID:    playID,
					nextState: nullID,
				})
			}
		}
		ev.childRange[player+1] = len(s.work.childPlays)
	}

	// Sort both candidate lists by raw score descending; the
	// valuation pass below relies on this order for its
	// "first unblocked opponent play" scan
	for player := 0; player < 2; player++ {
		children := s.work.childPlays[ev.childRange[player]:ev.childRange[player+1]]
		sort.Slice(children, func(i, j int) bool {
			return moveScore(s.work.plays[children[i].playID]) >
				moveScore(s.work.plays[children[j].playID])
		})
	}

	// Fill in the move-ordering valuations
	for player := 0; player < 2; player++ {
		opp := player ^ 1
		my := s.work.childPlays[ev.childRange[player]:ev.childRange[player+1]]
		oppChildren := s.work.childPlays[ev.childRange[opp]:ev.childRange[opp+1]]
		for ci := range my {
			play := s.work.plays[my[ci].playID]
			if play.Kind == PlayExchange {
				// Passing hands the opponent their best score
				my[ci].valuation = -float32(moveScore(s.work.plays[oppChildren[0].playID]))
				continue
			}
			if play.PlacedCount() == len(ply.racks[player]) {
				// Playing out ends the game; the opponent's
				// remaining tile values are doubled onto the score
				my[ci].nextState = RootState
				my[ci].valuation = float32(int(play.Score) + 2*rackScores[opp])
				continue
			}
			// Collect the squares this play occupies, plus their
			// nearest empty neighbors in the four directions
			s.work.blockedSqs = s.work.blockedSqs[:0]
			strider := s.cfg.Layout.Lane(play.Down, int(play.Lane))
			for i, tile := range play.Word {
				if tile != 0 {
					there := strider.At(int(play.Idx) + i)
					s.work.blockedSqs = append(s.work.blockedSqs, int16(there))
					s.work.blockedSqs = append(s.work.blockedSqs, s.work.blocked[there][:]...)
				}
			}
			// Find the best opponent play that this one does not
			// block (slow when the top plays share squares)
			bestUnblocked := int16(0)
			for oi := range oppChildren {
				oppPlay := s.work.plays[oppChildren[oi].playID]
				if oppPlay.Kind == PlayExchange {
					break
				}
				oppStrider := s.cfg.Layout.Lane(oppPlay.Down, int(oppPlay.Lane))
				isBlocked := false
				for i, tile := range oppPlay.Word {
					if tile != 0 &&
						containsSquare(s.work.blockedSqs, int16(oppStrider.At(int(oppPlay.Idx)+i))) {
						isBlocked = true
						break
					}
				}
				if !isBlocked {
					bestUnblocked = oppPlay.Score
					break
				}
			}
			my[ci].valuation = float32(play.Score - bestUnblocked)
		}
	}

	s.work.stateEvals[stateID] = ev
	s.pushPlyBuffer(ply)
	return ev
}

// Evaluate runs the iterative-deepening search for the given
// player to move, from depth 1 until an iteration discovers no
// new states, and returns the root equity
func (s *Solver) Evaluate(player int) float32 {
	var valuation float32
	for maxDepth := int8(1); ; maxDepth++ {
		oldNumStates := len(s.work.states)
		valuation = s.negamax(RootState, uint8(player), maxDepth, negInfinity, posInfinity, false)
		s.logger.Info().
			Int8("depth", maxDepth).
			Float32("valuation", valuation).
			Msg("iteration-complete")
		s.LogProgress()
		if len(s.work.states) == oldNumStates {
			break
		}
	}
	return valuation
}

// negamax returns the equity of the state to the side to move.
// Based on https://en.wikipedia.org/wiki/Negamax
func (s *Solver) negamax(stateID uint32, player uint8, depth int8,
	alpha, beta float32, justPassed bool) float32 {

	// No move generation is done at depth 0, so no evaluation
	// record either
	if depth == 0 {
		return s.bothPassValue(stateID, player)
	}

	// Evaluate the pass branch first: a pass after a pass ends
	// the game, otherwise it suspends the side to move
	var passValuation float32
	if justPassed {
		passValuation = s.bothPassValue(stateID, player)
	} else {
		passValuation = -s.negamax(stateID, player^1, depth, -beta, -alpha, true)
	}

	alphaOrig := alpha
	betaOrig := beta
	ev, ok := s.work.stateEvals[stateID]
	if ok {
		sev := &ev.bestMove[player]
		if sev.depth >= depth {
			switch sev.bound {
			case exactBound:
				return sev.equity
			case lowerBound:
				if sev.equity > alpha {
					alpha = sev.equity
				}
			case upperBound:
				if sev.equity < beta {
					beta = sev.equity
				}
			}
			if alpha >= beta {
				return sev.equity
			}
		}
	} else {
		ev = s.expand(stateID)
	}

	// Re-sort the side to move's candidates by valuation
	// descending; must complete before any recursion below,
	// which may grow the underlying buffer
	lowIdx := ev.childRange[player]
	highIdx := ev.childRange[player+1]
	children := s.work.childPlays[lowIdx:highIdx]
	sort.Slice(children, func(i, j int) bool {
		return children[i].valuation > children[j].valuation
	})

	bestIdx := lowIdx
	passIdx := lowIdx
	for childIdx := lowIdx; childIdx < highIdx; childIdx++ {
		var childValuation float32
		play := s.work.plays[s.work.childPlays[childIdx].playID]
		if play.Kind == PlayExchange {
			// There should be exactly one pass; it is already
			// folded in above and does not affect alpha/beta
			passIdx = childIdx
			s.work.childPlays[childIdx].valuation = passValuation
			continue
		}
		if s.work.childPlays[childIdx].nextState == RootState {
			// Playing out; the valuation is already correct
			childValuation = s.work.childPlays[childIdx].valuation
		} else {
			if s.work.childPlays[childIdx].nextState == nullID {
				// Construct the resulting state lazily
				s.work.childPlays[childIdx].nextState =
					s.newStateID(stateID, player, s.work.childPlays[childIdx].playID)
			}
			childValuation = float32(play.Score) -
				s.negamax(s.work.childPlays[childIdx].nextState,
					player^1, depth-1, -beta, -alpha, false)
		}
		s.work.childPlays[childIdx].valuation = childValuation
		if childValuation > s.work.childPlays[bestIdx].valuation {
			bestIdx = childIdx
		}
		if childValuation > alpha {
			alpha = childValuation
			if alpha >= beta {
				break
			}
		}
	}

	// Fill in bestPlaceMove; iff no valid placing move, it
	// carries the pass
	best := s.work.childPlays[bestIdx]
	valuationForAlphaBeta := best.valuation
	if bestIdx == passIdx {
		valuationForAlphaBeta = negInfinity
	}
	var bound boundKind
	switch {
	case valuationForAlphaBeta <= alphaOrig:
		bound = upperBound
	case valuationForAlphaBeta >= beta:
		bound = lowerBound
	default:
		bound = exactBound
	}
	ev.bestPlaceMove[player] = sideEval{
		equity:    best.valuation,
		playID:    best.playID,
		nextState: best.nextState,
		bound:     bound,
		depth:     depth,
	}

	// bestMove is the better of bestPlaceMove and passing
	if passValuation > best.valuation {
		ev.bestMove[player] = sideEval{
			equity:    passValuation,
			playID:    PassPlayID,
			nextState: stateID,
			bound:     exactBound, // actually indeterminate
			depth:     depth,
		}
	} else {
		ev.bestMove[player] = ev.bestPlaceMove[player]
	}

	if !justPassed {
		// To the initial player, the following have been evaluated:
		// - A = the opponent's bestPlaceMove,
		// - B = the opponent's bestMove (where pass ends the game),
		// - C = the player's bestPlaceMove,
		// - D = the player's bestMove based on the opponent's bestMove.
		// The player's bestMove correctly reflects D = max(C, -B).
		// The opponent's bestMove may not reflect B = max(A, -D) yet.
		// This happens if -D is less than when passing ends the game,
		// because B may be reused when the player doesn't have to pass.
		opp := player ^ 1
		if -best.valuation > ev.bestPlaceMove[opp].equity {
			// -valuationForAlphaBeta within -betaOrig..-alphaOrig
			var oppBound boundKind
			switch {
			case betaOrig <= valuationForAlphaBeta:
				oppBound = upperBound
			case alphaOrig >= valuationForAlphaBeta:
				oppBound = lowerBound
			default:
				oppBound = exactBound
			}
			ev.bestMove[opp] = sideEval{
				equity:    -best.valuation,
				playID:    PassPlayID,
				nextState: stateID,
				bound:     oppBound,
				depth:     depth,
			}
		} else {
			ev.bestMove[opp] = ev.bestPlaceMove[opp]
		}
	}

	// Quell impatience
	if s.work.tickPeriods.update(uint64(time.Since(s.work.t0).Milliseconds()) / 10000) {
		s.LogProgress()
	}

	return best.valuation
}

// AppendSolution walks the principal variation from the given
// state and player, emitting an equity/play pair per ply. The
// search must have been run first. A dangling play or state id
// is logged and truncates the walk; it is never dereferenced.
func (s *Solver) AppendSolution(stateID uint32, player int, out func(FoundPlay)) {
	who := uint8(player)
	for {
		ev, ok := s.work.stateEvals[stateID]
		if !ok {
			s.logger.Warn().Uint32("state", stateID).Msg("missing state in solution walk")
			break
		}
		ans := &ev.bestMove[who]
		if ans.playID >= uint32(len(s.work.plays)) {
			s.logger.Warn().Uint32("state", stateID).Msg("missing play in solution walk")
			break
		}
		play := s.work.plays[ans.playID]
		out(FoundPlay{Equity: ans.equity, Play: play})
		if play.Kind == PlayExchange {
			// A pass suspends the side to move: emit the other
			// side's response as well
			who ^= 1
			ans = &ev.bestMove[who]
			if ans.playID >= uint32(len(s.work.plays)) {
				s.logger.Warn().Uint32("state", stateID).Msg("missing counterplay in solution walk")
				break
			}
			play = s.work.plays[ans.playID]
			out(FoundPlay{Equity: ans.equity, Play: play})
			if play.Kind == PlayExchange {
				// Both passed, done
				break
			}
		}
		stateID = ans.nextState
		if stateID == RootState || stateID == nullID {
			break
		}
		who ^= 1
	}
}

// PrintBestLine writes the principal variation from the root,
// followed by the final board, to the given writer
func (s *Solver) PrintBestLine(w io.Writer, player int) {
	soln := make([]FoundPlay, 0, 16)
	latest := append([]byte(nil), s.boardTiles...)
	s.AppendSolution(RootState, player, func(found FoundPlay) {
		soln = append(soln, found)
	})
	fmt.Fprintf(w, "Endgame from %v : %v, player %v to move\n",
		s.scores[0], s.scores[1], player)
	for i, ply := range soln {
		fmt.Fprintf(w, "%d: p%d: %v %s\n",
			i, (player+i)%2, ply.Equity, ply.Play.Format(s.cfg.Alphabet))
		if ply.Play.Kind == PlayPlace {
			strider := s.cfg.Layout.Lane(ply.Play.Down, int(ply.Play.Lane))
			for j, tile := range ply.Play.Word {
				if tile != 0 {
					latest[strider.At(int(ply.Play.Idx)+j)] = tile
				}
			}
		}
	}
	fmt.Fprint(w, s.cfg.FormatBoard(latest))
}

// Solution collects the principal variation from the root as a
// slice, for callers that prefer a value over a callback
func (s *Solver) Solution(player int) []FoundPlay {
	soln := make([]FoundPlay, 0, 16)
	s.AppendSolution(RootState, player, func(found FoundPlay) {
		soln = append(soln, found)
	})
	return soln
}

// LogProgress logs the current size of the search tables
func (s *Solver) LogProgress() {
	s.logger.Info().
		Dur("elapsed", time.Since(s.work.t0)).
		Int("states", len(s.work.states)).
		Int("evaluated", len(s.work.stateEvals)).
		Int("childPlays", len(s.work.childPlays)).
		Int("plays", len(s.work.plays)).
		Msg("progress")
}
