// server.go
//
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file implements a compact HTTP server that receives
// JSON encoded solve requests and returns JSON encoded
// responses.

package skrafl

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SolveRequest describes an incoming /solve request. Board rows
// are strings with '.' for empty squares and upper case letters
// for blanks-as-letters; racks use '?' for blanks.
type SolveRequest struct {
	Board  []string  `json:"board"`
	Racks  [2]string `json:"racks"`
	Scores [2]int    `json:"scores"`
	Player int       `json:"player"`
}

// JsonPlay is the wire form of a play. Across plays have
// down=false, lane=row, idx=col; down plays have down=true,
// lane=col, idx=row (all 0-based). Word bytes are 0 for
// play-through, positive for a letter, negative for a blank
// assigned to that letter.
type JsonPlay struct {
	Action string `json:"action"` // "exchange" or "play"
	Tiles  []int  `json:"tiles,omitempty"`
	Down   bool   `json:"down"`
	Lane   int8   `json:"lane"`
	Idx    int8   `json:"idx"`
	Word   []int8 `json:"word,omitempty"`
	Score  int16  `json:"score"`
}

// JsonPlayWithEquity pairs a wire-form play with its equity
type JsonPlayWithEquity struct {
	Equity float32 `json:"equity"`
	JsonPlay
}

// SolveResponse is the JSON response to a /solve request: the
// root equity and the principal variation
type SolveResponse struct {
	Version string               `json:"version"`
	Equity  float32              `json:"equity"`
	Plays   []JsonPlayWithEquity `json:"plays"`
}

// jsonPlayFrom converts a Play to its wire form
func jsonPlayFrom(play *Play) JsonPlay {
	if play.Kind == PlayExchange {
		tiles := make([]int, len(play.Tiles))
		for i, t := range play.Tiles {
			tiles[i] = int(t)
		}
		return JsonPlay{Action: "exchange", Tiles: tiles}
	}
	word := make([]int8, len(play.Word))
	for i, t := range play.Word {
		if IsBlank(t) {
			word[i] = -int8(Letter(t))
		} else {
			word[i] = int8(t)
		}
	}
	return JsonPlay{
		Action: "play",
		Down:   play.Down,
		Lane:   play.Lane,
		Idx:    play.Idx,
		Word:   word,
		Score:  play.Score,
	}
}

// SolveServer solves endgame positions received over HTTP. It
// is constructed with a fixed game configuration and lexicon;
// the store is optional and may be nil.
type SolveServer struct {
	cfg     *GameConfig
	lexicon LexiconAutomaton
	store   *Store
}

// NewSolveServer creates a SolveServer
func NewSolveServer(cfg *GameConfig, lexicon LexiconAutomaton, store *Store) *SolveServer {
	return &SolveServer{cfg: cfg, lexicon: lexicon, store: store}
}

// HandleSolveRequest handles an incoming /solve request
func (srv *SolveServer) HandleSolveRequest(w http.ResponseWriter, req SolveRequest) {
	boardTiles, err := srv.cfg.ParseBoard(req.Board)
	if err != nil {
		http.Error(w, err.Error()+"\n", http.StatusBadRequest)
		return
	}
	var racks [2][]byte
	for i := 0; i < 2; i++ {
		rack, err := srv.cfg.Alphabet.ParseRack(req.Racks[i])
		if err != nil {
			http.Error(w, err.Error()+"\n", http.StatusBadRequest)
			return
		}
		if len(rack) > srv.cfg.RackSize {
			msg := fmt.Sprintf("invalid rack: more than %v tiles\n", srv.cfg.RackSize)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		racks[i] = rack
	}
	if req.Player != 0 && req.Player != 1 {
		http.Error(w, "invalid player: must be 0 or 1\n", http.StatusBadRequest)
		return
	}

	// Check the persistent store before searching
	key := PositionKey(boardTiles, racks, req.Player)
	if srv.store != nil {
		if solved, ok, err := srv.store.Load(key); err == nil && ok {
			writeJSON(w, solved)
			return
		} else if err != nil {
			log.Error().Err(err).Msg("solution store lookup failed")
		}
	}

	solver := NewSolver(srv.cfg, srv.lexicon, NewLaneMoveGenerator())
	solver.Init(boardTiles, racks)
	solver.SetScores([2]int{req.Scores[0], req.Scores[1]})
	equity := solver.Evaluate(req.Player)

	result := &SolveResponse{
		Version: "1.0",
		Equity:  equity,
	}
	for _, found := range solver.Solution(req.Player) {
		result.Plays = append(result.Plays, JsonPlayWithEquity{
			Equity:   found.Equity,
			JsonPlay: jsonPlayFrom(found.Play),
		})
	}

	if srv.store != nil {
		if err := srv.store.Save(key, result); err != nil {
			log.Error().Err(err).Msg("solution store save failed")
		}
	}
	writeJSON(w, result)
}

// ServeHTTP decodes a JSON /solve request and dispatches it
func (srv *SolveServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required\n", http.StatusMethodNotAllowed)
		return
	}
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error()+"\n", http.StatusBadRequest)
		return
	}
	srv.HandleSolveRequest(w, req)
}

// writeJSON encodes a response as JSON
func writeJSON(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		// Unable to generate valid JSON
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
