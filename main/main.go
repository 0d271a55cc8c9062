// main.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Example main program for exercising the endgame solver:
// reads a JSON endgame position, solves it to its fixed point
// and prints the best line, or serves solve requests over HTTP.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	skrafl "github.com/vthorsteinsson/GoSkraflSolver"
)

// env returns an environment variable or a default
func env(key, dflt string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return dflt
}

func main() {
	// A .env file can supply SOLVER_WORDS and SOLVER_STORE
	_ = godotenv.Load()
	words := flag.String("words", env("SOLVER_WORDS", ""),
		"Path of the word list, one word per line")
	posFile := flag.String("pos", "", "Path of the JSON position to solve")
	locale := flag.String("locale", "en", "Locale ('en' or 'is')")
	storeDir := flag.String("store", env("SOLVER_STORE", ""),
		"Directory of the persistent solution store (optional)")
	serve := flag.String("serve", "", "Address to serve /solve requests on (optional)")
	quiet := flag.Bool("q", false, "Suppress progress logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *quiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	var cfg *skrafl.GameConfig
	switch *locale {
	case "en":
		cfg = skrafl.NewEnglishGameConfig()
	case "is":
		cfg = skrafl.NewIcelandicGameConfig()
	default:
		fmt.Printf("Unknown locale '%v'. Specify 'en' or 'is'.\n", *locale)
		os.Exit(1)
	}

	if *words == "" {
		fmt.Println("A word list is required: use -words or SOLVER_WORDS.")
		os.Exit(1)
	}
	wordFile, err := os.Open(*words)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to open word list")
	}
	lexicon, err := skrafl.ReadTrieLexicon(cfg.Alphabet, wordFile)
	wordFile.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("unable to read word list")
	}

	var store *skrafl.Store
	if *storeDir != "" {
		store, err = skrafl.OpenStore(*storeDir)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to open solution store")
		}
		defer store.Close()
	}

	if *serve != "" {
		srv := skrafl.NewSolveServer(cfg, lexicon, store)
		http.Handle("/solve", srv)
		log.Info().Str("addr", *serve).Msg("serving")
		log.Fatal().Err(http.ListenAndServe(*serve, nil)).Msg("server exited")
	}

	if *posFile == "" {
		fmt.Println("A position is required: use -pos (or -serve).")
		os.Exit(1)
	}
	posData, err := os.ReadFile(*posFile)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to read position")
	}
	var req skrafl.SolveRequest
	if err := json.Unmarshal(posData, &req); err != nil {
		log.Fatal().Err(err).Msg("invalid position JSON")
	}

	boardTiles, err := cfg.ParseBoard(req.Board)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid board")
	}
	var racks [2][]byte
	for i := 0; i < 2; i++ {
		if racks[i], err = cfg.Alphabet.ParseRack(req.Racks[i]); err != nil {
			log.Fatal().Err(err).Msg("invalid rack")
		}
	}

	solver := skrafl.NewSolver(cfg, lexicon, skrafl.NewLaneMoveGenerator())
	solver.Init(boardTiles, racks)
	solver.SetScores([2]int{req.Scores[0], req.Scores[1]})
	equity := solver.Evaluate(req.Player)
	fmt.Printf("Equity for player %v: %v\n", req.Player, equity)
	solver.PrintBestLine(os.Stdout, req.Player)
}
