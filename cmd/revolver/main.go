// Command revolver drives the search core directly from the command
// line: "search" runs a fixed-time search on a FEN and prints the
// iterative-deepening trace plus the best move, "train" launches the
// self-play training driver. It is not a UCI engine — see SPEC_FULL's
// note on why the textual protocol layer stops at these two verbs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/book"
	"github.com/chessbot/revolver/internal/config"
	"github.com/chessbot/revolver/internal/evaluation"
	"github.com/chessbot/revolver/internal/search"
	"github.com/chessbot/revolver/internal/training"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "search":
		runSearch(args)
	case "train":
		runTrain(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: revolver <search|train> [flags]")
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	fen := fs.String("fen", "", "FEN of the position to search (default: starting position)")
	moveTime := fs.Duration("movetime", 5*time.Second, "fixed think time")
	hashMB := fs.Int("hash", 16, "transposition table size in megabytes")
	confPath := fs.String("config", "", "optional TOML config file")
	fs.Parse(args)

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("revolver: %v", err)
	}
	if *hashMB > 0 {
		cfg.Search.HashSizeMB = *hashMB
	}

	var pos *board.Position
	if *fen == "" {
		pos = board.NewPosition()
	} else {
		pos, err = board.ParseFEN(*fen)
		if err != nil {
			log.Fatalf("revolver: invalid FEN: %v", err)
		}
	}

	net := evaluation.NewNetwork()
	net.InitRandom(1)

	tt := search.NewTranspositionTable(cfg.Search.HashSizeMB)
	st := search.NewSearchThread(pos, tt, net, moveTime.Nanoseconds(), true)
	st.Params = cfg.SearchParams()

	st.Deepen() // prints the info lines and the bestmove line
}

func runTrain(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	workers := fs.Int("workers", 1, "number of self-play worker threads")
	duration := fs.Duration("duration", 0, "how long to run before stopping (0 = until interrupted)")
	dataDir := fs.String("data", ".", "directory for training_data*.txt output")
	moveTimeMs := fs.Int("movetime", 125, "per-move think time in milliseconds")
	bookPath := fs.String("book", "", "optional Polyglot opening book (.bin)")
	runDB := fs.String("rundb", "", "optional directory for a Badger run-stats store")
	confPath := fs.String("config", "", "optional TOML config file")
	fs.Parse(args)

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("revolver: %v", err)
	}
	if *workers > 0 {
		cfg.Training.Workers = *workers
	}
	if *dataDir != "." {
		cfg.Training.DataDir = *dataDir
	}

	if *bookPath == "" {
		*bookPath = cfg.Training.OpeningBook
	}
	var ob *book.Book
	if *bookPath != "" {
		ob, err = book.LoadPolyglot(*bookPath)
		if err != nil {
			log.Fatalf("revolver: loading opening book: %v", err)
		}
	}

	net := evaluation.NewNetwork()
	net.InitRandom(1)

	driver, err := training.NewDriver(training.Config{
		Workers:     cfg.Training.Workers,
		HashSizeMB:  cfg.Search.HashSizeMB,
		MoveTime:    time.Duration(*moveTimeMs) * time.Millisecond,
		DataDir:     cfg.Training.DataDir,
		Net:         net,
		OpeningBook: ob,
		RunStatsDB:  *runDB,
	})
	if err != nil {
		log.Fatalf("revolver: %v", err)
	}

	if err := driver.Start(); err != nil {
		log.Fatalf("revolver: %v", err)
	}

	if *duration > 0 {
		time.Sleep(*duration)
	} else {
		waitForInterrupt()
	}

	if err := driver.Stop(); err != nil {
		log.Fatalf("revolver: %v", err)
	}
}

// waitForInterrupt blocks until SIGINT or SIGTERM, so a training run
// launched without -duration stops cleanly (and merges its output) on
// Ctrl-C instead of being killed mid-write.
func waitForInterrupt() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
