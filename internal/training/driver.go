package training

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/chessbot/revolver/internal/book"
	"github.com/chessbot/revolver/internal/evaluation"
	"github.com/chessbot/revolver/internal/search"
	"github.com/chessbot/revolver/internal/tracelog"

	"github.com/chessbot/revolver/internal/board"
)

// Config controls a training run.
type Config struct {
	Workers     int
	HashSizeMB  int
	MoveTime    time.Duration // think time per search, per the reference driver's 1/8s default
	DataDir     string        // where per-worker and merged files are written
	Net         *evaluation.Network
	OpeningBook *book.Book // optional; nil means pure uniform-random openings
	RunStatsDB  string     // directory for the optional Badger run store; "" disables it
}

// DefaultMoveTime matches the reference driver's fixed per-move budget
// during self-play (one eighth of a second).
const DefaultMoveTime = time.Second / 8

// gameRecord is one position accumulated while playing a training game,
// chained newest-to-oldest. A record with prev == nil is the dummy
// terminator and is never written out.
type gameRecord struct {
	prev  *gameRecord
	score search.Score
	fen   string
}

// Driver runs Config.Workers self-play workers and merges their labelled
// position output into a single file.
type Driver struct {
	cfg   Config
	stop  atomic.Bool
	wg    sync.WaitGroup
	store *Store

	runID       uint64
	gamesPlayed atomic.Int64
	positions   atomic.Int64
}

// NewDriver validates cfg (filling in defaults) and returns a Driver
// ready to Start.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("training: Workers must be positive, got %d", cfg.Workers)
	}
	if cfg.HashSizeMB <= 0 {
		cfg.HashSizeMB = 16
	}
	if cfg.MoveTime <= 0 {
		cfg.MoveTime = DefaultMoveTime
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if cfg.Net == nil {
		net := evaluation.NewNetwork()
		net.InitRandom(12345)
		cfg.Net = net
	}

	d := &Driver{cfg: cfg, runID: uint64(time.Now().UnixNano())}

	if cfg.RunStatsDB != "" {
		store, err := OpenStore(cfg.RunStatsDB)
		if err != nil {
			return nil, err
		}
		d.store = store
	}

	return d, nil
}

// Start launches the configured number of worker goroutines, each
// playing self-play games against a fresh random opening until Stop is
// called.
func (d *Driver) Start() error {
	if err := os.MkdirAll(d.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("training: create data dir: %w", err)
	}

	fmt.Printf("info string training started with %d threads\n", d.cfg.Workers)
	tracelog.Log().Infof("training started with %d threads", d.cfg.Workers)

	// Allocating d.cfg.Workers transposition tables at once (each up to
	// HashSizeMB) can spike memory and GC pressure when Workers is large;
	// a semaphore caps how many workers initialize concurrently to
	// roughly one per available core.
	startupSem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))

	seed := uint64(time.Now().UnixNano())
	for i := 0; i < d.cfg.Workers; i++ {
		seed = splitMix64(&seed)
		workerSeed := seed
		index := i

		filename := filepath.Join(d.cfg.DataDir, fmt.Sprintf("training_data%02d.txt", index))
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("training: open worker file %s: %w", filename, err)
		}

		d.wg.Add(1)
		go func() {
			defer d.wg.Done()

			if err := startupSem.Acquire(context.Background(), 1); err != nil {
				return
			}
			w := &worker{
				index: index,
				tt:    search.NewTranspositionTable(d.cfg.HashSizeMB),
				rng:   rand.New(rand.NewSource(int64(workerSeed))),
				file:  f,
				d:     d,
			}
			startupSem.Release(1)

			w.run()
		}()
	}

	return nil
}

// Stop signals every worker to finish its current game, joins them, and
// merges their per-worker files into training_data.txt.
func (d *Driver) Stop() error {
	d.stop.Store(true)
	tracelog.Log().Info("training stop requested, waiting for workers")
	d.wg.Wait()
	tracelog.Log().Infof("training stopped: %d games, %d positions", d.gamesPlayed.Load(), d.positions.Load())

	mergePath := filepath.Join(d.cfg.DataDir, "training_data.txt")
	merge, err := os.OpenFile(mergePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("training: open merge file: %w", err)
	}
	defer merge.Close()

	for i := 0; i < d.cfg.Workers; i++ {
		workerPath := filepath.Join(d.cfg.DataDir, fmt.Sprintf("training_data%02d.txt", i))
		if err := mergeWorkerFile(workerPath, merge); err != nil {
			return err
		}
	}

	if d.store != nil {
		stats := RunStats{
			RunID:       d.runID,
			StartedAt:   time.Unix(0, int64(d.runID)),
			Workers:     d.cfg.Workers,
			GamesPlayed: int(d.gamesPlayed.Load()),
			Positions:   int(d.positions.Load()),
		}
		if err := d.store.SaveRun(stats); err != nil {
			return err
		}
		return d.store.Close()
	}

	return nil
}

func mergeWorkerFile(path string, merge *os.File) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("training: open worker output %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 2048)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := merge.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("training: read worker output %s: %w", path, err)
		}
	}

	f.Close()
	return os.Remove(path)
}

// splitMix64 derives the next seed from state, following the standard
// SplitMix64 generator used to spread a single time-based seed across
// worker PRNGs.
func splitMix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// worker owns one self-play thread's state: its own transposition
// table, PRNG, and output file, fully disjoint from every other worker.
type worker struct {
	index int
	tt    *search.TranspositionTable
	rng   *rand.Rand
	file  *os.File
	d     *Driver
}

func (w *worker) run() {
	defer w.file.Close()
	writer := bufio.NewWriter(w.file)
	defer writer.Flush()

	for !w.d.stop.Load() {
		w.playRandomGame(writer)
		w.tt.Clear()
		writer.Flush()
	}

	tracelog.Log().Debugf("worker %d stopped", w.index)
}

// playRandomGame sets up a fresh random opening and plays it out with
// the worker's own search thread, writing every recorded position once
// the game ends.
func (w *worker) playRandomGame(out io.Writer) {
	pos := board.NewPosition()
	var acc evaluation.Accumulator
	acc.ComputeFull(pos, w.d.cfg.Net)

	playRandomOpening(pos, &acc, w.d.cfg.Net, w.rng, w.d.cfg.OpeningBook)

	st := search.NewSearchThread(pos, w.tt, w.d.cfg.Net, int64(w.d.cfg.MoveTime), false)
	st.Accumulators[0] = acc // already incrementally updated through the opening; replaces NewSearchThread's recomputed root

	dummy := &gameRecord{}
	w.playGame(st, dummy, out)
}

// playGame runs the reference driver's recursive self-play loop as an
// explicit loop: search, optionally record the resulting position, make
// the best move, and repeat until the game ends.
func (w *worker) playGame(st *search.SearchThread, previous *gameRecord, out io.Writer) {
	for {
		st.Stop = false
		best := st.Deepen()

		if !st.Board.InCheck() && !isCheckmateScore(best.Score) && !st.Board.IsInsufficientMaterial() {
			current := &gameRecord{
				prev:  previous,
				score: relativeScore(st.Board, best.Score),
				fen:   st.Board.ToFEN(),
			}
			previous = current
		}

		if isEndOfGame(st.Board, best) {
			outcome := 0.5
			if isCheckmateScore(best.Score) {
				winner := st.Board.SideToMove
				if best.Score < 0 {
					winner = winner.Other()
				}
				if winner == board.White {
					outcome = 1.0
				} else {
					outcome = 0.0
				}
			}
			n := writeGameData(previous, out, outcome)
			w.d.gamesPlayed.Add(1)
			w.d.positions.Add(int64(n))
			return
		}

		captured := st.Board.PieceAt(best.Move.To())
		st.Board.MakeMove(best.Move)
		st.Accumulators[0].UpdateIncremental(st.Board, best.Move, captured, st.Net)
	}
}

// relativeScore mirrors the reference driver's sign convention: a
// position's stored score is relative to the side to move at that
// position, negated when Black is to move so the written figure reads
// consistently as "White's advantage" once labelled with the outcome.
func relativeScore(pos *board.Position, score search.Score) search.Score {
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

func isCheckmateScore(score search.Score) bool {
	return score <= -search.GuaranteeCheckmate || score >= search.GuaranteeCheckmate
}

func isStalemateScore(score search.Score, move board.Move) bool {
	return score == search.Draw && move == board.NoMove
}

func isEndOfGame(pos *board.Position, best search.MoveObject) bool {
	return isCheckmateScore(best.Score) || isStalemateScore(best.Score, best.Move) || search.IsDraw(pos)
}

// writeGameData writes every recorded position in previous (walking the
// chain back to, but excluding, the dummy terminator), labelled with the
// game's final outcome from White's perspective. Returns the number of
// positions written.
func writeGameData(data *gameRecord, out io.Writer, outcome float64) int {
	positions := 0
	for data.prev != nil {
		positions++
		fmt.Fprintf(out, "%s | %d | %.1f\n", data.fen, data.score, outcome)
		data = data.prev
	}
	return positions
}
