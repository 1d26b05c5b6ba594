package search

import (
	"fmt"
	"strings"

	"github.com/chessbot/revolver/internal/board"
	"github.com/chessbot/revolver/internal/tracelog"
)

// reportIteration prints the UCI-style "info depth ..." line for a
// completed iterative-deepening iteration.
func reportIteration(depth int, score Score, pv []board.Move, nodes uint64, startNs int64, clock Clock) {
	elapsedMs := uint64((clock.NowNs() - startNs) / 1_000_000)
	nps := nodes * 1000 / (elapsedMs + 1)

	scoreType, scoreValue := "cp", int(score)
	if score >= GuaranteeCheckmate {
		scoreType = "mate"
		scoreValue = int((Checkmate - score + 1) / 2)
	} else if score <= -GuaranteeCheckmate {
		scoreType = "mate"
		scoreValue = int((-Checkmate - score) / 2)
	}

	line := fmt.Sprintf("info depth %d score %s %d nodes %d nps %d time %d pv %s",
		depth, scoreType, scoreValue, nodes, nps, elapsedMs, pvString(pv))
	fmt.Println(line)
	tracelog.SearchLog().Debug(line)
}

// reportBestMove prints the terminal "bestmove" line, with a ponder move
// if the PV contains a reply.
func reportBestMove(pv []board.Move) {
	if len(pv) == 0 || pv[0] == board.NoMove {
		fmt.Println("bestmove (none)")
		return
	}
	if len(pv) > 1 {
		fmt.Printf("bestmove %s ponder %s\n", pv[0], pv[1])
		return
	}
	fmt.Printf("bestmove %s\n", pv[0])
}

func pvString(pv []board.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
