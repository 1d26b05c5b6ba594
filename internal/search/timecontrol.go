package search

import (
	"time"

	"github.com/chessbot/revolver/internal/board"
)

// Limits describes the external time control a root search is run
// under, in UCI terms.
type Limits struct {
	Time      [2]time.Duration // remaining time for White, Black
	Inc       [2]time.Duration // increment per move for White, Black
	MovesToGo int              // moves until next time control; 0 = sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the rest
	Depth     int              // depth cap; 0 = unbounded
	Infinite  bool
}

// TimeControl turns Limits into a concrete search time budget for the
// side to move at the given game ply.
type TimeControl struct {
	Optimum time.Duration
	Maximum time.Duration
}

// Allocate computes the optimum and maximum think time for us at game
// ply, following the same sudden-death estimate and safety margins
// regardless of which side is moving.
func Allocate(limits Limits, us board.Color, ply int) TimeControl {
	if limits.MoveTime > 0 {
		return TimeControl{Optimum: limits.MoveTime, Maximum: limits.MoveTime}
	}

	if limits.Infinite || limits.Time[us] == 0 {
		return TimeControl{Optimum: time.Hour, Maximum: time.Hour}
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft/time.Duration(mtg) + inc*9/10

	optimum := baseTime
	if ply < 8 {
		optimum = baseTime * 85 / 100
	}

	maxFromOptimum := optimum * 5
	maxFromRemaining := timeLeft * 8 / 10
	maximum := maxFromOptimum
	if maxFromRemaining < maxFromOptimum {
		maximum = maxFromRemaining
	}

	safetyMargin := timeLeft * 95 / 100
	if maximum > safetyMargin {
		maximum = safetyMargin
	}

	if optimum < 10*time.Millisecond {
		optimum = 10 * time.Millisecond
	}
	if maximum < 50*time.Millisecond {
		maximum = 50 * time.Millisecond
	}

	return TimeControl{Optimum: optimum, Maximum: maximum}
}
