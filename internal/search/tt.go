package search

import "github.com/chessbot/revolver/internal/board"

// PositionEvaluation is one transposition-table slot: everything a probe
// needs to either resolve a node outright or seed its move ordering.
type PositionEvaluation struct {
	Key              uint32
	BestMove         board.Move
	Depth            int8
	Bound            Bound
	NodeScore        int16 // ply-neutral, see adjustNodeScoreToTT/FromTT
	StaticEvaluation int16
	Age              uint8
}

// TranspositionTable is a fixed-size, power-of-two-bucketed replacement
// cache from position key to PositionEvaluation.
type TranspositionTable struct {
	entries []PositionEvaluation
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable allocates a table sized to approximately sizeMB
// megabytes, rounded down to a power of two entry count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const entrySize = 16 // unsafe.Sizeof(PositionEvaluation{})
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	return &TranspositionTable{
		entries: make([]PositionEvaluation, numEntries),
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up key, returning the stored evaluation and whether it was
// present.
func (tt *TranspositionTable) Probe(key uint64) (PositionEvaluation, bool) {
	tt.probes++
	idx := key & tt.mask
	entry := tt.entries[idx]
	if entry.Key == uint32(key>>32) && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return PositionEvaluation{}, false
}

// Store records a search result for key, subject to the table's
// replacement policy: entries from the current generation are only
// overwritten by equal-or-deeper results; entries from a stale
// generation are always replaced.
func (tt *TranspositionTable) Store(key uint64, depth int, bound Bound, nodeScore, staticEval Score, bestMove board.Move) {
	idx := key & tt.mask
	entry := &tt.entries[idx]

	if entry.Age != tt.age || depth >= int(entry.Depth) {
		entry.Key = uint32(key >> 32)
		entry.BestMove = bestMove
		entry.Depth = int8(depth)
		entry.Bound = bound
		entry.NodeScore = int16(nodeScore)
		entry.StaticEvaluation = int16(staticEval)
		entry.Age = tt.age
	}
}

// NewSearch bumps the table's generation counter; stale entries become
// eligible for replacement regardless of their stored depth.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear empties the table and resets statistics.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = PositionEvaluation{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille of the table occupied by the current
// generation, sampled over the first 1000 entries (or all of them, if
// the table is smaller).
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > uint64(len(tt.entries)) {
		sampleSize = len(tt.entries)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return used * 1000 / sampleSize
}

// HitRate returns the probe hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// adjustNodeScoreFromTT converts a ply-neutral stored score back into a
// score relative to the current search root, so that a mate found N
// plies below this node still reads as "mate in N+ply" once bubbled up.
func adjustNodeScoreFromTT(score Score, ply int) Score {
	if score > Checkmate-Score(MaxDepth) {
		return score - Score(ply)
	}
	if score < -Checkmate+Score(MaxDepth) {
		return score + Score(ply)
	}
	return score
}

// adjustNodeScoreToTT converts a root-relative score into the ply-neutral
// form stored in the table, so it reads correctly when probed from a
// different ply in a later search.
func adjustNodeScoreToTT(score Score, ply int) Score {
	if score > Checkmate-Score(MaxDepth) {
		return score + Score(ply)
	}
	if score < -Checkmate+Score(MaxDepth) {
		return score - Score(ply)
	}
	return score
}
