package engine

import (
	"github.com/daystram/hybridchess/board"
)

type EntryType uint8

const DefaultHashTableSize = 1 << 16 // number of entries

const (
	EntryTypeUnknown EntryType = iota
	EntryTypeExact
	EntryTypeLowerBound
	EntryTypeUpperBound
)

// TranspositionTable caches minimax results of a single root search. Entries
// are keyed by the exact remaining depth, so a hit never substitutes a
// shallower or deeper result. It is not safe for concurrent use; each search
// worker owns its table.
type TranspositionTable struct {
	table map[ttKey]entry
	size  int

	// stats
	hits   int
	misses int
	writes int
}

type ttKey struct {
	b          board.Board
	depth      uint8
	maximizing bool
}

type entry struct {
	typ   EntryType
	score int32
}

func NewTranspositionTable(size int) *TranspositionTable {
	return &TranspositionTable{
		table: make(map[ttKey]entry, min(size, 1<<12)),
		size:  size,
	}
}

func (t *TranspositionTable) Set(typ EntryType, b board.Board, depth uint8, maximizing bool, score int32) {
	if t == nil {
		return
	}
	key := ttKey{b: b, depth: depth, maximizing: maximizing}
	if _, ok := t.table[key]; !ok && len(t.table) >= t.size {
		return
	}
	t.writes++
	t.table[key] = entry{typ: typ, score: score}
}

func (t *TranspositionTable) Get(b board.Board, depth uint8, maximizing bool) (EntryType, int32, bool) {
	if t == nil {
		return EntryTypeUnknown, 0, false
	}
	e, ok := t.table[ttKey{b: b, depth: depth, maximizing: maximizing}]
	if !ok {
		t.misses++
		return EntryTypeUnknown, 0, false
	}
	t.hits++
	return e.typ, e.score, true
}

func (t *TranspositionTable) ResetStats() {
	if t == nil {
		return
	}
	t.hits = 0
	t.misses = 0
	t.writes = 0
}

func (t *TranspositionTable) Stats() (int, int, int) {
	if t == nil {
		return 0, 0, 0
	}
	return t.hits, t.misses, t.writes
}
