package engine

import (
	"testing"

	"github.com/matryer/is"
)

func TestTTStoreProbeRoundTrip(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	key := uint64(0xdeadbeefcafef00d)
	tt.Store(key, Move(0x1234), 150, 120, 7, BoundExact)

	entry, ok := tt.Probe(key)
	is.True(ok)
	is.Equal(entry.Move, Move(0x1234))
	is.Equal(entry.Score, Score(150))
	is.Equal(entry.StaticEval, Score(120))
	is.Equal(entry.Depth, 7)
	is.Equal(entry.Bound, BoundExact)
}

func TestTTProbeMiss(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	_, ok := tt.Probe(12345)
	is.True(!ok)
}

func TestTTClearRemovesEntries(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	key := uint64(42)
	tt.Store(key, NoMove, 10, 10, 3, BoundExact)
	tt.Clear()
	_, ok := tt.Probe(key)
	is.True(!ok)
}

func TestTTAdjustedRoundTripPreservesMateDistance(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	key := uint64(99)
	const ply = 4
	tt.StoreAdjusted(key, NoMove, mateIn(2), 0, 10, ply, BoundExact)

	entry, ok := tt.ProbeAdjusted(key, ply)
	is.True(ok)
	is.Equal(entry.Score, mateIn(2))

	// Retrieved from a different ply, the same node-relative entry should
	// report a different root-relative mate distance.
	entryAtRoot, ok := tt.ProbeAdjusted(key, 0)
	is.True(ok)
	is.True(entryAtRoot.Score != entry.Score)
}

func TestTTDeeperEntryNotEvictedByShallower(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	key := uint64(7)
	tt.Store(key, Move(1), 100, 100, 10, BoundExact)
	tt.Store(key, Move(2), 50, 50, 2, BoundUpper)

	entry, ok := tt.Probe(key)
	is.True(ok)
	is.Equal(entry.Depth, 10)
	is.Equal(entry.Move, Move(1))
}

func TestTTHashFullEmptyTable(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	is.Equal(tt.HashFull(), 0)
}

func TestTTNewGenerationWrapsAt64(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(1)
	for i := 0; i < 64; i++ {
		tt.NewGeneration()
	}
	is.Equal(tt.generation, uint8(0))
}
