package engine

import "testing"

func TestBitboardShifts(t *testing.T) {
	// Lose the H file going east, A file going west.
	if v := bbEast(0x8000008080800000); v != 0 {
		t.Errorf("bbEast H-file lost = 0x%016x, want 0", v)
	}
	if v := bbWest(0x0100000101010000); v != 0 {
		t.Errorf("bbWest A-file lost = 0x%016x, want 0", v)
	}
	if v := bbNorth(0x0000000000000001); v != 0x0000000000000100 {
		t.Errorf("bbNorth(a1) = 0x%016x, want 0x0000000000000100", v)
	}
	if v := bbSouth(0x0000000000000100); v != 0x0000000000000001 {
		t.Errorf("bbSouth(a2) = 0x%016x, want 0x0000000000000001", v)
	}
}

func TestSquareBit(t *testing.T) {
	if v := squareBit(0); v != 1 {
		t.Errorf("squareBit(0) = %d, want 1", v)
	}
	if v := squareBit(63); v != 1<<63 {
		t.Errorf("squareBit(63) = %#x, want %#x", v, uint64(1)<<63)
	}
}
