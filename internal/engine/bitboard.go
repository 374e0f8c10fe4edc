package engine

// Low-level bitboard shift helpers, adapted from the teacher's
// engine/bitboard.go. Bit 0 (low bit) is square A1, bit 63 is H8, so a
// rank increase is a left shift by 8.

const fileA uint64 = 0x0101010101010101
const fileH uint64 = 0x8080808080808080

func bbNorth(bb uint64) uint64 { return bb << 8 }
func bbSouth(bb uint64) uint64 { return bb >> 8 }
func bbWest(bb uint64) uint64  { return (bb &^ fileA) >> 1 }
func bbEast(bb uint64) uint64  { return (bb &^ fileH) << 1 }

func squareBit(sq uint8) uint64 { return uint64(1) << sq }
