package engine

// Stats accumulates counters for a single search, in the spirit of the
// teacher's SearchStatsT but trimmed to what the coordinator actually
// reports (nodes/nps/hashfull) or that tests assert on, rather than the
// teacher's large swept-and-forgotten instrumentation surface.
type Stats struct {
	Nodes      uint64
	QNodes     uint64
	TTHits     uint64
	TTCuts     uint64
	NullMoveCuts uint64
	FirstChildCuts uint64
	BetaCuts   uint64
	Mates      uint64
	PosRepetitions uint64
	SelDepth   int
}
