package engine

// Config collects every tunable constant the search uses, so that it can
// be swept by a tuner without touching code (spec §9 "Configuration as
// data"). The teacher kept these as loose package vars; we thread a
// single struct through Search/Coordinator instead, which is the only
// deliberate deviation from the teacher's texture that the spec calls
// for outright.
type Config struct {
	// Hash table size in megabytes.
	HashMB int

	// Threads is accepted for UCI compatibility but constrained to 1
	// (spec §1 Non-goals: no lazy SMP).
	Threads int

	// MoveOverheadMs is subtracted from the hard time bound to leave
	// room for engine-external latency (GUI, network).
	MoveOverheadMs int

	UseNullMove           bool
	NullMoveMinDepth       int
	NullMoveBaseReduction  int
	NullMoveDivisor        int
	NullMoveMinNonPawns    int

	UseReverseFutility     bool
	ReverseFutilityMaxDepth int
	ReverseFutilityMargin  Score // per depth-to-go

	UseInternalIterativeReduction bool
	IIRMinDepth                   int

	UseLateMovePruning bool
	LMPMaxDepth        int
	LMPBaseImproving   int
	LMPBaseNotImproving int

	UseFutility     bool
	FutilityMaxDepth int
	FutilityMargin   Score // per depth-to-go

	UseLMR      bool
	LMRMinDepth int
	LMRMinMoveIndex int

	UseSEEPruning bool

	AspirationMinDepth int
	AspirationInitialDelta Score

	NullWindowEval Score // mate clamp guard for null-move results

	NodeCheckInterval uint64 // poll the stop flag every N nodes
}

// DefaultConfig mirrors the teacher's defaults (engine/config.go), with
// the reduction/pruning margins brought in line with the shapes the
// CounterGo reference uses, per spec §9's instruction to reproduce the
// shape rather than invent numbers.
func DefaultConfig() Config {
	return Config{
		HashMB:         16,
		Threads:        1,
		MoveOverheadMs: 30,

		UseNullMove:          true,
		NullMoveMinDepth:      3,
		NullMoveBaseReduction: 3,
		NullMoveDivisor:       6,
		NullMoveMinNonPawns:   4,

		UseReverseFutility:      true,
		ReverseFutilityMaxDepth: 8,
		ReverseFutilityMargin:   120,

		UseInternalIterativeReduction: true,
		IIRMinDepth:                   6,

		UseLateMovePruning:  true,
		LMPMaxDepth:         8,
		LMPBaseImproving:    6,
		LMPBaseNotImproving: 3,

		UseFutility:      true,
		FutilityMaxDepth: 8,
		FutilityMargin:   100,

		UseLMR:          true,
		LMRMinDepth:     3,
		LMRMinMoveIndex: 1,

		UseSEEPruning: true,

		AspirationMinDepth:     5,
		AspirationInitialDelta: 15,

		NullWindowEval: Mate - MaxPly,

		NodeCheckInterval: 2048,
	}
}
