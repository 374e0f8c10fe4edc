// Command hardfiskur is a UCI chess engine.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	dragon "github.com/Bubblyworld/dragontoothmg"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/t-veor/hardfiskur/internal/engine"
)

var VersionString = "hardfiskur 0.1"

func main() {
	profileMode := flag.String("profile", "", "enable profiling (cpu, mem, trace); writes to ./profiles")
	benchDepth := flag.Int("bench-depth", 12, "search depth used by the bench subcommand")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile).Stop()
	case "":
	default:
		fmt.Fprintln(os.Stderr, "unknown -profile mode:", *profileMode)
		os.Exit(1)
	}

	if flag.NArg() > 0 && flag.Arg(0) == "bench" {
		runBench(*benchDepth)
		return
	}

	uciLoop()
}

// uciLoop is the engine's UCI protocol loop: stdin commands in, stdout
// replies out. Grounded on the teacher's uciLoop (mains/uci/main.go),
// generalized from its fixed-depth uciSearch/halt-channel pair to drive
// the Coordinator's iterative deepening and to support setoption/go
// parameters the teacher never parsed (movestogo/depth/nodes/movetime).
func uciLoop() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	cfg := engine.DefaultConfig()
	eng := engine.NewEngine(cfg, logger)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cancelSearch context.CancelFunc
	var searchDone chan struct{}
	maxDepth := engine.MaxPly - 1

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name", VersionString)
			fmt.Println("id author t-veor")
			fmt.Println("option name Hash type spin default", cfg.HashMB, "min 1 max 4096")
			fmt.Println("option name Threads type spin default 1 min 1 max 1")
			fmt.Println("option name Move Overhead type spin default", cfg.MoveOverheadMs, "min 0 max 5000")
			fmt.Println("option name Clear Hash type button")
			fmt.Println("option name Ponder type check default false")
			fmt.Println("uciok")

		case "isready":
			fmt.Println("readyok")

		case "ucinewgame":
			eng.NewGame()

		case "setoption":
			handleSetOption(eng, tokens)

		case "position":
			if err := handlePosition(eng, line); err != nil {
				fmt.Println("info string", err)
			}

		case "go":
			if cancelSearch != nil {
				cancelSearch()
				<-searchDone
			}
			var ctx context.Context
			ctx, cancelSearch = context.WithCancel(context.Background())
			params, depthLimit := parseGoCommand(line)
			if depthLimit <= 0 {
				depthLimit = maxDepth
			}
			searchDone = make(chan struct{})
			go func(done chan struct{}) {
				defer close(done)
				result := eng.Go(ctx, params, depthLimit, printInfo)
				if result.Ponder != engine.NoMove {
					fmt.Println("bestmove", result.BestMove.String(), "ponder", result.Ponder.String())
				} else {
					fmt.Println("bestmove", result.BestMove.String())
				}
			}(searchDone)

		case "stop":
			if cancelSearch != nil {
				cancelSearch()
			}

		case "quit":
			if cancelSearch != nil {
				cancelSearch()
			}
			return

		default:
			fmt.Println("info string unknown command:", line)
		}
	}
}

func printInfo(line engine.InfoLine) {
	fmt.Print("info depth ", line.Depth, " seldepth ", line.SelDepth)
	if line.Mate != 0 {
		fmt.Print(" score mate ", line.Mate)
	} else {
		fmt.Print(" score cp ", line.ScoreCp)
	}
	fmt.Print(" nodes ", line.Nodes, " nps ", line.Nps, " time ", line.TimeMs, " hashfull ", line.HashFull)
	fmt.Print(" pv")
	for _, m := range line.PV {
		fmt.Print(" ", m.String())
	}
	fmt.Println()
}

// handleSetOption recognizes the options spec §6 lists: Hash, Threads
// (accepted but fixed at 1), Move Overhead, and the Clear Hash button,
// which — unlike the others — carries no "value" clause.
func handleSetOption(eng *engine.Engine, tokens []string) {
	if len(tokens) < 3 || tokens[1] != "name" {
		fmt.Println("info string malformed setoption command")
		return
	}

	valueIdx := -1
	for i, tok := range tokens {
		if tok == "value" {
			valueIdx = i
			break
		}
	}

	var name, value string
	if valueIdx < 0 {
		name = strings.ToLower(strings.Join(tokens[2:], " "))
	} else {
		name = strings.ToLower(strings.Join(tokens[2:valueIdx], " "))
		if valueIdx+1 < len(tokens) {
			value = strings.Join(tokens[valueIdx+1:], " ")
		}
	}

	switch name {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil {
			eng.Cfg.HashMB = mb
			eng.TT.Resize(mb)
		}
	case "threads":
		// Constrained to 1 (spec §1 Non-goals: no lazy SMP); accepted
		// and ignored so GUIs that always send it don't see an error.
	case "ponder":
		// Pondering itself is a Non-goal; accepted and ignored so GUIs
		// that always send it don't see an error. The ponder move is
		// still reported in "bestmove" regardless of this setting.
	case "move overhead":
		if ms, err := strconv.Atoi(value); err == nil {
			eng.Cfg.MoveOverheadMs = ms
		}
	case "clear hash":
		eng.TT.Clear()
		eng.History.Clear()
	default:
		fmt.Println("info string unknown option", name)
	}
}

// handlePosition parses a "position [startpos|fen <fen>] [moves ...]"
// command, the same two-branch shape as the teacher's posScanner loop.
func handlePosition(eng *engine.Engine, line string) error {
	scanner := bufio.NewScanner(strings.NewReader(line))
	scanner.Split(bufio.ScanWords)
	scanner.Scan() // "position"
	if !scanner.Scan() {
		return fmt.Errorf("malformed position command")
	}

	var fen string
	switch strings.ToLower(scanner.Text()) {
	case "startpos":
		fen = dragon.Startpos
		scanner.Scan()
	case "fen":
		var fields []string
		for scanner.Scan() && strings.ToLower(scanner.Text()) != "moves" {
			fields = append(fields, scanner.Text())
		}
		fen = strings.Join(fields, " ")
	default:
		return fmt.Errorf("invalid position subcommand")
	}

	var moves []string
	if strings.ToLower(scanner.Text()) == "moves" {
		for scanner.Scan() {
			moves = append(moves, strings.ToLower(scanner.Text()))
		}
	}

	return eng.SetPosition(fen, moves)
}

// parseGoCommand extracts the clock/limit arguments from a "go" command,
// extending the teacher's goScanner (which only understood
// wtime/btime/winc/binc/infinite) with movestogo/depth/movetime/nodes
// per spec §4.6.
func parseGoCommand(line string) (engine.GoParams, int) {
	var params engine.GoParams
	depthLimit := 0

	scanner := bufio.NewScanner(strings.NewReader(line))
	scanner.Split(bufio.ScanWords)
	scanner.Scan() // "go"

	for scanner.Scan() {
		switch strings.ToLower(scanner.Text()) {
		case "infinite":
			params.Infinite = true
		case "wtime":
			params.WTimeMs = nextInt(scanner)
		case "btime":
			params.BTimeMs = nextInt(scanner)
		case "winc":
			params.WIncMs = nextInt(scanner)
		case "binc":
			params.BIncMs = nextInt(scanner)
		case "movestogo":
			params.MovesToGo = nextInt(scanner)
		case "movetime":
			params.MoveTimeMs = nextInt(scanner)
		case "depth":
			depthLimit = nextInt(scanner)
		case "nodes":
			params.NodesLimit = uint64(nextInt(scanner))
		case "ponder", "searchmoves":
			// Not implemented (spec §1 Non-goals); consume nothing further.
		}
	}
	return params, depthLimit
}

func nextInt(scanner *bufio.Scanner) int {
	if !scanner.Scan() {
		return 0
	}
	n, _ := strconv.Atoi(scanner.Text())
	return n
}

// runBench runs a fixed-depth search over a small suite of fixed positions
// and reports aggregate nodes/nps, the same fixed-depth role the teacher's
// mains/prof/main.go plays but without profiling attached by default (use
// -profile=cpu together with "bench" to combine the two).
func runBench(depth int) {
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	cfg := engine.DefaultConfig()
	eng := engine.NewEngine(cfg, logger)

	positions := []string{
		dragon.Startpos,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 0 4",
		"rnbqkb1r/pp1p1ppp/2p2n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR w KQkq - 0 4",
		"8/8/8/8/8/8/6k1/4K2R w K - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}

	start := time.Now()
	var totalNodes uint64
	for _, fen := range positions {
		eng.NewGame()
		if err := eng.SetPosition(fen, nil); err != nil {
			fmt.Fprintln(os.Stderr, "bench: bad fen:", err)
			continue
		}
		result := eng.Go(context.Background(), engine.GoParams{}, depth, nil)
		totalNodes += result.Stats.Nodes
		fmt.Println("info string bench", fen, "nodes", result.Stats.Nodes, "bestmove", result.BestMove.String())
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()
	fmt.Printf("bench: %d nodes %.0f nps %s\n", totalNodes, nps, elapsed)
}
