// Package sim drives simulation batches: many independent games of one
// algorithm against freshly placed boards, fanned out across a worker
// pool, with per-game seeds derived from the batch seed so results are
// byte-identical regardless of worker count or scheduling.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/mdelaney-dev/broadside/internal/board"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

// EngineVersion is stamped into results; set at build time via ldflags.
var EngineVersion = "dev"

// BatchRequest describes one simulation batch.
type BatchRequest struct {
	Algorithm string        `json:"algorithm"`
	NumGames  int           `json:"num_games"`
	BoardSize int           `json:"board_size"`
	Seed      uint64        `json:"seed"`
	Placement *board.Placer `json:"-"`
}

// gameJob is a contiguous range of game indexes handed to one worker.
type gameJob struct {
	start int // inclusive
	end   int // exclusive
}

// gameOutcome is one finished game. Cells carries every coordinate the
// algorithm fired at, for heat-map accumulation.
type gameOutcome struct {
	index int
	shots int
	cells []board.Coord
	err   error
}

// Runner executes batches against a registry of algorithms.
type Runner struct {
	registry    *targeting.Registry
	workerCount int
}

// NewRunner returns a runner sized to the machine.
func NewRunner(reg *targeting.Registry) *Runner {
	return &Runner{
		registry:    reg,
		workerCount: runtime.GOMAXPROCS(0),
	}
}

// Run plays req.NumGames games and aggregates shot counts and the board
// heat map. Protocol violations fail the offending game, not the batch;
// setup errors such as an unplaceable fleet abort the whole batch.
func (rn *Runner) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if req.NumGames < 1 {
		return nil, ErrNoGames
	}
	placer := req.Placement
	if placer == nil {
		placer = &board.Placer{
			Mode:   board.PlacementRandom,
			Size:   req.BoardSize,
			Config: board.ClassicConfig(),
		}
	}
	if err := placer.Validate(); err != nil {
		return nil, err
	}
	// Probe the algorithm id before spinning up workers.
	if _, err := rn.registry.Create(req.Algorithm, req.BoardSize, placer.Config, req.Seed); err != nil {
		return nil, err
	}

	jobs := make(chan gameJob, rn.workerCount*2)
	outcomes := make(chan gameOutcome, rn.workerCount*2)

	// Workers run under a child context so a fatal setup error can stop
	// the remaining games early.
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < rn.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rn.worker(workerCtx, req, placer, jobs, outcomes)
		}()
	}

	go generateJobs(workerCtx, jobs, req.NumGames)
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return collect(ctx, cancel, req, outcomes)
}

// worker plays every game in every job it receives.
func (rn *Runner) worker(ctx context.Context, req BatchRequest, placer *board.Placer, jobs <-chan gameJob, outcomes chan<- gameOutcome) {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			for game := job.start; game < job.end; game++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				outcome := rn.playGame(req, placer, game)
				select {
				case outcomes <- outcome:
				case <-ctx.Done():
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// playGame runs one game to completion. The game index, not the worker,
// determines every random decision: both the layout RNG and the
// algorithm seed derive from the batch seed and the index.
func (rn *Runner) playGame(req BatchRequest, placer *board.Placer, game int) gameOutcome {
	gameSeed := deriveSeed(req.Seed, game)
	layoutRNG := rand.New(rand.NewPCG(gameSeed, uint64(game)))

	b, err := placer.NewBoard(layoutRNG)
	if err != nil {
		return gameOutcome{index: game, err: err}
	}
	algo, err := rn.registry.Create(req.Algorithm, b.Size(), placer.Config, gameSeed)
	if err != nil {
		return gameOutcome{index: game, err: err}
	}

	size := b.Size()
	fired := make(map[board.Coord]struct{}, b.TotalSegments()*2)
	hits := make([]board.Coord, 0, b.TotalSegments())
	cells := make([]board.Coord, 0, b.TotalSegments()*2)

	for shots := 0; shots < size*size; shots++ {
		shot, err := algo.NextShot(b.View(), hits)
		if err != nil {
			return gameOutcome{index: game, cells: cells,
				err: fmt.Errorf("%w: %v", ErrProtocolViolation, err)}
		}
		if shot.R < 0 || shot.R >= size || shot.C < 0 || shot.C >= size {
			return gameOutcome{index: game, cells: cells,
				err: fmt.Errorf("%w: shot (%d,%d) off board", ErrProtocolViolation, shot.R, shot.C)}
		}
		if _, dup := fired[shot]; dup {
			return gameOutcome{index: game, cells: cells,
				err: fmt.Errorf("%w: repeated shot (%d,%d)", ErrProtocolViolation, shot.R, shot.C)}
		}
		fired[shot] = struct{}{}
		cells = append(cells, shot)

		if b.TakeShot(shot.R, shot.C) == board.Hit {
			hits = append(hits, shot)
		}
		if b.IsOver() {
			return gameOutcome{index: game, shots: shots + 1, cells: cells}
		}
	}
	// Unreachable for a correct board: size*size distinct shots cover
	// every cell, so the fleet must be sunk by now.
	return gameOutcome{index: game, cells: cells,
		err: fmt.Errorf("%w: fleet not sunk after covering the board", ErrProtocolViolation)}
}

// collect assembles outcomes into a BatchResult, indexed by game so the
// result is independent of arrival order. A protocol violation fails its
// game only; any other game error is a setup fault and fails the batch.
func collect(ctx context.Context, cancel context.CancelFunc, req BatchRequest, outcomes <-chan gameOutcome) (*BatchResult, error) {
	shots := make([]int, req.NumGames)
	failed := make([]error, req.NumGames)
	heat := newHeatMap(req.BoardSize)
	seen := 0
	var fatal error

	for outcome := range outcomes {
		seen++
		for _, cell := range outcome.cells {
			heat[cell.R][cell.C]++
		}
		if outcome.err != nil {
			if !errors.Is(outcome.err, ErrProtocolViolation) && fatal == nil {
				fatal = outcome.err
				cancel()
			}
			failed[outcome.index] = outcome.err
			continue
		}
		shots[outcome.index] = outcome.shots
	}
	if fatal != nil {
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen != req.NumGames {
		return nil, fmt.Errorf("batch incomplete: %d of %d games finished", seen, req.NumGames)
	}

	result := &BatchResult{
		Algorithm:     req.Algorithm,
		NumGames:      req.NumGames,
		BoardSize:     req.BoardSize,
		Seed:          req.Seed,
		ShotsPerGame:  make([]int, 0, req.NumGames),
		HeatMap:       heat,
		EngineVersion: EngineVersion,
	}
	for game := 0; game < req.NumGames; game++ {
		if failed[game] != nil {
			result.Failures = append(result.Failures, GameFailure{
				Game:   game,
				Reason: failed[game].Error(),
			})
			continue
		}
		result.ShotsPerGame = append(result.ShotsPerGame, shots[game])
	}
	return result, nil
}

func generateJobs(ctx context.Context, jobs chan<- gameJob, numGames int) {
	defer close(jobs)

	const batchSize = 16
	for start := 0; start < numGames; start += batchSize {
		end := start + batchSize
		if end > numGames {
			end = numGames
		}
		select {
		case jobs <- gameJob{start: start, end: end}:
		case <-ctx.Done():
			return
		}
	}
}

// deriveSeed mixes the batch seed with the game index (splitmix64
// finalizer) so consecutive games get decorrelated streams.
func deriveSeed(base uint64, game int) uint64 {
	z := base + uint64(game+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
