package generic

import (
	"math/rand/v2"

	"github.com/mdelaney-dev/broadside/internal/board"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

type shotResult uint8

const (
	resultNone shotResult = iota
	resultHit
	resultMiss
)

// Interpreter executes a Document as a finite-state machine, one step per
// NextShot call. It satisfies the targeting.Algorithm contract, so a
// document-defined strategy is indistinguishable from a compiled one to the
// simulation driver.
type Interpreter struct {
	doc       *Document
	boardSize int
	rng       *rand.Rand

	state      string
	queues     map[string][]board.Coord
	vars       map[string]int
	fired      map[board.Coord]struct{}
	activeHits map[board.Coord]struct{}
	lastShot   *board.Coord
}

var _ targeting.Algorithm = (*Interpreter)(nil)

// New builds a seeded interpreter over a parsed document. The document is
// shared read-only; all mutable state is per instance.
func New(doc *Document, boardSize int, seed uint64) *Interpreter {
	in := &Interpreter{
		doc:       doc,
		boardSize: boardSize,
		rng:       rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15)),
	}
	in.Reset()
	return in
}

func (in *Interpreter) Name() string { return in.doc.Name }

// CurrentState exposes the machine's state name for tests and debugging.
func (in *Interpreter) CurrentState() string { return in.state }

// Variable returns the current value of a named counter.
func (in *Interpreter) Variable(name string) int { return in.vars[name] }

// Reset rebuilds all per-game state from the document's declarations and
// runs the initial state's entry actions.
func (in *Interpreter) Reset() {
	in.state = in.doc.InitialState
	in.queues = make(map[string][]board.Coord, len(in.doc.Queues))
	for _, q := range in.doc.Queues {
		in.queues[q] = nil
	}
	in.vars = make(map[string]int, len(in.doc.Variables))
	for name, v := range in.doc.Variables {
		in.vars[name] = v
	}
	in.fired = make(map[board.Coord]struct{})
	in.activeHits = make(map[board.Coord]struct{})
	in.lastShot = nil

	in.runOnEntry(nil)
}

func (in *Interpreter) NextShot(view board.View, hits []board.Coord) (board.Coord, error) {
	// The view tells us about misses; hits are inferred from the history
	// delta because a HIT marker in the view alone can't distinguish a new
	// hit from one already absorbed.
	result := resultNone
	if in.lastShot != nil && view[in.lastShot.R][in.lastShot.C] == board.CellMiss {
		result = resultMiss
	}
	for _, hit := range hits {
		if _, known := in.activeHits[hit]; !known {
			in.activeHits[hit] = struct{}{}
			result = resultHit
		}
	}

	in.checkTransitions(result, hits)

	shot, ok := in.nextShotFromActions(hits)
	if !ok {
		var err error
		shot, err = in.randomUnfired()
		if err != nil {
			return board.Coord{}, err
		}
	}

	in.fired[shot] = struct{}{}
	in.lastShot = &shot
	return shot, nil
}

// checkTransitions fires at most the first passing transition of the current
// state, then runs the new state's entry actions with the latest hit as
// context.
func (in *Interpreter) checkTransitions(result shotResult, hits []board.Coord) {
	state := in.doc.States[in.state]
	for _, t := range state.Transitions {
		if !in.evalCondition(&t.Cond, result) {
			continue
		}
		in.state = t.Next
		var lastHit *board.Coord
		if result == resultHit && len(hits) > 0 {
			h := hits[len(hits)-1]
			lastHit = &h
		}
		in.runOnEntry(lastHit)
		return
	}
}

func (in *Interpreter) runOnEntry(lastHit *board.Coord) {
	state := in.doc.States[in.state]
	for i := range state.OnEntry {
		in.execute(&state.OnEntry[i], lastHit)
	}
}

// nextShotFromActions walks the state's next_shot program in order and
// returns the first unfired coordinate an unguarded-or-passing action
// yields.
func (in *Interpreter) nextShotFromActions(hits []board.Coord) (board.Coord, bool) {
	state := in.doc.States[in.state]
	var lastHit *board.Coord
	if len(hits) > 0 {
		h := hits[len(hits)-1]
		lastHit = &h
	}

	for i := range state.NextShot {
		action := &state.NextShot[i]
		if action.Cond != nil && !in.evalCondition(action.Cond, resultNone) {
			continue
		}
		if shot, ok := in.execute(action, lastHit); ok {
			if _, fired := in.fired[shot]; !fired {
				return shot, true
			}
		}
	}
	return board.Coord{}, false
}

// execute runs one action. Only shot-producing kinds return a coordinate.
func (in *Interpreter) execute(a *Action, lastHit *board.Coord) (board.Coord, bool) {
	switch a.Kind {
	case ActionPopQueue:
		q := in.queues[a.Queue]
		for len(q) > 0 {
			shot := q[0]
			q = q[1:]
			if _, fired := in.fired[shot]; !fired {
				in.queues[a.Queue] = q
				return shot, true
			}
		}
		in.queues[a.Queue] = q

	case ActionRandomShot:
		if shot, err := in.randomUnfired(); err == nil {
			return shot, true
		}

	case ActionDiagonalHunt:
		in.queues[a.Queue] = append(in.queues[a.Queue], in.diagonalHunt()...)

	case ActionCheckerboardHunt:
		in.queues[a.Queue] = append(in.queues[a.Queue], in.checkerboardHunt()...)

	case ActionIncrementVariable:
		in.vars[a.Variable]++

	case ActionAdjacentToQueue:
		if lastHit != nil {
			r, c := lastHit.R, lastHit.C
			in.enqueueValid(a.Queue, []board.Coord{{R: r - 1, C: c}, {R: r + 1, C: c}, {R: r, C: c - 1}, {R: r, C: c + 1}})
		}

	case ActionP2M2ToQueue:
		if lastHit != nil {
			r, c := lastHit.R, lastHit.C
			in.enqueueValid(a.Queue, []board.Coord{{R: r - 2, C: c}, {R: r + 2, C: c}, {R: r, C: c - 2}, {R: r, C: c + 2}})
		}
	}
	return board.Coord{}, false
}

func (in *Interpreter) evalCondition(c *Condition, result shotResult) bool {
	switch c.Kind {
	case CondOnHit:
		return result == resultHit
	case CondOnMiss:
		return result == resultMiss
	case CondQueueEmpty:
		return len(in.queues[c.Queue]) == 0
	case CondVarLessEqual:
		return in.vars[c.Variable] <= c.Value
	default:
		return false
	}
}

func (in *Interpreter) enqueueValid(queue string, shots []board.Coord) {
	for _, shot := range shots {
		if shot.R < 0 || shot.R >= in.boardSize || shot.C < 0 || shot.C >= in.boardSize {
			continue
		}
		if _, fired := in.fired[shot]; fired {
			continue
		}
		in.queues[queue] = append(in.queues[queue], shot)
	}
}

// diagonalHunt materializes the anti-diagonal sweep filtered to parity 0.
func (in *Interpreter) diagonalHunt() []board.Coord {
	var path []board.Coord
	for k := 0; k < in.boardSize*2-1; k++ {
		start := len(path)
		for r := 0; r < in.boardSize; r++ {
			c := k - r
			if c >= 0 && c < in.boardSize {
				path = append(path, board.Coord{R: r, C: c})
			}
		}
		if k%2 == 1 {
			for i, j := start, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
		}
	}
	filtered := path[:0]
	for _, cell := range path {
		if (cell.R+cell.C)%2 == 0 {
			filtered = append(filtered, cell)
		}
	}
	return filtered
}

// checkerboardHunt materializes a randomized checkerboard: the chosen parity
// shuffled, then the opposite parity shuffled.
func (in *Interpreter) checkerboardHunt() []board.Coord {
	parity := in.rng.IntN(2)
	var primary, secondary []board.Coord
	for r := 0; r < in.boardSize; r++ {
		for c := 0; c < in.boardSize; c++ {
			if (r+c)%2 == parity {
				primary = append(primary, board.Coord{R: r, C: c})
			} else {
				secondary = append(secondary, board.Coord{R: r, C: c})
			}
		}
	}
	in.rng.Shuffle(len(primary), func(i, j int) { primary[i], primary[j] = primary[j], primary[i] })
	in.rng.Shuffle(len(secondary), func(i, j int) { secondary[i], secondary[j] = secondary[j], secondary[i] })
	return append(primary, secondary...)
}

// randomUnfired picks uniformly among unfired cells, scanning in row order
// so the pick depends only on the RNG stream.
func (in *Interpreter) randomUnfired() (board.Coord, error) {
	var open []board.Coord
	for r := 0; r < in.boardSize; r++ {
		for c := 0; c < in.boardSize; c++ {
			cell := board.Coord{R: r, C: c}
			if _, fired := in.fired[cell]; !fired {
				open = append(open, cell)
			}
		}
	}
	if len(open) == 0 {
		return board.Coord{}, targeting.ErrExhausted
	}
	return open[in.rng.IntN(len(open))], nil
}
