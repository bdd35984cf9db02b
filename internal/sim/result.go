package sim

// GameFailure records a game abandoned because its algorithm broke the
// shot protocol (off-board shot, repeated shot, or giving up early).
type GameFailure struct {
	Game   int    `json:"game"`
	Reason string `json:"reason"`
}

// BatchResult holds the raw outcome of a simulation batch. Shot counts
// are kept per game, in game order, so results are identical no matter
// how games were distributed across workers.
type BatchResult struct {
	Algorithm     string        `json:"algorithm"`
	NumGames      int           `json:"num_games"`
	BoardSize     int           `json:"board_size"`
	Seed          uint64        `json:"seed"`
	ShotsPerGame  []int         `json:"shots_per_game"`
	HeatMap       [][]int       `json:"heat_map"`
	Failures      []GameFailure `json:"failures,omitempty"`
	EngineVersion string        `json:"engine_version"`
}

// Completed returns the number of games that finished without a
// protocol violation.
func (r *BatchResult) Completed() int {
	return len(r.ShotsPerGame)
}

func newHeatMap(size int) [][]int {
	hm := make([][]int, size)
	for i := range hm {
		hm[i] = make([]int, size)
	}
	return hm
}
