package board

// Coord is a 0-indexed (row, col) pair on a square board.
type Coord struct {
	R int `json:"r"`
	C int `json:"c"`
}

// Ship is a named shape: a set of cell offsets from a local (0,0) anchor.
// Shapes may be linear (the classic fleet) or arbitrary polyominoes.
type Ship struct {
	Name  string  `json:"name"`
	Shape []Coord `json:"shape"`
}

// Config is the ordered list of ships placed for every game in a batch.
type Config []Ship

// TotalSegments returns the sum of all shape sizes.
func (c Config) TotalSegments() int {
	total := 0
	for _, ship := range c {
		total += len(ship.Shape)
	}
	return total
}

// Sizes returns the shape size of each ship, in configuration order.
func (c Config) Sizes() []int {
	sizes := make([]int, len(c))
	for i, ship := range c {
		sizes[i] = len(ship.Shape)
	}
	return sizes
}

// ClassicConfig returns the standard five-ship fleet.
func ClassicConfig() Config {
	return Config{
		{Name: "Carrier", Shape: row(5)},
		{Name: "Battleship", Shape: row(4)},
		{Name: "Cruiser", Shape: row(3)},
		{Name: "Submarine", Shape: row(3)},
		{Name: "Destroyer", Shape: row(2)},
	}
}

// ModernConfig returns a non-linear example fleet. The odd shapes exercise
// the rotation/flip placement path and give targeting algorithms a harder
// time than straight lines.
func ModernConfig() Config {
	return Config{
		{Name: "Command Ship", Shape: []Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
		{Name: "L-Patrol Ship", Shape: []Coord{{0, 0}, {1, 0}, {2, 0}, {2, 1}}},
		{Name: "Asymmetrical Cruiser", Shape: []Coord{{0, 1}, {1, 0}, {1, 1}, {1, 2}}},
		{Name: "Scout Ship", Shape: []Coord{{0, 0}, {1, 1}}},
		{Name: "Single-Cell Buoy", Shape: []Coord{{0, 0}}},
	}
}

func row(n int) []Coord {
	cells := make([]Coord, n)
	for i := range cells {
		cells[i] = Coord{0, i}
	}
	return cells
}
