package battleship

const (
	CellUnknown uint8 = iota
	CellMiss
	CellHit
)

type Coordinates struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func NewCoordinates(row, column int) Coordinates {
	return Coordinates{Row: row, Column: column}
}

type Grid [][]uint8

// Creates a new default grid
// All cells are CellUnknown
func NewGrid(rows, columns int) Grid {
	grid := make(Grid, rows)

	for i := 0; i < rows; i++ {
		grid[i] = make([]uint8, columns)
	}
	return grid
}

func (g Grid) isInBound(row, column int) bool {
	return row >= 0 && row < len(g) && column >= 0 && column < len(g[row])
}

// occupancy is used only while placing the fleet. Each cell holds
// the id of the ship on it plus one, zero meaning empty water.
type occupancy [][]int

func newOccupancy(rows, columns int) occupancy {
	occ := make(occupancy, rows)
	for i := range occ {
		occ[i] = make([]int, columns)
	}
	return occ
}

// isFree reports whether the cell and its eight neighbours are empty.
func (o occupancy) isFree(row, column int) bool {
	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= len(o) {
			continue
		}
		for c := column - 1; c <= column+1; c++ {
			if c < 0 || c >= len(o[r]) {
				continue
			}
			if o[r][c] != 0 {
				return false
			}
		}
	}
	return true
}

func (o occupancy) canHold(sh *Ship) bool {
	for _, coords := range sh.Cells() {
		if !o.isFree(coords.Row, coords.Column) {
			return false
		}
	}
	return true
}

func (o occupancy) mark(sh *Ship) {
	for _, coords := range sh.Cells() {
		o[coords.Row][coords.Column] = sh.Id + 1
	}
}
