package battleship

import "fmt"

// Largest ship size handed out by the sizing policy. Ship i
// gets size 1 + i%MaxShipSize.
const MaxShipSize = 4

const ShipInfoDelimiter = "#"

type Orientation byte

const (
	Horizontal Orientation = 'H'
	Vertical   Orientation = 'V'
)

func (o Orientation) String() string {
	return string(o)
}

type Ship struct {
	Id          int
	Row         int
	Column      int
	Orientation Orientation
	Size        int
	hits        int
}

func NewShip(id, row, column int, orientation Orientation, size int) *Ship {
	return &Ship{
		Id:          id,
		Row:         row,
		Column:      column,
		Orientation: orientation,
		Size:        size,
	}
}

// Cells returns the coordinates occupied by the ship starting from the bow.
func (sh *Ship) Cells() []Coordinates {
	cells := make([]Coordinates, sh.Size)
	for i := 0; i < sh.Size; i++ {
		if sh.Orientation == Horizontal {
			cells[i] = NewCoordinates(sh.Row, sh.Column+i)
		} else {
			cells[i] = NewCoordinates(sh.Row+i, sh.Column)
		}
	}
	return cells
}

func (sh *Ship) Occupies(row, column int) bool {
	if sh.Orientation == Horizontal {
		return row == sh.Row && column >= sh.Column && column < sh.Column+sh.Size
	}
	return column == sh.Column && row >= sh.Row && row < sh.Row+sh.Size
}

func (sh *Ship) GotHit() {
	sh.hits++
}

func (sh *Ship) Hits() int {
	return sh.hits
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == sh.Size
}

// Info renders "row#column#orientation#size".
func (sh *Ship) Info() string {
	return fmt.Sprintf("%d%s%d%s%s%s%d",
		sh.Row, ShipInfoDelimiter,
		sh.Column, ShipInfoDelimiter,
		sh.Orientation, ShipInfoDelimiter,
		sh.Size,
	)
}

func shipSize(id, rows, columns int) int {
	size := 1 + id%MaxShipSize
	return min(size, max(rows, columns))
}
