package battleship

import (
	"math/rand/v2"
	"sync"

	cerr "github.com/saeidalz13/battleship-partidas/internal/error"
)

// Codes returned by Probe. They keep the values the
// clients of the original service already understand.
const (
	ProbeMiss          int = -1
	ProbeHit           int = -2
	ProbeSunk          int = -3
	ProbeAlreadyProbed int = -4
)

const (
	maxShipPlacementAttempts = 500
	maxFleetPlacementRounds  = 20
)

// MaxGridCells bounds rows*columns. Larger grids are rejected with
// ErrInvalidDimensions before anything is allocated.
const MaxGridCells = 1 << 20

type ProbeResult struct {
	Code int `json:"code"`
	// Set only when Code is ProbeSunk
	SunkShipId int `json:"sunk_ship_id"`
}

type GameStatus struct {
	Rows        int  `json:"rows"`
	Columns     int  `json:"columns"`
	Ships       int  `json:"ships"`
	Shots       int  `json:"shots"`
	SunkenShips int  `json:"sunken_ships"`
	IsFinished  bool `json:"is_finished"`
}

type Game struct {
	rows        int
	columns     int
	ships       []*Ship
	grid        Grid
	shots       int
	sunkenShips int
	mu          sync.Mutex
}

type GameOption func(*gameOptions)

type gameOptions struct {
	rng *rand.Rand
}

// WithRand makes placement use the given source, mostly to get
// reproducible boards in tests.
func WithRand(rng *rand.Rand) GameOption {
	return func(o *gameOptions) {
		o.rng = rng
	}
}

func NewGame(rows, columns, shipCount int, opts ...GameOption) (*Game, error) {
	if rows <= 0 || columns <= 0 || shipCount <= 0 {
		return nil, cerr.ErrInvalidGameDimensions(rows, columns, shipCount)
	}
	// Division keeps rows*columns from overflowing
	if rows > MaxGridCells/columns {
		return nil, cerr.ErrGridTooLarge(rows, columns, MaxGridCells)
	}
	if !fleetFitsCells(rows, columns, shipCount) {
		return nil, cerr.ErrFleetExceedsGrid(rows, columns, shipCount)
	}

	options := gameOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.rng == nil {
		options.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ships, err := placeFleet(options.rng, rows, columns, shipCount)
	if err != nil {
		return nil, err
	}

	return &Game{
		rows:    rows,
		columns: columns,
		ships:   ships,
		grid:    NewGrid(rows, columns),
	}, nil
}

// Ships never overlap, so a fleet whose total size is larger than
// the grid can be rejected without trying to place it.
func fleetFitsCells(rows, columns, shipCount int) bool {
	cells := rows * columns
	if shipCount > cells {
		return false
	}

	needed := 0
	for id := 0; id < shipCount; id++ {
		needed += shipSize(id, rows, columns)
		if needed > cells {
			return false
		}
	}
	return true
}

// A round tries to place every ship in order. If one of them runs out
// of attempts the whole fleet is discarded and a fresh round starts.
func placeFleet(rng *rand.Rand, rows, columns, shipCount int) ([]*Ship, error) {
	for round := 0; round < maxFleetPlacementRounds; round++ {
		if ships, ok := tryPlaceFleet(rng, rows, columns, shipCount); ok {
			return ships, nil
		}
	}
	return nil, cerr.ErrFleetNotPlaceable(rows, columns, shipCount, maxFleetPlacementRounds)
}

func tryPlaceFleet(rng *rand.Rand, rows, columns, shipCount int) ([]*Ship, bool) {
	occ := newOccupancy(rows, columns)
	ships := make([]*Ship, 0, min(shipCount, rows*columns))

	for id := 0; id < shipCount; id++ {
		sh, ok := tryPlaceShip(rng, occ, id, shipSize(id, rows, columns))
		if !ok {
			return nil, false
		}
		occ.mark(sh)
		ships = append(ships, sh)
	}
	return ships, true
}

func tryPlaceShip(rng *rand.Rand, occ occupancy, id, size int) (*Ship, bool) {
	rows, columns := len(occ), len(occ[0])

	for attempt := 0; attempt < maxShipPlacementAttempts; attempt++ {
		orientation := Horizontal
		if rng.IntN(2) == 1 {
			orientation = Vertical
		}

		maxRow, maxColumn := rows, columns
		if orientation == Horizontal {
			maxColumn = columns - size + 1
		} else {
			maxRow = rows - size + 1
		}
		// Ship does not fit in this orientation
		if maxRow <= 0 || maxColumn <= 0 {
			continue
		}

		sh := NewShip(id, rng.IntN(maxRow), rng.IntN(maxColumn), orientation, size)
		if occ.canHold(sh) {
			return sh, true
		}
	}
	return nil, false
}

func (g *Game) Rows() int {
	return g.rows
}

func (g *Game) Columns() int {
	return g.columns
}

func (g *Game) ShipCount() int {
	return len(g.ships)
}

// Probe reveals one cell. Only the first probe of a cell changes
// the state of the game; later ones return ProbeAlreadyProbed.
func (g *Game) Probe(row, column int) (ProbeResult, error) {
	if !g.grid.isInBound(row, column) {
		return ProbeResult{}, cerr.ErrXorYOutOfGridBound(row, column)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.grid[row][column] != CellUnknown {
		return ProbeResult{Code: ProbeAlreadyProbed}, nil
	}
	g.shots++

	sh := g.findShipAt(row, column)
	if sh == nil {
		g.grid[row][column] = CellMiss
		return ProbeResult{Code: ProbeMiss}, nil
	}

	g.grid[row][column] = CellHit
	sh.GotHit()
	if sh.IsSunk() {
		g.sunkenShips++
		return ProbeResult{Code: ProbeSunk, SunkShipId: sh.Id}, nil
	}
	return ProbeResult{Code: ProbeHit}, nil
}

func (g *Game) findShipAt(row, column int) *Ship {
	for _, sh := range g.ships {
		if sh.Occupies(row, column) {
			return sh
		}
	}
	return nil
}

// Placement fields never change after NewGame, so the
// descriptors are read without taking the lock.
func (g *Game) ShipInfo(shipId int) (string, error) {
	if shipId < 0 || shipId >= len(g.ships) {
		return "", cerr.ErrShipNotExists(shipId)
	}
	return g.ships[shipId].Info(), nil
}

func (g *Game) Solution() []string {
	solution := make([]string, len(g.ships))
	for i, sh := range g.ships {
		solution[i] = sh.Info()
	}
	return solution
}

func (g *Game) Status() GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	return GameStatus{
		Rows:        g.rows,
		Columns:     g.columns,
		Ships:       len(g.ships),
		Shots:       g.shots,
		SunkenShips: g.sunkenShips,
		IsFinished:  g.sunkenShips == len(g.ships),
	}
}

func (g *Game) IsFinished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.sunkenShips == len(g.ships)
}
