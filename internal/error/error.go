package error

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions or ship count")
	ErrUnplaceableFleet  = errors.New("fleet could not be placed on the grid")
	ErrGameNotFound      = errors.New("game not found")
	ErrShipNotFound      = errors.New("ship not found")
	ErrOutOfBounds       = errors.New("coordinates out of grid bound")
	ErrSessionNotFound   = errors.New("session not found")
)

func ErrInvalidGameDimensions(rows, columns, ships int) error {
	return fmt.Errorf("%w\trows: %d\tcolumns: %d\tships: %d", ErrInvalidDimensions, rows, columns, ships)
}

func ErrFleetNotPlaceable(rows, columns, ships, rounds int) error {
	return fmt.Errorf("%w after %d rounds\trows: %d\tcolumns: %d\tships: %d", ErrUnplaceableFleet, rounds, rows, columns, ships)
}

func ErrGridTooLarge(rows, columns, maxCells int) error {
	return fmt.Errorf("%w: grid exceeds %d cells\trows: %d\tcolumns: %d", ErrInvalidDimensions, maxCells, rows, columns)
}

func ErrFleetExceedsGrid(rows, columns, ships int) error {
	return fmt.Errorf("%w: fleet needs more cells than the grid has\trows: %d\tcolumns: %d\tships: %d", ErrUnplaceableFleet, rows, columns, ships)
}

func ErrGameNotExists(gameId int64) error {
	return fmt.Errorf("%w, id: %d", ErrGameNotFound, gameId)
}

func ErrShipNotExists(shipId int) error {
	return fmt.Errorf("%w, id: %d", ErrShipNotFound, shipId)
}

func ErrXorYOutOfGridBound(row, column int) error {
	return fmt.Errorf("%w\trow: %d\tcolumn: %d", ErrOutOfBounds, row, column)
}

func ErrSessionNotExists(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrNilPayload() error {
	return fmt.Errorf("the payload is nil or malformed")
}
