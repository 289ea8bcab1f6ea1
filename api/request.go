package api

import (
	"encoding/json"
	"errors"

	"github.com/saeidalz13/battleship-partidas/db/sqlc"
	cerr "github.com/saeidalz13/battleship-partidas/internal/error"
	mb "github.com/saeidalz13/battleship-partidas/models/battleship"
	mc "github.com/saeidalz13/battleship-partidas/models/connection"
)

const (
	errMsgInvalidPayload = "invalid payload"
	errMsgGameNotFound   = "game not found"
	errMsgShipNotFound   = "ship not found"
	errMsgOutOfBounds    = "coordinates out of grid bound"
	errMsgInvalidDims    = "rows, columns and ship count must be positive and the grid not too large"
	errMsgUnplaceable    = "fleet does not fit the grid"
)

// Every incoming websocket message that carries a game
// operation is handled through a Request.
type Request struct {
	payload []byte
}

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func decodePayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg.Payload, err
	}
	return msg.Payload, nil
}

// Maps the engine and registry errors to a short client message
func errMessage(err error) string {
	switch {
	case errors.Is(err, cerr.ErrGameNotFound):
		return errMsgGameNotFound
	case errors.Is(err, cerr.ErrShipNotFound):
		return errMsgShipNotFound
	case errors.Is(err, cerr.ErrOutOfBounds):
		return errMsgOutOfBounds
	case errors.Is(err, cerr.ErrInvalidDimensions):
		return errMsgInvalidDims
	case errors.Is(err, cerr.ErrUnplaceableFleet):
		return errMsgUnplaceable
	default:
		return errMsgInvalidPayload
	}
}

func (r Request) HandleCreateGame(gm mb.GameManager, analytics *sqlc.AnalyticsManager) mc.Message[mc.RespCreateGame] {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	req, err := decodePayload[mc.ReqCreateGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), errMsgInvalidPayload)
		return resp
	}

	gameId, _, err := gm.CreateGame(req.Rows, req.Columns, req.ShipCount)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp
	}
	analytics.Record(analytics.IncrementGamesCreatedCount)

	resp.AddPayload(mc.RespCreateGame{GameId: gameId})
	return resp
}

func (r Request) HandleDeleteGame(gm mb.GameManager, analytics *sqlc.AnalyticsManager) mc.Message[mc.RespDeleteGame] {
	resp := mc.NewMessage[mc.RespDeleteGame](mc.CodeDeleteGame)

	req, err := decodePayload[mc.ReqGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), errMsgInvalidPayload)
		return resp
	}

	if !gm.DeleteGame(req.GameId) {
		err := cerr.ErrGameNotExists(req.GameId)
		resp.AddError(err.Error(), errMessage(err))
		return resp
	}
	analytics.Record(analytics.IncrementGamesDeletedCount)

	resp.AddPayload(mc.RespDeleteGame{GameId: req.GameId})
	return resp
}

// The returned game is nil unless the probe succeeded; the caller
// uses it to check whether the fleet is gone.
func (r Request) HandleProbe(gm mb.GameManager, analytics *sqlc.AnalyticsManager) (mc.Message[mc.RespProbe], *mb.Game) {
	resp := mc.NewMessage[mc.RespProbe](mc.CodeProbe)

	req, err := decodePayload[mc.ReqProbe](r.payload)
	if err != nil {
		resp.AddError(err.Error(), errMsgInvalidPayload)
		return resp, nil
	}

	game, err := gm.GetGame(req.GameId)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp, nil
	}

	result, err := game.Probe(req.Row, req.Column)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp, nil
	}
	if result.Code != mb.ProbeAlreadyProbed {
		analytics.Record(analytics.IncrementCellsProbedCount)
	}

	payload := mc.RespProbe{GameId: req.GameId, Row: req.Row, Column: req.Column, Code: result.Code}
	if result.Code == mb.ProbeSunk {
		payload.SunkShipId = &result.SunkShipId
	}
	resp.AddPayload(payload)
	return resp, game
}

func (r Request) HandleShipInfo(gm mb.GameManager) mc.Message[mc.RespShipInfo] {
	resp := mc.NewMessage[mc.RespShipInfo](mc.CodeShipInfo)

	req, err := decodePayload[mc.ReqShipInfo](r.payload)
	if err != nil {
		resp.AddError(err.Error(), errMsgInvalidPayload)
		return resp
	}

	game, err := gm.GetGame(req.GameId)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp
	}

	ship, err := game.ShipInfo(req.ShipId)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp
	}

	resp.AddPayload(mc.RespShipInfo{GameId: req.GameId, ShipId: req.ShipId, Ship: ship})
	return resp
}

func (r Request) HandleSolution(gm mb.GameManager) mc.Message[mc.RespSolution] {
	resp := mc.NewMessage[mc.RespSolution](mc.CodeSolution)

	req, err := decodePayload[mc.ReqGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), errMsgInvalidPayload)
		return resp
	}

	game, err := gm.GetGame(req.GameId)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp
	}

	resp.AddPayload(mc.RespSolution{GameId: req.GameId, Ships: game.Solution()})
	return resp
}

func (r Request) HandleGameStatus(gm mb.GameManager) mc.Message[mc.RespGameStatus] {
	resp := mc.NewMessage[mc.RespGameStatus](mc.CodeGameStatus)

	req, err := decodePayload[mc.ReqGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), errMsgInvalidPayload)
		return resp
	}

	game, err := gm.GetGame(req.GameId)
	if err != nil {
		resp.AddError(err.Error(), errMessage(err))
		return resp
	}

	resp.AddPayload(mc.RespGameStatus{GameId: req.GameId, GameStatus: game.Status()})
	return resp
}
