package connection

import (
	mb "github.com/saeidalz13/battleship-partidas/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameId int64 `json:"game_id"`
}

type RespDeleteGame struct {
	GameId int64 `json:"game_id"`
}

type RespProbe struct {
	GameId     int64 `json:"game_id"`
	Row        int   `json:"row"`
	Column     int   `json:"column"`
	Code       int   `json:"code"`
	SunkShipId *int  `json:"sunk_ship_id,omitempty"`
}

type RespShipInfo struct {
	GameId int64  `json:"game_id"`
	ShipId int    `json:"ship_id"`
	Ship   string `json:"ship"`
}

type RespSolution struct {
	GameId int64    `json:"game_id"`
	Ships  []string `json:"ships"`
}

type RespGameStatus struct {
	GameId int64 `json:"game_id"`
	mb.GameStatus
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
