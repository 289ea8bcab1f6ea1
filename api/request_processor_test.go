package api

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-partidas/db/sqlc"
	mb "github.com/saeidalz13/battleship-partidas/models/battleship"
	mc "github.com/saeidalz13/battleship-partidas/models/connection"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

func dialTestServer(t *testing.T, q sqlc.Querier) (*websocket.Conn, *mb.BattleshipGameManager, *mc.BattleshipSessionManager) {
	t.Helper()

	gm := mb.NewBattleshipGameManager()
	sm := mc.NewBattleshipSessionManager()
	server := httptest.NewServer(NewServeMux(NewRequestProcessor(sm, gm, q)))
	t.Cleanup(server.Close)

	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+WsPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	var respSessionId mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&respSessionId); err != nil {
		t.Fatal(err)
	}
	if respSessionId.Code != mc.CodeSessionID || respSessionId.Payload.SessionID == "" {
		t.Fatalf("expected session id message, got %+v", respSessionId)
	}
	if _, err := sm.FindSession(respSessionId.Payload.SessionID); err != nil {
		t.Fatal(err)
	}

	return conn, gm, sm
}

func roundTrip[T, K any](t *testing.T, conn *websocket.Conn, code uint8, payload T) mc.Message[K] {
	t.Helper()

	req := mc.NewMessage[T](code)
	req.AddPayload(payload)
	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[K]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestWsInvalidCode(t *testing.T) {
	conn, _, _ := dialTestServer(t, nil)

	tests := []struct {
		name         string
		raw          string
		expectedCode uint8
	}{
		{name: "random invalid code", raw: `{"code":255}`, expectedCode: mc.CodeInvalidSignal},
		{name: "missing code", raw: `{"payload":{"game_id":1}}`, expectedCode: mc.CodeSignalAbsent},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(test.raw)); err != nil {
				t.Fatal(err)
			}

			var resp mc.Message[mc.NoPayload]
			if err := conn.ReadJSON(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, resp.Code)
			}
			if resp.Error == nil {
				t.Fatal("expected an error in the response")
			}
		})
	}
}

func TestWsCreateGame(t *testing.T) {
	conn, gm, _ := dialTestServer(t, nil)

	tests := []struct {
		name      string
		req       mc.ReqCreateGame
		expectErr string
	}{
		{name: "valid", req: mc.ReqCreateGame{Rows: 8, Columns: 8, ShipCount: 3}},
		{name: "invalid dimensions", req: mc.ReqCreateGame{Rows: 0, Columns: 8, ShipCount: 3}, expectErr: errMsgInvalidDims},
		{name: "unplaceable", req: mc.ReqCreateGame{Rows: 2, Columns: 2, ShipCount: 2}, expectErr: errMsgUnplaceable},
		{name: "fleet larger than grid", req: mc.ReqCreateGame{Rows: 1, Columns: 1, ShipCount: 1_000_000}, expectErr: errMsgUnplaceable},
		{name: "grid too large", req: mc.ReqCreateGame{Rows: 100_000, Columns: 100_000, ShipCount: 1}, expectErr: errMsgInvalidDims},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := roundTrip[mc.ReqCreateGame, mc.RespCreateGame](t, conn, mc.CodeCreateGame, test.req)
			if resp.Code != mc.CodeCreateGame {
				t.Fatalf("expected status: %d\t got: %d", mc.CodeCreateGame, resp.Code)
			}

			if test.expectErr != "" {
				if resp.Error == nil || resp.Error.Message != test.expectErr {
					t.Fatalf("expected error: %s\t got: %+v", test.expectErr, resp.Error)
				}
				return
			}

			if resp.Error != nil {
				t.Fatalf("error: %s", resp.Error.ErrorDetails)
			}
			game, err := gm.GetGame(resp.Payload.GameId)
			if err != nil {
				t.Fatal(err)
			}
			if game.ShipCount() != test.req.ShipCount {
				t.Fatalf("expected ships: %d\t got: %d", test.req.ShipCount, game.ShipCount())
			}
		})
	}
}

func TestWsPlayWholeGame(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	conn, gm, _ := dialTestServer(t, sqlc.New(db))

	mock.ExpectExec("INSERT INTO game_server_analytics \\(server_ip, games_created\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	respCreate := roundTrip[mc.ReqCreateGame, mc.RespCreateGame](t, conn, mc.CodeCreateGame, mc.ReqCreateGame{Rows: 3, Columns: 3, ShipCount: 1})
	if respCreate.Error != nil {
		t.Fatalf("error: %s", respCreate.Error.ErrorDetails)
	}
	gameId := respCreate.Payload.GameId

	respSolution := roundTrip[mc.ReqGame, mc.RespSolution](t, conn, mc.CodeSolution, mc.ReqGame{GameId: gameId})
	if len(respSolution.Payload.Ships) != 1 {
		t.Fatalf("expected ships: %d\t got: %d", 1, len(respSolution.Payload.Ships))
	}

	respShip := roundTrip[mc.ReqShipInfo, mc.RespShipInfo](t, conn, mc.CodeShipInfo, mc.ReqShipInfo{GameId: gameId, ShipId: 0})
	if respShip.Payload.Ship != respSolution.Payload.Ships[0] {
		t.Fatalf("expected ship: %s\t got: %s", respSolution.Payload.Ships[0], respShip.Payload.Ship)
	}

	respNoShip := roundTrip[mc.ReqShipInfo, mc.RespShipInfo](t, conn, mc.CodeShipInfo, mc.ReqShipInfo{GameId: gameId, ShipId: 1})
	if respNoShip.Error == nil || respNoShip.Error.Message != errMsgShipNotFound {
		t.Fatalf("expected error: %s\t got: %+v", errMsgShipNotFound, respNoShip.Error)
	}

	respOut := roundTrip[mc.ReqProbe, mc.RespProbe](t, conn, mc.CodeProbe, mc.ReqProbe{GameId: gameId, Row: 3, Column: 0})
	if respOut.Error == nil || respOut.Error.Message != errMsgOutOfBounds {
		t.Fatalf("expected error: %s\t got: %+v", errMsgOutOfBounds, respOut.Error)
	}

	game, err := gm.GetGame(gameId)
	if err != nil {
		t.Fatal(err)
	}
	info, err := game.ShipInfo(0)
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Split(info, mb.ShipInfoDelimiter)
	row, _ := strconv.Atoi(fields[0])
	column, _ := strconv.Atoi(fields[1])
	shipCell := mb.NewCoordinates(row, column)

	// Miss somewhere away from the ship first
	missCell := mb.NewCoordinates((shipCell.Row+2)%3, shipCell.Column)
	mock.ExpectExec("INSERT INTO game_server_analytics \\(server_ip, cells_probed\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	respMiss := roundTrip[mc.ReqProbe, mc.RespProbe](t, conn, mc.CodeProbe, mc.ReqProbe{GameId: gameId, Row: missCell.Row, Column: missCell.Column})
	if respMiss.Payload.Code != mb.ProbeMiss {
		t.Fatalf("expected code: %d\t got: %d", mb.ProbeMiss, respMiss.Payload.Code)
	}

	mock.ExpectExec("INSERT INTO game_server_analytics \\(server_ip, cells_probed\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	respSunk := roundTrip[mc.ReqProbe, mc.RespProbe](t, conn, mc.CodeProbe, mc.ReqProbe{GameId: gameId, Row: shipCell.Row, Column: shipCell.Column})
	if respSunk.Payload.Code != mb.ProbeSunk || respSunk.Payload.SunkShipId == nil || *respSunk.Payload.SunkShipId != 0 {
		t.Fatalf("expected sunk ship 0, got %+v", respSunk.Payload)
	}

	var respGameOver mc.Message[mc.RespGameStatus]
	if err := conn.ReadJSON(&respGameOver); err != nil {
		t.Fatal(err)
	}
	if respGameOver.Code != mc.CodeGameOver || !respGameOver.Payload.IsFinished || respGameOver.Payload.Shots != 2 {
		t.Fatalf("unexpected game over message: %+v", respGameOver)
	}

	respAgain := roundTrip[mc.ReqProbe, mc.RespProbe](t, conn, mc.CodeProbe, mc.ReqProbe{GameId: gameId, Row: shipCell.Row, Column: shipCell.Column})
	if respAgain.Payload.Code != mb.ProbeAlreadyProbed {
		t.Fatalf("expected code: %d\t got: %d", mb.ProbeAlreadyProbed, respAgain.Payload.Code)
	}

	mock.ExpectExec("INSERT INTO game_server_analytics \\(server_ip, games_deleted\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	respDelete := roundTrip[mc.ReqGame, mc.RespDeleteGame](t, conn, mc.CodeDeleteGame, mc.ReqGame{GameId: gameId})
	if respDelete.Error != nil {
		t.Fatalf("error: %s", respDelete.Error.ErrorDetails)
	}

	respDeleteAgain := roundTrip[mc.ReqGame, mc.RespDeleteGame](t, conn, mc.CodeDeleteGame, mc.ReqGame{GameId: gameId})
	if respDeleteAgain.Error == nil || respDeleteAgain.Error.Message != errMsgGameNotFound {
		t.Fatalf("expected error: %s\t got: %+v", errMsgGameNotFound, respDeleteAgain.Error)
	}

	respStatus := roundTrip[mc.ReqGame, mc.RespGameStatus](t, conn, mc.CodeGameStatus, mc.ReqGame{GameId: gameId})
	if respStatus.Error == nil || respStatus.Error.Message != errMsgGameNotFound {
		t.Fatalf("expected error: %s\t got: %+v", errMsgGameNotFound, respStatus.Error)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
