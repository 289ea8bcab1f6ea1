package api

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-partidas/db/sqlc"
	mb "github.com/saeidalz13/battleship-partidas/models/battleship"
	mc "github.com/saeidalz13/battleship-partidas/models/connection"
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	// probably more that enough but this is a good average size
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RequestProcessor serves the websocket flavour of the game
// protocol. Each connection gets its own session and loop.
type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	q sqlc.Querier,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      sqlc.NewAnalyticsManager(q, MustGetServerIpNet()),
	}
}

// Picks the first IPv4 address of an interface that is up and
// not a loopback. Falls back to 127.0.0.1 on hosts without one.
func MustGetServerIpNet() net.IPNet {
	ifaces, err := net.Interfaces()
	if err != nil {
		panic(err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			panic(err)
		}

		for _, addr := range addrs {
			var ip net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip != nil && ip.To4() != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip.To4(), Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	log.Println("no external ipv4 interface found; using loopback")
	return net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
	rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err := rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var respMsg interface{}

		switch code {
		case mc.CodeCreateGame:
			respMsg = NewRequest(payload).HandleCreateGame(rp.gameManager, rp.analytics)

		case mc.CodeDeleteGame:
			respMsg = NewRequest(payload).HandleDeleteGame(rp.gameManager, rp.analytics)

		// A probe that sinks the last ship is followed
		// by a game over message with the final status
		case mc.CodeProbe:
			probeMsg, game := NewRequest(payload).HandleProbe(rp.gameManager, rp.analytics)
			if err := rp.sessionManager.WriteToSessionConn(session, probeMsg); err != nil {
				break sessionLoop
			}

			if probeMsg.Error != nil || probeMsg.Payload.Code != mb.ProbeSunk || !game.IsFinished() {
				continue sessionLoop
			}

			gameOverMsg := mc.NewMessage[mc.RespGameStatus](mc.CodeGameOver)
			gameOverMsg.AddPayload(mc.RespGameStatus{GameId: probeMsg.Payload.GameId, GameStatus: game.Status()})
			respMsg = gameOverMsg

		case mc.CodeShipInfo:
			respMsg = NewRequest(payload).HandleShipInfo(rp.gameManager)

		case mc.CodeSolution:
			respMsg = NewRequest(payload).HandleSolution(rp.gameManager)

		case mc.CodeGameStatus:
			respMsg = NewRequest(payload).HandleGameStatus(rp.gameManager)

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			respMsg = respInvalidSignal
		}

		if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
			break sessionLoop
		}
	}
}
