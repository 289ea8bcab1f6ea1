package connection

import (
	"errors"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxWsRetries  uint8 = 2
	backOffFactor uint8 = 2
)

type Session struct {
	id           string
	conn         *websocket.Conn
	lastActiveAt atomic.Int64
}

func NewSession(id string, conn *websocket.Conn) *Session {
	s := &Session{
		id:   id,
		conn: conn,
	}
	s.touch()
	return s
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	return s.conn
}

func (s *Session) touch() {
	s.lastActiveAt.Store(time.Now().UnixNano())
}

func (s *Session) idleFor() time.Duration {
	return time.Since(time.Unix(0, s.lastActiveAt.Load()))
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	/*
		Most likely a client that does not speak this protocol
		(binary frames, bad UTF-8, oversized payloads). Breaking
		so it cannot keep the server busy with invalid payloads.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

// Writes the JSON message to the connection of that session,
// retrying with a linear backoff on temporary failures.
func (s *Session) writeToConnWithRetry(msg interface{}) error {
	var retries uint8

	for {
		err := s.conn.WriteJSON(msg)
		if err == nil {
			return nil
		}

		if s.onConnErr(err) != ConnLoopRetry {
			return NewConnErr(ConnLoopBreak).AddDesc("breaking writeLoop due to: " + err.Error())
		}
		if retries == maxWsRetries {
			log.Printf("max retries reached for writing to ws [%s]: %s", s.conn.RemoteAddr().String(), err)
			return NewConnErr(ConnLoopBreak).AddDesc(err.Error())
		}

		retries++
		log.Printf("writing to ws failed [%s]; retrying... (retry no. %d)\n", s.conn.RemoteAddr().String(), retries)
		time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
	}
}
