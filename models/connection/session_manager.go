package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-partidas/internal/error"
)

const defaultCleanupInterval = time.Minute * 20

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	WriteToSessionConn(session *Session, msg interface{}) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	Count() int
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

func WithCleanupInterval(interval time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		if interval > 0 {
			bsm.cleanupInterval = interval
		}
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

// Session ids are URL compatible so clients can pass them as a query param
func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotExists(sessionId)
	}
	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
	log.Printf("session terminated: %s", sessionId)
}

func (bsm *BattleshipSessionManager) Count() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	return len(bsm.sessions)
}

// To ensure that there is no dangling connections, sessions
// idle for longer than the cleanup interval are closed and removed.
// Games are not touched; they live until they are deleted.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		bsm.mu.Lock()
		for id, session := range bsm.sessions {
			if session.idleFor() > bsm.cleanupInterval {
				delete(bsm.sessions, id)
				if session.conn != nil {
					_ = session.conn.Close()
				}
				log.Printf("removed stale session: %s", id)
			}
		}
		bsm.mu.Unlock()
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}) error {
	if err := session.writeToConnWithRetry(msg); err != nil {
		var connErr ConnErr
		if errors.As(err, &connErr) {
			return connErr
		}
		return NewConnErr(ConnLoopBreak).AddDesc(err.Error())
	}
	return nil
}

// A failed read ends the session. gorilla/websocket returns the
// same error from every read that follows a failed one.
func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	messageType, payload, err := session.conn.ReadMessage()
	if err != nil {
		session.onConnErr(err)
		log.Printf("break ws conn loop [%s] due to: %s\n", session.conn.RemoteAddr().String(), err)
		return -1, nil, err
	}

	session.touch()
	return messageType, payload, nil
}

// A payload without a "code" field is reported as CodeSignalAbsent
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	if err := json.Unmarshal(payload, &signal); err != nil {
		return CodeSignalAbsent, err
	}
	if signal.Code == nil {
		return CodeSignalAbsent, cerr.ErrNilPayload()
	}
	return *signal.Code, nil
}
