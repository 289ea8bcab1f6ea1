package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-partidas/internal/error"
)

type GameManager interface {
	CreateGame(rows, columns, shipCount int) (int64, *Game, error)
	GetGame(gameId int64) (*Game, error)
	DeleteGame(gameId int64) bool
	Count() int
}

// BattleshipGameManager keeps every live game keyed by an id that
// is never handed out twice during the process lifetime.
//
// A probe holding a *Game fetched before DeleteGame finishes against
// that game; lookups after the delete report not found.
type BattleshipGameManager struct {
	games    map[int64]*Game
	lastId   int64
	gameOpts []GameOption
	mu       sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

// gameOpts are applied to every game. A source passed with WithRand
// is shared by all of them and is not safe for concurrent creates.
func NewBattleshipGameManager(gameOpts ...GameOption) *BattleshipGameManager {
	return &BattleshipGameManager{
		games:    make(map[int64]*Game, 10),
		gameOpts: gameOpts,
	}
}

func (bgm *BattleshipGameManager) CreateGame(rows, columns, shipCount int) (int64, *Game, error) {
	// Placement can take a while; keep it out of the critical section
	game, err := NewGame(rows, columns, shipCount, bgm.gameOpts...)
	if err != nil {
		return 0, nil, err
	}

	bgm.mu.Lock()
	bgm.lastId++
	gameId := bgm.lastId
	bgm.games[gameId] = game
	bgm.mu.Unlock()

	return gameId, game, nil
}

func (bgm *BattleshipGameManager) GetGame(gameId int64) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameId]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameId)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) DeleteGame(gameId int64) bool {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	if _, prs := bgm.games[gameId]; !prs {
		return false
	}
	delete(bgm.games, gameId)
	return true
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()

	return len(bgm.games)
}
