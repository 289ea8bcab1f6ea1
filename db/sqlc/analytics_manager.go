package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"time"

	"github.com/sqlc-dev/pqtype"
)

const QuerierCtxTimeout = time.Second * 10

// AnalyticsManager keeps per server counters of game activity.
// A nil Querier turns every call into a no-op so the server
// can run without a database.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.queries.AnalyticsIncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementGamesDeletedCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.queries.AnalyticsIncrementGamesDeletedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementCellsProbedCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.queries.AnalyticsIncrementCellsProbedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context) (int64, error) {
	if a.queries == nil {
		return 0, nil
	}
	return a.queries.AnalyticsGetGamesCreatedCount(ctx, a.serverIp)
}

// A server that has not recorded anything yet has no row;
// it reports zero counters.
func (a *AnalyticsManager) GetServerAnalytics(ctx context.Context) (GameServerAnalytic, error) {
	if a.queries == nil {
		return GameServerAnalytic{ServerIp: a.serverIp}, nil
	}

	analytics, err := a.queries.AnalyticsGetServerAnalytics(ctx, a.serverIp)
	if errors.Is(err, sql.ErrNoRows) {
		return GameServerAnalytic{ServerIp: a.serverIp}, nil
	}
	return analytics, err
}

// Record runs one of the increment methods with the querier timeout.
// Analytics never decide the outcome of a game operation, so the
// error is only logged.
func (a *AnalyticsManager) Record(increment func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()

	if err := increment(ctx); err != nil {
		log.Println("analytics:", err)
	}
}
