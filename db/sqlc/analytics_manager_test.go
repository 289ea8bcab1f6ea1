package sqlc

import (
	"context"
	"errors"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var testIpNet = net.IPNet{IP: net.ParseIP("10.0.0.7").To4(), Mask: net.CIDRMask(32, 32)}

func newTestAnalytics(t *testing.T) (*AnalyticsManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return NewAnalyticsManager(New(db), testIpNet), mock
}

func TestAnalyticsIncrements(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		increment func(a *AnalyticsManager) func(context.Context) error
	}{
		{
			name:      "games created",
			column:    "games_created",
			increment: func(a *AnalyticsManager) func(context.Context) error { return a.IncrementGamesCreatedCount },
		},
		{
			name:      "games deleted",
			column:    "games_deleted",
			increment: func(a *AnalyticsManager) func(context.Context) error { return a.IncrementGamesDeletedCount },
		},
		{
			name:      "cells probed",
			column:    "cells_probed",
			increment: func(a *AnalyticsManager) func(context.Context) error { return a.IncrementCellsProbedCount },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			analytics, mock := newTestAnalytics(t)

			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, " + test.column + ")")).
				WithArgs(analytics.ServerIp()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			analytics.Record(test.increment(analytics))

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations were not met: %v", err)
			}
		})
	}
}

func TestAnalyticsGetGamesCreatedCount(t *testing.T) {
	analytics, mock := newTestAnalytics(t)

	mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(analytics.ServerIp()).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(3))

	gamesCreated, err := analytics.GetGamesCreatedCount(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch created games: %v", err)
	}
	if gamesCreated != 3 {
		t.Fatalf("expected number of created games: %d\tgot: %d", 3, gamesCreated)
	}

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestAnalyticsGetServerAnalytics(t *testing.T) {
	columns := []string{"server_ip", "games_created", "games_deleted", "cells_probed"}

	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		expected [3]int64
	}{
		{
			name:     "recorded server",
			rows:     sqlmock.NewRows(columns).AddRow("10.0.0.7/32", 4, 1, 12),
			expected: [3]int64{4, 1, 12},
		},
		{
			name:     "nothing recorded yet",
			rows:     sqlmock.NewRows(columns),
			expected: [3]int64{0, 0, 0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			analytics, mock := newTestAnalytics(t)

			mock.ExpectQuery(`SELECT server_ip, games_created, games_deleted, cells_probed FROM game_server_analytics WHERE server_ip = \$1`).
				WithArgs(analytics.ServerIp()).
				WillReturnRows(test.rows)

			got, err := analytics.GetServerAnalytics(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			counters := [3]int64{got.GamesCreated, got.GamesDeleted, got.CellsProbed}
			if counters != test.expected {
				t.Fatalf("expected counters: %v\t got: %v", test.expected, counters)
			}
			if got.ServerIp.IPNet.String() != testIpNet.String() {
				t.Fatalf("expected server ip: %s\t got: %s", testIpNet.String(), got.ServerIp.IPNet.String())
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations were not met: %v", err)
			}
		})
	}
}

func TestAnalyticsRecordSwallowsErrors(t *testing.T) {
	analytics, mock := newTestAnalytics(t)

	mock.ExpectExec("INSERT INTO game_server_analytics").
		WillReturnError(errors.New("connection refused"))

	// Must not panic or propagate
	analytics.Record(analytics.IncrementGamesCreatedCount)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestAnalyticsWithoutDatabase(t *testing.T) {
	analytics := NewAnalyticsManager(nil, testIpNet)

	if err := analytics.IncrementGamesCreatedCount(context.Background()); err != nil {
		t.Fatal(err)
	}
	count, err := analytics.GetGamesCreatedCount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected count: %d\t got: %d", 0, count)
	}
}
