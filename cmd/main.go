package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/saeidalz13/battleship-partidas/api"
	"github.com/saeidalz13/battleship-partidas/db"
	"github.com/saeidalz13/battleship-partidas/db/sqlc"
	"github.com/saeidalz13/battleship-partidas/internal/config"
	mb "github.com/saeidalz13/battleship-partidas/models/battleship"
	mc "github.com/saeidalz13/battleship-partidas/models/connection"
)

const shutdownTimeout = time.Second * 10

func main() {
	cmd := &cli.Command{
		Name:  "battleship",
		Usage: "serve battleship games over REST and websocket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML config file",
				Sources: cli.EnvVars(config.EnvConfigPath),
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "port to listen on; overrides config and PORT",
			},
			&cli.StringFlag{
				Name:  "stage",
				Usage: "dev or prod; overrides config and STAGE",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"), config.Overrides{
		Stage: cmd.String("stage"),
		Port:  cmd.Int("port"),
	})
	if err != nil {
		return err
	}

	var q sqlc.Querier
	if cfg.DatabaseUrl != "" {
		conn := db.MustConnectToDb(cfg.DatabaseUrl, cfg.MigrationDir)
		defer conn.Close()
		q = sqlc.New(conn)
	} else {
		log.Println("no database url; analytics disabled")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionManager := mc.NewBattleshipSessionManager(mc.WithCleanupInterval(cfg.SessionCleanupInterval))
	go sessionManager.CleanupPeriodically(ctx)

	rp := api.NewRequestProcessor(sessionManager, mb.NewBattleshipGameManager(), q)

	server := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: api.NewServeMux(rp),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Println(err)
		}
	}()

	log.Printf("Listening to port %d (stage: %s)\n", cfg.Port, cfg.Stage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
