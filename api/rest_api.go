package api

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/saeidalz13/battleship-partidas/db/sqlc"
	cerr "github.com/saeidalz13/battleship-partidas/internal/error"
	mb "github.com/saeidalz13/battleship-partidas/models/battleship"
)

const (
	RestBasePath = "/partidas"
	StatsPath    = RestBasePath + "/estadisticas"

	URLQueryRowKeyword    = "fila"
	URLQueryColumnKeyword = "columna"
)

type solutionXML struct {
	XMLName xml.Name `xml:"solucion"`
	Tam     int      `xml:"tam,attr"`
	Barcos  []string `xml:"barco"`
}

// SolutionToXML renders the descriptors as
// <solucion tam="N"><barco>row#col#orient#size</barco>...</solucion>
func SolutionToXML(solution []string) (string, error) {
	out, err := xml.Marshal(solutionXML{Tam: len(solution), Barcos: solution})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ServerStats joins the persisted counters of this server
// with the number of games currently held in memory.
type ServerStats struct {
	ServerIp     string `json:"server_ip"`
	LiveGames    int    `json:"live_games"`
	GamesCreated int64  `json:"games_created"`
	GamesDeleted int64  `json:"games_deleted"`
	CellsProbed  int64  `json:"cells_probed"`
}

// RestHandler exposes the game registry over plain HTTP using the
// partidas routes: create, delete, probe, ship info, solution and status.
type RestHandler struct {
	gameManager mb.GameManager
	analytics   *sqlc.AnalyticsManager
}

func NewRestHandler(gameManager mb.GameManager, analytics *sqlc.AnalyticsManager) RestHandler {
	return RestHandler{gameManager: gameManager, analytics: analytics}
}

func (h RestHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+RestBasePath+"/{filas}/{columnas}/{barcos}", h.HandleCreateGame)
	mux.HandleFunc("DELETE "+RestBasePath+"/{idPartida}", h.HandleDeleteGame)
	mux.HandleFunc("PUT "+RestBasePath+"/{idPartida}", h.HandleProbe)
	mux.HandleFunc("GET "+StatsPath, h.HandleServerStats)
	mux.HandleFunc("GET "+RestBasePath+"/{idPartida}", h.HandleSolution)
	mux.HandleFunc("GET "+RestBasePath+"/{idPartida}/estado", h.HandleGameStatus)
	mux.HandleFunc("GET "+RestBasePath+"/{idPartida}/{idBarco}", h.HandleShipInfo)
}

func pathInts(r *http.Request, names ...string) ([]int, error) {
	values := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(r.PathValue(name))
		if err != nil {
			return nil, fmt.Errorf("path value %s is not an integer: %w", name, err)
		}
		values[i] = v
	}
	return values, nil
}

func pathGameId(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("idPartida"), 10, 64)
}

func statusFromErr(err error) int {
	switch {
	case errors.Is(err, cerr.ErrGameNotFound), errors.Is(err, cerr.ErrShipNotFound):
		return http.StatusNotFound
	case errors.Is(err, cerr.ErrUnplaceableFleet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cerr.ErrInvalidDimensions), errors.Is(err, cerr.ErrOutOfBounds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	status := statusFromErr(err)
	if status == http.StatusInternalServerError {
		log.Println(err)
	}
	http.Error(w, errMessage(err), status)
}

// Responds 201 with the new game in the Location header
func (h RestHandler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	dims, err := pathInts(r, "filas", "columnas", "barcos")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gameId, _, err := h.gameManager.CreateGame(dims[0], dims[1], dims[2])
	if err != nil {
		writeErr(w, err)
		return
	}
	h.analytics.Record(h.analytics.IncrementGamesCreatedCount)

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	w.Header().Set("Location", fmt.Sprintf("%s://%s%s/%d", scheme, r.Host, RestBasePath, gameId))
	w.WriteHeader(http.StatusCreated)
}

func (h RestHandler) HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameId, err := pathGameId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.gameManager.DeleteGame(gameId) {
		writeErr(w, cerr.ErrGameNotExists(gameId))
		return
	}
	h.analytics.Record(h.analytics.IncrementGamesDeletedCount)
	w.WriteHeader(http.StatusOK)
}

func (h RestHandler) HandleProbe(w http.ResponseWriter, r *http.Request) {
	gameId, err := pathGameId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	row, err := strconv.Atoi(query.Get(URLQueryRowKeyword))
	if err != nil {
		http.Error(w, "query param fila must be an integer", http.StatusBadRequest)
		return
	}
	column, err := strconv.Atoi(query.Get(URLQueryColumnKeyword))
	if err != nil {
		http.Error(w, "query param columna must be an integer", http.StatusBadRequest)
		return
	}

	game, err := h.gameManager.GetGame(gameId)
	if err != nil {
		writeErr(w, err)
		return
	}

	result, err := game.Probe(row, column)
	if err != nil {
		writeErr(w, err)
		return
	}
	if result.Code != mb.ProbeAlreadyProbed {
		h.analytics.Record(h.analytics.IncrementCellsProbedCount)
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, result.Code)
}

func (h RestHandler) HandleShipInfo(w http.ResponseWriter, r *http.Request) {
	gameId, err := pathGameId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ids, err := pathInts(r, "idBarco")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	game, err := h.gameManager.GetGame(gameId)
	if err != nil {
		writeErr(w, err)
		return
	}

	ship, err := game.ShipInfo(ids[0])
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, ship)
}

func (h RestHandler) HandleSolution(w http.ResponseWriter, r *http.Request) {
	gameId, err := pathGameId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	game, err := h.gameManager.GetGame(gameId)
	if err != nil {
		writeErr(w, err)
		return
	}

	body, err := SolutionToXML(game.Solution())
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprint(w, body)
}

func (h RestHandler) HandleGameStatus(w http.ResponseWriter, r *http.Request) {
	gameId, err := pathGameId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	game, err := h.gameManager.GetGame(gameId)
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(game.Status()); err != nil {
		log.Println(err)
	}
}

func (h RestHandler) HandleServerStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), sqlc.QuerierCtxTimeout)
	defer cancel()

	analytics, err := h.analytics.GetServerAnalytics(ctx)
	if err != nil {
		log.Println("analytics:", err)
		http.Error(w, "failed to fetch server analytics", http.StatusInternalServerError)
		return
	}

	stats := ServerStats{
		ServerIp:     analytics.ServerIp.IPNet.IP.String(),
		LiveGames:    h.gameManager.Count(),
		GamesCreated: analytics.GamesCreated,
		GamesDeleted: analytics.GamesDeleted,
		CellsProbed:  analytics.CellsProbed,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Println(err)
	}
}
