package api

import "net/http"

const WsPath = "/battleship"

// NewServeMux mounts the websocket endpoint and the REST routes
// on one mux. Both share the game registry and the analytics.
func NewServeMux(rp RequestProcessor) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET "+WsPath, rp)
	NewRestHandler(rp.gameManager, rp.analytics).Register(mux)
	return mux
}
