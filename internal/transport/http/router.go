package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the REST API and the websocket endpoint.
func NewRouter(rest *RestHandler, ws *WSHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Post("/players", rest.RegisterPlayer)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", rest.CreateRoom)
			r.Get("/", rest.ListRooms)
			r.Get("/{roomID}", rest.GetRoom)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", rest.StartSession)
			r.Get("/{sessionID}", rest.GetSession)
			r.Get("/{sessionID}/results", rest.GetSessionResults)
		})

		r.Get("/leaderboard", rest.GetLeaderboard)
		r.Get("/leaderboard/{difficulty}/rank/{playerID}", rest.GetRank)
	})

	return r
}
