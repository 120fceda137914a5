// Package api exposes a small read-only HTTP surface: health and the latest
// settlement report per group chat. All writes go through the chat commands.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/event"
)

type API struct {
	router *mux.Router
	events *event.Service
	bind   string
	log    zerolog.Logger
}

func New(bind string, events *event.Service, logger zerolog.Logger) *API {
	a := &API{
		router: mux.NewRouter(),
		events: events,
		bind:   bind,
		log:    logger,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.HandleFunc("/api/groups/{group_id}/summary", a.handleGroupSummary).Methods("GET")
}

func (a *API) Start() error {
	corsOptions := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}
	handler := cors.New(corsOptions).Handler(a.router)

	a.log.Info().Str("bind", a.bind).Msg("api server listening")
	return http.ListenAndServe(a.bind, handler)
}
