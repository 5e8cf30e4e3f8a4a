package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	gmux "github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/felttable/blackjack/pkg/games/blackjack"
)

// Server handles HTTP requests against the session manager. It owns no game
// state of its own; every route is a thin translation between the wire and
// the manager.
type Server struct {
	*gmux.Router
	manager *blackjack.Manager

	// wsPollInterval controls how often websocket clients are checked for a
	// changed snapshot
	wsPollInterval time.Duration
}

// New returns a new HTTP server around the manager
func New(manager *blackjack.Manager) *Server {
	s := &Server{
		Router:         gmux.NewRouter(),
		manager:        manager,
		wsPollInterval: 500 * time.Millisecond,
	}

	s.Methods(http.MethodGet).Path("/health").Handler(s.getHealth())

	api := s.PathPrefix("/api").Subrouter()
	api.Methods(http.MethodPost).Path("/sessions").Handler(s.postSessions())

	sr := api.PathPrefix("/sessions/{id}").Subrouter()
	sr.Methods(http.MethodGet).Path("").Handler(s.getSession())
	sr.Methods(http.MethodGet).Path("/ws").Handler(s.getSessionWS())
	sr.Methods(http.MethodGet).Path("/results").Handler(s.getSessionResults())
	sr.Methods(http.MethodPost).Path("/join").Handler(s.postJoin())
	sr.Methods(http.MethodPost).Path("/leave").Handler(s.postLeave())
	sr.Methods(http.MethodPost).Path("/start").Handler(s.postStart())
	sr.Methods(http.MethodPost).Path("/hit").Handler(s.postHit())
	sr.Methods(http.MethodPost).Path("/stand").Handler(s.postStand())
	sr.Methods(http.MethodPost).Path("/next").Handler(s.postNext())

	api.Methods(http.MethodGet).Path("/players/{name}/results").Handler(s.getPlayerResults())

	return s
}

// Handler wraps the router with access logging and CORS
func (s *Server) Handler() http.Handler {
	return handlers.CombinedLoggingHandler(os.Stdout, cors.AllowAll().Handler(s.Router))
}
