package server

import (
	"net/http"

	gmux "github.com/gorilla/mux"
)

type createSessionRequest struct {
	CreatorName string `json:"creatorName"`
	MaxPlayers  int    `json:"maxPlayers"`
}

type playerRequest struct {
	Name string `json:"name"`
}

type hitResponse struct {
	// Card is the code of the drawn card, or null when the hand could not
	// take one
	Card     *string     `json:"card"`
	Snapshot interface{} `json:"snapshot"`
}

func (s *Server) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) postSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		round, err := s.manager.CreateSession(req.CreatorName, req.MaxPlayers)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, round.Snapshot())
	}
}

func (s *Server) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.manager.Snapshot(gmux.Vars(r)["id"])
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) postJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		snap, err := s.manager.Join(gmux.Vars(r)["id"], req.Name)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) postLeave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		snap, err := s.manager.Leave(gmux.Vars(r)["id"], req.Name)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) postStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.manager.Start(gmux.Vars(r)["id"])
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) postHit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		card, snap, err := s.manager.Hit(r.Context(), gmux.Vars(r)["id"], req.Name)
		if err != nil {
			writeGameError(w, err)
			return
		}

		resp := hitResponse{Snapshot: snap}
		if card != nil {
			code := card.String()
			resp.Card = &code
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) postStand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		snap, err := s.manager.Stand(r.Context(), gmux.Vars(r)["id"], req.Name)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) postNext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.manager.NextRound(gmux.Vars(r)["id"])
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) getSessionResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := s.manager.SessionResults(r.Context(), gmux.Vars(r)["id"], 10)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, results)
	}
}

func (s *Server) getPlayerResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := s.manager.PlayerResults(r.Context(), gmux.Vars(r)["name"])
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, results)
	}
}
