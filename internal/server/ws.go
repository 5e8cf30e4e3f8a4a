package server

import (
	"encoding/json"
	"net/http"
	"time"

	gmux "github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/felttable/blackjack/pkg/games/blackjack"
)

const wsWriteWait = 10 * time.Second

// getSessionWS streams snapshots over a websocket. The client receives the
// current snapshot on connect and a fresh one every time the round state
// changes; the stream ends once the finished state has been delivered.
func (s *Server) getSessionWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := gmux.Vars(r)["id"]
		if _, err := s.manager.GetSession(id); err != nil {
			writeGameError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}
		defer conn.Close()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(s.wsPollInterval)
		defer ticker.Stop()

		var last []byte
		for {
			snap, err := s.manager.Snapshot(id)
			if err != nil {
				// Session reaped out from under us
				return
			}

			payload, err := json.Marshal(snap)
			if err != nil {
				logrus.WithError(err).Error("could not marshal snapshot")
				return
			}

			if string(payload) != string(last) {
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
				last = payload

				if snap.Status == blackjack.StateFinished {
					_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round finished"))
					return
				}
			}

			select {
			case <-ticker.C:
			case <-closed:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}
