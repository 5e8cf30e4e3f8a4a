package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/felttable/blackjack/internal/types"
)

type errorResponse struct {
	Message    string          `json:"message"`
	Code       types.ErrorCode `json:"code,omitempty"`
	StatusCode int             `json:"statusCode"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}

// writeGameError translates a rejected game operation into a status code
// carrying the reason
func writeGameError(w http.ResponseWriter, err error) {
	var gameErr *types.GameError
	if !types.As(err, &gameErr) {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	statusCode := statusForCode(gameErr.Code)
	if statusCode >= 500 {
		logrus.WithField("code", gameErr.Code).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    gameErr.Message,
		Code:       gameErr.Code,
		StatusCode: statusCode,
	})
}

func statusForCode(code types.ErrorCode) int {
	switch code {
	case types.ErrSessionNotFound, types.ErrPlayerNotFound:
		return http.StatusNotFound
	case types.ErrInvalidState, types.ErrAlreadyJoined, types.ErrTooManyPlayers, types.ErrNotEnoughPlayers:
		return http.StatusConflict
	case types.ErrNotPlayerTurn:
		return http.StatusForbidden
	case types.ErrInsufficientChips:
		return http.StatusPaymentRequired
	case types.ErrInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}
