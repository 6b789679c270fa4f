package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shiftbook/backend/internal/service"
	"github.com/shiftbook/backend/internal/telegram"
)

// Машинные коды ошибок внешнего интерфейса.
const (
	codeNoInitData  = "no_init_data"
	codeNoHash      = "no_hash"
	codeNoBotToken  = "no_bot_token"
	codeBadHash     = "bad_hash"
	codeStaleAuth   = "stale_auth"
	codeBadUserJSON = "bad_user_json"

	codeCarIDRequired = "CAR_ID_REQUIRED"
	codeDateRequired  = "DATE_REQUIRED"
	codeEmptyItems    = "EMPTY_ITEMS"
	codeBadRequest    = "BAD_REQUEST"
	codeNotFound      = "NOT_FOUND"
	codeInternal      = "INTERNAL"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOK отдаёт успешный конверт {ok:true, ...extra}.
func writeOK(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": code})
}

// isAuthError отличает отказ проверки initData от ошибок хранилища.
func isAuthError(err error) bool {
	for _, known := range []error{
		telegram.ErrNoInitData,
		telegram.ErrNoHash,
		telegram.ErrNoBotToken,
		telegram.ErrBadHash,
		telegram.ErrStaleAuth,
		telegram.ErrBadUserJSON,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// authErrorCode переводит ошибку проверки initData в машинный код.
func authErrorCode(err error) string {
	switch {
	case errors.Is(err, telegram.ErrNoInitData):
		return codeNoInitData
	case errors.Is(err, telegram.ErrNoHash):
		return codeNoHash
	case errors.Is(err, telegram.ErrNoBotToken):
		return codeNoBotToken
	case errors.Is(err, telegram.ErrBadHash):
		return codeBadHash
	case errors.Is(err, telegram.ErrStaleAuth):
		return codeStaleAuth
	case errors.Is(err, telegram.ErrBadUserJSON):
		return codeBadUserJSON
	default:
		return codeBadHash
	}
}

// writeServiceError — общий маппинг бизнес-ошибок в HTTP.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCarIDRequired):
		writeError(w, http.StatusBadRequest, codeCarIDRequired)
	case errors.Is(err, service.ErrDateRequired):
		writeError(w, http.StatusBadRequest, codeDateRequired)
	case errors.Is(err, service.ErrEmptyItems):
		writeError(w, http.StatusBadRequest, codeEmptyItems)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound)
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal)
	}
}
