package httpapi

import (
	"encoding/json"
	"net/http"
)

// handleAuthTelegram — вход Mini-App: проверка initData, upsert профиля,
// отметка присутствия. Ошибки проверки — 403 с машинным кодом.
func (s *Server) handleAuthTelegram(w http.ResponseWriter, r *http.Request) {
	raw := initDataFrom(r)
	if raw == "" {
		// Допускаем initData в теле — удобнее для некоторых клиентов.
		var body struct {
			InitData string `json:"initData"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		raw = body.InitData
	}

	data, user, err := s.auth.Authenticate(r.Context(), raw)
	if err != nil {
		if isAuthError(err) {
			writeError(w, http.StatusForbidden, authErrorCode(err))
			return
		}
		s.writeServiceError(w, err)
		return
	}

	extra := map[string]any{"user": user}
	if sp := data.StartParam(); sp != "" {
		extra["startParam"] = sp
	}
	writeOK(w, extra)
}

// handlePing — живость клиента: та же проверка подписи (403),
// затем fire-and-forget обновление присутствия.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	data, err := s.auth.Verify(initDataFrom(r))
	if err != nil {
		writeError(w, http.StatusForbidden, authErrorCode(err))
		return
	}
	s.auth.Ping(r.Context(), data.User.ID)
	writeOK(w, nil)
}
