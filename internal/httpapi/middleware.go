package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// InitDataHeader — основной канал передачи launch-данных Mini-App.
const InitDataHeader = "X-Telegram-Init-Data"

type ctxKey int

const ctxKeyTgID ctxKey = iota

// tgIDFrom достаёт идентичность, положенную auth-middleware.
func tgIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyTgID).(int64)
	return id
}

// initDataFrom берёт initData из заголовка, затем из query.
// Тело трогают только ручки, которым оно и так нужно.
func initDataFrom(r *http.Request) string {
	if raw := r.Header.Get(InitDataHeader); raw != "" {
		return raw
	}
	return r.URL.Query().Get("initData")
}

// withAuth пропускает запрос дальше только с валидной подписью.
// Защищённые ручки отвечают 401 (auth-ручки со своим 403 — отдельно).
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.auth.Verify(initDataFrom(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, authErrorCode(err))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyTgID, data.User.ID)
		next(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// Mini-App живёт на другом origin, поэтому CORS обязателен,
// включая наш кастомный заголовок initData.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+InitDataHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
