package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/shiftbook/backend/internal/service"
)

// Server — HTTP-поверхность ядра: аутентификация Mini-App,
// журнал смен и сводки. JSON на входе и выходе.
type Server struct {
	auth       *service.AuthService
	shifts     *service.ShiftService
	summaries  *service.SummaryService
	corsOrigin string
	log        *zap.Logger
}

func NewServer(
	auth *service.AuthService,
	shifts *service.ShiftService,
	summaries *service.SummaryService,
	corsOrigin string,
	log *zap.Logger,
) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Server{
		auth:       auth,
		shifts:     shifts,
		summaries:  summaries,
		corsOrigin: corsOrigin,
		log:        log,
	}
}

// Handler собирает маршруты и обвес.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Ручки входа сами разбирают initData и отвечают 403.
	mux.HandleFunc("POST /api/auth/telegram", s.handleAuthTelegram)
	mux.HandleFunc("POST /api/ping", s.handlePing)

	// Всё остальное — за auth-middleware (401).
	mux.HandleFunc("POST /api/shifts", s.withAuth(s.handleUpsertShift))
	mux.HandleFunc("POST /api/shifts/bulk", s.withAuth(s.handleBulkUpsert))
	mux.HandleFunc("GET /api/shifts", s.withAuth(s.handleListShifts))
	mux.HandleFunc("GET /api/shifts/{id}", s.withAuth(s.handleGetShift))
	mux.HandleFunc("PUT /api/shifts/{id}", s.withAuth(s.handleUpdateShift))
	mux.HandleFunc("DELETE /api/shifts/{id}", s.withAuth(s.handleDeleteShift))

	mux.HandleFunc("GET /api/cars", s.withAuth(s.handleCars))
	mux.HandleFunc("GET /api/cars/{carId}/summary", s.withAuth(s.handleCarSummary))
	mux.HandleFunc("GET /api/users/{tgId}/summary", s.withAuth(s.handleUserSummary))

	return s.withCORS(s.withLogging(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
