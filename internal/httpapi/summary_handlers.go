package httpapi

import (
	"net/http"
	"strconv"

	"github.com/shiftbook/backend/internal/service"
)

func (s *Server) handleCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.summaries.ByCar(r.Context(), tgIDFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"cars": cars})
}

func (s *Server) handleCarSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sum, err := s.summaries.CarSummary(
		r.Context(),
		tgIDFrom(r.Context()),
		r.PathValue("carId"),
		q.Get("from"),
		q.Get("to"),
	)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"meta": sum.Meta, "total": sum.Total})
}

// handleUserSummary: токен "me" разрешается в вызывающего; чужой числовой
// id неотличим от несуществующего — NOT_FOUND, без оракула существования.
func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	caller := tgIDFrom(r.Context())

	if tok := r.PathValue("tgId"); tok != "me" {
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id != caller {
			s.writeServiceError(w, service.ErrNotFound)
			return
		}
	}

	sum, err := s.summaries.UserSummary(r.Context(), caller)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"total": sum.Total, "cars": sum.Cars})
}
