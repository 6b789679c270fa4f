package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/shiftbook/backend/internal/service"
)

func (s *Server) handleUpsertShift(w http.ResponseWriter, r *http.Request) {
	var in service.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	shift, err := s.shifts.Upsert(r.Context(), tgIDFrom(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"shift": shift})
}

func (s *Server) handleBulkUpsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []service.ShiftInput `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	results, err := s.shifts.BulkUpsert(r.Context(), tgIDFrom(r.Context()), body.Items)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"results": results})
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shifts, err := s.shifts.List(r.Context(), tgIDFrom(r.Context()), service.ListFilter{
		From:         q.Get("from"),
		To:           q.Get("to"),
		CarID:        q.Get("carId"),
		UpdatedSince: q.Get("updatedSince"),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"shifts": shifts})
}

func (s *Server) handleGetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := s.shifts.Get(r.Context(), tgIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"shift": shift})
}

func (s *Server) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	var in service.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	shift, err := s.shifts.Update(r.Context(), tgIDFrom(r.Context()), r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"shift": shift})
}

func (s *Server) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := s.shifts.Delete(r.Context(), tgIDFrom(r.Context()), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeOK(w, nil)
}
