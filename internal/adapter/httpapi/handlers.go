package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simaogato/stocktracker/internal/adapter/wire"
	"github.com/simaogato/stocktracker/internal/domain"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListStocks handles GET /api/stocks
func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.StockService.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromStocks(stocks))
}

// handleCreateStock handles POST /api/stocks
func (s *Server) handleCreateStock(w http.ResponseWriter, r *http.Request) {
	var body wire.Stock
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	input, err := body.ToNewStock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.StockService.Create(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromStock(*created))
}

// handleUpdateStock handles PUT /api/stocks/{id}
func (s *Server) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := stockID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body wire.Stock
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := body.ToPatch()
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	updated, err := s.StockService.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromStock(*updated))
}

// handleDeleteStock handles DELETE /api/stocks/{id}
func (s *Server) handleDeleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := stockID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.StockService.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

// handleDashboard handles GET /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	aggregate, err := s.DashboardService.Aggregate(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromAggregate(*aggregate))
}

func stockID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor converts domain errors to HTTP status codes
func statusFor(err error) int {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStockNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
