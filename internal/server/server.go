// Package server exposes the data core and the persisted UI state over a
// JSON HTTP surface.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"etfpulse/internal/analytics"
	"etfpulse/internal/gateway"
	"etfpulse/internal/model"
	"etfpulse/internal/state"
)

// Server routes UI requests to the gateway, the analytics functions and
// the state store.
type Server struct {
	gateway *gateway.Gateway
	store   *state.Store
	mux     *http.ServeMux
	logger  zerolog.Logger
}

// New assembles the route table.
func New(gw *gateway.Gateway, store *state.Store) *Server {
	s := &Server{
		gateway: gw,
		store:   store,
		mux:     http.NewServeMux(),
		logger:  log.With().Str("component", "server").Logger(),
	}

	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/trending", s.handleTrending)
	s.mux.HandleFunc("GET /api/quotes", s.handleMultiQuote)
	s.mux.HandleFunc("GET /api/quotes/{symbol}", s.handleQuote)
	s.mux.HandleFunc("GET /api/history/{symbol}", s.handleHistory)
	s.mux.HandleFunc("GET /api/projection", s.handleProjection)

	s.mux.HandleFunc("GET /api/watchlist", s.handleWatchlist)
	s.mux.HandleFunc("POST /api/watchlist", s.handleWatchlistAdd)
	s.mux.HandleFunc("DELETE /api/watchlist/{symbol}", s.handleWatchlistRemove)

	s.mux.HandleFunc("GET /api/comparison", s.handleComparison)
	s.mux.HandleFunc("POST /api/comparison", s.handleComparisonAdd)
	s.mux.HandleFunc("DELETE /api/comparison", s.handleComparisonClear)
	s.mux.HandleFunc("DELETE /api/comparison/{symbol}", s.handleComparisonRemove)

	s.mux.HandleFunc("GET /api/plans", s.handlePlans)
	s.mux.HandleFunc("POST /api/plans", s.handlePlanCreate)
	s.mux.HandleFunc("PUT /api/plans/{id}", s.handlePlanUpdate)
	s.mux.HandleFunc("DELETE /api/plans/{id}", s.handlePlanDelete)

	s.mux.HandleFunc("GET /api/theme", s.handleTheme)
	s.mux.HandleFunc("PUT /api/theme", s.handleThemeSet)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	s.writeJSON(w, http.StatusOK, s.gateway.SearchSymbols(r.Context(), query))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.gateway.GetTrending(r.Context()))
}

func (s *Server) handleMultiQuote(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("symbols"))
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "missing symbols parameter")
		return
	}
	symbols := strings.Split(raw, ",")
	s.writeJSON(w, http.StatusOK, s.gateway.GetMultipleQuotes(r.Context(), symbols))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	quote := s.gateway.GetQuote(r.Context(), symbol)
	if quote == nil {
		s.writeError(w, http.StatusNotFound, "unknown symbol")
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

type historyResponse struct {
	Bars        []model.HistoricalBar    `json:"bars"`
	Performance model.PerformanceMetrics `json:"performance"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	timeRange := model.TimeRange(r.URL.Query().Get("range"))
	if timeRange == "" {
		timeRange = model.Range1Y
	}

	bars := s.gateway.GetHistory(r.Context(), symbol, timeRange)
	s.writeJSON(w, http.StatusOK, historyResponse{
		Bars:        bars,
		Performance: analytics.Performance(bars),
	})
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	monthly, err1 := strconv.ParseFloat(r.URL.Query().Get("monthly"), 64)
	years, err2 := strconv.Atoi(r.URL.Query().Get("years"))
	annualReturn, err3 := strconv.ParseFloat(r.URL.Query().Get("return"), 64)
	if err1 != nil || err2 != nil || err3 != nil || monthly < 0 || years <= 0 {
		s.writeError(w, http.StatusBadRequest, "monthly, years and return must be valid numbers")
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.ProjectSavings(monthly, years, annualReturn))
}

func (s *Server) handleWatchlist(w http.ResponseWriter, _ *http.Request) {
	list, err := s.store.Watchlist()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var quote model.Quote
	if err := json.NewDecoder(r.Body).Decode(&quote); err != nil || quote.Symbol == "" {
		s.writeError(w, http.StatusBadRequest, "body must be a quote with a symbol")
		return
	}
	if err := s.store.AddToWatchlist(quote); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveFromWatchlist(r.PathValue("symbol")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComparison(w http.ResponseWriter, _ *http.Request) {
	list, err := s.store.Comparison()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleComparisonAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Symbol == "" {
		s.writeError(w, http.StatusBadRequest, "body must carry a symbol")
		return
	}
	if err := s.store.AddToComparison(body.Symbol); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComparisonRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveFromComparison(r.PathValue("symbol")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComparisonClear(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.ClearComparison(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlans(w http.ResponseWriter, _ *http.Request) {
	plans, err := s.store.SavingsPlans()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handlePlanCreate(w http.ResponseWriter, r *http.Request) {
	var plan model.SavingsPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil || plan.Name == "" {
		s.writeError(w, http.StatusBadRequest, "body must be a named savings plan")
		return
	}
	created, err := s.store.CreateSavingsPlan(plan)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	var plan model.SavingsPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		s.writeError(w, http.StatusBadRequest, "body must be a savings plan")
		return
	}
	updated, err := s.store.UpdateSavingsPlan(r.PathValue("id"), plan)
	if errors.Is(err, state.ErrPlanNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handlePlanDelete(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteSavingsPlan(r.PathValue("id"))
	if errors.Is(err, state.ErrPlanNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTheme(w http.ResponseWriter, _ *http.Request) {
	theme, err := s.store.Theme()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleThemeSet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || (body.Theme != "dark" && body.Theme != "light") {
		s.writeError(w, http.StatusBadRequest, "theme must be dark or light")
		return
	}
	if err := s.store.SetTheme(body.Theme); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
