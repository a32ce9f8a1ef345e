package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"financebot/internal/core"
	"financebot/internal/dates"
	"financebot/internal/intent"
	"financebot/internal/ledger"
	applog "financebot/internal/log"
)

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type dateResponse struct {
	Input    string `json:"input"`
	Date     string `json:"date,omitempty"`
	Resolved bool   `json:"resolved"`
}

type periodResponse struct {
	Input  string `json:"input"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

type categoryTotal struct {
	Category string          `json:"category"`
	Class    string          `json:"class"`
	Amount   decimal.Decimal `json:"amount"`
}

type summaryResponse struct {
	Period      string          `json:"period"`
	Income      decimal.Decimal `json:"total_income"`
	Expenses    decimal.Decimal `json:"total_expenses"`
	Investments decimal.Decimal `json:"total_investments"`
	Outflow     decimal.Decimal `json:"total_outflow"`
	Balance     decimal.Decimal `json:"balance"`
	Count       int             `json:"count"`
	ByCategory  []categoryTotal `json:"by_category"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.log.WarnContext(r.Context(), "Health check failed", applog.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.log.InfoContext(r.Context(), "Session started", applog.FieldSessionID, sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, CreatedAt: sess.CreatedAt})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.End(id) {
		writeError(w, http.StatusNotFound, "sessão não encontrada")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "sessão não encontrada")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "corpo da requisição muito grande")
		return
	}

	in, err := intent.Decode(body)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, intent.ErrUnknownAction) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	start := time.Now()
	res := s.executor.Execute(r.Context(), sess, in)
	applog.LogIntent(r.Context(), sess.ID, string(res.Action), string(res.Status), time.Since(start))

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResolveDate(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	defaultToday, _ := strconv.ParseBool(r.URL.Query().Get("default_today"))

	d, ok := s.dates.ResolveDate(text, defaultToday)
	writeJSON(w, http.StatusOK, dateResponse{Input: text, Date: d.String(), Resolved: ok})
}

func (s *Server) handleResolvePeriod(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	p := s.dates.ResolvePeriod(text)
	writeJSON(w, http.StatusOK, periodResponse{
		Input:  text,
		Start:  p.Start.String(),
		End:    p.End.String(),
		Label:  p.Label,
		Status: p.Status.String(),
	})
}

// handleSummary treats a missing period as all time, like the intents do.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("period"))
	if text == "" {
		text = dates.LabelAllTime
	}
	p := s.dates.ResolvePeriod(text)
	if err := p.Err(); err != nil {
		writeError(w, http.StatusBadRequest, p.Label)
		return
	}

	txs, err := s.store.Query(r.Context(), ledger.Filter{Start: p.Start, End: p.End})
	if err != nil {
		s.log.ErrorContext(r.Context(), "Failed to load summary", applog.FieldError, err, applog.FieldPeriod, p.Label)
		writeError(w, http.StatusInternalServerError, "erro ao consultar transações")
		return
	}

	totals := core.Summarize(txs)
	resp := summaryResponse{
		Period:      p.Label,
		Income:      totals.Income,
		Expenses:    totals.Expenses,
		Investments: totals.Investments,
		Outflow:     totals.Outflow(),
		Balance:     totals.Balance(),
		Count:       totals.Count,
		ByCategory:  make([]categoryTotal, 0, len(totals.ByCategory)),
	}
	for _, c := range totals.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotal{Category: c.Name, Class: c.Class.String(), Amount: c.Amount})
	}
	writeJSON(w, http.StatusOK, resp)
}
