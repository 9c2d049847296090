package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := periodKey(month, year)
	if summary, ok := s.summaryCache.Get(key); ok {
		respondJSON(w, http.StatusOK, summary)
		return
	}

	summary := s.service.Overview(r.Context(), month, year)
	s.summaryCache.Set(key, summary)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs := s.service.Transactions(r.Context(), month, year)
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

type setBudgetRequest struct {
	Budgeted decimal.Decimal `json:"budgeted"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	month, year, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.SetBudget(r.Context(), category, req.Budgeted, month, year); err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

type netWorthResponse struct {
	NetWorth    decimal.Decimal `json:"netWorth"`
	Accounts    []core.Asset    `json:"accounts"`
	Loans       []core.Asset    `json:"loans"`
	Investments []core.Asset    `json:"investments"`
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	groups := s.service.Assets(r.Context())
	respondJSON(w, http.StatusOK, netWorthResponse{
		NetWorth:    s.service.NetWorth(r.Context()),
		Accounts:    emptyIfNil(groups.Accounts),
		Loans:       emptyIfNil(groups.Loans),
		Investments: emptyIfNil(groups.Investments),
	})
}

func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var asset core.Asset
	if err := decodeJSON(r, &asset); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.AddAsset(r.Context(), asset); err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save asset")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusCreated)
}

type removeAssetRequest struct {
	Type core.AssetType `json:"type"`
	Name string         `json:"name"`
}

func (s *Server) handleRemoveAsset(w http.ResponseWriter, r *http.Request) {
	var req removeAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.RemoveAsset(r.Context(), req.Type, req.Name); err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to remove asset")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

type goalPayload struct {
	Goal string `json:"goal"`
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, goalPayload{Goal: s.service.PrimaryGoal(r.Context())})
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.SetPrimaryGoal(r.Context(), req.Goal); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.service.Chat(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, services.ErrAssistantUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "assistant not configured")
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get response: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	history := s.service.ChatHistory(r.Context())
	respondJSON(w, http.StatusOK, history)
}

type explainRequest struct {
	Topic string `json:"topic"`
	Month *int   `json:"month"`
	Year  *int   `json:"year"`
}

type explainResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decodeJSON(r, &req); err != nil || req.Topic == "" {
		respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	month, year := currentPeriod()
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}
	if month < 0 || month > 11 {
		respondError(w, http.StatusBadRequest, "month must be between 0 and 11")
		return
	}

	text, err := s.service.Explain(r.Context(), req.Topic, month, year)
	if err != nil {
		if errors.Is(err, services.ErrAssistantUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "assistant not configured")
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get response: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, explainResponse{Text: text})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrNegativeBudget) ||
		errors.Is(err, core.ErrEmptyAssetName) ||
		errors.Is(err, core.ErrInvalidAssetType) ||
		errors.Is(err, core.ErrInvalidAmount)
}

func emptyIfNil(assets []core.Asset) []core.Asset {
	if assets == nil {
		return []core.Asset{}
	}
	return assets
}
