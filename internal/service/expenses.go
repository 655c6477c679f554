package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// createExpenseRequest takes either explicit splits or a split method, in
// which case the splits are computed over the group's members.
type createExpenseRequest struct {
	Title       string             `json:"title"`
	Amount      float64            `json:"amount"`
	Date        *time.Time         `json:"date,omitempty"`
	PaidBy      string             `json:"paidBy"`
	Category    string             `json:"category"`
	GroupID     string             `json:"groupId"`
	Splits      []models.Split     `json:"splits"`
	SplitMethod calculator.Method  `json:"splitMethod"`
	SplitValues map[string]float64 `json:"splitValues"`
}

type paymentRequest struct {
	UserID string `json:"userId"`
}

type settleUpRequest struct {
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
}

type previewRequest struct {
	Amount  float64            `json:"amount"`
	Method  calculator.Method  `json:"method"`
	Members []string           `json:"members"`
	Values  map[string]float64 `json:"values"`
	PaidBy  string             `json:"paidBy"`
}

func (s *Service) listExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"expenses": s.store.Expenses()})
		return
	}

	expenses, err := s.store.GroupExpenses(groupID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (s *Service) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft := models.Expense{
		Title:    req.Title,
		Amount:   req.Amount,
		PaidBy:   req.PaidBy,
		Category: req.Category,
		GroupID:  req.GroupID,
		Splits:   req.Splits,
	}
	if req.Date != nil {
		draft.Date = *req.Date
	}
	if draft.PaidBy == "" {
		draft.PaidBy = s.callerID(r)
	}
	if draft.GroupID == "" {
		if g, ok := s.store.CurrentGroup(); ok {
			draft.GroupID = g.ID
		}
	}

	if len(draft.Splits) == 0 && req.SplitMethod != "" {
		group, err := s.store.Group(draft.GroupID)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		splits, err := calculator.Split(req.SplitMethod, draft.Amount, group.Members, req.SplitValues, draft.PaidBy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		draft.Splits = splits
	}

	expense, err := s.store.AddExpense(r.Context(), draft)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusCreated, expense, err)
}

func (s *Service) deleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteExpense(r.Context(), chi.URLParam(r, "id"))
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusNoContent, nil, err)
}

func (s *Service) markPaid(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" {
		req.UserID = s.callerID(r)
	}

	err := s.store.MarkExpenseAsPaid(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusNoContent, nil, err)
}

func (s *Service) settleUp(w http.ResponseWriter, r *http.Request) {
	var req settleUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FromUserID == "" {
		req.FromUserID = s.callerID(r)
	}

	expense, err := s.store.SettleUp(r.Context(), req.FromUserID, req.ToUserID, req.Amount)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusCreated, expense, err)
}

func (s *Service) balances(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"balances": s.store.Balances()})
		return
	}

	balances, err := s.store.GroupBalances(groupID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

// previewSplit computes splits without recording anything.
func (s *Service) previewSplit(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	splits, err := calculator.Split(req.Method, req.Amount, req.Members, req.Values, req.PaidBy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"splits": splits,
		"total":  calculator.SumSplits(splits),
		"method": methodOrDefault(req.Method),
	})
}

func methodOrDefault(m calculator.Method) calculator.Method {
	if m == "" {
		return calculator.MethodEqual
	}
	return m
}
