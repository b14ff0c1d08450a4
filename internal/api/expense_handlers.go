package api

import (
	"net/http"
	"strconv"

	"github.com/spender-app/spender/internal/models"
)

type addExpenseRequest struct {
	Description      string             `json:"description"`
	Amount           float64            `json:"amount"`
	PaidBy           personRef          `json:"paidBy"`
	SplitWith        []personRef        `json:"splitWith"`
	Items            []string           `json:"items"`
	ItemizedByPerson map[string]float64 `json:"itemizedByPerson"`
}

func (a *API) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := a.ledger.ListExpenses(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (a *API) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	paidBy, err := a.resolve(r, req.PaidBy)
	if err != nil {
		serviceError(w, err)
		return
	}

	splitWith := make([]models.PersonID, 0, len(req.SplitWith))
	for _, ref := range req.SplitWith {
		id, err := a.resolve(r, ref)
		if err != nil {
			serviceError(w, err)
			return
		}
		splitWith = append(splitWith, id)
	}

	// Itemized keys arrive as JSON object keys: numeric ids or names.
	var itemized map[models.PersonID]float64
	if len(req.ItemizedByPerson) > 0 {
		itemized = make(map[models.PersonID]float64, len(req.ItemizedByPerson))
		for key, amount := range req.ItemizedByPerson {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil {
				itemized[models.PersonID(id)] = amount
				continue
			}
			person, err := a.ledger.ResolvePerson(r.Context(), key)
			if err != nil {
				serviceError(w, err)
				return
			}
			itemized[person.ID] = amount
		}
	}

	expense := &models.Expense{
		Description:      req.Description,
		Amount:           req.Amount,
		PaidBy:           paidBy,
		SplitWith:        splitWith,
		Items:            req.Items,
		ItemizedByPerson: itemized,
	}
	if err := a.ledger.AddExpense(r.Context(), expense); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (a *API) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := a.ledger.DeleteExpense(r.Context(), models.ExpenseID(id)); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleBalances(w http.ResponseWriter, r *http.Request) {
	m, err := a.ledger.Balances(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) handleSimplifiedBalances(w http.ResponseWriter, r *http.Request) {
	edges, err := a.ledger.SimplifiedBalances(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	summaries, err := a.ledger.Summaries(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"debts":     edges,
		"summaries": summaries,
	})
}

type settleRequest struct {
	From   models.PersonID `json:"from"`
	To     models.PersonID `json:"to"`
	Amount float64         `json:"amount"`
}

func (a *API) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.ledger.Settle(r.Context(), req.From, req.To, req.Amount); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
